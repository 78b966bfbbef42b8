package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation via
// struct tags, with additional custom validation for rules that cannot be
// expressed in tags.
//
// Returns an error describing validation failures.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The badger store needs a database path unless options are injected
	// programmatically, which config files cannot do.
	if cfg.Registry.Type == "badger" {
		path, _ := cfg.Registry.Badger["path"].(string)
		if path == "" {
			return fmt.Errorf("registry.badger: path is required when registry.type is badger")
		}
	}

	if cfg.Snapshot.Sink == "s3" {
		bucket, _ := cfg.Snapshot.S3["bucket"].(string)
		if bucket == "" {
			return fmt.Errorf("snapshot.s3: bucket is required when snapshot.sink is s3")
		}
		region, _ := cfg.Snapshot.S3["region"].(string)
		if region == "" {
			return fmt.Errorf("snapshot.s3: region is required when snapshot.sink is s3")
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
