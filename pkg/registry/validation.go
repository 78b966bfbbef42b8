package registry

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance shared by all Validators.
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validator enforces the registry's input rules.
//
// Pure shape rules (lengths, required fields, size ceilings) live in validate
// struct tags on the parameter types; contextual rules that cannot be
// expressed in tags (the designated-administrator exclusion and the
// strictly-future expiry check) are implemented here. All failures surface
// as *StoreError with code ErrInvalidParameters so callers see one taxonomy.
//
// Both store implementations share a Validator rather than duplicating rule
// logic, which keeps memory and persistent stores behaviorally identical.
type Validator struct {
	admin AccountID
}

// NewValidator creates a Validator. admin names the designated administrator
// account, which may never own files or receive grants; an empty admin
// disables that rule.
func NewValidator(admin AccountID) *Validator {
	return &Validator{admin: admin}
}

// ValidateUpload checks file creation inputs.
func (v *Validator) ValidateUpload(params UploadParams) error {
	if err := structValidator().Struct(params); err != nil {
		return invalidParams(err)
	}
	if v.admin != "" && params.Owner == v.admin {
		return NewStoreError(ErrInvalidParameters, "administrator account cannot own files")
	}
	return nil
}

// ValidateContentUpdate checks content update inputs. The note follows the
// same rules as a description.
func (v *Validator) ValidateContentUpdate(initiator AccountID, id FileID, fingerprint string, size uint64, note string) error {
	if err := v.ValidateAccount(initiator); err != nil {
		return err
	}
	if err := v.ValidateFileID(id); err != nil {
		return err
	}
	// Lengths are counted in runes, matching what the validate struct tags
	// enforce on UploadParams.
	if utf8.RuneCountInString(fingerprint) != FingerprintLength {
		return NewStoreErrorf(ErrInvalidParameters, "fingerprint must be exactly %d characters", FingerprintLength)
	}
	if size > MaxContentSize {
		return NewStoreErrorf(ErrInvalidParameters, "size %d exceeds maximum of %d bytes", size, MaxContentSize)
	}
	if n := utf8.RuneCountInString(note); n == 0 || n > MaxDescriptionLength {
		return NewStoreErrorf(ErrInvalidParameters, "note must be 1-%d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidatePatch checks metadata edit inputs. An empty patch is valid.
func (v *Validator) ValidatePatch(initiator AccountID, id FileID, patch RecordPatch) error {
	if err := v.ValidateAccount(initiator); err != nil {
		return err
	}
	if err := v.ValidateFileID(id); err != nil {
		return err
	}
	if err := structValidator().Struct(&patch); err != nil {
		return invalidParams(err)
	}
	return nil
}

// ValidateGrant checks grant inputs against the current logical time.
// A non-nil expiry must be strictly in the future; an expiry equal to now
// would be dead on arrival since validity requires expiry > now.
func (v *Validator) ValidateGrant(initiator AccountID, id FileID, grantee AccountID, expiresAt *LogicalTime, now LogicalTime) error {
	if err := v.ValidateAccount(initiator); err != nil {
		return err
	}
	if err := v.ValidateFileID(id); err != nil {
		return err
	}
	if grantee == "" {
		return NewStoreError(ErrInvalidParameters, "grantee account must not be empty")
	}
	if v.admin != "" && grantee == v.admin {
		return NewStoreError(ErrInvalidParameters, "administrator account cannot receive grants")
	}
	if initiator == grantee {
		return NewStoreError(ErrInvalidParameters, "owner cannot grant access to itself")
	}
	if expiresAt != nil && *expiresAt <= now {
		return NewStoreErrorf(ErrInvalidParameters, "expiry %d is not in the future (now %d)", *expiresAt, now)
	}
	return nil
}

// ValidateFileID rejects the invalid zero identifier.
func (v *Validator) ValidateFileID(id FileID) error {
	if id == 0 {
		return NewStoreError(ErrInvalidParameters, "file id must be positive")
	}
	return nil
}

// ValidateAccount rejects empty account identifiers.
func (v *Validator) ValidateAccount(account AccountID) error {
	if account == "" {
		return NewStoreError(ErrInvalidParameters, "account must not be empty")
	}
	return nil
}

// invalidParams converts validator errors into a StoreError with a
// user-friendly message naming the first failing field.
func invalidParams(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		e := validationErrs[0]
		return NewStoreErrorf(ErrInvalidParameters,
			"%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return NewStoreError(ErrInvalidParameters, fmt.Sprintf("invalid parameters: %v", err))
}
