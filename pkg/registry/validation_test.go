package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUpload() UploadParams {
	return UploadParams{
		Owner:       "alice",
		Name:        "report.pdf",
		Fingerprint: strings.Repeat("a", FingerprintLength),
		Size:        1024,
		MIMEType:    "application/pdf",
		Description: "Quarterly report",
		Tags:        []string{"reports", "q3"},
	}
}

func requireInvalid(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	assert.True(t, IsCode(err, ErrInvalidParameters), "expected InvalidParameters, got %v", err)
}

func TestValidateUpload(t *testing.T) {
	v := NewValidator("admin")

	t.Run("accepts valid params", func(t *testing.T) {
		require.NoError(t, v.ValidateUpload(validUpload()))
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		p := validUpload()
		p.Owner = ""
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("rejects administrator as owner", func(t *testing.T) {
		p := validUpload()
		p.Owner = "admin"
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		p := validUpload()
		p.Name = ""
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("rejects name over limit", func(t *testing.T) {
		p := validUpload()
		p.Name = strings.Repeat("n", MaxNameLength+1)
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("accepts name at limit", func(t *testing.T) {
		p := validUpload()
		p.Name = strings.Repeat("n", MaxNameLength)
		require.NoError(t, v.ValidateUpload(p))
	})

	t.Run("rejects short fingerprint", func(t *testing.T) {
		p := validUpload()
		p.Fingerprint = strings.Repeat("a", FingerprintLength-1)
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("rejects long fingerprint", func(t *testing.T) {
		p := validUpload()
		p.Fingerprint = strings.Repeat("a", FingerprintLength+1)
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("accepts size at ceiling", func(t *testing.T) {
		p := validUpload()
		p.Size = MaxContentSize
		require.NoError(t, v.ValidateUpload(p))
	})

	t.Run("rejects size over ceiling", func(t *testing.T) {
		p := validUpload()
		p.Size = MaxContentSize + 1
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("accepts zero size", func(t *testing.T) {
		p := validUpload()
		p.Size = 0
		require.NoError(t, v.ValidateUpload(p))
	})

	t.Run("rejects empty description", func(t *testing.T) {
		p := validUpload()
		p.Description = ""
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("rejects description over limit", func(t *testing.T) {
		p := validUpload()
		p.Description = strings.Repeat("d", MaxDescriptionLength+1)
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("accepts single-character description", func(t *testing.T) {
		p := validUpload()
		p.Description = "d"
		require.NoError(t, v.ValidateUpload(p))
	})

	t.Run("accepts description at limit", func(t *testing.T) {
		p := validUpload()
		p.Description = strings.Repeat("d", MaxDescriptionLength)
		require.NoError(t, v.ValidateUpload(p))
	})

	t.Run("rejects mime type over limit", func(t *testing.T) {
		p := validUpload()
		p.MIMEType = strings.Repeat("m", MaxMIMETypeLength+1)
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("accepts empty mime type", func(t *testing.T) {
		p := validUpload()
		p.MIMEType = ""
		require.NoError(t, v.ValidateUpload(p))
	})

	t.Run("rejects too many tags", func(t *testing.T) {
		p := validUpload()
		p.Tags = make([]string, MaxTagCount+1)
		for i := range p.Tags {
			p.Tags[i] = "tag"
		}
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("rejects tag over limit", func(t *testing.T) {
		p := validUpload()
		p.Tags = []string{strings.Repeat("t", MaxTagLength+1)}
		requireInvalid(t, v.ValidateUpload(p))
	})

	t.Run("allows admin owner when no admin is configured", func(t *testing.T) {
		open := NewValidator("")
		p := validUpload()
		p.Owner = "admin"
		require.NoError(t, open.ValidateUpload(p))
	})
}

func TestValidateContentUpdate(t *testing.T) {
	v := NewValidator("admin")
	fp := strings.Repeat("b", FingerprintLength)

	require.NoError(t, v.ValidateContentUpdate("alice", 1, fp, 2048, "fixed typo"))

	// Lengths count runes, not bytes, like the upload description rules.
	require.NoError(t, v.ValidateContentUpdate("alice", 1, fp, 2048, strings.Repeat("ü", MaxDescriptionLength)))
	require.NoError(t, v.ValidateContentUpdate("alice", 1, fp, 2048, strings.Repeat("n", MaxDescriptionLength)))

	requireInvalid(t, v.ValidateContentUpdate("", 1, fp, 2048, "note"))
	requireInvalid(t, v.ValidateContentUpdate("alice", 0, fp, 2048, "note"))
	requireInvalid(t, v.ValidateContentUpdate("alice", 1, "short", 2048, "note"))
	requireInvalid(t, v.ValidateContentUpdate("alice", 1, fp, MaxContentSize+1, "note"))
	requireInvalid(t, v.ValidateContentUpdate("alice", 1, fp, 2048, ""))
	requireInvalid(t, v.ValidateContentUpdate("alice", 1, fp, 2048, strings.Repeat("n", MaxDescriptionLength+1)))
}

func TestValidatePatch(t *testing.T) {
	v := NewValidator("admin")
	name := "renamed.pdf"
	longName := strings.Repeat("n", MaxNameLength+1)
	desc := "updated description"
	emptyDesc := ""
	tags := []string{"a", "b"}

	require.NoError(t, v.ValidatePatch("alice", 1, RecordPatch{Name: &name, Description: &desc, Tags: &tags}))
	require.NoError(t, v.ValidatePatch("alice", 1, RecordPatch{}), "empty patch is valid")

	empty := []string{}
	require.NoError(t, v.ValidatePatch("alice", 1, RecordPatch{Tags: &empty}), "present empty tag list clears tags")

	requireInvalid(t, v.ValidatePatch("alice", 1, RecordPatch{Name: &longName}))
	requireInvalid(t, v.ValidatePatch("alice", 1, RecordPatch{Description: &emptyDesc}))
	requireInvalid(t, v.ValidatePatch("alice", 0, RecordPatch{Name: &name}))
}

func TestValidateGrant(t *testing.T) {
	v := NewValidator("admin")
	now := LogicalTime(100)
	future := LogicalTime(200)
	atNow := now
	past := LogicalTime(50)

	require.NoError(t, v.ValidateGrant("alice", 1, "bob", nil, now))
	require.NoError(t, v.ValidateGrant("alice", 1, "bob", &future, now))

	requireInvalid(t, v.ValidateGrant("alice", 1, "", nil, now))
	requireInvalid(t, v.ValidateGrant("alice", 1, "admin", nil, now))
	requireInvalid(t, v.ValidateGrant("alice", 1, "alice", nil, now))
	requireInvalid(t, v.ValidateGrant("alice", 1, "bob", &atNow, now), "expiry equal to now is already expired")
	requireInvalid(t, v.ValidateGrant("alice", 1, "bob", &past, now))
}

func TestPermissionEntryValidAt(t *testing.T) {
	exp := LogicalTime(100)
	entry := &PermissionEntry{FileID: 1, Grantee: "bob", Read: true, ExpiresAt: &exp}

	assert.True(t, entry.ValidAt(99))
	assert.False(t, entry.ValidAt(100), "grant is invalid at its exact expiry tick")
	assert.False(t, entry.ValidAt(101))

	forever := &PermissionEntry{FileID: 1, Grantee: "bob", Read: true}
	assert.True(t, forever.ValidAt(1<<40))
}

func TestStoreErrorFormat(t *testing.T) {
	err := NewStoreErrorf(ErrFileNotFound, "file %d not found", 42)
	assert.Equal(t, "FileNotFound: file 42 not found", err.Error())
	assert.True(t, IsCode(err, ErrFileNotFound))
	assert.False(t, IsCode(err, ErrAccessDenied))
}
