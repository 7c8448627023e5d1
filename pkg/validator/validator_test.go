package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		display  string
		bio      string
		password string
		wantKeys []string
	}{
		{
			name:     "valid",
			username: "alice_99", email: "alice@example.com", display: "Alice", password: "hunter22",
		},
		{
			name:     "all missing",
			wantKeys: []string{"username", "email", "display_name", "password"},
		},
		{
			name:     "username too short",
			username: "ab", email: "a@b.co", display: "A", password: "hunter22",
			wantKeys: []string{"username"},
		},
		{
			name:     "username bad characters",
			username: "al ice!", email: "a@b.co", display: "A", password: "hunter22",
			wantKeys: []string{"username"},
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 31), email: "a@b.co", display: "A", password: "hunter22",
			wantKeys: []string{"username"},
		},
		{
			name:     "bad email",
			username: "alice", email: "not-an-email", display: "A", password: "hunter22",
			wantKeys: []string{"email"},
		},
		{
			name:     "display name too long",
			username: "alice", email: "a@b.co", display: strings.Repeat("x", 51), password: "hunter22",
			wantKeys: []string{"display_name"},
		},
		{
			name:     "bio too long",
			username: "alice", email: "a@b.co", display: "A", bio: strings.Repeat("x", 161), password: "hunter22",
			wantKeys: []string{"bio"},
		},
		{
			name:     "password too short",
			username: "alice", email: "a@b.co", display: "A", password: "short",
			wantKeys: []string{"password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegister(tt.username, tt.email, tt.display, tt.bio, tt.password)
			assert.Len(t, errs, len(tt.wantKeys))
			for _, key := range tt.wantKeys {
				assert.Contains(t, errs, key)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assert.False(t, ValidateLogin("alice", "pw").HasErrors())

	errs := ValidateLogin("  ", "")
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "password")
}

func TestValidatePost(t *testing.T) {
	assert.False(t, ValidatePost("hello #world").HasErrors())
	assert.Contains(t, ValidatePost(""), "content")
	assert.Contains(t, ValidatePost(strings.Repeat("a", 501)), "content")
	assert.False(t, ValidatePost(strings.Repeat("a", 500)).HasErrors())
}

// Limits count characters, so multi-byte text within the bound passes.
func TestValidate_MultiByteCountsRunes(t *testing.T) {
	assert.False(t, ValidatePost(strings.Repeat("é", 500)).HasErrors())
	assert.Contains(t, ValidatePost(strings.Repeat("é", 501)), "content")

	assert.False(t, ValidateComment(strings.Repeat("ü", 280)).HasErrors())
	assert.Contains(t, ValidateComment(strings.Repeat("ü", 281)), "content")

	assert.False(t, ValidateVerificationReason(strings.Repeat("ñ", 500)).HasErrors())
	assert.Contains(t, ValidateVerificationReason(strings.Repeat("ñ", 501)), "reason")

	errs := ValidateRegister("alice", "a@b.co", strings.Repeat("Ж", 50), strings.Repeat("é", 160), "hunter22")
	assert.False(t, errs.HasErrors())
	errs = ValidateRegister("alice", "a@b.co", "Alice", strings.Repeat("é", 161), "hunter22")
	assert.Contains(t, errs, "bio")
}

func TestValidateComment(t *testing.T) {
	assert.False(t, ValidateComment("nice").HasErrors())
	assert.Contains(t, ValidateComment(""), "content")
	assert.Contains(t, ValidateComment(strings.Repeat("a", 281)), "content")
	assert.False(t, ValidateComment(strings.Repeat("a", 280)).HasErrors())
}

func TestValidateVerificationReason(t *testing.T) {
	assert.False(t, ValidateVerificationReason("I am a public figure").HasErrors())
	assert.Contains(t, ValidateVerificationReason("too short"), "reason")
	assert.Contains(t, ValidateVerificationReason(strings.Repeat("a", 501)), "reason")
	assert.Contains(t, ValidateVerificationReason("         a"), "reason")
}
