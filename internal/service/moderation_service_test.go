package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/flicksy/internal/domain"
)

func newModerationFixture(t *testing.T) (*ModerationService, *memStore, *memAuditPublisher) {
	t.Helper()
	store := newMemStore()
	users := &memUserRepo{s: store}
	svc := NewModerationService(
		&memVerificationRepo{s: store},
		users,
		NewGuard(users),
	)
	audit := &memAuditPublisher{}
	svc.SetAuditPublisher(audit)
	return svc, store, audit
}

func TestFileRequest(t *testing.T) {
	svc, store, _ := newModerationFixture(t)
	ctx := context.Background()

	alice := store.addUser("alice", domain.RoleUser)

	req, err := svc.FileRequest(ctx, alice.ID, FileVerificationInput{Reason: "I am a public figure"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, req.Status)
	assert.Equal(t, alice.Username, req.Username)

	// A second request while the first is pending conflicts.
	_, err = svc.FileRequest(ctx, alice.ID, FileVerificationInput{Reason: "still a public figure"})
	assert.ErrorIs(t, err, ErrRequestPending)
}

func TestFileRequest_AlreadyVerified(t *testing.T) {
	svc, store, _ := newModerationFixture(t)
	ctx := context.Background()

	alice := store.addUser("alice", domain.RoleUser)
	_, err := (&memUserRepo{s: store}).SetVerified(ctx, alice.ID, true)
	require.NoError(t, err)

	_, err = svc.FileRequest(ctx, alice.ID, FileVerificationInput{Reason: "verify me again please"})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestApprove_SetsVerifiedFlag(t *testing.T) {
	svc, store, audit := newModerationFixture(t)
	ctx := context.Background()

	alice := store.addUser("alice", domain.RoleUser)
	admin := store.addUser("ada", domain.RoleAdmin)

	req, err := svc.FileRequest(ctx, alice.ID, FileVerificationInput{Reason: "I am a public figure"})
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, admin.ID, req.ID))

	got, err := (&memUserRepo{s: store}).GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	stored, err := (&memVerificationRepo{s: store}).GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationApproved, stored.Status)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, admin.ID, *stored.ReviewedBy)
	assert.NotNil(t, stored.ReviewedAt)

	assert.Contains(t, audit.actions(), "verification.approve")
}

func TestReject_NoUserSideEffect(t *testing.T) {
	svc, store, _ := newModerationFixture(t)
	ctx := context.Background()

	alice := store.addUser("alice", domain.RoleUser)
	admin := store.addUser("ada", domain.RoleAdmin)

	req, err := svc.FileRequest(ctx, alice.ID, FileVerificationInput{Reason: "I am a public figure"})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, admin.ID, req.ID))

	got, err := (&memUserRepo{s: store}).GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, got.IsVerified)
}

// Once terminal, a request never moves again: further reviews conflict and
// leave the record untouched.
func TestReview_Monotonic(t *testing.T) {
	svc, store, _ := newModerationFixture(t)
	ctx := context.Background()

	alice := store.addUser("alice", domain.RoleUser)
	admin := store.addUser("ada", domain.RoleAdmin)
	other := store.addUser("sam", domain.RoleSuperAdmin)

	req, err := svc.FileRequest(ctx, alice.ID, FileVerificationInput{Reason: "I am a public figure"})
	require.NoError(t, err)
	require.NoError(t, svc.Reject(ctx, admin.ID, req.ID))

	assert.ErrorIs(t, svc.Approve(ctx, other.ID, req.ID), ErrAlreadyProcessed)
	assert.ErrorIs(t, svc.Reject(ctx, other.ID, req.ID), ErrAlreadyProcessed)

	stored, err := (&memVerificationRepo{s: store}).GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, stored.Status)
	assert.Equal(t, admin.ID, *stored.ReviewedBy)

	got, err := (&memUserRepo{s: store}).GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, got.IsVerified, "rejected then replayed approve must not verify")
}

func TestReview_RequiresAdmin(t *testing.T) {
	svc, store, _ := newModerationFixture(t)
	ctx := context.Background()

	alice := store.addUser("alice", domain.RoleUser)
	mod := store.addUser("mo", domain.RoleModerator)

	req, err := svc.FileRequest(ctx, alice.ID, FileVerificationInput{Reason: "I am a public figure"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Approve(ctx, mod.ID, req.ID), ErrInsufficientRole)
	assert.ErrorIs(t, svc.Reject(ctx, mod.ID, req.ID), ErrInsufficientRole)
}

func TestReview_NotFound(t *testing.T) {
	svc, store, _ := newModerationFixture(t)

	admin := store.addUser("ada", domain.RoleAdmin)
	assert.ErrorIs(t, svc.Approve(context.Background(), admin.ID, uuid.New()), ErrRequestNotFound)
}

func TestBan(t *testing.T) {
	svc, store, audit := newModerationFixture(t)
	ctx := context.Background()

	mod := store.addUser("mo", domain.RoleModerator)
	alice := store.addUser("alice", domain.RoleUser)
	admin := store.addUser("ada", domain.RoleAdmin)
	super := store.addUser("sam", domain.RoleSuperAdmin)

	require.NoError(t, svc.Ban(ctx, mod.ID, alice.ID))
	got, err := (&memUserRepo{s: store}).GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBanned)

	// Re-banning reasserts the flag and is not an error.
	require.NoError(t, svc.Ban(ctx, admin.ID, alice.ID))

	// Admins and super admins are never ban targets, whoever asks.
	assert.ErrorIs(t, svc.Ban(ctx, super.ID, admin.ID), ErrCannotBanAdmin)
	assert.ErrorIs(t, svc.Ban(ctx, admin.ID, super.ID), ErrCannotBanAdmin)

	// Ordinary users cannot ban at all.
	bob := store.addUser("bob", domain.RoleUser)
	assert.ErrorIs(t, svc.Ban(ctx, bob.ID, alice.ID), ErrInsufficientRole)

	assert.ErrorIs(t, svc.Ban(ctx, mod.ID, uuid.New()), ErrUserNotFound)

	actions := audit.actions()
	assert.Contains(t, actions, "user.ban")
}

func TestUnban(t *testing.T) {
	svc, store, _ := newModerationFixture(t)
	ctx := context.Background()

	mod := store.addUser("mo", domain.RoleModerator)
	alice := store.addUser("alice", domain.RoleUser)

	require.NoError(t, svc.Ban(ctx, mod.ID, alice.ID))
	require.NoError(t, svc.Unban(ctx, mod.ID, alice.ID))

	got, err := (&memUserRepo{s: store}).GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, got.IsBanned)

	assert.ErrorIs(t, svc.Unban(ctx, mod.ID, uuid.New()), ErrUserNotFound)
}

func TestListUsers_AdminOnly(t *testing.T) {
	svc, store, _ := newModerationFixture(t)
	ctx := context.Background()

	mod := store.addUser("mo", domain.RoleModerator)
	admin := store.addUser("ada", domain.RoleAdmin)

	_, err := svc.ListUsers(ctx, mod.ID, 0, 50)
	assert.ErrorIs(t, err, ErrInsufficientRole)

	users, err := svc.ListUsers(ctx, admin.ID, 0, 50)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAdminListings_NegativeOffsetClamped(t *testing.T) {
	svc, store, _ := newModerationFixture(t)
	ctx := context.Background()

	alice := store.addUser("alice", domain.RoleUser)
	admin := store.addUser("ada", domain.RoleAdmin)

	_, err := svc.FileRequest(ctx, alice.ID, FileVerificationInput{Reason: "I am a public figure"})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx, admin.ID, -1, 50)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	reqs, err := svc.ListPendingRequests(ctx, admin.ID, -1, 50)
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}
