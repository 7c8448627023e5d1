package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vedran77/flicksy/internal/domain"
	"github.com/vedran77/flicksy/internal/repository"
)

var (
	ErrAlreadyVerified  = errors.New("account is already verified")
	ErrRequestPending   = errors.New("a pending verification request already exists")
	ErrRequestNotFound  = errors.New("verification request not found")
	ErrAlreadyProcessed = errors.New("verification request already processed")
	ErrCannotBanAdmin   = errors.New("admins cannot be banned")
)

type ModerationService struct {
	verificationRepo repository.VerificationRepository
	userRepo         repository.UserRepository
	guard            *Guard
	audit            AuditPublisher
}

func NewModerationService(
	verificationRepo repository.VerificationRepository,
	userRepo repository.UserRepository,
	guard *Guard,
) *ModerationService {
	return &ModerationService{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		guard:            guard,
	}
}

// SetAuditPublisher sets the moderation audit sink (optional dependency).
func (s *ModerationService) SetAuditPublisher(p AuditPublisher) {
	s.audit = p
}

type FileVerificationInput struct {
	Reason string `json:"reason"`
}

// FileRequest opens a verification request for the caller. Only one pending
// request may exist per user, and verified users cannot file another.
func (s *ModerationService) FileRequest(ctx context.Context, callerID uuid.UUID, input FileVerificationInput) (*domain.VerificationRequest, error) {
	caller, err := s.guard.Authorize(ctx, callerID, CapNotBanned)
	if err != nil {
		return nil, err
	}

	if caller.IsVerified {
		return nil, ErrAlreadyVerified
	}

	existing, err := s.verificationRepo.GetPendingByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRequestPending
	}

	req := &domain.VerificationRequest{
		ID:          uuid.New(),
		UserID:      caller.ID,
		Username:    caller.Username,
		DisplayName: caller.DisplayName,
		Reason:      input.Reason,
		Status:      domain.VerificationPending,
		CreatedAt:   time.Now(),
	}

	if err := s.verificationRepo.Create(ctx, req); err != nil {
		// The partial unique index decides duplicate-pending races.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRequestPending
		}
		return nil, fmt.Errorf("creating verification request: %w", err)
	}

	return req, nil
}

func (s *ModerationService) ListPendingRequests(ctx context.Context, callerID uuid.UUID, offset, limit int) ([]domain.VerificationRequest, error) {
	if _, err := s.guard.Authorize(ctx, callerID, CapAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	reqs, err := s.verificationRepo.ListPending(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.VerificationRequest{}
	}
	return reqs, nil
}

// Approve moves a pending request to approved and flips the requester's
// verified flag. The pending precondition is enforced by the storage update,
// so a processed request always comes back as a conflict.
func (s *ModerationService) Approve(ctx context.Context, reviewerID, requestID uuid.UUID) error {
	reviewer, err := s.guard.Authorize(ctx, reviewerID, CapAdmin)
	if err != nil {
		return err
	}

	req, err := s.verificationRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	moved, err := s.verificationRepo.Review(ctx, requestID, domain.VerificationApproved, reviewer.ID)
	if err != nil {
		return fmt.Errorf("approving request: %w", err)
	}
	if !moved {
		return ErrAlreadyProcessed
	}

	// The request is terminal at this point. A failure flipping the user
	// flag leaves an inconsistency to reconcile, not a client error.
	if _, err := s.userRepo.SetVerified(ctx, req.UserID, true); err != nil {
		logrus.WithError(err).
			WithField("request_id", requestID).
			WithField("user_id", req.UserID).
			Warn("request approved but verified flag not set; needs reconciliation")
	}

	publishAudit(ctx, s.audit, AuditEvent{
		Action:     "verification.approve",
		ActorID:    reviewer.ID,
		TargetID:   req.UserID,
		TargetType: "verification_request",
		Detail:     requestID.String(),
	})
	return nil
}

// Reject is symmetric to Approve but leaves the user record untouched.
func (s *ModerationService) Reject(ctx context.Context, reviewerID, requestID uuid.UUID) error {
	reviewer, err := s.guard.Authorize(ctx, reviewerID, CapAdmin)
	if err != nil {
		return err
	}

	req, err := s.verificationRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}

	moved, err := s.verificationRepo.Review(ctx, requestID, domain.VerificationRejected, reviewer.ID)
	if err != nil {
		return fmt.Errorf("rejecting request: %w", err)
	}
	if !moved {
		return ErrAlreadyProcessed
	}

	publishAudit(ctx, s.audit, AuditEvent{
		Action:     "verification.reject",
		ActorID:    reviewer.ID,
		TargetID:   req.UserID,
		TargetType: "verification_request",
		Detail:     requestID.String(),
	})
	return nil
}

// Ban sets the target's ban flag. Targets holding admin or super_admin can
// never be banned; the rule is re-checked against the target's current role
// inside the conditional update, not against the snapshot read here.
func (s *ModerationService) Ban(ctx context.Context, callerID, targetID uuid.UUID) error {
	caller, err := s.guard.Authorize(ctx, callerID, CapModerator)
	if err != nil {
		return err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	banned, err := s.userRepo.BanIfBannable(ctx, targetID)
	if err != nil {
		return fmt.Errorf("banning user: %w", err)
	}
	if !banned {
		// The conditional write refused: the target is (now) an admin, or
		// vanished since the read above.
		current, err := s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrUserNotFound
		}
		return ErrCannotBanAdmin
	}

	publishAudit(ctx, s.audit, AuditEvent{
		Action:     "user.ban",
		ActorID:    caller.ID,
		TargetID:   targetID,
		TargetType: "user",
	})
	return nil
}

// Unban clears the ban flag. No role restriction applies on the target side.
func (s *ModerationService) Unban(ctx context.Context, callerID, targetID uuid.UUID) error {
	caller, err := s.guard.Authorize(ctx, callerID, CapModerator)
	if err != nil {
		return err
	}

	found, err := s.userRepo.SetBanned(ctx, targetID, false)
	if err != nil {
		return fmt.Errorf("unbanning user: %w", err)
	}
	if !found {
		return ErrUserNotFound
	}

	publishAudit(ctx, s.audit, AuditEvent{
		Action:     "user.unban",
		ActorID:    caller.ID,
		TargetID:   targetID,
		TargetType: "user",
	})
	return nil
}

func (s *ModerationService) ListUsers(ctx context.Context, callerID uuid.UUID, offset, limit int) ([]domain.User, error) {
	if _, err := s.guard.Authorize(ctx, callerID, CapAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
