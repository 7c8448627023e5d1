package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus values are part of the storage contract. Transitions are
// monotonic: pending may move to approved or rejected, both terminal.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type VerificationRequest struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	// Requester snapshot at filing time.
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`

	Reason     string             `json:"reason"`
	Status     VerificationStatus `json:"status"`
	ReviewedBy *uuid.UUID         `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}
