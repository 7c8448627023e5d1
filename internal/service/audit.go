package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEvent records who did what to whom in the moderation surface.
type AuditEvent struct {
	Action     string    `json:"action"`
	ActorID    uuid.UUID `json:"actor_id"`
	TargetID   uuid.UUID `json:"target_id"`
	TargetType string    `json:"target_type"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditPublisher delivers moderation audit events to the audit queue.
type AuditPublisher interface {
	Publish(ctx context.Context, ev AuditEvent) error
}
