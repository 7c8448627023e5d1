package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/flicksy/internal/domain"
	"github.com/vedran77/flicksy/internal/repository"
)

var (
	ErrCallerUnknown    = errors.New("caller identity could not be resolved")
	ErrCallerBanned     = errors.New("account is banned")
	ErrInsufficientRole = errors.New("insufficient role for this action")
)

// Capability names a precondition a gated operation requires from its caller.
type Capability int

const (
	// CapAuthenticated only needs a resolvable identity; banned users may
	// still read their own account.
	CapAuthenticated Capability = iota
	// CapNotBanned is the baseline for every ordinary mutation.
	CapNotBanned
	// CapModerator and CapAdmin imply CapNotBanned.
	CapModerator
	CapAdmin
)

func (c Capability) minRole() domain.Role {
	switch c {
	case CapModerator:
		return domain.RoleModerator
	case CapAdmin:
		return domain.RoleAdmin
	default:
		return domain.RoleUser
	}
}

// Guard resolves a caller id plus a required capability into the caller's
// current user record, or a typed denial. Checks run in a fixed order:
// identity, ban flag, role.
type Guard struct {
	userRepo repository.UserRepository
}

func NewGuard(userRepo repository.UserRepository) *Guard {
	return &Guard{userRepo: userRepo}
}

func (g *Guard) Authorize(ctx context.Context, callerID uuid.UUID, cap Capability) (*domain.User, error) {
	caller, err := g.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, ErrCallerUnknown
	}

	if cap != CapAuthenticated && caller.IsBanned {
		return nil, ErrCallerBanned
	}

	if !caller.Role.AtLeast(cap.minRole()) {
		return nil, ErrInsufficientRole
	}

	return caller, nil
}
