package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vedran77/flicksy/internal/domain"
	"github.com/vedran77/flicksy/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	guard      *Guard
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, guard *Guard) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		guard:      guard,
	}
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*domain.PublicProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile := user.Public()
	return &profile, nil
}

type ToggleFollowResponse struct {
	Following bool `json:"following"`
}

// ToggleFollow follows the named user, or unfollows if already following.
// Same conditional-write toggle contract as likes.
func (s *UserService) ToggleFollow(ctx context.Context, callerID uuid.UUID, username string) (*ToggleFollowResponse, error) {
	caller, err := s.guard.Authorize(ctx, callerID, CapNotBanned)
	if err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == caller.ID {
		return nil, ErrCannotFollowSelf
	}

	following, err := s.followRepo.Toggle(ctx, caller.ID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("toggling follow: %w", err)
	}

	return &ToggleFollowResponse{Following: following}, nil
}
