package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vedran77/flicksy/internal/repository"
)

type EngagementService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
	guard    *Guard
}

func NewEngagementService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	guard *Guard,
) *EngagementService {
	return &EngagementService{
		likeRepo: likeRepo,
		postRepo: postRepo,
		guard:    guard,
	}
}

type ToggleLikeResponse struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}

// ToggleLike flips the caller's like on a post. Repeated calls alternate the
// liked state; the relation and the counter move together inside the storage
// transaction (see LikeRepository.Toggle).
func (s *EngagementService) ToggleLike(ctx context.Context, callerID, postID uuid.UUID) (*ToggleLikeResponse, error) {
	if _, err := s.guard.Authorize(ctx, callerID, CapNotBanned); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	liked, err := s.likeRepo.Toggle(ctx, callerID, postID)
	if err != nil {
		return nil, fmt.Errorf("toggling like: %w", err)
	}

	msg := "Post unliked"
	if liked {
		msg = "Post liked"
	}
	return &ToggleLikeResponse{Liked: liked, Message: msg}, nil
}
