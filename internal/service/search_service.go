package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/flicksy/internal/domain"
	"github.com/vedran77/flicksy/internal/repository"
)

// SearchService delegates case-insensitive substring matching to the store
// (ILIKE); there is no dedicated index structure here.
type SearchService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
}

func NewSearchService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
) *SearchService {
	return &SearchService{
		userRepo: userRepo,
		postRepo: postRepo,
		likeRepo: likeRepo,
	}
}

type SearchResults struct {
	Users []domain.PublicProfile `json:"users"`
	Posts []domain.Post          `json:"posts"`
}

func (s *SearchService) Search(ctx context.Context, callerID uuid.UUID, query string, offset, limit int) (*SearchResults, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query = strings.TrimSpace(query)

	results := &SearchResults{
		Users: []domain.PublicProfile{},
		Posts: []domain.Post{},
	}
	if query == "" {
		return results, nil
	}

	users, err := s.userRepo.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		results.Users = append(results.Users, users[i].Public())
	}

	posts, err := s.postRepo.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(posts) > 0 {
		ids := make([]uuid.UUID, len(posts))
		for i := range posts {
			ids[i] = posts[i].ID
		}
		liked, err := s.likeRepo.LikedPostIDs(ctx, callerID, ids)
		if err != nil {
			return nil, err
		}
		for i := range posts {
			posts[i].LikedByUser = liked[posts[i].ID]
		}
		results.Posts = posts
	}

	return results, nil
}
