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
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("only the author or a moderator can delete this post")
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	guard       *Guard
	audit       AuditPublisher
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	guard *Guard,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		guard:       guard,
	}
}

// SetAuditPublisher sets the moderation audit sink (optional dependency).
func (s *PostService) SetAuditPublisher(p AuditPublisher) {
	s.audit = p
}

type CreatePostInput struct {
	Content string `json:"content"`
}

type CreateCommentInput struct {
	Content string `json:"content"`
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	author, err := s.guard.Authorize(ctx, authorID, CapNotBanned)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		ID:                uuid.New(),
		Content:           input.Content,
		AuthorID:          author.ID,
		AuthorUsername:    author.Username,
		AuthorDisplayName: author.DisplayName,
		AuthorIsVerified:  author.IsVerified,
		CreatedAt:         time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	return post, nil
}

// Feed returns the newest posts with per-caller liked flags. The flags come
// from a second read over the fetched page; a toggle landing between the two
// reads can leave one response cycle stale, which is accepted.
func (s *PostService) Feed(ctx context.Context, callerID uuid.UUID, offset, limit int) ([]domain.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.postRepo.ListRecent(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	if err := s.decorateLiked(ctx, callerID, posts); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, callerID, postID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	liked, err := s.likeRepo.LikedPostIDs(ctx, callerID, []uuid.UUID{post.ID})
	if err != nil {
		return nil, err
	}
	post.LikedByUser = liked[post.ID]

	return post, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, callerID uuid.UUID, username string, offset, limit int) ([]domain.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	author, err := s.guard.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	if err := s.decorateLiked(ctx, callerID, posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) CreateComment(ctx context.Context, authorID, postID uuid.UUID, input CreateCommentInput) (*domain.Comment, error) {
	author, err := s.guard.Authorize(ctx, authorID, CapNotBanned)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:                uuid.New(),
		Content:           input.Content,
		PostID:            post.ID,
		AuthorID:          author.ID,
		AuthorUsername:    author.Username,
		AuthorDisplayName: author.DisplayName,
		AuthorIsVerified:  author.IsVerified,
		CreatedAt:         time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID uuid.UUID, offset, limit int) ([]domain.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, offset, limit)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// Delete removes a post with its comments and likes. Authors may delete their
// own posts; anyone else needs moderator or above, and that path is audited.
func (s *PostService) Delete(ctx context.Context, callerID, postID uuid.UUID) error {
	caller, err := s.guard.Authorize(ctx, callerID, CapNotBanned)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	moderation := post.AuthorID != caller.ID
	if moderation {
		if !caller.Role.AtLeast(domain.RoleModerator) {
			return ErrNotPostOwner
		}
	}

	deleted, err := s.postRepo.DeleteCascade(ctx, postID)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if !deleted {
		return ErrPostNotFound
	}

	if moderation {
		publishAudit(ctx, s.audit, AuditEvent{
			Action:     "post.delete",
			ActorID:    caller.ID,
			TargetID:   post.AuthorID,
			TargetType: "post",
			Detail:     postID.String(),
		})
	}

	return nil
}

func (s *PostService) decorateLiked(ctx context.Context, callerID uuid.UUID, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	liked, err := s.likeRepo.LikedPostIDs(ctx, callerID, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].LikedByUser = liked[posts[i].ID]
	}
	return nil
}

func publishAudit(ctx context.Context, p AuditPublisher, ev AuditEvent) {
	if p == nil {
		return
	}
	ev.OccurredAt = time.Now()
	if err := p.Publish(ctx, ev); err != nil {
		// Audit delivery must never fail the request.
		logrus.WithError(err).WithField("action", ev.Action).Warn("audit event not published")
	}
}
