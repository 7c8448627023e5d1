package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/flicksy/internal/domain"
)

// ErrDuplicate is returned when an insert hits a unique constraint. Postgres
// implementations translate the driver error so services never see pgconn.
var ErrDuplicate = errors.New("duplicate record")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	Search(ctx context.Context, query string, offset, limit int) ([]domain.User, error)

	// SetVerified and SetBanned report whether the user existed.
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) (bool, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool) (bool, error)

	// BanIfBannable sets the ban flag only if the user's current role allows
	// being banned. The role check and the write are one atomic statement so
	// a concurrent promotion cannot slip through between check and mutation.
	BanIfBannable(ctx context.Context, id uuid.UUID) (bool, error)
}

type PostRepository interface {
	// Create inserts the post and increments the author's post counter in
	// one transaction.
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListRecent(ctx context.Context, offset, limit int) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]domain.Post, error)

	// TrendingSince returns posts created at or after the cutoff, ordered by
	// likes desc, comments desc, created_at desc.
	TrendingSince(ctx context.Context, cutoff time.Time, limit int) ([]domain.Post, error)

	// RecentContents returns the content of the newest posts, bounding the
	// hashtag scan.
	RecentContents(ctx context.Context, limit int) ([]string, error)

	Search(ctx context.Context, query string, offset, limit int) ([]domain.Post, error)

	// DeleteCascade removes the post, its comments and its likes, then
	// decrements the author's post counter, all in one transaction. Reports
	// whether the post existed.
	DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error)
}

type CommentRepository interface {
	// Create inserts the comment and increments the post's comment counter
	// in one transaction.
	Create(ctx context.Context, comment *domain.Comment) error
	ListByPost(ctx context.Context, postID uuid.UUID, offset, limit int) ([]domain.Comment, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int, error)
}

type LikeRepository interface {
	// Toggle flips the like relation for (userID, postID) and adjusts the
	// post's like counter by the matching delta, in one transaction keyed on
	// the unique (user_id, post_id) index. Returns the resulting liked state.
	Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error)

	// LikedPostIDs reports which of the given posts the user has liked.
	LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	CountByPost(ctx context.Context, postID uuid.UUID) (int, error)
}

type FollowRepository interface {
	// Toggle flips the follow relation and adjusts both users' counters in
	// one transaction. Returns the resulting following state.
	Toggle(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
}

type VerificationRepository interface {
	Create(ctx context.Context, req *domain.VerificationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error)
	GetPendingByUser(ctx context.Context, userID uuid.UUID) (*domain.VerificationRequest, error)
	ListPending(ctx context.Context, offset, limit int) ([]domain.VerificationRequest, error)

	// Review moves a pending request to a terminal status and records the
	// reviewer. The status precondition is part of the UPDATE, so a request
	// can be processed exactly once. Reports whether the transition happened.
	Review(ctx context.Context, id uuid.UUID, status domain.VerificationStatus, reviewerID uuid.UUID) (bool, error)
}
