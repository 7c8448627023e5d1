package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	AuthorID  uuid.UUID `json:"author_id"`
	// Author snapshot, captured at creation time and never refreshed.
	AuthorUsername    string `json:"author_username"`
	AuthorDisplayName string `json:"author_display_name"`
	AuthorIsVerified  bool   `json:"author_is_verified"`

	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	RepostsCount  int       `json:"reposts_count"`
	CreatedAt     time.Time `json:"created_at"`

	// Per-caller read-time decoration, not stored.
	LikedByUser bool `json:"liked_by_user"`
}
