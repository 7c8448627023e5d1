package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID                uuid.UUID `json:"id"`
	Content           string    `json:"content"`
	PostID            uuid.UUID `json:"post_id"`
	AuthorID          uuid.UUID `json:"author_id"`
	AuthorUsername    string    `json:"author_username"`
	AuthorDisplayName string    `json:"author_display_name"`
	AuthorIsVerified  bool      `json:"author_is_verified"`
	LikesCount        int       `json:"likes_count"`
	CreatedAt         time.Time `json:"created_at"`
}
