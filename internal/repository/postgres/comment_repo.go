package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/flicksy/internal/domain"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO comments (id, content, post_id, author_id, author_username, author_display_name, author_is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.Exec(ctx, query,
		comment.ID, comment.Content, comment.PostID, comment.AuthorID,
		comment.AuthorUsername, comment.AuthorDisplayName, comment.AuthorIsVerified,
		comment.CreatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE posts SET comments_count = comments_count + 1 WHERE id = $1`, comment.PostID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *CommentRepo) ListByPost(ctx context.Context, postID uuid.UUID, offset, limit int) ([]domain.Comment, error) {
	query := `
		SELECT id, content, post_id, author_id, author_username, author_display_name, author_is_verified, likes_count, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
		OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, postID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID, &c.Content, &c.PostID, &c.AuthorID,
			&c.AuthorUsername, &c.AuthorDisplayName, &c.AuthorIsVerified,
			&c.LikesCount, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepo) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}
