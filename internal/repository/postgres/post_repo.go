package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/flicksy/internal/domain"
)

const postColumns = `id, content, author_id, author_username, author_display_name, author_is_verified,
	likes_count, comments_count, reposts_count, created_at`

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO posts (id, content, author_id, author_username, author_display_name, author_is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.Exec(ctx, query,
		post.ID, post.Content, post.AuthorID,
		post.AuthorUsername, post.AuthorDisplayName, post.AuthorIsVerified,
		post.CreatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET posts_count = posts_count + 1 WHERE id = $1`, post.AuthorID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var p domain.Post
	err := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id).Scan(
		&p.ID, &p.Content, &p.AuthorID, &p.AuthorUsername, &p.AuthorDisplayName, &p.AuthorIsVerified,
		&p.LikesCount, &p.CommentsCount, &p.RepostsCount, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) ListRecent(ctx context.Context, offset, limit int) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	return r.queryPosts(ctx, query, offset, limit)
}

func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`
	return r.queryPosts(ctx, query, authorID, offset, limit)
}

func (r *PostRepo) TrendingSince(ctx context.Context, cutoff time.Time, limit int) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE created_at >= $1
		ORDER BY likes_count DESC, comments_count DESC, created_at DESC
		LIMIT $2`
	return r.queryPosts(ctx, query, cutoff, limit)
}

func (r *PostRepo) RecentContents(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT content FROM posts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func (r *PostRepo) Search(ctx context.Context, q string, offset, limit int) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE content ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	return r.queryPosts(ctx, query, escapeLike(q), offset, limit)
}

// DeleteCascade removes dependents before adjusting the author counter; the
// whole sequence commits or rolls back together.
func (r *PostRepo) DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1`, id); err != nil {
		return false, err
	}

	var authorID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM posts WHERE id = $1 RETURNING author_id`, id).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET posts_count = GREATEST(posts_count - 1, 0) WHERE id = $1`, authorID,
	); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func (r *PostRepo) queryPosts(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(
			&p.ID, &p.Content, &p.AuthorID, &p.AuthorUsername, &p.AuthorDisplayName, &p.AuthorIsVerified,
			&p.LikesCount, &p.CommentsCount, &p.RepostsCount, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
