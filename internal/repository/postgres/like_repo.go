package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Toggle serializes concurrent toggles on the same (user, post) pair through
// the unique index on likes(user_id, post_id): the delete and the conditional
// insert are both decided by the index, and the counter moves by the same
// delta in the same transaction. Toggles on different pairs do not contend.
func (r *LikeRepo) Toggle(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1`, postID,
		); err != nil {
			return false, err
		}
		return false, tx.Commit(ctx)
	}

	tag, err = tx.Exec(ctx, `
		INSERT INTO likes (id, user_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, post_id) DO NOTHING`,
		uuid.New(), userID, postID, time.Now(),
	)
	if err != nil {
		return false, err
	}

	// Zero rows here means a concurrent toggle won the insert race; the pair
	// is liked and the winner already adjusted the counter.
	if tag.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE posts SET likes_count = likes_count + 1 WHERE id = $1`, postID,
		); err != nil {
			return false, err
		}
	}

	return true, tx.Commit(ctx)
}

func (r *LikeRepo) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT post_id FROM likes WHERE user_id = $1 AND post_id = ANY($2)`, userID, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

func (r *LikeRepo) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&n)
	return n, err
}
