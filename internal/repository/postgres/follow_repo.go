package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FollowRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *FollowRepo {
	return &FollowRepo{pool: pool}
}

// Toggle uses the same conditional write pattern as the like toggle: the
// follows primary key decides the winner and both counters move in the same
// transaction.
func (r *FollowRepo) Toggle(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() > 0 {
		if err := adjustFollowCounts(ctx, tx, followerID, followeeID, -1); err != nil {
			return false, err
		}
		return false, tx.Commit(ctx)
	}

	tag, err = tx.Exec(ctx, `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID, time.Now(),
	)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() > 0 {
		if err := adjustFollowCounts(ctx, tx, followerID, followeeID, 1); err != nil {
			return false, err
		}
	}

	return true, tx.Commit(ctx)
}

func (r *FollowRepo) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID,
	).Scan(&exists)
	return exists, err
}

func adjustFollowCounts(ctx context.Context, tx pgx.Tx, followerID, followeeID uuid.UUID, delta int) error {
	if _, err := tx.Exec(ctx,
		`UPDATE users SET following_count = GREATEST(following_count + $1, 0) WHERE id = $2`,
		delta, followerID,
	); err != nil {
		return err
	}
	_, err := tx.Exec(ctx,
		`UPDATE users SET followers_count = GREATEST(followers_count + $1, 0) WHERE id = $2`,
		delta, followeeID,
	)
	return err
}
