package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/flicksy/internal/domain"
	"github.com/vedran77/flicksy/internal/repository"
)

const verificationColumns = `id, user_id, username, display_name, reason, status, reviewed_by, reviewed_at, created_at`

type VerificationRepo struct {
	pool *pgxpool.Pool
}

func NewVerificationRepo(pool *pgxpool.Pool) *VerificationRepo {
	return &VerificationRepo{pool: pool}
}

// Create relies on the partial unique index over pending requests; a second
// pending request for the same user comes back as ErrDuplicate.
func (r *VerificationRepo) Create(ctx context.Context, req *domain.VerificationRequest) error {
	query := `
		INSERT INTO verification_requests (id, user_id, username, display_name, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.UserID, req.Username, req.DisplayName, req.Reason, req.Status, req.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *VerificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationRequest, error) {
	return r.scanRequest(ctx, `SELECT `+verificationColumns+` FROM verification_requests WHERE id = $1`, id)
}

func (r *VerificationRepo) GetPendingByUser(ctx context.Context, userID uuid.UUID) (*domain.VerificationRequest, error) {
	return r.scanRequest(ctx,
		`SELECT `+verificationColumns+` FROM verification_requests WHERE user_id = $1 AND status = 'pending'`,
		userID,
	)
}

func (r *VerificationRepo) ListPending(ctx context.Context, offset, limit int) ([]domain.VerificationRequest, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verification_requests
		WHERE status = 'pending'
		ORDER BY created_at ASC
		OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.VerificationRequest
	for rows.Next() {
		var req domain.VerificationRequest
		if err := rows.Scan(
			&req.ID, &req.UserID, &req.Username, &req.DisplayName, &req.Reason,
			&req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Review embeds the pending precondition in the UPDATE, so once a request is
// terminal no later call can move it again.
func (r *VerificationRepo) Review(ctx context.Context, id uuid.UUID, status domain.VerificationStatus, reviewerID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE verification_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4 AND status = 'pending'`,
		status, reviewerID, time.Now(), id,
	)
	return tag.RowsAffected() > 0, err
}

func (r *VerificationRepo) scanRequest(ctx context.Context, query string, arg any) (*domain.VerificationRequest, error) {
	var req domain.VerificationRequest
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&req.ID, &req.UserID, &req.Username, &req.DisplayName, &req.Reason,
		&req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}
