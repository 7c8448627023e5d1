package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/flicksy/internal/domain"
	"github.com/vedran77/flicksy/internal/repository"
)

const userColumns = `id, username, email, display_name, bio, password_hash, is_verified, role, is_banned,
	followers_count, following_count, posts_count, created_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, display_name, bio, password_hash, is_verified, role, is_banned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.DisplayName, user.Bio,
		user.PasswordHash, user.IsVerified, user.Role, user.IsBanned, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	return r.queryUsers(ctx, query, offset, limit)
}

func (r *UserRepo) Search(ctx context.Context, q string, offset, limit int) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username ILIKE '%' || $1 || '%' OR display_name ILIKE '%' || $1 || '%'
		ORDER BY followers_count DESC, created_at DESC
		OFFSET $2 LIMIT $3`
	return r.queryUsers(ctx, query, escapeLike(q), offset, limit)
}

func (r *UserRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_verified = $1 WHERE id = $2`, verified, id)
	return tag.RowsAffected() > 0, err
}

func (r *UserRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_banned = $1 WHERE id = $2`, banned, id)
	return tag.RowsAffected() > 0, err
}

// BanIfBannable checks the target's current role inside the UPDATE itself, so
// the hard rule against banning admins holds even if the role changed after
// the caller last read it.
func (r *UserRepo) BanIfBannable(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_banned = TRUE WHERE id = $1 AND role NOT IN ($2, $3)`,
		id, domain.RoleAdmin, domain.RoleSuperAdmin,
	)
	return tag.RowsAffected() > 0, err
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.Bio, &u.PasswordHash,
		&u.IsVerified, &u.Role, &u.IsBanned,
		&u.FollowersCount, &u.FollowingCount, &u.PostsCount, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.Bio, &u.PasswordHash,
			&u.IsVerified, &u.Role, &u.IsBanned,
			&u.FollowersCount, &u.FollowingCount, &u.PostsCount, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE/ILIKE metacharacters so user-supplied search
// text always matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
