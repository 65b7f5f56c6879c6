package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stybayev/graduate-work/internal/auth/domain"
	autherror "github.com/stybayev/graduate-work/internal/errors"
)

const uniqueViolationCode = "23505"

// DB is the subset of pgxpool.Pool the repositories use. pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// storeFailure marks an infrastructure error from the credential store
// as an upstream outage. The original error stays in the chain so
// constraint checks still see it.
func storeFailure(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", autherror.ErrUpstreamUnavailable, msg, err)
}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
		SELECT id, login, email, password_hash, first_name, last_name, created_at
		FROM users
		WHERE login = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, login))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, login, email, password_hash, first_name, last_name, created_at
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeFailure("failed to get user", err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, login, email, password_hash, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Login, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.CreatedAt)
	if isUniqueViolation(err) {
		return autherror.ErrLoginTaken
	}
	if err != nil {
		return storeFailure("failed to create user", err)
	}

	return nil
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, id string, login, passwordHash *string) (*domain.User, error) {
	query := `
		UPDATE users
		SET login = COALESCE($2, login),
		    password_hash = COALESCE($3, password_hash)
		WHERE id = $1
		RETURNING id, login, email, password_hash, first_name, last_name, created_at;
	`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, id, login, passwordHash))
	if isUniqueViolation(err) {
		return nil, autherror.ErrLoginTaken
	}

	return user, err
}

func (r *UserRepository) RecordLogin(ctx context.Context, userID, userAgent string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_history (id, user_id, user_agent, login_time)
		VALUES (gen_random_uuid(), $1, $2, now())
	`, userID, userAgent)
	if err != nil {
		return storeFailure("failed to record login", err)
	}

	return nil
}

func (r *UserRepository) GetLoginHistory(ctx context.Context, userID string, limit, offset int) ([]domain.LoginHistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, user_agent, login_time
		FROM login_history
		WHERE user_id = $1
		ORDER BY login_time DESC
		LIMIT $2 OFFSET $3;
	`, userID, limit, offset)
	if err != nil {
		return nil, storeFailure("failed to get login history", err)
	}
	defer rows.Close()

	var entries []domain.LoginHistoryEntry
	for rows.Next() {
		var e domain.LoginHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserAgent, &e.LoginTime); err != nil {
			return nil, storeFailure("failed to scan login history", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("failed to read login history", err)
	}

	return entries, nil
}

func (r *UserRepository) GetRoleNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.name
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1;
	`, userID)
	if err != nil {
		return nil, storeFailure("failed to get user roles", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeFailure("failed to scan user roles", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("failed to read user roles", err)
	}

	return names, nil
}
