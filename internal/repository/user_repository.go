package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace/internal/domain"
)

// ErrDuplicate signals a unique constraint violation. The users table carries
// unique indexes on username and email, so two concurrent registrations that
// both pass the application-level lookup still cannot create two rows.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolationCode = "23505"

// UserRepository defines persistence access for identity records.
// Absence is always reported as pgx.ErrNoRows, never as an empty value, so
// callers can treat "no record" as a distinct signal.
type UserRepository interface {
	// Create inserts the user and any initial addresses in one transaction,
	// so a failed address insert cannot leave a half-registered user behind.
	Create(ctx context.Context, user *domain.User, addresses []domain.Address) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User, addresses []domain.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertUser = `
        INSERT INTO users (username, email, first_name, last_name, password_hash, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, insertUser,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}

	// at most one default survives; the last one submitted wins, matching
	// what sequential Add calls would have produced
	lastDefault := -1
	for i := range addresses {
		if addresses[i].IsDefault {
			lastDefault = i
		}
	}

	const insertAddress = `
        INSERT INTO addresses (user_id, street, city, state, zip, country, is_default)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	for i := range addresses {
		addresses[i].UserID = user.ID
		addresses[i].IsDefault = i == lastDefault
		if err := tx.QueryRow(ctx, insertAddress,
			addresses[i].UserID,
			addresses[i].Street,
			addresses[i].City,
			addresses[i].State,
			addresses[i].Zip,
			addresses[i].Country,
			addresses[i].IsDefault,
		).Scan(&addresses[i].ID, &addresses[i].CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET first_name=$1, last_name=$2, password_hash=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = userSelect + ` WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

// GetByIdentifier matches a single identifier against either username or email.
func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	const query = userSelect + ` WHERE username=$1 OR email=$1`
	return r.scanOne(ctx, query, identifier)
}

// GetByUsernameOrEmail finds any record claiming either value.
func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	const query = userSelect + ` WHERE username=$1 OR email=$2`
	return r.scanOne(ctx, query, username, email)
}

const userSelect = `
        SELECT id, username, email, first_name, last_name, password_hash, role, created_at, updated_at
        FROM users`

func (r *userRepository) scanOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
