package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/deltacargo-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, email, name, branch, whatsapp, personal_code, password_hash, role, is_active, created_at, last_login`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user     model.User
		whatsapp *string
		role     string
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Branch, &whatsapp, &user.PersonalCode,
		&user.PasswordHash, &role, &user.Active, &user.CreatedAt, &user.LastLogin,
	)
	if err != nil {
		return model.User{}, err
	}
	if whatsapp != nil {
		user.WhatsApp = *whatsapp
	}
	user.Role = model.Role(role)
	return user, nil
}

// Create inserts user. An empty personal code is replaced by one more than
// the largest numeric code in use.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, name, branch, whatsapp, personal_code, password_hash, role, is_active, created_at)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''),
			          COALESCE(NULLIF($6, ''), (
			              SELECT (COALESCE(MAX(personal_code::BIGINT), 0) + 1)::TEXT
			              FROM users WHERE personal_code ~ '^[0-9]{1,18}$'
			          )),
			          $7, $8, $9, $10)
			  RETURNING ` + userColumns

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, user.Branch, user.WhatsApp, user.PersonalCode,
		user.PasswordHash, string(user.Role), user.Active, user.CreatedAt,
	))
	if err != nil {
		return model.User{}, wrapErr("failed to create user", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, wrapErr("failed to get user by id", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, wrapErr("failed to get user by email", err)
	}

	return user, nil
}

func (r *UserRepository) GetByPersonalCode(ctx context.Context, code string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE personal_code = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, wrapErr("failed to get user by personal code", err)
	}

	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("failed to list users", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to list users", err)
	}

	return users, nil
}

// Delete removes the user. Tracks referencing the user's code are kept.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.execOne(ctx, "failed to delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.execOne(ctx, "failed to update password",
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return r.db.execOne(ctx, "failed to update role",
		`UPDATE users SET role = $2 WHERE id = $1`, id, string(role))
}

func (r *UserRepository) UpdateActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.execOne(ctx, "failed to update active flag",
		`UPDATE users SET is_active = $2 WHERE id = $1`, id, active)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.execOne(ctx, "failed to update last login",
		`UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
}
