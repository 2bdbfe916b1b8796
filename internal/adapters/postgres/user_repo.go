package postgres

import (
	"context"

	"github.com/samirrijal/quickcash/internal/core/domain"
)

// UserRepo implements ports.UserRepository with pgx.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO users (id, username, email, role, first_name, last_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Username, u.Email, u.Role, u.FirstName, u.LastName, u.PasswordHash, u.CreatedAt)
	return translate(err, "insert user")
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepo) UpdateRole(ctx context.Context, username string, role domain.Role) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE users SET role = $2 WHERE username = $1`, username, role)
	return affected(tag, err, "update role for "+username)
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg string) (*domain.User, error) {
	var u domain.User
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, username, email, role, first_name, last_name, password_hash, created_at
		FROM users `+where, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.Role, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		return nil, translate(err, "get user "+arg)
	}
	return &u, nil
}
