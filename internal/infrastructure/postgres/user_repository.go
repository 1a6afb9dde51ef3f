package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
)

type userRepository struct{ tx pgx.Tx }

func (r userRepository) Insert(ctx context.Context, u *identity.User) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		u.Username, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return identity.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r userRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var (
		u    identity.User
		role string
	)
	err := r.tx.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Role = identity.Role(role)
	return &u, nil
}
