package identity

import "context"

type Repository interface {
	// Insert fails with ErrAlreadyExists when the email is taken.
	Insert(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}
