package identity

import (
	"context"
	"time"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns identity.ErrInvalidCredentials on mismatch.
	Compare(hash, password string) error
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(ctx context.Context, user *identity.User) (Token, error)
}

type TokenVerifier interface {
	// Verify returns identity.ErrUnauthenticated for any token it does not accept.
	Verify(ctx context.Context, token string) (identity.Identity, error)
}
