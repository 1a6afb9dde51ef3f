package security

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	appidentity "github.com/Zhima-Mochi/minishop-cart/internal/application/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
)

const DefaultTokenTTL = 15 * time.Minute

var ErrWeakSecret = errors.New("security: token secret must be at least 32 bytes")

// JWT issues and verifies HS256 access tokens.
type JWT struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret []byte, issuer string, ttl time.Duration) (*JWT, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWT{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

var (
	_ appidentity.TokenIssuer   = (*JWT)(nil)
	_ appidentity.TokenVerifier = (*JWT)(nil)
)

func (j *JWT) Issue(_ context.Context, user *identity.User) (appidentity.Token, error) {
	now := j.now()
	exp := now.Add(j.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    j.issuer,
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return appidentity.Token{}, fmt.Errorf("security: sign token: %w", err)
	}
	return appidentity.Token{Value: signed, ExpiresAt: exp}, nil
}

func (j *JWT) Verify(_ context.Context, token string) (identity.Identity, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %w", identity.ErrUnauthenticated, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return identity.Identity{}, fmt.Errorf("%w: bad subject", identity.ErrUnauthenticated)
	}
	return identity.Identity{UserID: id}, nil
}
