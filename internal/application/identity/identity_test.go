package identity_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	appidentity "github.com/Zhima-Mochi/minishop-cart/internal/application/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/observabilitytest"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Compare(hash, p string) error {
	if hash != "h:"+p {
		return identity.ErrInvalidCredentials
	}
	return nil
}

type stubTokens struct{}

func (stubTokens) Issue(_ context.Context, u *identity.User) (appidentity.Token, error) {
	return appidentity.Token{Value: fmt.Sprintf("tok-%d", u.ID), ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func (stubTokens) Verify(_ context.Context, token string) (identity.Identity, error) {
	var id int64
	if _, err := fmt.Sscanf(token, "tok-%d", &id); err != nil {
		return identity.Identity{}, identity.ErrUnauthenticated
	}
	return identity.Identity{UserID: id}, nil
}

func TestRegisterAndLogin(t *testing.T) {
	s := memory.NewStore(nil)
	ctx := context.Background()
	rec := observabilitytest.New()
	register := appidentity.NewRegisterUseCase(s, plainHasher{}, rec)
	login := appidentity.NewLoginUseCase(s, plainHasher{}, stubTokens{}, rec)

	reg, err := register.Execute(ctx, appidentity.RegisterInput{
		Username: "alice", Email: "Alice@Example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), reg.UserID)

	_, err = register.Execute(ctx, appidentity.RegisterInput{
		Username: "alice2", Email: "alice@example.com", Password: "another-pass",
	})
	require.ErrorIs(t, err, identity.ErrAlreadyExists)

	res, err := login.Execute(ctx, appidentity.LoginInput{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)

	_, err = login.Execute(ctx, appidentity.LoginInput{Email: "alice@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = login.Execute(ctx, appidentity.LoginInput{Email: "bob@example.com", Password: "s3cret-pass"})
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)

	for _, e := range rec.Entries("use_case_done") {
		for _, v := range e.Fields {
			if str, ok := v.(string); ok {
				assert.NotContains(t, str, "s3cret-pass", "passwords must never be logged")
			}
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	register := appidentity.NewRegisterUseCase(memory.NewStore(nil), plainHasher{}, nil)
	cases := []appidentity.RegisterInput{
		{Username: "", Email: "a@b.c", Password: "long-enough"},
		{Username: "a", Email: "", Password: "long-enough"},
		{Username: "a", Email: "not-an-email", Password: "long-enough"},
		{Username: "a", Email: "a@b.c", Password: "short"},
		{Username: "a", Email: "a@b.c", Password: "long-enough", Role: "root"},
		{Username: "a", Email: "a@b.c", Password: strings.Repeat("p", appidentity.MaxPasswordLength+1)},
		{Username: strings.Repeat("u", appidentity.MaxUsernameLength+1), Email: "a@b.c", Password: "long-enough"},
		{Username: "a", Email: strings.Repeat("e", appidentity.MaxEmailLength) + "@b.c", Password: "long-enough"},
	}
	for _, in := range cases {
		_, err := register.Execute(context.Background(), in)
		require.ErrorIs(t, err, application.ErrValidation, "%+v", in)
	}
}

func TestRegisterAcceptsLimits(t *testing.T) {
	register := appidentity.NewRegisterUseCase(memory.NewStore(nil), plainHasher{}, nil)
	_, err := register.Execute(context.Background(), appidentity.RegisterInput{
		Username: strings.Repeat("ü", appidentity.MaxUsernameLength),
		Email:    "a@b.c",
		Password: strings.Repeat("p", appidentity.MaxPasswordLength),
	})
	require.NoError(t, err)
}

type failingHasher struct{ plainHasher }

func (failingHasher) Hash(string) (string, error) { return "", errors.New("no entropy") }

func TestRegisterHashFailure(t *testing.T) {
	register := appidentity.NewRegisterUseCase(memory.NewStore(nil), failingHasher{}, nil)
	_, err := register.Execute(context.Background(), appidentity.RegisterInput{
		Username: "a", Email: "a@b.c", Password: "long-enough",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, application.ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	auth := appidentity.NewAuthenticateUseCase(stubTokens{}, nil)
	ctx := context.Background()

	id, err := auth.Execute(ctx, appidentity.AuthenticateInput{Authorization: "Bearer tok-7"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.UserID)

	id, err = auth.Execute(ctx, appidentity.AuthenticateInput{Authorization: "bearer tok-8"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), id.UserID)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic tok-7", "tok-7", "Bearer garbage", strings.Repeat("x", 10)} {
		_, err := auth.Execute(ctx, appidentity.AuthenticateInput{Authorization: header})
		require.ErrorIs(t, err, identity.ErrUnauthenticated, header)
	}
}

type countingHasher struct {
	plainHasher
	compares int
}

func (h *countingHasher) Compare(hash, p string) error {
	h.compares++
	return h.plainHasher.Compare(hash, p)
}

func TestLoginUnknownEmailStillCompares(t *testing.T) {
	hasher := &countingHasher{}
	login := appidentity.NewLoginUseCase(memory.NewStore(nil), hasher, stubTokens{}, nil)

	for range 2 {
		_, err := login.Execute(context.Background(), appidentity.LoginInput{Email: "nobody@example.com", Password: "whatever-pass"})
		require.ErrorIs(t, err, identity.ErrInvalidCredentials)
	}
	assert.Equal(t, 2, hasher.compares)
}
