package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

type LoginUseCase struct {
	uow    application.UnitOfWork
	hasher PasswordHasher
	issuer TokenIssuer
	inst   application.Instrumentation

	// decoy is compared against when the email is unknown so both failures cost the same.
	decoyOnce sync.Once
	decoy     string
}

func NewLoginUseCase(uow application.UnitOfWork, hasher PasswordHasher, issuer TokenIssuer, tel observability.Observability) *LoginUseCase {
	return &LoginUseCase{uow: uow, hasher: hasher, issuer: issuer, inst: application.NewInstrumentation(tel, identityService)}
}

// Execute checks the credentials and issues a bearer token. An unknown email
// and a wrong password fail the same way.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginInput) (_ *LoginResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseLogin, "Login")
	defer func() { run.End(ctx, err) }()

	email := domain.NormalizeEmail(cmd.Email)
	if email == "" || cmd.Password == "" {
		run.Fail("CREDENTIALS_REQUIRED")
		return nil, application.NewValidation("email and password are required")
	}

	var user *domain.User
	err = uc.uow.Do(ctx, func(ctx context.Context, repos application.Repositories) error {
		var findErr error
		user, findErr = repos.Users().FindByEmail(ctx, email)
		return findErr
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		_ = uc.hasher.Compare(uc.decoyHash(), cmd.Password)
		run.Fail("INVALID_CREDENTIALS")
		return nil, domain.ErrInvalidCredentials
	default:
		run.Fail("REPO_LOOKUP_FAILED")
		return nil, application.WrapRepositoryError(err)
	}

	if err := uc.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		run.Fail("INVALID_CREDENTIALS")
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := uc.issuer.Issue(ctx, user)
	if err != nil {
		run.Fail("TOKEN_ISSUE_FAILED")
		return nil, err
	}

	run.Span().SetAttributes(attribute.Int64("user.id", user.ID))
	run.With(observability.F("user_id", user.ID))
	return &LoginResult{UserID: user.ID, Token: tok.Value, ExpiresAt: tok.ExpiresAt}, nil
}

func (uc *LoginUseCase) decoyHash() string {
	uc.decoyOnce.Do(func() {
		uc.decoy, _ = uc.hasher.Hash("decoy-password-for-unknown-users")
	})
	return uc.decoy
}
