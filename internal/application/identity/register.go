package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type RegisterResult struct {
	UserID int64
}

type RegisterUseCase struct {
	uow    application.UnitOfWork
	hasher PasswordHasher
	inst   application.Instrumentation
}

func NewRegisterUseCase(uow application.UnitOfWork, hasher PasswordHasher, tel observability.Observability) *RegisterUseCase {
	return &RegisterUseCase{uow: uow, hasher: hasher, inst: application.NewInstrumentation(tel, identityService)}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterInput) (_ *RegisterResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseRegister, "Register")
	defer func() { run.End(ctx, err) }()

	username := strings.TrimSpace(cmd.Username)
	email := domain.NormalizeEmail(cmd.Email)
	switch {
	case username == "":
		run.Fail("USERNAME_REQUIRED")
		return nil, application.NewValidation("username is required")
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		run.Fail("USERNAME_TOO_LONG")
		return nil, application.NewValidation(fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	case email == "":
		run.Fail("EMAIL_REQUIRED")
		return nil, application.NewValidation("email is required")
	case utf8.RuneCountInString(email) > MaxEmailLength:
		run.Fail("EMAIL_TOO_LONG")
		return nil, application.NewValidation(fmt.Sprintf("email must be at most %d characters", MaxEmailLength))
	case !strings.Contains(email, "@"):
		run.Fail("EMAIL_INVALID")
		return nil, application.NewValidation("email is invalid")
	case len(cmd.Password) < MinPasswordLength:
		run.Fail("PASSWORD_TOO_SHORT")
		return nil, application.NewValidation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	case len(cmd.Password) > MaxPasswordLength:
		run.Fail("PASSWORD_TOO_LONG")
		return nil, application.NewValidation(fmt.Sprintf("password must be at most %d bytes", MaxPasswordLength))
	}
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		run.Fail("ROLE_INVALID")
		return nil, application.NewValidation("role must be user or admin")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		run.Fail("PASSWORD_HASH_FAILED")
		return nil, err
	}

	user := domain.NewUser(username, email, hash, role)
	err = uc.uow.Do(ctx, func(ctx context.Context, repos application.Repositories) error {
		return repos.Users().Insert(ctx, user)
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyExists):
		run.Fail("USER_EXISTS")
		return nil, err
	default:
		run.Fail("REPO_INSERT_FAILED")
		return nil, application.WrapRepositoryError(err)
	}

	run.Span().SetAttributes(attribute.Int64("user.id", user.ID))
	run.With(observability.F("user_id", user.ID))
	return &RegisterResult{UserID: user.ID}, nil
}
