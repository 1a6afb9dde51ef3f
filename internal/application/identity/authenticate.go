package identity

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type AuthenticateInput struct {
	// Authorization is the raw header value, "Bearer <token>".
	Authorization string
}

type AuthenticateUseCase struct {
	verifier TokenVerifier
	inst     application.Instrumentation
}

func NewAuthenticateUseCase(verifier TokenVerifier, tel observability.Observability) *AuthenticateUseCase {
	return &AuthenticateUseCase{verifier: verifier, inst: application.NewInstrumentation(tel, identityService)}
}

func (uc *AuthenticateUseCase) Execute(ctx context.Context, cmd AuthenticateInput) (_ domain.Identity, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseAuthenticate, "Authenticate")
	defer func() { run.End(ctx, err) }()

	scheme, token, ok := strings.Cut(strings.TrimSpace(cmd.Authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		run.Fail("TOKEN_MISSING")
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	id, err := uc.verifier.Verify(ctx, strings.TrimSpace(token))
	if err != nil {
		run.Fail("TOKEN_REJECTED")
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	run.Span().SetAttributes(attribute.Int64("user.id", id.UserID))
	return id, nil
}
