package cart

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type ListCartQuery struct{}

type ListCartResult struct {
	Lines []domain.Line
}

type ListCartUseCase struct {
	uow  application.UnitOfWork
	inst application.Instrumentation
}

func NewListCartUseCase(uow application.UnitOfWork, tel observability.Observability) *ListCartUseCase {
	return &ListCartUseCase{uow: uow, inst: application.NewInstrumentation(tel, cartService)}
}

func (uc *ListCartUseCase) Execute(ctx context.Context, _ ListCartQuery) (_ *ListCartResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseListCart, "ListCart")
	defer func() { run.End(ctx, err) }()

	var lines []domain.Line
	err = uc.uow.Do(ctx, func(ctx context.Context, repos application.Repositories) error {
		var listErr error
		lines, listErr = repos.CartItems().List(ctx)
		return listErr
	})
	if err != nil {
		run.Fail("REPO_LIST_FAILED")
		return nil, application.WrapRepositoryError(err)
	}

	run.Span().SetAttributes(attribute.Int("cart.line_count", len(lines)))
	return &ListCartResult{Lines: lines}, nil
}
