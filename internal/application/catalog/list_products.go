package catalog

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

const (
	catalogService      = "catalog-service"
	useCaseListProducts = "catalog.list_products"
)

type ListProductsQuery struct{}

type ListProductsResult struct {
	Products []*domain.Product
}

type ListProductsUseCase struct {
	uow  application.UnitOfWork
	inst application.Instrumentation
}

func NewListProductsUseCase(uow application.UnitOfWork, tel observability.Observability) *ListProductsUseCase {
	return &ListProductsUseCase{
		uow:  uow,
		inst: application.NewInstrumentation(tel, catalogService),
	}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context, _ ListProductsQuery) (_ *ListProductsResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseListProducts, "ListProducts")
	defer func() { run.End(ctx, err) }()

	var products []*domain.Product
	err = uc.uow.Do(ctx, func(ctx context.Context, repos application.Repositories) error {
		var listErr error
		products, listErr = repos.Products().List(ctx)
		return listErr
	})
	if err != nil {
		run.Fail("REPO_LIST_FAILED")
		return nil, application.WrapRepositoryError(err)
	}

	run.Span().SetAttributes(attribute.Int("catalog.product_count", len(products)))
	return &ListProductsResult{Products: products}, nil
}
