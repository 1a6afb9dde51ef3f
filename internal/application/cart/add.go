package cart

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

// DefaultQuantity is used when an add request leaves quantity out.
const DefaultQuantity = 1

type AddToCartInput struct {
	ProductID int64
	Quantity  int
}

type AddToCartResult struct {
	CartItemID int64
	Quantity   int
	StockLeft  int
}

type AddToCartUseCase struct {
	uow  application.UnitOfWork
	inst application.Instrumentation
}

func NewAddToCartUseCase(uow application.UnitOfWork, tel observability.Observability) *AddToCartUseCase {
	return &AddToCartUseCase{uow: uow, inst: application.NewInstrumentation(tel, cartService)}
}

// Execute moves Quantity units of the product from stock into the cart. The
// cart row for the product is created or grown in the same transaction.
func (uc *AddToCartUseCase) Execute(ctx context.Context, cmd AddToCartInput) (_ *AddToCartResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseAddToCart, "AddToCart",
		attribute.Int64("cart.product_id", cmd.ProductID),
		attribute.Int("cart.quantity", cmd.Quantity),
	)
	defer func() { run.End(ctx, err) }()

	if cmd.ProductID <= 0 {
		run.Fail("PRODUCT_ID_INVALID")
		return nil, application.NewValidation("product_id must be a positive integer")
	}
	if cmd.Quantity <= 0 {
		run.Fail("QUANTITY_INVALID")
		return nil, application.NewValidation("quantity must be greater than zero")
	}
	if cmd.Quantity > catalog.MaxQuantity {
		run.Fail("QUANTITY_TOO_LARGE")
		return nil, application.NewValidation(fmt.Sprintf("quantity must be at most %d", catalog.MaxQuantity))
	}

	var res AddToCartResult
	err = uc.uow.Do(ctx, func(ctx context.Context, repos application.Repositories) error {
		product, err := repos.Products().GetForUpdate(ctx, cmd.ProductID)
		if err != nil {
			return err
		}
		if err := product.Reserve(cmd.Quantity); err != nil {
			return err
		}

		item, err := repos.CartItems().FindByProductForUpdate(ctx, product.ID)
		switch {
		case err == nil:
			if err := item.Add(cmd.Quantity); err != nil {
				return err
			}
			if err := repos.CartItems().Update(ctx, item); err != nil {
				return err
			}
		case errors.Is(err, domain.ErrNotFound):
			item, err = domain.NewItem(product.ID, cmd.Quantity)
			if err != nil {
				return err
			}
			if err := repos.CartItems().Insert(ctx, item); err != nil {
				return err
			}
		default:
			return err
		}

		if err := repos.Products().Update(ctx, product); err != nil {
			return err
		}
		res = AddToCartResult{CartItemID: item.ID, Quantity: item.Quantity, StockLeft: product.Stock}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNotFound):
		run.Fail("PRODUCT_NOT_FOUND")
		return nil, err
	case errors.Is(err, catalog.ErrOutOfStock):
		run.Fail("OUT_OF_STOCK")
		return nil, err
	default:
		run.Fail("REPO_ADD_FAILED")
		return nil, application.WrapRepositoryError(err)
	}

	run.Span().SetAttributes(
		attribute.Int64("cart.item_id", res.CartItemID),
		attribute.Int("catalog.stock_left", res.StockLeft),
	)
	return &res, nil
}
