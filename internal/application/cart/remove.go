package cart

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type RemoveFromCartInput struct {
	CartItemID int64
}

type RemoveFromCartResult struct {
	ProductID int64
	Released  int
}

type RemoveFromCartUseCase struct {
	uow  application.UnitOfWork
	inst application.Instrumentation
}

func NewRemoveFromCartUseCase(uow application.UnitOfWork, tel observability.Observability) *RemoveFromCartUseCase {
	return &RemoveFromCartUseCase{uow: uow, inst: application.NewInstrumentation(tel, cartService)}
}

// Execute deletes the cart row and returns its quantity to the product's stock.
func (uc *RemoveFromCartUseCase) Execute(ctx context.Context, cmd RemoveFromCartInput) (_ *RemoveFromCartResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseRemoveItem, "RemoveFromCart",
		attribute.Int64("cart.item_id", cmd.CartItemID),
	)
	defer func() { run.End(ctx, err) }()

	if cmd.CartItemID <= 0 {
		run.Fail("CART_ITEM_NOT_FOUND")
		return nil, domain.ErrNotFound
	}

	var res RemoveFromCartResult
	err = uc.uow.Do(ctx, func(ctx context.Context, repos application.Repositories) error {
		peek, err := repos.CartItems().Get(ctx, cmd.CartItemID)
		if err != nil {
			return err
		}
		product, err := repos.Products().GetForUpdate(ctx, peek.ProductID)
		if err != nil {
			return err
		}
		// The row may have been removed while waiting for the product lock.
		item, err := repos.CartItems().GetForUpdate(ctx, cmd.CartItemID)
		if err != nil {
			return err
		}
		if err := product.Release(item.Quantity); err != nil {
			return err
		}
		if err := repos.Products().Update(ctx, product); err != nil {
			return err
		}
		if err := repos.CartItems().Delete(ctx, item.ID); err != nil {
			return err
		}
		res = RemoveFromCartResult{ProductID: item.ProductID, Released: item.Quantity}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		run.Fail("CART_ITEM_NOT_FOUND")
		return nil, err
	default:
		run.Fail("REPO_REMOVE_FAILED")
		return nil, application.WrapRepositoryError(err)
	}

	run.Span().SetAttributes(attribute.Int("cart.released", res.Released))
	return &res, nil
}
