// Package checkout turns a list of lines into a completed, paid order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

const (
	checkoutService = "checkout-service"
	useCasePurchase = "checkout.purchase"

	// MaxPaymentMethodLength is the payments.payment_method column width.
	MaxPaymentMethodLength = 50
)

type PurchaseLine struct {
	ProductID int64
	Quantity  int
}

type PurchaseInput struct {
	Lines         []PurchaseLine
	PaymentMethod string
}

type PurchaseResult struct {
	OrderID     int64
	PaymentID   int64
	TotalAmount decimal.Decimal
	Status      order.Status
	Items       []order.Item
}

type PurchaseUseCase struct {
	uow  application.UnitOfWork
	inst application.Instrumentation
}

func NewPurchaseUseCase(uow application.UnitOfWork, tel observability.Observability) *PurchaseUseCase {
	return &PurchaseUseCase{uow: uow, inst: application.NewInstrumentation(tel, checkoutService)}
}

// Execute prices every line from the catalog, takes the units out of the
// cart reservation first and out of free stock for the rest, then records the
// order, its items and its payment. Nothing is written unless all of it succeeds.
func (uc *PurchaseUseCase) Execute(ctx context.Context, cmd PurchaseInput) (_ *PurchaseResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCasePurchase, "Purchase",
		attribute.Int("checkout.line_count", len(cmd.Lines)),
	)
	defer func() { run.End(ctx, err) }()

	if len(cmd.Lines) == 0 {
		run.Fail("CART_EMPTY")
		return nil, order.ErrEmpty
	}

	quantities := make(map[int64]int, len(cmd.Lines))
	for _, l := range cmd.Lines {
		if l.ProductID <= 0 {
			run.Fail("PRODUCT_ID_INVALID")
			return nil, application.NewValidation("product_id must be a positive integer")
		}
		if l.Quantity <= 0 {
			run.Fail("QUANTITY_INVALID")
			return nil, application.NewValidation("quantity must be greater than zero")
		}
		// Checked before adding so merged lines cannot overflow.
		if l.Quantity > catalog.MaxQuantity-quantities[l.ProductID] {
			run.Fail("QUANTITY_TOO_LARGE")
			return nil, application.NewValidation(fmt.Sprintf("quantity must be at most %d per product", catalog.MaxQuantity))
		}
		quantities[l.ProductID] += l.Quantity
	}
	if utf8.RuneCountInString(strings.TrimSpace(cmd.PaymentMethod)) > MaxPaymentMethodLength {
		run.Fail("PAYMENT_METHOD_TOO_LONG")
		return nil, application.NewValidation(fmt.Sprintf("payment_method must be at most %d characters", MaxPaymentMethodLength))
	}
	productIDs := make([]int64, 0, len(quantities))
	for id := range quantities {
		productIDs = append(productIDs, id)
	}
	// Locks are taken in ascending product id so concurrent purchases cannot deadlock.
	slices.Sort(productIDs)

	var res PurchaseResult
	err = uc.uow.Do(ctx, func(ctx context.Context, repos application.Repositories) error {
		items := make([]order.Item, 0, len(productIDs))
		for _, id := range productIDs {
			qty := quantities[id]
			product, err := repos.Products().GetForUpdate(ctx, id)
			if err != nil {
				return err
			}

			fromCart := 0
			row, err := repos.CartItems().FindByProductForUpdate(ctx, id)
			switch {
			case err == nil:
				fromCart = row.Take(qty)
				if row.Empty() {
					err = repos.CartItems().Delete(ctx, row.ID)
				} else {
					err = repos.CartItems().Update(ctx, row)
				}
				if err != nil {
					return err
				}
			case errors.Is(err, cart.ErrNotFound):
			default:
				return err
			}

			if shortfall := qty - fromCart; shortfall > 0 {
				if err := product.Reserve(shortfall); err != nil {
					return err
				}
				if err := repos.Products().Update(ctx, product); err != nil {
					return err
				}
			}

			items = append(items, order.Item{
				ProductID: id,
				Quantity:  qty,
				UnitPrice: product.Price,
			})
			run.Span().AddEvent("checkout.line_reserved", trace.WithAttributes(
				attribute.Int64("catalog.product_id", id),
				attribute.Int("checkout.from_cart", fromCart),
				attribute.Int("checkout.from_stock", qty-fromCart),
			))
		}

		ord, err := order.New(items)
		if err != nil {
			return err
		}
		if err := repos.Orders().Insert(ctx, ord); err != nil {
			return err
		}

		pay, err := payment.New(ord.ID, ord.TotalAmount, cmd.PaymentMethod)
		if err != nil {
			return err
		}
		if err := repos.Payments().Insert(ctx, pay); err != nil {
			return err
		}

		if err := ord.MarkCompleted(); err != nil {
			return err
		}
		if err := repos.Orders().UpdateStatus(ctx, ord); err != nil {
			return err
		}

		res = PurchaseResult{
			OrderID:     ord.ID,
			PaymentID:   pay.ID,
			TotalAmount: ord.TotalAmount,
			Status:      ord.Status,
			Items:       ord.Items,
		}
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
	case errors.Is(err, order.ErrInvalidQuantity), errors.Is(err, order.ErrInvalidPrice):
		run.Fail("ORDER_INVALID")
		return nil, application.NewValidation(err.Error())
	default:
		run.Fail("REPO_PURCHASE_FAILED")
		return nil, application.WrapRepositoryError(err)
	}

	run.Span().SetAttributes(
		attribute.Int64("order.id", res.OrderID),
		attribute.String("order.status", string(res.Status)),
		attribute.String("order.total_amount", res.TotalAmount.StringFixed(2)),
	)
	run.With(observability.F("order_id", res.OrderID))
	return &res, nil
}
