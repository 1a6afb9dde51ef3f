package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/payment"
)

type orderRepository struct{ tx pgx.Tx }

func (r orderRepository) Insert(ctx context.Context, o *order.Order) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO orders (total_amount, status, created_at)
		VALUES ($1::text::numeric, $2, $3)
		RETURNING id`,
		o.TotalAmount.StringFixed(2), string(o.Status), o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4::text::numeric)
			RETURNING id`,
			o.ID, it.ProductID, it.Quantity, it.UnitPrice.StringFixed(2),
		)
	}
	results := r.tx.SendBatch(ctx, batch)
	for i := range o.Items {
		if err := results.QueryRow().Scan(&o.Items[i].ID); err != nil {
			_ = results.Close()
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
		o.Items[i].OrderID = o.ID
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

func (r orderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	tag, err := r.tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, o.ID, string(o.Status))
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order %d: no such order", o.ID)
	}
	return nil
}

type paymentRepository struct{ tx pgx.Tx }

func (r paymentRepository) Insert(ctx context.Context, p *payment.Payment) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO payments (order_id, amount, payment_method, status, created_at)
		VALUES ($1, $2::text::numeric, $3, $4, $5)
		RETURNING id`,
		p.OrderID, p.Amount.StringFixed(2), p.Method, string(p.Status), p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}
