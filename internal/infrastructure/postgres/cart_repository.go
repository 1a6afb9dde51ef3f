package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
)

type cartRepository struct{ tx pgx.Tx }

func (r cartRepository) List(ctx context.Context) ([]cart.Line, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT c.id, c.product_id, c.quantity, `+productColumns+`
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	var out []cart.Line
	for rows.Next() {
		var (
			line  cart.Line
			price string
		)
		p := &line.Product
		if err := rows.Scan(&line.Item.ID, &line.Item.ProductID, &line.Item.Quantity,
			&p.ID, &p.Name, &p.Description, &price, &p.Stock, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("list cart: %w", err)
		}
		if p.Price, err = parsePrice(price); err != nil {
			return nil, fmt.Errorf("list cart: product %d: %w", p.ID, err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (r cartRepository) get(ctx context.Context, query string, arg int64) (*cart.Item, error) {
	var it cart.Item
	err := r.tx.QueryRow(ctx, query, arg).Scan(&it.ID, &it.ProductID, &it.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return &it, nil
}

func (r cartRepository) Get(ctx context.Context, id int64) (*cart.Item, error) {
	return r.get(ctx, `SELECT id, product_id, quantity FROM cart_items WHERE id = $1`, id)
}

func (r cartRepository) GetForUpdate(ctx context.Context, id int64) (*cart.Item, error) {
	return r.get(ctx, `SELECT id, product_id, quantity FROM cart_items WHERE id = $1 FOR UPDATE`, id)
}

func (r cartRepository) FindByProductForUpdate(ctx context.Context, productID int64) (*cart.Item, error) {
	return r.get(ctx, `SELECT id, product_id, quantity FROM cart_items WHERE product_id = $1 FOR UPDATE`, productID)
}

func (r cartRepository) Insert(ctx context.Context, it *cart.Item) error {
	err := r.tx.QueryRow(ctx,
		`INSERT INTO cart_items (product_id, quantity) VALUES ($1, $2) RETURNING id`,
		it.ProductID, it.Quantity,
	).Scan(&it.ID)
	if err != nil {
		if pgCode(err) == codeFKViolation {
			return fmt.Errorf("%w: %w", catalog.ErrNotFound, err)
		}
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

func (r cartRepository) Update(ctx context.Context, it *cart.Item) error {
	tag, err := r.tx.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, it.ID, it.Quantity)
	if err != nil {
		return fmt.Errorf("update cart item %d: %w", it.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

func (r cartRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}
