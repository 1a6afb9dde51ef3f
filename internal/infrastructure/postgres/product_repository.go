package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
)

// Prices travel as text so no numeric codec beyond the driver's is needed.
const productColumns = `p.id, p.name, p.description, p.price::text, p.stock_quantity, COALESCE(p.image_url, '')`

type productRepository struct{ tx pgx.Tx }

func scanProduct(row pgx.Row, dst *catalog.Product) error {
	var price string
	if err := row.Scan(&dst.ID, &dst.Name, &dst.Description, &price, &dst.Stock, &dst.ImageURL); err != nil {
		return err
	}
	d, err := parsePrice(price)
	if err != nil {
		return fmt.Errorf("product %d: %w", dst.ID, err)
	}
	dst.Price = d
	return nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: %w", s, err)
	}
	return d, nil
}

func (r productRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+productColumns+` FROM products p ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r productRepository) GetForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	var p catalog.Product
	err := scanProduct(r.tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

func (r productRepository) Insert(ctx context.Context, p *catalog.Product) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO products (name, description, price, stock_quantity, image_url)
		VALUES ($1, $2, $3::text::numeric, $4, NULLIF($5, ''))
		RETURNING id`,
		p.Name, p.Description, p.Price.StringFixed(2), p.Stock, p.ImageURL,
	).Scan(&p.ID)
	if err != nil {
		return mapProductError(fmt.Errorf("insert product: %w", err))
	}
	return nil
}

func (r productRepository) Update(ctx context.Context, p *catalog.Product) error {
	tag, err := r.tx.Exec(ctx, `UPDATE products SET stock_quantity = $2 WHERE id = $1`, p.ID, p.Stock)
	if err != nil {
		return mapProductError(fmt.Errorf("update product %d: %w", p.ID, err))
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r productRepository) DeleteAll(ctx context.Context) error {
	_, err := r.tx.Exec(ctx, `TRUNCATE payments, order_items, orders, cart_items, products RESTART IDENTITY`)
	if err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	return nil
}

func mapProductError(err error) error {
	if pgCode(err) == codeCheckViolation {
		return fmt.Errorf("%w: %w", catalog.ErrOutOfStock, err)
	}
	return err
}
