package catalog

import "context"

type Repository interface {
	// List returns every product ordered by id.
	List(ctx context.Context) ([]*Product, error)
	// GetForUpdate loads a product and holds it exclusively until the unit of work ends.
	GetForUpdate(ctx context.Context, id int64) (*Product, error)
	Insert(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	// DeleteAll removes every product along with the cart rows, orders and
	// payments that reference it.
	DeleteAll(ctx context.Context) error
}
