package cart

import "context"

type Repository interface {
	// List returns every cart row with its product, ordered by cart item id.
	List(ctx context.Context) ([]Line, error)
	Get(ctx context.Context, id int64) (*Item, error)
	// GetForUpdate locks the row. Lock the row's product first; products are
	// always locked before cart rows.
	GetForUpdate(ctx context.Context, id int64) (*Item, error)
	FindByProductForUpdate(ctx context.Context, productID int64) (*Item, error)
	Insert(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
}
