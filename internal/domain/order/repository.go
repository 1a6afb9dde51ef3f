package order

import "context"

type Repository interface {
	// Insert stores the order with its items and assigns their ids.
	Insert(ctx context.Context, order *Order) error
	UpdateStatus(ctx context.Context, order *Order) error
}
