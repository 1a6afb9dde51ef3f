package payment

import "context"

type Repository interface {
	Insert(ctx context.Context, payment *Payment) error
}
