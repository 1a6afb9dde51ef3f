package application

import (
	"context"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/payment"
)

// Repositories are the stores visible inside one unit of work.
type Repositories interface {
	Products() catalog.Repository
	CartItems() cart.Repository
	Orders() order.Repository
	Payments() payment.Repository
	Users() identity.Repository
}

// UnitOfWork runs fn in a single transaction. Writes made through repos are
// committed when fn returns nil and discarded when it returns an error or panics.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
