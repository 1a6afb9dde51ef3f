package memory

import (
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/payment"
)

// Snapshot is a copy of the committed state, ordered by id.
type Snapshot struct {
	Products  []catalog.Product
	CartItems []cart.Item
	Orders    []order.Order
	Payments  []payment.Payment
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	for _, id := range sortedKeys(s.state.products) {
		snap.Products = append(snap.Products, *s.state.products[id])
	}
	for _, id := range sortedKeys(s.state.cartItems) {
		snap.CartItems = append(snap.CartItems, *s.state.cartItems[id])
	}
	for _, id := range sortedKeys(s.state.orders) {
		snap.Orders = append(snap.Orders, *s.state.orders[id].Clone())
	}
	for _, id := range sortedKeys(s.state.payments) {
		snap.Payments = append(snap.Payments, *s.state.payments[id])
	}
	return snap
}

// Product returns the committed product with the given id.
func (snap Snapshot) Product(id int64) (catalog.Product, bool) {
	for _, p := range snap.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}
