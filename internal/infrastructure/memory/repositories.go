package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/payment"
)

type productRepository struct{ st *state }

func (r productRepository) List(_ context.Context) ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0, len(r.st.products))
	for _, id := range sortedKeys(r.st.products) {
		out = append(out, r.st.products[id].Clone())
	}
	return out, nil
}

func (r productRepository) GetForUpdate(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p.Clone(), nil
}

func (r productRepository) Insert(_ context.Context, p *catalog.Product) error {
	if p == nil {
		return fmt.Errorf("product repository: product is required")
	}
	if p.Stock < 0 {
		return catalog.ErrOutOfStock
	}
	p.ID = r.st.nextID("products")
	r.st.products[p.ID] = p.Clone()
	return nil
}

func (r productRepository) Update(_ context.Context, p *catalog.Product) error {
	if p == nil {
		return fmt.Errorf("product repository: product is required")
	}
	if _, ok := r.st.products[p.ID]; !ok {
		return catalog.ErrNotFound
	}
	// Mirrors the CHECK (stock_quantity >= 0) constraint.
	if p.Stock < 0 {
		return catalog.ErrOutOfStock
	}
	r.st.products[p.ID] = p.Clone()
	return nil
}

func (r productRepository) DeleteAll(_ context.Context) error {
	clear(r.st.products)
	clear(r.st.cartItems)
	clear(r.st.orders)
	clear(r.st.payments)
	for _, table := range []string{"products", "cart_items", "orders", "order_items", "payments"} {
		delete(r.st.seq, table)
	}
	return nil
}

type cartRepository struct{ st *state }

func (r cartRepository) List(_ context.Context) ([]cart.Line, error) {
	out := make([]cart.Line, 0, len(r.st.cartItems))
	for _, id := range sortedKeys(r.st.cartItems) {
		it := r.st.cartItems[id]
		p, ok := r.st.products[it.ProductID]
		if !ok {
			continue
		}
		out = append(out, cart.Line{Item: *it, Product: *p})
	}
	return out, nil
}

func (r cartRepository) Get(_ context.Context, id int64) (*cart.Item, error) {
	it, ok := r.st.cartItems[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	return cloneItem(it), nil
}

func (r cartRepository) GetForUpdate(ctx context.Context, id int64) (*cart.Item, error) {
	return r.Get(ctx, id)
}

func (r cartRepository) FindByProductForUpdate(_ context.Context, productID int64) (*cart.Item, error) {
	for _, it := range r.st.cartItems {
		if it.ProductID == productID {
			return cloneItem(it), nil
		}
	}
	return nil, cart.ErrNotFound
}

func (r cartRepository) Insert(_ context.Context, it *cart.Item) error {
	if it == nil || it.Quantity <= 0 {
		return cart.ErrInvalidQuantity
	}
	if _, ok := r.st.products[it.ProductID]; !ok {
		return catalog.ErrNotFound
	}
	for _, existing := range r.st.cartItems {
		if existing.ProductID == it.ProductID {
			return fmt.Errorf("cart repository: product %d already in cart", it.ProductID)
		}
	}
	it.ID = r.st.nextID("cart_items")
	r.st.cartItems[it.ID] = cloneItem(it)
	return nil
}

func (r cartRepository) Update(_ context.Context, it *cart.Item) error {
	if it == nil || it.Quantity <= 0 {
		return cart.ErrInvalidQuantity
	}
	if _, ok := r.st.cartItems[it.ID]; !ok {
		return cart.ErrNotFound
	}
	r.st.cartItems[it.ID] = cloneItem(it)
	return nil
}

func (r cartRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.cartItems[id]; !ok {
		return cart.ErrNotFound
	}
	delete(r.st.cartItems, id)
	return nil
}

func cloneItem(it *cart.Item) *cart.Item {
	if it == nil {
		return nil
	}
	clone := *it
	return &clone
}

type orderRepository struct{ st *state }

func (r orderRepository) Insert(_ context.Context, o *order.Order) error {
	if o == nil {
		return fmt.Errorf("order repository: order is required")
	}
	o.ID = r.st.nextID("orders")
	for i := range o.Items {
		o.Items[i].ID = r.st.nextID("order_items")
		o.Items[i].OrderID = o.ID
	}
	r.st.orders[o.ID] = o.Clone()
	return nil
}

func (r orderRepository) UpdateStatus(_ context.Context, o *order.Order) error {
	existing, ok := r.st.orders[o.ID]
	if !ok {
		return fmt.Errorf("order repository: order %d not found", o.ID)
	}
	updated := existing.Clone()
	updated.Status = o.Status
	r.st.orders[o.ID] = updated
	return nil
}

type paymentRepository struct{ st *state }

func (r paymentRepository) Insert(_ context.Context, p *payment.Payment) error {
	if p == nil {
		return fmt.Errorf("payment repository: payment is required")
	}
	if _, ok := r.st.orders[p.OrderID]; !ok {
		return fmt.Errorf("payment repository: order %d not found", p.OrderID)
	}
	for _, existing := range r.st.payments {
		if existing.OrderID == p.OrderID {
			return fmt.Errorf("payment repository: order %d already paid", p.OrderID)
		}
	}
	p.ID = r.st.nextID("payments")
	clone := *p
	r.st.payments[p.ID] = &clone
	return nil
}

type userRepository struct{ st *state }

func (r userRepository) Insert(_ context.Context, u *identity.User) error {
	if u == nil {
		return fmt.Errorf("user repository: user is required")
	}
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return identity.ErrAlreadyExists
		}
	}
	u.ID = r.st.nextID("users")
	clone := *u
	r.st.users[u.ID] = &clone
	return nil
}

func (r userRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	email = identity.NormalizeEmail(email)
	for _, u := range r.st.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, identity.ErrNotFound
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
