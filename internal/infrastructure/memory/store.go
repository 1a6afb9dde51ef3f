// Package memory is a transactional in-memory store. Each unit of work runs
// on a private copy of the data which replaces the live state only on commit.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

type state struct {
	products  map[int64]*catalog.Product
	cartItems map[int64]*cart.Item
	orders    map[int64]*order.Order
	payments  map[int64]*payment.Payment
	users     map[int64]*identity.User
	seq       map[string]int64
}

func newState() *state {
	return &state{
		products:  make(map[int64]*catalog.Product),
		cartItems: make(map[int64]*cart.Item),
		orders:    make(map[int64]*order.Order),
		payments:  make(map[int64]*payment.Payment),
		users:     make(map[int64]*identity.User),
		seq:       make(map[string]int64),
	}
}

// clone copies the maps. Values are never mutated in place, only replaced,
// so sharing them between copies is safe.
func (s *state) clone() *state {
	return &state{
		products:  maps.Clone(s.products),
		cartItems: maps.Clone(s.cartItems),
		orders:    maps.Clone(s.orders),
		payments:  maps.Clone(s.payments),
		users:     maps.Clone(s.users),
		seq:       maps.Clone(s.seq),
	}
}

func (s *state) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

type Store struct {
	mu    sync.Mutex
	state *state
	txs   observability.Counter
}

func NewStore(tel observability.Observability) *Store {
	return &Store{
		state: newState(),
		txs:   observability.OrNop(tel).Metrics().Counter(observability.MStoreTransactions),
	}
}

var _ application.UnitOfWork = (*Store)(nil)

// Do serialises units of work. fn sees its own writes; other units of work
// see them only after fn returns nil.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos application.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	committed := false
	defer func() {
		outcome := "rollback"
		if committed {
			outcome = "commit"
		}
		s.txs.Add(1, observability.L("outcome", outcome))
	}()

	if err := fn(ctx, &repos{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory: commit: %w", err)
	}
	s.state = work
	committed = true
	return nil
}

type repos struct{ st *state }

func (r *repos) Products() catalog.Repository { return productRepository{st: r.st} }
func (r *repos) CartItems() cart.Repository    { return cartRepository{st: r.st} }
func (r *repos) Orders() order.Repository      { return orderRepository{st: r.st} }
func (r *repos) Payments() payment.Repository  { return paymentRepository{st: r.st} }
func (r *repos) Users() identity.Repository    { return userRepository{st: r.st} }
