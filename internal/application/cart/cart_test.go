package cart_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	appcart "github.com/Zhima-Mochi/minishop-cart/internal/application/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/memory"
)

type fixture struct {
	store  *memory.Store
	list   *appcart.ListCartUseCase
	add    *appcart.AddToCartUseCase
	remove *appcart.RemoveFromCartUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore(nil)
	return &fixture{
		store:  s,
		list:   appcart.NewListCartUseCase(s, nil),
		add:    appcart.NewAddToCartUseCase(s, nil),
		remove: appcart.NewRemoveFromCartUseCase(s, nil),
	}
}

func (f *fixture) product(t *testing.T, name string, stock int) int64 {
	t.Helper()
	var id int64
	require.NoError(t, f.store.Do(context.Background(), func(ctx context.Context, repos application.Repositories) error {
		p, err := catalog.New(name, "", decimal.RequireFromString("9.99"), stock, "")
		if err != nil {
			return err
		}
		if err := repos.Products().Insert(ctx, p); err != nil {
			return err
		}
		id = p.ID
		return nil
	}))
	return id
}

func (f *fixture) stock(t *testing.T, id int64) int {
	t.Helper()
	p, ok := f.store.Snapshot().Product(id)
	require.True(t, ok)
	return p.Stock
}

func TestAddReservesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Pen", 5)

	res, err := f.add.Execute(ctx, appcart.AddToCartInput{ProductID: id, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Quantity)
	assert.Equal(t, 2, res.StockLeft)
	assert.Equal(t, 2, f.stock(t, id))

	_, err = f.add.Execute(ctx, appcart.AddToCartInput{ProductID: id, Quantity: 3})
	require.ErrorIs(t, err, catalog.ErrOutOfStock)
	assert.Equal(t, 2, f.stock(t, id))

	items := f.store.Snapshot().CartItems
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddMergesIntoExistingRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Pen", 10)

	first, err := f.add.Execute(ctx, appcart.AddToCartInput{ProductID: id, Quantity: 1})
	require.NoError(t, err)
	second, err := f.add.Execute(ctx, appcart.AddToCartInput{ProductID: id, Quantity: 4})
	require.NoError(t, err)

	assert.Equal(t, first.CartItemID, second.CartItemID)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, 5, f.stock(t, id))

	res, err := f.list.Execute(ctx, appcart.ListCartQuery{})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "Pen", res.Lines[0].Product.Name)
	assert.Equal(t, 5, res.Lines[0].Item.Quantity)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Pen", 5)

	_, err := f.add.Execute(ctx, appcart.AddToCartInput{ProductID: id, Quantity: 0})
	require.ErrorIs(t, err, application.ErrValidation)
	_, err = f.add.Execute(ctx, appcart.AddToCartInput{ProductID: 0, Quantity: 1})
	require.ErrorIs(t, err, application.ErrValidation)
	_, err = f.add.Execute(ctx, appcart.AddToCartInput{ProductID: 999, Quantity: 1})
	require.ErrorIs(t, err, catalog.ErrNotFound)

	assert.Equal(t, 5, f.stock(t, id))
	assert.Empty(t, f.store.Snapshot().CartItems)
}

func TestAddThenRemoveRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Pen", 7)

	added, err := f.add.Execute(ctx, appcart.AddToCartInput{ProductID: id, Quantity: 4})
	require.NoError(t, err)

	removed, err := f.remove.Execute(ctx, appcart.RemoveFromCartInput{CartItemID: added.CartItemID})
	require.NoError(t, err)
	assert.Equal(t, 4, removed.Released)
	assert.Equal(t, 7, f.stock(t, id))
	assert.Empty(t, f.store.Snapshot().CartItems)
}

func TestRemoveMissingItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Pen", 7)

	before := f.store.Snapshot()
	_, err := f.remove.Execute(ctx, appcart.RemoveFromCartInput{CartItemID: 42})
	require.ErrorIs(t, err, cart.ErrNotFound)
	_, err = f.remove.Execute(ctx, appcart.RemoveFromCartInput{CartItemID: -1})
	require.ErrorIs(t, err, cart.ErrNotFound)
	assert.Equal(t, before, f.store.Snapshot())
	assert.Equal(t, 7, f.stock(t, id))
}

func TestConcurrentAddsNeverOversell(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Pen", 10)

	const N = 50
	var ok atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	for range N {
		g.Go(func() error {
			_, err := f.add.Execute(ctx, appcart.AddToCartInput{ProductID: id, Quantity: 1})
			switch {
			case err == nil:
				ok.Add(1)
				return nil
			case errors.Is(err, catalog.ErrOutOfStock):
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(10), ok.Load())
	assert.Zero(t, f.stock(t, id))
	items := f.store.Snapshot().CartItems
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
}
