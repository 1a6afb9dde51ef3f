package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
)

func TestNewValidates(t *testing.T) {
	_, err := catalog.New(" ", "", decimal.NewFromInt(1), 1, "")
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = catalog.New("Pen", "", decimal.NewFromInt(-1), 1, "")
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	_, err = catalog.New("Pen", "", decimal.NewFromInt(1), -1, "")
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)

	p, err := catalog.New(" Pen ", "blue", decimal.RequireFromString("193.999"), 50, "")
	require.NoError(t, err)
	assert.Equal(t, "Pen", p.Name)
	assert.Equal(t, "194", p.Price.String())
}

func TestReserveAndRelease(t *testing.T) {
	p := &catalog.Product{Stock: 5}

	require.NoError(t, p.Reserve(3))
	assert.Equal(t, 2, p.Stock)

	require.ErrorIs(t, p.Reserve(3), catalog.ErrOutOfStock)
	assert.Equal(t, 2, p.Stock, "failed reserve must not touch stock")

	require.ErrorIs(t, p.Reserve(0), catalog.ErrInvalidQuantity)
	require.ErrorIs(t, p.Release(-1), catalog.ErrInvalidQuantity)

	require.NoError(t, p.Release(3))
	assert.Equal(t, 5, p.Stock)
}

func TestReserveExactStock(t *testing.T) {
	p := &catalog.Product{Stock: 2}
	require.NoError(t, p.Reserve(2))
	assert.Zero(t, p.Stock)
	require.ErrorIs(t, p.Reserve(1), catalog.ErrOutOfStock)
}
