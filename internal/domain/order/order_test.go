package order_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
)

func TestNewComputesTotal(t *testing.T) {
	o, err := order.New([]order.Item{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("909.99")},
		{ProductID: 2, Quantity: 3, UnitPrice: decimal.RequireFromString("5.99")},
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.True(t, decimal.RequireFromString("1837.95").Equal(o.TotalAmount), o.TotalAmount.String())
}

func TestNewRejectsInvalidItems(t *testing.T) {
	_, err := order.New(nil)
	require.ErrorIs(t, err, order.ErrEmpty)

	_, err = order.New([]order.Item{{ProductID: 1, Quantity: 0, UnitPrice: decimal.NewFromInt(1)}})
	require.ErrorIs(t, err, order.ErrInvalidQuantity)

	_, err = order.New([]order.Item{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}})
	require.ErrorIs(t, err, order.ErrInvalidPrice)
}

func TestMarkCompleted(t *testing.T) {
	o, err := order.New([]order.Item{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}})
	require.NoError(t, err)

	require.NoError(t, o.MarkCompleted())
	assert.Equal(t, order.StatusCompleted, o.Status)
	require.ErrorIs(t, o.MarkCompleted(), order.ErrInvalidStateTransition)
}
