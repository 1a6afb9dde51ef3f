package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
)

func TestItemAddAndTake(t *testing.T) {
	_, err := cart.NewItem(1, 0)
	require.ErrorIs(t, err, cart.ErrInvalidQuantity)

	it, err := cart.NewItem(1, 2)
	require.NoError(t, err)
	require.NoError(t, it.Add(3))
	assert.Equal(t, 5, it.Quantity)
	require.ErrorIs(t, it.Add(0), cart.ErrInvalidQuantity)

	assert.Equal(t, 4, it.Take(4))
	assert.Equal(t, 1, it.Quantity)
	assert.Equal(t, 1, it.Take(10))
	assert.True(t, it.Empty())
	assert.Zero(t, it.Take(1))
}
