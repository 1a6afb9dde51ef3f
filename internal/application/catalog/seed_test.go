package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/Zhima-Mochi/minishop-cart/internal/application/cart"
	appcatalog "github.com/Zhima-Mochi/minishop-cart/internal/application/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/application/checkout"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/memory"
)

func TestSeedReplacesCatalog(t *testing.T) {
	s := memory.NewStore(nil)
	ctx := context.Background()
	seed := appcatalog.NewSeedUseCase(s, nil)

	res, err := seed.Execute(ctx, appcatalog.SeedInput{Products: appcatalog.SampleCatalog})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Inserted)

	_, err = appcart.NewAddToCartUseCase(s, nil).Execute(ctx, appcart.AddToCartInput{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	_, err = checkout.NewPurchaseUseCase(s, nil).Execute(ctx, checkout.PurchaseInput{
		Lines:         []checkout.PurchaseLine{{ProductID: 2, Quantity: 1}},
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	require.Len(t, s.Snapshot().Orders, 1)

	_, err = seed.Execute(ctx, appcatalog.SeedInput{Products: appcatalog.SampleCatalog})
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Products, 7)
	assert.Empty(t, snap.CartItems)
	assert.Empty(t, snap.Orders, "order history references the old product ids")
	assert.Empty(t, snap.Payments)
	assert.Equal(t, int64(1), snap.Products[0].ID, "ids restart after a reseed")
	assert.Equal(t, "Car", snap.Products[0].Name)
	assert.Equal(t, 100, snap.Products[0].Stock)
	assert.True(t, decimal.RequireFromString("60.95").Equal(snap.Products[6].Price))
}

func TestSeedRejectsBadProducts(t *testing.T) {
	s := memory.NewStore(nil)
	seed := appcatalog.NewSeedUseCase(s, nil)

	_, err := seed.Execute(context.Background(), appcatalog.SeedInput{Products: []appcatalog.SeedProduct{{Name: "X", Price: "abc"}}})
	require.Error(t, err)
	_, err = seed.Execute(context.Background(), appcatalog.SeedInput{Products: []appcatalog.SeedProduct{{Name: "X", Price: "1", Stock: -1}}})
	require.ErrorIs(t, err, catalog.ErrInvalidProduct)
	assert.Empty(t, s.Snapshot().Products)
}
