package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	appcatalog "github.com/Zhima-Mochi/minishop-cart/internal/application/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/memory"
)

func TestListProductsOrderedByID(t *testing.T) {
	s := memory.NewStore(nil)
	require.NoError(t, s.Do(context.Background(), func(ctx context.Context, repos application.Repositories) error {
		for _, name := range []string{"Car", "Pen", "House"} {
			p, err := catalog.New(name, "", decimal.NewFromInt(1), 1, "")
			if err != nil {
				return err
			}
			if err := repos.Products().Insert(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}))

	res, err := appcatalog.NewListProductsUseCase(s, nil).Execute(context.Background(), appcatalog.ListProductsQuery{})
	require.NoError(t, err)
	require.Len(t, res.Products, 3)
	assert.Equal(t, "Car", res.Products[0].Name)
	assert.Equal(t, "House", res.Products[2].Name)
}

type brokenStore struct{}

func (brokenStore) Do(context.Context, func(context.Context, application.Repositories) error) error {
	return errors.New("connection refused")
}

func TestListProductsStoreFault(t *testing.T) {
	_, err := appcatalog.NewListProductsUseCase(brokenStore{}, nil).Execute(context.Background(), appcatalog.ListProductsQuery{})
	require.ErrorIs(t, err, application.ErrRepository)
}
