package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	domain "github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

const useCaseSeed = "catalog.seed"

type SeedProduct struct {
	Name        string
	Description string
	Price       string
	Stock       int
	ImageURL    string
}

// SampleCatalog is the demo catalog loaded by the seed command.
var SampleCatalog = []SeedProduct{
	{"Car", "Description for Car", "909.99", 100, "https://i.pinimg.com/474x/c0/b2/34/c0b234de7651f2e9de7c2a9578870909.jpg"},
	{"Pen", "Description for Pen", "193.99", 50, "https://www.pinterest.com/pin/746964288281587428/"},
	{"House", "Description for House", "279.99", 20, "https://i.pinimg.com/236x/23/78/bb/2378bb2b1e21fce6b3ae085cd462b121.jpg"},
	{"Laptop", "High-performance laptop", "1200.00", 30, "https://i.pinimg.com/474x/d3/eb/3e/d3eb3ee3d2d3afa4d6d2d130f0c3c21f.jpg"},
	{"Notebook", "Spiral notebook", "5.99", 150, "https://i.pinimg.com/564x/6f/0e/ef/6f0eef5a702b361c799bebcbf5e67999.jpg"},
	{"Headphones", "Noise-cancelling headphones", "199.99", 75, "https://i.pinimg.com/236x/07/7d/a6/077da67b6e52629d7092725956440be7.jpg"},
	{"Jordan 24", "the latest shoes", "60.95", 80, "https://i.pinimg.com/474x/0c/bc/c1/0cbcc1fb7dc5c1bcbb537af293fee9d8.jpg"},
}

type SeedInput struct {
	Products []SeedProduct
}

type SeedResult struct {
	Inserted int
}

type SeedUseCase struct {
	uow  application.UnitOfWork
	inst application.Instrumentation
}

func NewSeedUseCase(uow application.UnitOfWork, tel observability.Observability) *SeedUseCase {
	return &SeedUseCase{uow: uow, inst: application.NewInstrumentation(tel, catalogService)}
}

// Execute replaces the catalog. Existing products, cart rows, orders and
// payments are removed first.
func (uc *SeedUseCase) Execute(ctx context.Context, cmd SeedInput) (_ *SeedResult, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseSeed, "Seed",
		attribute.Int("catalog.product_count", len(cmd.Products)),
	)
	defer func() { run.End(ctx, err) }()

	products := make([]*domain.Product, 0, len(cmd.Products))
	for _, sp := range cmd.Products {
		price, perr := decimal.NewFromString(sp.Price)
		if perr != nil {
			run.Fail("PRICE_INVALID")
			return nil, application.NewValidation("invalid price for " + sp.Name)
		}
		p, perr := domain.New(sp.Name, sp.Description, price, sp.Stock, sp.ImageURL)
		if perr != nil {
			run.Fail("PRODUCT_INVALID")
			return nil, perr
		}
		products = append(products, p)
	}

	err = uc.uow.Do(ctx, func(ctx context.Context, repos application.Repositories) error {
		if err := repos.Products().DeleteAll(ctx); err != nil {
			return err
		}
		for _, p := range products {
			if err := repos.Products().Insert(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		run.Fail("REPO_SEED_FAILED")
		return nil, application.WrapRepositoryError(err)
	}
	return &SeedResult{Inserted: len(products)}, nil
}
