package cli

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	appcart "github.com/Zhima-Mochi/minishop-cart/internal/application/cart"
	appcatalog "github.com/Zhima-Mochi/minishop-cart/internal/application/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/application/checkout"
	appidentity "github.com/Zhima-Mochi/minishop-cart/internal/application/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/postgres"
	"github.com/Zhima-Mochi/minishop-cart/internal/infrastructure/security"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/pkg/config"
	"github.com/Zhima-Mochi/minishop-cart/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/minishop-cart/internal/presentation/http"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg      config.Config
	base     *zap.Logger
	log      observability.Logger
	registry *prometheus.Registry
	tel      observability.Observability

	pool *pgxpool.Pool
	uow  application.UnitOfWork
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	base, err := logging.NewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(base)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	logger := zaplogger.New(base)
	a := &app{
		cfg:      cfg,
		base:     base,
		log:      zaplogger.New(logging.WithTrace(base, logging.SystemTraceID, logging.SystemSpanID)),
		registry: reg,
		tel:      infraobs.New(oteltrace.New(cfg.ServiceName), logger, prometrics.New(reg, "")),
	}

	switch cfg.Store {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
		if err != nil {
			_ = base.Sync()
			return nil, err
		}
		a.pool = pool
		a.uow = postgres.NewStore(pool, a.tel)
	default:
		a.uow = memory.NewStore(a.tel)
	}
	a.log.Info("store_ready", observability.F("store", cfg.Store))
	return a, nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.base.Sync()
}

// requirePool fails for commands that only make sense against PostgreSQL.
func (a *app) requirePool(command string) (*pgxpool.Pool, error) {
	if a.pool == nil {
		return nil, fmt.Errorf("%s requires the postgres store (set DATABASE_URL or --database-url)", command)
	}
	return a.pool, nil
}

func (a *app) useCases() (httppresentation.UseCases, error) {
	secret := []byte(a.cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return httppresentation.UseCases{}, err
		}
		a.log.Warn("jwt_secret_generated", observability.F("reason", "JWT_SECRET is not set; tokens do not survive a restart"))
	}
	tokens, err := security.NewJWT(secret, a.cfg.ServiceName, a.cfg.JWTAccessTTL)
	if err != nil {
		return httppresentation.UseCases{}, err
	}
	hasher := security.NewBcryptHasher(a.cfg.BcryptCost)

	return httppresentation.UseCases{
		ListProducts:   appcatalog.NewListProductsUseCase(a.uow, a.tel),
		ListCart:       appcart.NewListCartUseCase(a.uow, a.tel),
		AddToCart:      appcart.NewAddToCartUseCase(a.uow, a.tel),
		RemoveFromCart: appcart.NewRemoveFromCartUseCase(a.uow, a.tel),
		Purchase:       checkout.NewPurchaseUseCase(a.uow, a.tel),
		Register:       appidentity.NewRegisterUseCase(a.uow, hasher, a.tel),
		Login:          appidentity.NewLoginUseCase(a.uow, hasher, tokens, a.tel),
		Authenticate:   appidentity.NewAuthenticateUseCase(tokens, a.tel),
	}, nil
}

// seed replaces the catalog with the sample products.
func (a *app) seed(ctx context.Context) error {
	res, err := appcatalog.NewSeedUseCase(a.uow, a.tel).Execute(ctx, appcatalog.SeedInput{
		Products: appcatalog.SampleCatalog,
	})
	if err != nil {
		return err
	}
	a.log.Info("catalog_seeded", observability.F("products", res.Inserted), observability.F("store", a.cfg.Store))
	return nil
}
