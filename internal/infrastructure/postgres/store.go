package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zhima-Mochi/minishop-cart/internal/application"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-cart/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
)

// Store is the PostgreSQL unit of work. Each Do call is one READ COMMITTED
// transaction; repositories lock the rows they are about to change.
type Store struct {
	pool *pgxpool.Pool
	txs  observability.Counter
}

func NewStore(pool *pgxpool.Pool, tel observability.Observability) *Store {
	return &Store{
		pool: pool,
		txs:  observability.OrNop(tel).Metrics().Counter(observability.MStoreTransactions),
	}
}

var _ application.UnitOfWork = (*Store)(nil)

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos application.Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		outcome := "commit"
		if !committed {
			outcome = "rollback"
			// fn's error is what the caller sees; a failed rollback ends the session anyway.
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
		s.txs.Add(1, observability.L("outcome", outcome))
	}()

	if err := fn(ctx, &repos{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

type repos struct{ tx pgx.Tx }

func (r *repos) Products() catalog.Repository { return productRepository{tx: r.tx} }
func (r *repos) CartItems() cart.Repository    { return cartRepository{tx: r.tx} }
func (r *repos) Orders() order.Repository      { return orderRepository{tx: r.tx} }
func (r *repos) Payments() payment.Repository  { return paymentRepository{tx: r.tx} }
func (r *repos) Users() identity.Repository    { return userRepository{tx: r.tx} }
