package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalibre/conteo-api/internal/application/counting"
	"github.com/contalibre/conteo-api/internal/application/stock"
	"github.com/contalibre/conteo-api/internal/domain/repository"
)

// Ensure TxRunner implements counting.TxRunner and stock.TxRunner.
var _ counting.TxRunner = (*TxRunner)(nil)
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con los
// repositorios atados a la transacción.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSnapshot abre una transacción REPEATABLE READ para el snapshot de
// apertura de conteo: la suma de deltas y la inserción de todas las
// posiciones ven el mismo punto del libro.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	movementRepo repository.StockMovementRepository,
	sessionRepo repository.CountSessionRepository,
	positionRepo repository.CountPositionRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewItemRepository(tx),
		NewLocationRepository(tx),
		NewStockMovementRepository(tx),
		NewCountSessionRepository(tx),
		NewCountPositionRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCompletion abre la transacción del cierre de conteo: correcciones y
// transición de estado se confirman o revierten juntas.
func (r *TxRunner) RunCompletion(ctx context.Context, fn func(
	movementRepo repository.StockMovementRepository,
	sessionRepo repository.CountSessionRepository,
	positionRepo repository.CountPositionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewStockMovementRepository(tx),
		NewCountSessionRepository(tx),
		NewCountPositionRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run abre una transacción simple con el repositorio de movimientos
// (traslados entre ubicaciones: dos appends todo-o-nada).
func (r *TxRunner) Run(ctx context.Context, fn func(movementRepo repository.StockMovementRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
