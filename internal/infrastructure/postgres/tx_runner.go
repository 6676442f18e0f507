package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

var tracer = otel.Tracer("estoque-api/postgres")

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxOptions parámetros de cada transacción de flujo.
type TxOptions struct {
	IsolationLevel   pgx.TxIsoLevel
	StatementTimeout time.Duration // 0 = sin SET LOCAL
	MaxRetries       int           // reintentos ante 40001/40P01
}

// DefaultTxOptions serializable, 5s por sentencia y 3 reintentos.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel:   pgx.Serializable,
		StatementTimeout: 5 * time.Second,
		MaxRetries:       3,
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
	log  *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions, log *logger.Logger) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, opts: opts, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Un conflicto de serialización repite fn entera con una transacción nueva.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	var err error
	for attempt := 1; attempt <= r.opts.MaxRetries+1; attempt++ {
		err = r.runOnce(ctx, attempt, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt).Msg("conflicto de serialización, reintentando")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
	}
	return fmt.Errorf("transacción abortada tras %d intentos: %w", r.opts.MaxRetries+1, err)
}

func (r *TxRunner) runOnce(ctx context.Context, attempt int, fn func(ctx context.Context, repos inventory.Repos) error) (err error) {
	ctx, span := tracer.Start(ctx, "tx",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(r.opts.IsolationLevel)),
			attribute.Int("tx.attempt", attempt),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.opts.IsolationLevel, AccessMode: pgx.ReadWrite})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback con contexto propio: debe completarse aunque ctx esté cancelado.
	defer func() {
		if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.log.Error().Err(rbErr).Msg("rollback")
		}
	}()

	if r.opts.StatementTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", r.opts.StatementTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	repos := inventory.Repos{
		Materials:   NewMaterialRepository(tx),
		Movements:   NewMovementRepository(tx),
		Orders:      NewPurchaseOrderRepository(tx),
		Services:    NewServiceRepository(tx),
		Consumption: NewConsumptionRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
