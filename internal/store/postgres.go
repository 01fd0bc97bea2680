package store

import (
	"context"

	"github.com/go-faster/errors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/db"
	"github.com/xenking/storefront/internal/cart"
)

const (
	loadLinesSQL = `SELECT product_id, title, price, stock_ceiling, quantity
		FROM cart_lines WHERE session_key = $1 ORDER BY position`

	deleteLinesSQL = `DELETE FROM cart_lines WHERE session_key = $1`

	insertLineSQL = `INSERT INTO cart_lines
		(session_key, product_id, title, price, stock_ceiling, quantity, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

// NewPool creates a pgxpool.Pool configured with shopspring/decimal support
// for NUMERIC columns.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}
	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// PostgresStore persists cart snapshots as rows keyed by session key. Each
// Save replaces the whole snapshot in one transaction, matching the
// serialize-as-a-whole contract of the file backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore returns a PostgresStore using the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Load reads the snapshot rows for key in insertion order. No rows yields an
// empty cart; rows violating cart invariants yield ErrCorrupt.
func (s *PostgresStore) Load(ctx context.Context, key string) (cart.Cart, error) {
	rows, err := s.pool.Query(ctx, loadLinesSQL, key)
	if err != nil {
		return cart.Cart{}, errors.Wrap(err, "load snapshot")
	}

	lines, err := pgx.CollectRows(rows, scanLine)
	if err != nil {
		return cart.Cart{}, errors.Wrap(err, "scan snapshot")
	}

	c := cart.Cart{Lines: lines}
	if err := validateCart(c); err != nil {
		return cart.Cart{}, errors.Wrap(ErrCorrupt, err.Error())
	}
	return c, nil
}

// Save replaces the snapshot for key with the given cart.
func (s *PostgresStore) Save(ctx context.Context, key string, c cart.Cart) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin snapshot tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, deleteLinesSQL, key); err != nil {
		return errors.Wrap(err, "clear snapshot")
	}

	for i, line := range c.Lines {
		_, err := tx.Exec(ctx, insertLineSQL,
			key, line.ProductID, line.Title, line.Price, line.StockCeiling, line.Quantity, i,
		)
		if err != nil {
			return errors.Wrapf(err, "insert line %d", line.ProductID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit snapshot")
	}
	return nil
}

func scanLine(row pgx.CollectableRow) (cart.Line, error) {
	var (
		line  cart.Line
		price decimal.Decimal
	)
	err := row.Scan(&line.ProductID, &line.Title, &price, &line.StockCeiling, &line.Quantity)
	line.Price = price
	return line, err
}
