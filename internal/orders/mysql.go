package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

const (
	insertOrderSQL = `INSERT INTO orders (id, idempotency_key, session_id, items, pricing, total, currency, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectOrderSQL = `SELECT id, idempotency_key, session_id, items, pricing, placed_at FROM orders`
)

// MySQLRepository stores orders in the orders table created by database.SetupSchema.
type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Save(ctx context.Context, order *Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	snapshot, err := json.Marshal(order.Pricing)
	if err != nil {
		return fmt.Errorf("failed to encode order pricing: %w", err)
	}

	var key sql.NullString
	if order.IdempotencyKey != "" {
		key = sql.NullString{String: order.IdempotencyKey, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, insertOrderSQL,
		order.ID,
		key,
		order.SessionID,
		items,
		snapshot,
		order.Pricing.Total.StringFixed(2),
		order.Pricing.Currency,
		order.PlacedAt.UTC(),
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.ID)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *MySQLRepository) Get(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, selectOrderSQL+` WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return o, err
}

func (r *MySQLRepository) FindByIdempotencyKey(ctx context.Context, key string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, selectOrderSQL+` WHERE idempotency_key = ?`, key)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: key %s", ErrOrderNotFound, key)
	}
	return o, err
}

func (r *MySQLRepository) ListBySession(ctx context.Context, sessionID string) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrderSQL+` WHERE session_id = ? ORDER BY placed_at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*Order, error) {
	var (
		o        Order
		key      sql.NullString
		items    []byte
		snapshot []byte
	)
	if err := s.Scan(&o.ID, &key, &o.SessionID, &items, &snapshot, &o.PlacedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	o.IdempotencyKey = key.String

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order %s items: %w", o.ID, err)
	}
	if err := json.Unmarshal(snapshot, &o.Pricing); err != nil {
		return nil, fmt.Errorf("failed to decode order %s pricing: %w", o.ID, err)
	}
	return &o, nil
}

var _ Repository = (*MySQLRepository)(nil)
