package orders

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/catalog"
	"github.com/matthieukhl/naturemagic/internal/pricing"
)

func testOrder(id, key string) *Order {
	items := []cart.Item{{
		Product:  catalog.Product{ID: "dog-grain-salmon", Name: "Salmon"},
		Variant:  catalog.Variant{ID: "175g", Price: decimal.NewFromInt(32)},
		Quantity: 2,
	}}
	return &Order{
		ID:             id,
		IdempotencyKey: key,
		SessionID:      "s1",
		Items:          items,
		Pricing:        pricing.Compute(pricing.DefaultPolicy(), items),
		PlacedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRepository_SaveAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testOrder("NM-100001", "k1")))

	got, err := repo.Get(ctx, "NM-100001")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)

	byKey, err := repo.FindByIdempotencyKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "NM-100001", byKey.ID)

	_, err = repo.Get(ctx, "NM-999999")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}

func TestMemoryRepository_RejectsDuplicates(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testOrder("NM-100001", "k1")))
	assert.True(t, errors.Is(repo.Save(ctx, testOrder("NM-100001", "k2")), ErrDuplicateOrder))
	assert.True(t, errors.Is(repo.Save(ctx, testOrder("NM-100002", "k1")), ErrDuplicateOrder))

	list, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMySQLRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLRepository(db)
	order := testOrder("NM-123456", "k1")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs("NM-123456", "k1", "s1", sqlmock.AnyArg(), sqlmock.AnyArg(), "66.20", "HKD", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepository_SaveDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'k1' for key 'uk_idempotency_key'"})

	err = repo.Save(context.Background(), testOrder("NM-123456", "k1"))
	assert.True(t, errors.Is(err, ErrDuplicateOrder))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepository_FindByIdempotencyKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLRepository(db)
	order := testOrder("NM-123456", "k1")
	items, err := json.Marshal(order.Items)
	require.NoError(t, err)
	snapshot, err := json.Marshal(order.Pricing)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "idempotency_key", "session_id", "items", "pricing", "placed_at"}).
		AddRow(order.ID, "k1", "s1", items, snapshot, order.PlacedAt)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE idempotency_key = ?")).
		WithArgs("k1").
		WillReturnRows(rows)

	got, err := repo.FindByIdempotencyKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "NM-123456", got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Pricing.Total.Equal(order.Pricing.Total))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepository_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).
		WithArgs("NM-000000").
		WillReturnRows(sqlmock.NewRows([]string{"id", "idempotency_key", "session_id", "items", "pricing", "placed_at"}))

	_, err = repo.Get(context.Background(), "NM-000000")
	assert.True(t, errors.Is(err, ErrOrderNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
