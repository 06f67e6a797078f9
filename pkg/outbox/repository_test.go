package outbox

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
	"github.com/sahilmehta/cellstock-backend/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	table := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(table).Error)
	require.NoError(t, db.Exec(`DELETE FROM outbox_events`).Error)

	return db
}

// openOutboxPostgresDB gates the locking fetch test on a real Postgres
// instance; sqlite has no SKIP LOCKED.
func openOutboxPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("CELLSTOCK_DB_DSN")
	if dsn == "" {
		t.Skip("CELLSTOCK_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func newOutboxRow() models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventPurchaseReceived,
		AggregateType: enums.AggregatePurchaseOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"purchase_id":"x"}`),
		CreatedAt:     time.Now(),
	}
}

func TestInsertRequiresTransaction(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	require.Error(t, repo.Insert(nil, newOutboxRow()))
	require.NoError(t, repo.Insert(db, newOutboxRow()))

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestMarkPublishedTxStampsRow(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	row := newOutboxRow()
	require.NoError(t, repo.Insert(db, row))
	require.NoError(t, repo.MarkPublishedTx(db, row.ID))

	var found models.OutboxEvent
	require.NoError(t, db.First(&found, "id = ?", row.ID).Error)
	require.NotNil(t, found.PublishedAt)
}

func TestMarkFailedTxIncrementsAttempts(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	row := newOutboxRow()
	require.NoError(t, repo.Insert(db, row))
	require.NoError(t, repo.MarkFailedTx(db, row.ID, errors.New("topic unavailable")))
	require.NoError(t, repo.MarkFailedTx(db, row.ID, errors.New("topic unavailable")))

	var found models.OutboxEvent
	require.NoError(t, db.First(&found, "id = ?", row.ID).Error)
	require.Equal(t, 2, found.AttemptCount)
	require.Nil(t, found.PublishedAt)
	require.NotNil(t, found.LastError)
	require.Equal(t, "topic unavailable", *found.LastError)
}

func TestMarkTerminalTxPinsAttemptCount(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	row := newOutboxRow()
	require.NoError(t, repo.Insert(db, row))
	require.NoError(t, repo.MarkTerminalTx(db, row.ID, errors.New("unknown event type"), 10))

	var found models.OutboxEvent
	require.NoError(t, db.First(&found, "id = ?", row.ID).Error)
	require.Equal(t, 10, found.AttemptCount)
	require.NotNil(t, found.LastError)
}

func TestFetchUnpublishedForPublishOrdersAndFilters(t *testing.T) {
	db := openOutboxPostgresDB(t)
	repo := NewRepository(db)

	require.NoError(t, db.Exec(`DELETE FROM outbox_events`).Error)

	older := newOutboxRow()
	older.CreatedAt = time.Now().Add(-time.Minute)
	newer := newOutboxRow()
	exhausted := newOutboxRow()
	exhausted.AttemptCount = 10
	published := newOutboxRow()
	now := time.Now()
	published.PublishedAt = &now

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		for _, row := range []models.OutboxEvent{older, newer, exhausted, published} {
			if err := repo.Insert(tx, row); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		rows, err := repo.FetchUnpublishedForPublish(tx, 10, 10)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, older.ID, rows[0].ID)
		require.Equal(t, newer.ID, rows[1].ID)
		return nil
	}))
}
