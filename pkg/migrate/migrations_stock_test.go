package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sahilmehta/cellstock-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMobileStockMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_mobile_stock_records.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS mobile_stock_records",
		"FOREIGN KEY (dealer_id) REFERENCES dealers(id) ON DELETE RESTRICT",
		"CHECK (total_quantity >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_mobile_stock_imei1 ON mobile_stock_records (imei1) WHERE imei1 IS NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_mobile_stock_imei2 ON mobile_stock_records (imei2) WHERE imei2 IS NOT NULL",
		"DROP TABLE IF EXISTS mobile_stock_records",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAccessoryStockMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_accessory_stock_records.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS accessory_stock_records",
		"CONSTRAINT ux_accessory_stock_dealer_base UNIQUE (dealer_id, base_code)",
		"CHECK (quantity >= 0)",
		"DROP TABLE IF EXISTS accessory_stock_records",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSequenceCountersMigrationShape(t *testing.T) {
	content := readMigration(t, "*_create_sequence_counters.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS sequence_counters",
		"counter_key TEXT PRIMARY KEY",
		"last_value BIGINT NOT NULL DEFAULT 0",
		"DROP TABLE IF EXISTS sequence_counters",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
