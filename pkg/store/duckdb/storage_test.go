package duckdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootstrapCreatesReportRelations(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "farm.db")
	db, err := NewDB(Settings{
		DbPath:    dbPath,
		Bootstrap: true,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO rpt_pending_deliveries (farm_id, customer_name, customer_type, quantity) VALUES (?, ?, ?, ?)`,
		7, "Green Grocer", "wholesale", 12,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM rpt_pending_deliveries WHERE farm_id = ?", 7).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewDB_WithoutBootstrapLeavesCatalogEmpty(t *testing.T) {
	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`SELECT * FROM rpt_pending_deliveries`)
	assert.Error(t, err)
}
