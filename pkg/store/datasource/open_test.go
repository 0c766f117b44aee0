package datasource

import (
	"context"
	"testing"

	dbcfg "github.com/databricks/databricks-sdk-go/config"
	"github.com/de-tools/farm-atlas/pkg/services/config"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteBootstrap(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	gw, db, err := Open(ctx, config.Datasource{
		Driver:    "sqlite",
		DSN:       "file:open_test?mode=memory&cache=shared",
		Bootstrap: true,
	})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, query.SQLite, gw.Dialect())

	_, err = db.ExecContext(ctx, `INSERT INTO farms (id, farm_name) VALUES (1, 'North Field')`)
	require.NoError(t, err)

	rows, err := gw.Select(ctx, query.From("farms").Unscoped().Eq("id", 1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "North Field", rows[0].Str("farm_name"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.Datasource{Driver: "oracle"})
	assert.Error(t, err)
}

func TestDatabricksDSN(t *testing.T) {
	dsn := DatabricksDSN(&config.DatabricksProfile{
		Config:   &dbcfg.Config{Host: "https://adb-1.azuredatabricks.net", Token: "dapi123"},
		HTTPPath: "/sql/1.0/warehouses/abc",
	})
	assert.Equal(t, "token:dapi123@adb-1.azuredatabricks.net/sql/1.0/warehouses/abc", dsn)
}
