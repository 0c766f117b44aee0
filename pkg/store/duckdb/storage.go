package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/de-tools/farm-atlas/pkg/store/schema"
	"github.com/marcboeker/go-duckdb/v2"
)

type Settings struct {
	DbPath    string
	Threads   int
	Bootstrap bool
}

// NewDB opens a local DuckDB file. With Bootstrap set, every connection makes
// sure the reporting relations exist so a fresh file can be seeded directly.
func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	var bootQueries []string
	if settings.Bootstrap {
		bootQueries = schema.Statements()
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return fmt.Errorf("boot query failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
