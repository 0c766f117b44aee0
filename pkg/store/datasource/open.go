package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/farm-atlas/pkg/services/config"
	"github.com/de-tools/farm-atlas/pkg/store/duckdb"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	"github.com/de-tools/farm-atlas/pkg/store/schema"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite"
)

// Open connects to the configured report database and returns a gateway over
// it. The caller owns the returned *sql.DB.
func Open(ctx context.Context, settings config.Datasource) (*query.Gateway, *sql.DB, error) {
	logger := zerolog.Ctx(ctx)

	dialect, err := query.DialectFor(settings.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := openDB(ctx, settings, dialect)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s datasource: %w", dialect.Name, err)
	}
	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to reach %s datasource: %w", dialect.Name, err)
	}

	logger.Info().Str("driver", dialect.Name).Msg("datasource connected")
	return query.NewGateway(db, dialect), db, nil
}

func openDB(ctx context.Context, settings config.Datasource, dialect query.Dialect) (*sql.DB, error) {
	switch dialect {
	case query.Postgres:
		return sql.Open("pgx", settings.DSN)
	case query.DuckDB:
		return duckdb.NewDB(duckdb.Settings{DbPath: settings.DSN, Bootstrap: settings.Bootstrap})
	case query.SQLite:
		db, err := sql.Open("sqlite", settings.DSN)
		if err != nil {
			return nil, err
		}
		if settings.Bootstrap {
			if err := Bootstrap(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return db, nil
	case query.Snowflake:
		dsn := settings.DSN
		if dsn == "" {
			var err error
			dsn, err = sf.DSN(&sf.Config{
				Account:   settings.Snowflake.Account,
				User:      settings.Snowflake.User,
				Password:  settings.Snowflake.Password,
				Database:  settings.Snowflake.Database,
				Schema:    settings.Snowflake.Schema,
				Warehouse: settings.Snowflake.Warehouse,
				Role:      settings.Snowflake.Role,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create DSN: %w", err)
			}
		}
		return sql.Open("snowflake", dsn)
	case query.Databricks:
		dsn := settings.DSN
		if dsn == "" {
			profile, err := config.ResolveDatabricksProfile(settings.Databricks)
			if err != nil {
				return nil, err
			}
			dsn = DatabricksDSN(profile)
		}
		return sql.Open("databricks", dsn)
	default:
		return nil, fmt.Errorf("no driver wired for %s", dialect.Name)
	}
}

func DatabricksDSN(p *config.DatabricksProfile) string {
	return fmt.Sprintf("token:%s@%s%s", p.Config.Token, hostOnly(p.Config.Host), p.HTTPPath)
}

func hostOnly(host string) string {
	host = strings.TrimPrefix(host, "https://")
	return strings.TrimPrefix(host, "http://")
}

// Bootstrap creates every report relation that does not exist yet.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema.Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
	}
	return nil
}
