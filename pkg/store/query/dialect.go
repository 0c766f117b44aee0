package query

import (
	"fmt"
	"strconv"
)

// Dialect captures the few syntax differences between the supported engines.
type Dialect struct {
	Name  string
	ILike string

	numbered bool
}

func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

var (
	Postgres   = Dialect{Name: "postgres", ILike: "ILIKE", numbered: true}
	DuckDB     = Dialect{Name: "duckdb", ILike: "ILIKE"}
	Snowflake  = Dialect{Name: "snowflake", ILike: "ILIKE"}
	Databricks = Dialect{Name: "databricks", ILike: "ILIKE"}
	// SQLite's LIKE is already case-insensitive for ASCII.
	SQLite = Dialect{Name: "sqlite", ILike: "LIKE"}
)

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx", "supabase":
		return Postgres, nil
	case "duckdb":
		return DuckDB, nil
	case "snowflake":
		return Snowflake, nil
	case "databricks":
		return Databricks, nil
	case "sqlite":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported datasource driver %q", driver)
	}
}
