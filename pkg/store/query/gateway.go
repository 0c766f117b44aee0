package query

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Gateway runs report queries against a database/sql pool.
type Gateway struct {
	db      *sql.DB
	dialect Dialect
}

func NewGateway(db *sql.DB, dialect Dialect) *Gateway {
	return &Gateway{db: db, dialect: dialect}
}

func (g *Gateway) Dialect() Dialect {
	return g.dialect
}

func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

func (g *Gateway) Select(ctx context.Context, q *Query) ([]store.Row, error) {
	logger := zerolog.Ctx(ctx)

	stmt, args, err := q.Build(g.dialect)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("relation", q.Relation()).Str("sql", stmt).Int("args", len(args)).Msg("running query")

	rows, err := g.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", q.Relation(), err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Str("relation", q.Relation()).Msg("failed to close query rows")
		}
	}(rows)

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s columns: %w", q.Relation(), err)
	}

	result := make([]store.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		targets := make([]any, len(cols))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("%s scan: %w", q.Relation(), err)
		}

		row := make(store.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", q.Relation(), err)
	}

	return result, nil
}
