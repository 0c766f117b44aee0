package farm

import (
	"context"
	"fmt"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type Selector interface {
	Select(ctx context.Context, q *query.Query) ([]store.Row, error)
}

// Names resolves farm ids to display names. It is the only state shared
// between requests; concurrent misses for the same farm collapse into one query.
type Names struct {
	db    Selector
	cache *lru.Cache[domain.FarmID, string]
	group singleflight.Group
}

func NewNames(db Selector, size int) (*Names, error) {
	cache, err := lru.New[domain.FarmID, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create farm name cache: %w", err)
	}
	return &Names{db: db, cache: cache}, nil
}

func Fallback(id domain.FarmID) string {
	return fmt.Sprintf("Farm %s", id)
}

// Lookup never fails. A missing farm row is cached as the fallback name; a
// query error returns the fallback without caching so the next call retries.
func (n *Names) Lookup(ctx context.Context, id domain.FarmID) string {
	if name, ok := n.cache.Get(id); ok {
		return name
	}

	v, _, _ := n.group.Do(id.String(), func() (any, error) {
		return n.load(ctx, id), nil
	})
	return v.(string)
}

func (n *Names) load(ctx context.Context, id domain.FarmID) string {
	logger := zerolog.Ctx(ctx)

	rows, err := n.db.Select(ctx, query.From("farms").Unscoped().Eq("id", int64(id)).Limit(1))
	if err != nil {
		logger.Warn().Err(err).Stringer("farm_id", id).Msg("farm name lookup failed")
		return Fallback(id)
	}

	name := Fallback(id)
	if len(rows) > 0 {
		if s := rows[0].Str("farm_name"); s != "" {
			name = s
		}
	}
	n.cache.Add(id, name)
	return name
}

// Enrich sets farm_name on every row.
func (n *Names) Enrich(ctx context.Context, id domain.FarmID, rows []store.Row) {
	if len(rows) == 0 {
		return
	}
	name := n.Lookup(ctx, id)
	for _, r := range rows {
		r["farm_name"] = name
	}
}

func (n *Names) Purge() {
	n.cache.Purge()
}

func (n *Names) Len() int {
	return n.cache.Len()
}
