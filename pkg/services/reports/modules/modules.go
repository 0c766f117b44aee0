// Package modules holds the farm report modules served by the orchestrator.
package modules

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/store/query"
)

type Selector interface {
	Select(ctx context.Context, q *query.Query) ([]store.Row, error)
}

type FarmNamer interface {
	Lookup(ctx context.Context, id domain.FarmID) string
	Enrich(ctx context.Context, id domain.FarmID, rows []store.Row)
}

// Deps is shared by every module. Farms may be nil, in which case rows are
// not enriched with a farm name.
type Deps struct {
	Store Selector
	Farms FarmNamer
	Now   func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) enrich(ctx context.Context, id domain.FarmID, rows []store.Row) {
	if d.Farms != nil {
		d.Farms.Enrich(ctx, id, rows)
	}
}

// All returns every module, the fallback last.
func All(d Deps) []reports.Module {
	return []reports.Module{
		PendingDeliveries(d),
		AvailableHarvest(d),
		HarvestPerformance(d),
		CustomerDeliveries(d),
		DailyOperations(d),
		InventoryAging(d),
		AllocationEfficiency(d),
		SummaryStats(d),
		Tasks(d),
		Spacer(d),
		Pest(d),
		Monitoring(d),
		Lighting(d),
		Sensor(d),
		Tower(d),
	}
}

type plantPattern struct {
	re    *regexp.Regexp
	match string
}

func pattern(expr, match string) plantPattern {
	return plantPattern{re: regexp.MustCompile("(?i)" + expr), match: match}
}

var plantPatterns = []plantPattern{
	pattern(`green oak|oak.*green|oakleaf.*green`, "Lettuce, Oakleaf Green"),
	pattern(`red oak|oak.*red|oakleaf.*red`, "Lettuce, Oakleaf Red"),
	pattern(`butter.*rex|rex.*butter`, "Lettuce, Butter Rex"),
	pattern(`bibb.*gatsbi|gatsbi.*bibb`, "Lettuce, Bibb Gatsbi"),
	pattern(`salanova.*red|red.*salanova`, "Lettuce, Salanova Red Butter"),
	pattern(`salanova.*green|green.*salanova`, "Lettuce, Salanova Green Butter"),
	pattern(`romaine.*green|green.*romaine`, "Lettuce, Romaine Green Forest"),
	pattern(`summer.*crisp|crisp.*summer`, "Lettuce, Summer Crisp Green"),
	pattern(`swiss.*chard|chard.*swiss`, "Swiss Chard, Bright Lights"),
	pattern(`sorrel.*green|green.*sorrel`, "Sorrel, Green"),
	pattern(`lettuce`, "lettuce"),
}

func matchPlants(message string, patterns []plantPattern) []string {
	var found []string
	for _, p := range patterns {
		if p.re.MatchString(message) {
			found = append(found, p.match)
		}
	}
	return found
}

// containsAny reports whether message holds any of the fragments. Callers pass
// a lower-cased message.
func containsAny(message string, fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(message, f) {
			return true
		}
	}
	return false
}

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + expr)
}

func isoDay(t time.Time) string {
	return t.Format("2006-01-02")
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// date renders a row timestamp the way the farm dashboard shows dates.
func date(r store.Row, col string) string {
	t, ok := r.Time(col)
	if !ok {
		return "-"
	}
	return t.Format("1/2/2006")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// decimal formats a numeric column, or returns missing when it is not a number.
func decimal(r store.Row, col string, precision int, missing string) string {
	f, ok := r.Float(col)
	if !ok {
		return missing
	}
	return fmt.Sprintf("%.*f", precision, f)
}

func matching(count int, noun string, terms []string) string {
	s := fmt.Sprintf("%d %s found", count, noun)
	if len(terms) > 0 {
		s += " matching: " + strings.Join(terms, ", ")
	}
	return s
}

func farmName(rows []store.Row, placeholder string) string {
	if len(rows) == 0 {
		return placeholder
	}
	return rows[0].Text("farm_name", placeholder)
}

func joinTerms(p reports.Params) string {
	return strings.Join(p.SearchTerms(), ", ")
}

func items(pairs ...any) []html.SummaryItem {
	out := make([]html.SummaryItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, html.SummaryItem{Label: fmt.Sprint(pairs[i]), Value: fmt.Sprint(pairs[i+1])})
	}
	return out
}

func page(t html.Table, meta domain.Metadata) (*domain.Report, error) {
	content, err := html.RenderTable(t)
	if err != nil {
		return nil, err
	}
	return &domain.Report{HTMLContent: content, Metadata: meta}, nil
}

// constant is the parameter set of reports that take no filters.
type constant struct {
	reports.Terms
}

func constantTerm(term string) func(string) constant {
	return func(string) constant {
		return constant{Terms: reports.Terms{term}}
	}
}

func (d Deps) everything(relation string, limit int) func(context.Context, domain.FarmID, constant) ([]store.Row, error) {
	return func(ctx context.Context, farmID domain.FarmID, _ constant) ([]store.Row, error) {
		q := query.From(relation).ForFarm(int64(farmID))
		if limit > 0 {
			q.Limit(limit)
		}
		return d.Store.Select(ctx, q)
	}
}
