package modules

import (
	"context"
	"strings"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/summary"
	"github.com/de-tools/farm-atlas/pkg/store/query"
)

type towerParams struct {
	reports.Terms
	Plants       []string
	Statuses     []string
	Maintenance  bool
	Availability bool
}

func parseTower(message string) towerParams {
	msg := strings.ToLower(message)
	var p towerParams

	for _, plant := range matchPlants(msg, plantPatterns) {
		p.Plants = append(p.Plants, plant)
		p.Add(plant)
	}
	if containsAny(msg, "available", "empty", "free") {
		p.Statuses = append(p.Statuses, "Available", "Partially Available")
		p.Availability = true
		p.Add("available")
	}
	if containsAny(msg, "growing", "planted", "active") {
		p.Statuses = append(p.Statuses, "Growing")
		p.Add("growing")
	}
	if containsAny(msg, "clean") {
		p.Statuses = append(p.Statuses, "Clean")
		p.Add("clean")
	}
	if containsAny(msg, "maintenance", "repair", "service") {
		p.Maintenance = true
		p.Add("maintenance needed")
	}
	return p
}

// towerQuery applies one filter only, in the order plant, status, maintenance,
// availability. Availability always comes with statuses, so the last branch
// is never reached from parsed input.
func towerQuery(farmID domain.FarmID, p towerParams) *query.Query {
	q := query.From("tower_display_with_plants").ForFarm(int64(farmID))
	switch {
	case len(p.Plants) > 0:
		q.Where(query.Contains("plant_name", p.Plants[0]))
	case len(p.Statuses) > 0:
		q.In("tower_status", values(p.Statuses)...)
	case p.Maintenance:
		q.Eq("has_maintenance", true)
	case p.Availability:
		q.Gt("overall_available_ports", 0)
	}
	return q.OrderAsc("tower_identifier")
}

func towerStatusClass(r store.Row) string {
	status := strings.ToLower(r.Str("tower_status"))
	switch {
	case status == "growing":
		return "status-growing"
	case status == "clean":
		return "status-clean"
	case strings.Contains(status, "available"):
		return "status-available"
	case r.Bool("has_maintenance"):
		return "status-maintenance"
	}
	return ""
}

func mentionsAny(value string, needles []string) bool {
	value = strings.ToLower(value)
	for _, n := range needles {
		if strings.Contains(value, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// Tower is the fallback module.
func Tower(d Deps) reports.Module {
	const dataType = "towers"

	return reports.Define(reports.Definition[towerParams]{
		Key:      "tower",
		Name:     "Tower Data",
		Keywords: []string{"tower", "plant", "grow", "lettuce", "oak", "available", "clean"},
		DataType: dataType,
		Parse:    parseTower,
		Fetch: func(ctx context.Context, farmID domain.FarmID, p towerParams) ([]store.Row, error) {
			return d.Store.Select(ctx, towerQuery(farmID, p))
		},
		Render: func(rows []store.Row, p towerParams) (*domain.Report, error) {
			sum := summary.ForTowers(rows)
			farm := farmName(rows, "Unknown Farm")

			title := "Tower Farm Status Report"
			if terms := p.SearchTerms(); len(terms) > 0 {
				title = "Towers: " + strings.Join(terms, ", ")
			}

			t := html.Table{
				Title:       title,
				Subtitle:    farm,
				Theme:       html.Green,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Growing", sum.Growing,
					"Clean", sum.Clean,
					"Available", sum.Available,
					"Maintenance", sum.Maintenance,
				),
				Columns: []string{
					"Tower ID", "Farm", "Status", "Plant", "Date Planted",
					"Ports Used", "Available Ports", "Total Ports", "Maintenance", "Next Due",
				},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				plant := r.Text("plant_name", "-")
				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Str("tower_identifier")},
					{Text: r.Str("farm_name")},
					{Text: r.Str("tower_status"), Class: towerStatusClass(r)},
					{Text: plant, Bold: plant != "-" && mentionsAny(plant, p.Plants)},
					{Text: date(r, "date_planted")},
					{Text: r.Text("individual_ports_used", "0")},
					{Text: r.Text("overall_available_ports", "0")},
					{Text: r.Text("total_ports", "0")},
					{Text: yesNo(r.Bool("has_maintenance"))},
					{Text: date(r, "next_maintenance_due")},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Towers - " + farm,
				Description: matching(len(rows), "towers", p.SearchTerms()),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				FarmName:    farm,
				Summary:     sum,
			})
		},
	})
}

func values(strs []string) []any {
	out := make([]any, len(strs))
	for i, s := range strs {
		out[i] = s
	}
	return out
}
