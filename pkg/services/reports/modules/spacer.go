package modules

import (
	"context"
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/summary"
	"github.com/de-tools/farm-atlas/pkg/store/query"
)

var spacerPlantPatterns = append(append([]plantPattern(nil), plantPatterns...),
	pattern(`herbs?`, "herb"),
	pattern(`basil`, "basil"),
	pattern(`cilantro`, "cilantro"),
	pattern(`parsley`, "parsley"),
)

var herbs = []string{"basil", "cilantro", "parsley"}

var (
	spacerLow     = re(`low.*quantity|few.*trays|running.*low`)
	spacerHigh    = re(`high.*quantity|many.*trays|abundant`)
	spacerRecent  = re(`recent|today|yesterday|this.*week`)
	spacerOverdue = re(`overdue|late|past.*due`)
)

const (
	quantityLow  = "low"
	quantityHigh = "high"

	dateRecent  = "recent"
	dateOverdue = "overdue"
)

type spacerParams struct {
	reports.Terms
	Plants   []string
	Statuses []string
	Quantity string
	Date     string
}

func parseSpacer(message string) spacerParams {
	msg := strings.ToLower(message)
	var p spacerParams

	for _, plant := range matchPlants(msg, spacerPlantPatterns) {
		p.Plants = append(p.Plants, plant)
		p.Add(plant)
	}

	if containsAny(msg, "ready", "harvest") {
		p.Statuses = append(p.Statuses, "Ready")
		p.Add("ready")
	}
	if containsAny(msg, "growing", "germinating", "seeded") {
		p.Statuses = append(p.Statuses, "Growing")
		p.Add("growing")
	}
	if containsAny(msg, "available", "empty", "unused") {
		p.Statuses = append(p.Statuses, "Available")
		p.Add("available")
	}

	if spacerLow.MatchString(msg) {
		p.Quantity = quantityLow
		p.Add("low quantity")
	}
	if spacerHigh.MatchString(msg) {
		p.Quantity = quantityHigh
		p.Add("high quantity")
	}

	if spacerRecent.MatchString(msg) {
		p.Date = dateRecent
		p.Add("recent")
	}
	if spacerOverdue.MatchString(msg) {
		p.Date = dateOverdue
		p.Add("overdue")
	}
	return p
}

// spacerQuery applies one filter only, in the order plant, status, quantity, date.
func spacerQuery(farmID domain.FarmID, p spacerParams, now time.Time) *query.Query {
	q := query.From("spacer_inventory").ForFarm(int64(farmID)).OrderDesc("spacer_date")

	switch {
	case len(p.Plants) > 0:
		switch plant := p.Plants[0]; plant {
		case "herb":
			alternatives := make([]query.Predicate, 0, len(herbs))
			for _, h := range herbs {
				alternatives = append(alternatives, query.Contains("plant_type", h))
			}
			q.Or(alternatives...)
		default:
			q.Where(query.Contains("plant_type", plant))
		}
	case len(p.Statuses) > 0:
		q.In("status", values(p.Statuses)...)
	case p.Quantity == quantityLow:
		q.Lte("quantity", 5)
	case p.Quantity == quantityHigh:
		q.Gte("quantity", 20)
	case p.Date == dateRecent:
		q.Gte("spacer_date", now.Add(-3*24*time.Hour))
	case p.Date == dateOverdue:
		q.Lt("expected_ready_date", now).Eq("status", "Growing")
	}
	return q
}

func spacerStatusClass(status string) string {
	switch strings.ToLower(status) {
	case "ready":
		return "status-ready"
	case "growing":
		return "status-growing"
	case "available":
		return "status-available"
	}
	return ""
}

func Spacer(d Deps) reports.Module {
	const dataType = "spacers"

	return reports.Define(reports.Definition[spacerParams]{
		Key:      "spacer",
		Name:     "Spacer Inventory",
		Keywords: []string{"spacer", "tray", "seedling", "germination", "ready", "seeded", "inventory"},
		DataType: dataType,
		Parse:    parseSpacer,
		Fetch: func(ctx context.Context, farmID domain.FarmID, p spacerParams) ([]store.Row, error) {
			rows, err := d.Store.Select(ctx, spacerQuery(farmID, p, d.now()))
			if err != nil {
				return nil, err
			}
			d.enrich(ctx, farmID, rows)
			return rows, nil
		},
		Render: func(rows []store.Row, p spacerParams) (*domain.Report, error) {
			now := d.now()
			sum := summary.ForSpacers(rows)
			farm := farmName(rows, "Unknown Farm")

			title := "Spacer Inventory Report"
			if terms := p.SearchTerms(); len(terms) > 0 {
				title = "Spacer Inventory: " + strings.Join(terms, ", ")
			}

			t := html.Table{
				Title:       title,
				Subtitle:    farm,
				Theme:       html.Green,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Trays", sum.TotalTrays,
					"Total Quantity", sum.TotalQuantity,
					"Ready", sum.Ready,
					"Growing", sum.Growing,
					"Available", sum.Available,
				),
				Columns: []string{
					"Spacer ID", "Status", "Plant Type", "Quantity",
					"Seeded Date", "Expected Ready", "Last Updated",
				},
				GeneratedAt: now,
			}
			for _, r := range rows {
				status := r.Str("status")
				plant := r.Text("plant_type", "-")

				overdue := false
				if ready, ok := r.Time("expected_ready_date"); ok {
					overdue = ready.Before(now) && status == "Growing"
				}
				expected := date(r, "expected_ready_date")
				if overdue {
					expected += " ⚠️"
				}

				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Str("spacer_id")},
					{
						Text:       status,
						Class:      spacerStatusClass(status),
						Color:      r.Str("status_color"),
						Background: r.Str("status_background_color"),
					},
					{Text: plant, Bold: plant != "-" && mentionsAny(plant, p.Plants)},
					{Text: r.Text("quantity", "0"), Bold: true},
					{Text: date(r, "seeded_date")},
					{Text: expected},
					{Text: date(r, "spacer_date")},
				})

				class := ""
				if overdue {
					class = "overdue-row"
				}
				t.RowClasses = append(t.RowClasses, class)
			}

			return page(t, domain.Metadata{
				Title:       "Spacer Inventory - " + farm,
				Description: matching(len(rows), "spacer trays", p.SearchTerms()),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				FarmName:    farm,
				Summary:     sum,
			})
		},
	})
}
