package modules

import (
	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
)

// SummaryStats reads the single per-farm row of today's counters.
func SummaryStats(d Deps) reports.Module {
	const dataType = "rpt_summary_stats"

	return reports.Define(reports.Definition[constant]{
		Key:      "summaryStats",
		Name:     "Quick Summary Stats",
		Keywords: []string{"today's numbers", "quick summary", "summary stats", "dashboard"},
		DataType: dataType,
		Parse:    constantTerm("today's numbers"),
		Fetch:    d.everything(dataType, 1),
		Render: func(rows []store.Row, p constant) (*domain.Report, error) {
			r := rows[0]
			content, err := html.RenderDashboard(html.Dashboard{
				Title:       "Today's Farm Summary",
				Description: "A quick overview of key metrics for today.",
				Cards: []html.Card{
					{Label: "Pending Deliveries", Value: r.Text("pending_deliveries", "0"), Color: r.Str("overdue_status_color")},
					{Label: "Overdue (>5 days)", Value: r.Text("overdue_deliveries", "0"), Color: r.Str("overdue_status_color")},
					{Label: "Old Inventory (>7 days)", Value: r.Text("old_inventory_batches", "0"), Unit: "batches", Color: r.Str("old_inventory_color")},
					{Label: "Today's Deliveries", Value: r.Text("todays_deliveries", "0"), Color: r.Str("activity_level_color")},
				},
				GeneratedAt: d.now(),
			})
			if err != nil {
				return nil, err
			}

			return &domain.Report{
				HTMLContent: content,
				Metadata: domain.Metadata{
					Title:       "Today's Farm Summary",
					Description: "A quick overview of key metrics for today.",
					RecordCount: 1,
					DataType:    dataType,
					SearchQuery: joinTerms(p),
				},
			}, nil
		},
	})
}
