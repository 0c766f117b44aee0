package modules

import (
	"fmt"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/summary"
)

const (
	freshColor   = "#34C759"
	regularColor = "#FF9500"
)

func AvailableHarvest(d Deps) reports.Module {
	const dataType = "rpt_available_harvest"

	return reports.Define(reports.Definition[constant]{
		Key:      "availableHarvest",
		Name:     "Available Harvest Report",
		Keywords: []string{"available for allocation", "what can i sell", "available harvest"},
		DataType: dataType,
		Parse:    constantTerm("available harvest"),
		Fetch:    d.everything(dataType, 0),
		Render: func(rows []store.Row, p constant) (*domain.Report, error) {
			sum := summary.ForAvailableHarvest(rows)
			t := html.Table{
				Title:       "Available Harvest Report",
				Theme:       html.Green,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Total Quantity", sum.TotalQuantity,
					"Plant Types", sum.PlantTypes,
					"Very Fresh", sum.VeryFreshItems,
					"Avg. Days Old", sum.AvgDaysSinceHarvest,
				),
				Columns:     []string{"Plant", "Available Qty", "Harvest Date", "Days Old", "Freshness"},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				freshness := r.Str("freshness_level")
				color := regularColor
				if freshness == "very_fresh" {
					color = freshColor
				}
				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Text("plant_name", "-")},
					{Text: r.Text("available_quantity", "0")},
					{Text: date(r, "harvest_date")},
					{Text: r.Text("days_since_harvest", "-")},
					{Text: humanize(freshness), Color: color},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Available Harvest for Allocation",
				Description: fmt.Sprintf("%d fresh product batches are available for allocation.", len(rows)),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				Summary:     sum,
			})
		},
	})
}

func HarvestPerformance(d Deps) reports.Module {
	const dataType = "rpt_harvest_performance"

	return reports.Define(reports.Definition[constant]{
		Key:      "harvestPerformance",
		Name:     "Harvest Performance Report",
		Keywords: []string{"harvest performance", "how are we harvesting", "harvest summary"},
		DataType: dataType,
		Parse:    constantTerm("harvest performance"),
		Fetch:    d.everything(dataType, 0),
		Render: func(rows []store.Row, p constant) (*domain.Report, error) {
			sum := summary.ForHarvestPerformance(rows)
			t := html.Table{
				Title:       "Weekly Harvest Performance",
				Subtitle:    "Last 30 days",
				Theme:       html.Green,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Total Harvested", sum.TotalHarvested,
					"Avg. Delivery Rate", sum.AvgDeliveryRate+"%",
					"Avg. Waste Rate", sum.AvgWasteRate+"%",
					"Weeks", sum.WeeksReported,
				),
				Columns:     []string{"Week Of", "Plant", "Total Harvested", "Delivery Rate", "Waste Rate"},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				t.Rows = append(t.Rows, []html.Cell{
					{Text: date(r, "harvest_week")},
					{Text: r.Text("plant_name", "-")},
					{Text: r.Text("total_harvested", "0")},
					{Text: r.Text("delivery_rate_percent", "0") + "%", Color: r.Str("performance_color")},
					{Text: r.Text("waste_rate_percent", "0") + "%", Color: r.Str("waste_color")},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Weekly Harvest Performance",
				Description: "Performance summary for the last 30 days, grouped by week.",
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				Summary:     sum,
			})
		},
	})
}

func DailyOperations(d Deps) reports.Module {
	const dataType = "rpt_daily_operations"

	return reports.Define(reports.Definition[constant]{
		Key:      "dailyOperations",
		Name:     "Daily Operations Dashboard",
		Keywords: []string{"daily operations", "what happened today", "what's happening"},
		DataType: dataType,
		Parse:    constantTerm("daily operations"),
		Fetch:    d.everything(dataType, 0),
		Render: func(rows []store.Row, p constant) (*domain.Report, error) {
			sum := summary.ForDailyOperations(rows)
			t := html.Table{
				Title:       "Daily Operations Dashboard",
				Subtitle:    "Last 14 days",
				Theme:       html.Steel,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Days", sum.TotalDays,
					"Harvests", sum.TotalHarvests,
					"Harvested", sum.TotalHarvested,
					"Allocations", sum.TotalAllocations,
					"Deliveries", sum.TotalDeliveries,
					"Avg. Same-Day Rate", sum.AvgSameDayRate+"%",
				),
				Columns:     []string{"Date", "Harvests", "Total Qty", "Allocations", "Deliveries", "Same-Day Rate"},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				t.Rows = append(t.Rows, []html.Cell{
					{Text: date(r, "harvest_date")},
					{Text: r.Text("harvest_batches", "0")},
					{Text: r.Text("total_harvested", "0")},
					{Text: r.Text("allocations_made", "0")},
					{Text: r.Text("deliveries_completed", "0")},
					{Text: r.Text("same_day_delivery_rate", "0") + "%"},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Daily Operations Dashboard",
				Description: "A summary of farm operations over the last 14 days.",
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				Summary:     sum,
			})
		},
	})
}
