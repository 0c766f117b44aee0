package modules

import (
	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/summary"
)

func InventoryAging(d Deps) reports.Module {
	const dataType = "rpt_inventory_aging"

	return reports.Define(reports.Definition[constant]{
		Key:      "inventoryAging",
		Name:     "Inventory Aging Analysis",
		Keywords: []string{"inventory aging", "getting old", "waste risk", "old inventory"},
		DataType: dataType,
		Parse:    constantTerm("inventory aging"),
		Fetch:    d.everything(dataType, 0),
		Render: func(rows []store.Row, p constant) (*domain.Report, error) {
			sum := summary.ForInventoryAging(rows)
			t := html.Table{
				Title:       "Inventory Aging Analysis",
				Theme:       html.Amber,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Batches", sum.TotalItems,
					"Quantity", sum.TotalQuantity,
					"High Risk", sum.HighRisk,
					"Medium Risk", sum.MediumRisk,
					"Low Risk", sum.LowRisk,
				),
				Columns:     []string{"Plant", "Available Qty", "Age", "Category", "Waste Risk"},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Text("plant_name", "-")},
					{Text: r.Text("available_quantity", "0")},
					{Text: r.Text("age_text", "-")},
					{Text: humanize(r.Text("age_category", "-")), Color: r.Str("age_color"), Bold: true},
					{Text: humanize(r.Text("waste_risk_level", "-")), Color: r.Str("risk_color")},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Inventory Aging Analysis",
				Description: "Analysis of available inventory by age and waste risk.",
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				Summary:     sum,
			})
		},
	})
}

func AllocationEfficiency(d Deps) reports.Module {
	const dataType = "rpt_allocation_efficiency"

	return reports.Define(reports.Definition[constant]{
		Key:      "allocationEfficiency",
		Name:     "Allocation Efficiency Report",
		Keywords: []string{"allocation efficiency", "how efficient are allocations"},
		DataType: dataType,
		Parse:    constantTerm("allocation efficiency"),
		Fetch:    d.everything(dataType, 0),
		Render: func(rows []store.Row, p constant) (*domain.Report, error) {
			sum := summary.ForAllocationEfficiency(rows)
			t := html.Table{
				Title:       "Weekly Allocation Efficiency",
				Subtitle:    "Last 30 days",
				Theme:       html.Amber,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Allocations", sum.TotalAllocations,
					"Successful", sum.TotalSuccessful,
					"Overdue", sum.TotalOverdue,
					"Avg. Success Rate", sum.AvgSuccessRate+"%",
					"Avg. Days to Delivery", sum.AvgDaysToDelivery,
				),
				Columns: []string{
					"Week Of", "Plant", "Total Allocations", "Successful",
					"Overdue", "Avg. Days to Delivery", "Success Rate",
				},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				t.Rows = append(t.Rows, []html.Cell{
					{Text: date(r, "allocation_week")},
					{Text: r.Text("plant_name", "-")},
					{Text: r.Text("total_allocations", "0")},
					{Text: r.Text("successful_deliveries", "0")},
					{Text: r.Text("overdue_allocations", "0")},
					{Text: decimal(r, "avg_days_to_delivery", 1, "N/A")},
					{Text: r.Text("success_rate_percent", "0") + "%"},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Weekly Allocation Efficiency",
				Description: "Analysis of allocation success rates over the last 30 days.",
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				Summary:     sum,
			})
		},
	})
}
