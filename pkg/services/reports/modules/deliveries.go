package modules

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/summary"
	"github.com/de-tools/farm-atlas/pkg/store/query"
)

const (
	timeOverdue = "overdue"
	timeToday   = "today"
)

type pendingParams struct {
	reports.Terms
	Urgency      string
	CustomerType string
	Time         string
}

func parsePending(message string) pendingParams {
	msg := strings.ToLower(message)
	p := pendingParams{Terms: reports.Terms{"pending deliveries"}}

	if containsAny(msg, "urgent", "priority", "rush") {
		p.Urgency = "urgent"
		p.Add("urgent")
	}
	if containsAny(msg, "wholesale", "retailer") {
		p.CustomerType = "wholesale"
		p.Add("wholesale")
	}
	// "retailer" contains "retail", so consumer wins when both are present.
	if containsAny(msg, "consumer", "direct", "retail") {
		p.CustomerType = "consumer"
		p.Add("consumer")
	}
	if containsAny(msg, "overdue", "late") {
		p.Time = timeOverdue
		p.Add("overdue")
	}
	if containsAny(msg, "today") {
		p.Time = timeToday
		p.Add("due today")
	}
	return p
}

func PendingDeliveries(d Deps) reports.Module {
	const dataType = "rpt_pending_deliveries"

	return reports.Define(reports.Definition[pendingParams]{
		Key:      "pendingDeliveries",
		Name:     "Pending Deliveries Report",
		Keywords: []string{"pending deliveries", "to be delivered", "needs to be delivered", "deliveries"},
		DataType: dataType,
		Parse:    parsePending,
		Fetch: func(ctx context.Context, farmID domain.FarmID, p pendingParams) ([]store.Row, error) {
			q := query.From(dataType).ForFarm(int64(farmID))
			if p.Urgency != "" {
				q.Eq("delivery_urgency", p.Urgency)
			}
			if p.CustomerType != "" {
				q.ILike("customer_type", "%"+p.CustomerType+"%")
			}
			switch p.Time {
			case timeOverdue:
				q.Lt("expected_delivery_date", d.now())
			case timeToday:
				q.Eq("expected_delivery_date", isoDay(d.now()))
			}
			return d.Store.Select(ctx, q.OrderAsc("expected_delivery_date"))
		},
		Render: func(rows []store.Row, p pendingParams) (*domain.Report, error) {
			now := d.now()
			sum := summary.ForPendingDeliveries(rows, now)

			title := "Pending Deliveries Report"
			if terms := p.SearchTerms(); len(terms) > 1 {
				title = "Pending Deliveries: " + strings.Join(terms[1:], ", ")
			}

			t := html.Table{
				Title:       title,
				Subtitle:    farmName(rows, "Unknown Farm"),
				Theme:       html.Brown,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Deliveries", sum.TotalDeliveries,
					"Urgent", sum.UrgentDeliveries,
					"Overdue", sum.OverdueDeliveries,
					"Wholesale Customers", sum.WholesaleCustomers,
					"Consumer Customers", sum.ConsumerCustomers,
				),
				Columns:     []string{"Customer", "Type", "Product", "Quantity", "Pending Since", "Priority"},
				GeneratedAt: now,
			}
			for _, r := range rows {
				product := r.Text("plant_name", r.Text("product_name", "-"))
				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Text("customer_name", "-")},
					{Text: r.Text("customer_type", "-"), Color: r.Text("customer_type_color", "#333")},
					{Text: product},
					{Text: r.Text("quantity", "-")},
					{Text: r.Text("days_pending_text", date(r, "expected_delivery_date"))},
					{Text: r.Text("delivery_urgency", "Normal"), Color: r.Text("urgency_color", "#ccc"), Bold: true},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Pending Deliveries Report",
				Description: fmt.Sprintf("%d allocations are pending delivery.", len(rows)),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				FarmName:    farmName(rows, "Unknown Farm"),
				Summary:     sum,
			})
		},
	})
}

func CustomerDeliveries(d Deps) reports.Module {
	const dataType = "rpt_customer_deliveries"

	return reports.Define(reports.Definition[constant]{
		Key:      "customerDeliveries",
		Name:     "Customer Delivery Summary",
		Keywords: []string{"customer deliveries", "top customers", "who are we delivering to"},
		DataType: dataType,
		Parse:    constantTerm("customer deliveries"),
		Fetch:    d.everything(dataType, 0),
		Render: func(rows []store.Row, p constant) (*domain.Report, error) {
			sum := summary.ForCustomerDeliveries(rows)
			t := html.Table{
				Title:       "Customer Delivery Summary",
				Subtitle:    "Last 30 days",
				Theme:       html.Brown,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Customers", sum.TotalCustomers,
					"Completed", sum.TotalCompleted,
					"Pending", sum.TotalPending,
					"Qty Delivered", sum.TotalQuantityDelivered,
					"Avg. Completion", sum.AvgCompletionRate+"%",
				),
				Columns:     []string{"Customer", "Type", "Completed", "Pending", "Total Qty", "Completion %"},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Text("customer_name", "-")},
					{Text: r.Text("customer_type", "-"), Color: r.Str("customer_type_color"), Bold: true},
					{Text: r.Text("completed_deliveries", "0")},
					{Text: r.Text("pending_deliveries", "0")},
					{Text: r.Text("total_quantity_delivered", "0")},
					{Text: r.Text("completion_rate_percent", "0") + "%", Color: r.Str("completion_rate_color")},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Customer Delivery Summary",
				Description: "Summary of deliveries to customers over the last 30 days.",
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				Summary:     sum,
			})
		},
	})
}
