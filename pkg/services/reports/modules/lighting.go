package modules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/summary"
	"github.com/de-tools/farm-atlas/pkg/store/query"
)

var (
	lightingHighCost   = re(`high.*cost|expensive`)
	lightingHighUsage  = re(`high.*usage|heavy.*usage|intensive`)
	lightingLowUsage   = re(`low.*usage|minimal.*usage|efficient`)
	lightingEfficiency = re(`efficiency|efficient|optimize|energy.*saving`)
)

const (
	periodDaily   = "daily"
	periodWeekly  = "weekly"
	periodMonthly = "monthly"

	usageHigh = "high"
	usageLow  = "low"
)

var lightingLookback = map[string]int{
	periodDaily:   7,
	periodWeekly:  30,
	periodMonthly: 90,
}

type lightingParams struct {
	reports.Terms
	Period   string
	Zones    bool
	HighCost bool
	Usage    string
}

func parseLighting(message string) lightingParams {
	msg := strings.ToLower(message)
	var p lightingParams

	if containsAny(msg, "daily", "day", "today") {
		p.Period = periodDaily
		p.Add("daily")
	}
	if strings.Contains(msg, "week") {
		p.Period = periodWeekly
		p.Add("weekly")
	}
	if strings.Contains(msg, "month") {
		p.Period = periodMonthly
		p.Add("monthly")
	}

	if containsAny(msg, "zone", "area") {
		p.Zones = true
		p.Add("zones")
	}

	if containsAny(msg, "cost", "expensive", "cheap", "budget", "price") {
		p.Add("cost analysis")
	}
	if lightingHighCost.MatchString(msg) {
		p.HighCost = true
		p.Add("high cost")
	}

	if lightingHighUsage.MatchString(msg) {
		p.Usage = usageHigh
		p.Add("high usage")
	}
	if lightingLowUsage.MatchString(msg) {
		p.Usage = usageLow
		p.Add("efficient usage")
	}
	if lightingEfficiency.MatchString(msg) {
		p.Add("efficiency")
	}
	return p
}

func lightingQuery(farmID domain.FarmID, p lightingParams, now time.Time) *query.Query {
	q := query.From("light_total_summary").ForFarm(int64(farmID)).OrderDesc("period_day").Limit(30)

	if days, ok := lightingLookback[p.Period]; ok {
		q.Gte("period_day", isoDay(now.AddDate(0, 0, -days)))
	}
	if p.HighCost {
		q.Gte("total_cost", 50)
	}
	switch p.Usage {
	case usageHigh:
		q.Gte("total_usage_hours", 12)
	case usageLow:
		q.Lte("total_usage_hours", 8)
	}
	if p.Zones {
		q.OrderDesc("zones_active")
	}
	return q
}

func usageClass(hours float64) string {
	switch {
	case hours > 15:
		return "usage-high"
	case hours > 8:
		return "usage-medium"
	}
	return "usage-low"
}

func costClass(cost float64) string {
	switch {
	case cost > 75:
		return "cost-high"
	case cost > 25:
		return "cost-medium"
	}
	return "cost-low"
}

func Lighting(d Deps) reports.Module {
	const dataType = "lighting"

	return reports.Define(reports.Definition[lightingParams]{
		Key:      "lighting",
		Name:     "Lighting Usage Report",
		Keywords: []string{"lighting", "lights", "energy", "usage", "cost", "zones", "fixtures", "kwh", "electricity"},
		DataType: dataType,
		Parse:    parseLighting,
		Fetch: func(ctx context.Context, farmID domain.FarmID, p lightingParams) ([]store.Row, error) {
			rows, err := d.Store.Select(ctx, lightingQuery(farmID, p, d.now()))
			if err != nil {
				return nil, err
			}
			d.enrich(ctx, farmID, rows)
			return rows, nil
		},
		Render: func(rows []store.Row, p lightingParams) (*domain.Report, error) {
			sum := summary.ForLighting(rows)
			farm := farmName(rows, "Unknown Farm")

			title := "Lighting Usage Report"
			if terms := p.SearchTerms(); len(terms) > 0 {
				title = "Lighting Usage: " + strings.Join(terms, ", ")
			}

			t := html.Table{
				Title:       title,
				Subtitle:    farm,
				Theme:       html.Amber,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Usage Hours", sum.TotalHours,
					"Energy (kWh)", sum.TotalEnergy,
					"Cost", "$"+sum.TotalCost,
					"Avg. Zones", sum.AvgZones,
				),
				Columns: []string{
					"Date", "Usage Hours", "Energy (kWh)", "Cost",
					"Zones", "Fixtures", "Zone Names",
				},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				hours, _ := r.Float("total_usage_hours")
				energy, _ := r.Float("total_energy_used_kwh")
				cost, _ := r.Float("total_cost")
				t.Rows = append(t.Rows, []html.Cell{
					{Text: date(r, "period_day")},
					{Text: fmt.Sprintf("%.1f hrs", hours), Class: usageClass(hours)},
					{Text: fmt.Sprintf("%.2f kWh", energy)},
					{Text: fmt.Sprintf("$%.2f", cost), Class: costClass(cost)},
					{Text: r.Text("zones_active", "0")},
					{Text: r.Text("total_fixtures_active", "0")},
					{Text: r.Text("zones_included", "-")},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Lighting Usage Report - " + farm,
				Description: matching(len(rows), "lighting usage periods", p.SearchTerms()),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				FarmName:    farm,
				Summary:     sum,
			})
		},
	})
}
