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

var pestProducts = []plantPattern{
	pattern(`pyganic`, "Pyganic"),
	pattern(`pageant`, "Pageant"),
	pattern(`milstop`, "MilStop SP"),
	pattern(`thuricide|bt`, "Thuricide (BT)"),
	pattern(`enstar`, "Enstar II"),
}

var pestLastApplications = re(`last.*applications?`)

const (
	pestRecent    = "recent"
	pestLastMonth = "last_month"
	pestLastWeek  = "last_week"
	pestThisYear  = "this_year"
)

type pestParams struct {
	reports.Terms
	Products []string
	Types    []string
	Time     string
	ShowAll  bool
	OMRI     bool
}

func parsePest(message string) pestParams {
	msg := strings.ToLower(message)
	var p pestParams

	for _, product := range matchPlants(msg, pestProducts) {
		p.Products = append(p.Products, product)
		p.Add(product)
	}
	if containsAny(msg, "insecticide", "insect") {
		p.Types = append(p.Types, "Insecticide")
		p.Add("insecticide")
	}
	if containsAny(msg, "fungicide", "fungus") {
		p.Types = append(p.Types, "Fungicide")
		p.Add("fungicide")
	}

	switch {
	case containsAny(msg, "recent", "latest", "current") || pestLastApplications.MatchString(msg):
		p.Time = pestRecent
		p.Add("recent")
	case containsAny(msg, "last month", "past month"):
		p.Time = pestLastMonth
		p.Add("last month")
	case containsAny(msg, "last week", "past week"):
		p.Time = pestLastWeek
		p.Add("last week")
	case containsAny(msg, "this year", "current year"):
		p.Time = pestThisYear
		p.Add("this year")
	case strings.Contains(msg, "all"):
		p.ShowAll = true
		p.Add("all")
	}

	if containsAny(msg, "omri", "organic", "certified") {
		p.OMRI = true
		p.Add("OMRI certified")
	}
	return p
}

func pestSince(window string, now time.Time) (time.Time, bool) {
	switch window {
	case pestLastMonth:
		return time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location()), true
	case pestLastWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case pestThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	case pestRecent:
		return now.Add(-90 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

// pestQuery filters by product name or, failing that, product type. Undated
// applications are kept by every time window.
func pestQuery(farmID domain.FarmID, p pestParams, now time.Time) *query.Query {
	q := query.From("pest_recent_applications").ForFarm(int64(farmID))

	switch {
	case len(p.Products) > 0:
		q.Where(query.Contains("product_name", p.Products[0]))
	case len(p.Types) > 0:
		q.Where(query.Contains("product_type", p.Types[0]))
	}

	if !p.ShowAll {
		if since, ok := pestSince(p.Time, now); ok {
			q.Or(query.AtLeast("application_date", isoDay(since)), query.Null("application_date"))
		}
	}
	if p.OMRI {
		q.Eq("omri_certified", true)
	}
	return q.OrderDescNullsLast("application_date")
}

func dose(r store.Row) string {
	if !r.Has("dose_amount") || !r.Has("dose_unit") {
		return "-"
	}
	return fmt.Sprintf("%s %s", r.Str("dose_amount"), r.Str("dose_unit"))
}

func Pest(d Deps) reports.Module {
	const dataType = "pest_applications"

	return reports.Define(reports.Definition[pestParams]{
		Key:      "pest",
		Name:     "Pest Application Data",
		Keywords: []string{"pest", "pesticide", "application", "spray", "insecticide", "fungicide"},
		DataType: dataType,
		Parse:    parsePest,
		Fetch: func(ctx context.Context, farmID domain.FarmID, p pestParams) ([]store.Row, error) {
			return d.Store.Select(ctx, pestQuery(farmID, p, d.now()))
		},
		Render: func(rows []store.Row, p pestParams) (*domain.Report, error) {
			sum := summary.ForPest(rows)

			title := "Pest Control Application Report"
			if terms := p.SearchTerms(); len(terms) > 0 {
				title = "Pest Applications: " + strings.Join(terms, ", ")
			}

			t := html.Table{
				Title:       title,
				Theme:       html.Brown,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Applications", len(rows),
					"Organic", sum.Organic,
					"Biological", sum.Biological,
					"Chemical", sum.Chemical,
					"OMRI Certified", sum.OMRICertified,
				),
				Columns: []string{
					"Product Name", "Type", "Application Date", "Treatment Area",
					"Dose", "Applicator", "OMRI Certified",
				},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				applied := date(r, "application_date")
				if applied == "-" {
					applied = "No date recorded"
				}
				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Text("product_name", "Unknown Product"), Bold: true},
					{Text: r.Text("product_type", "-")},
					{Text: applied},
					{Text: r.Text("treatment_area", "-")},
					{Text: dose(r)},
					{Text: r.Text("applicator_name", "-")},
					{Text: yesNo(r.Bool("omri_certified"))},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Pest Applications - Farm Data",
				Description: fmt.Sprintf("%d applications found matching criteria.", len(rows)),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				Summary:     sum,
			})
		},
	})
}
