package modules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/summary"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	"github.com/rs/zerolog"
)

// ErrMonitoringUnavailable replaces any data source error of the monitoring
// report so driver details never reach the caller.
var ErrMonitoringUnavailable = errors.New("unable to retrieve monitoring data, please try again later")

var (
	monitoringIssue  = re(`issue|problem|attention|alert|overdue`)
	monitoringPHLow  = re(`ph.*low|low.*ph`)
	monitoringPHHigh = re(`ph.*high|high.*ph`)
	monitoringECLow  = re(`ec.*low|low.*ec`)
	monitoringECHigh = re(`ec.*high|high.*ec`)
)

const (
	phTooLow  = "red"
	phTooHigh = "purple"

	levelLow  = "low"
	levelHigh = "high"

	readToday  = "today"
	readRecent = "recent"
	readLatest = "latest"
)

type monitoringParams struct {
	reports.Terms
	NeedsAttention bool
	PH             string
	EC             string
	Time           string
}

func parseMonitoring(message string) monitoringParams {
	msg := strings.ToLower(message)
	var p monitoringParams

	if monitoringIssue.MatchString(msg) {
		p.NeedsAttention = true
		p.Add("needs attention")
	}

	if monitoringPHLow.MatchString(msg) {
		p.PH = phTooLow
		p.Add("pH low")
	}
	if monitoringPHHigh.MatchString(msg) {
		p.PH = phTooHigh
		p.Add("pH high")
	}

	if monitoringECLow.MatchString(msg) {
		p.EC = levelLow
		p.Add("EC low")
	}
	if monitoringECHigh.MatchString(msg) {
		p.EC = levelHigh
		p.Add("EC high")
	}

	switch {
	case strings.Contains(msg, "today"):
		p.Time = readToday
		p.Add("today only")
	case strings.Contains(msg, "recent") && !strings.Contains(msg, "latest"):
		p.Time = readRecent
		p.Add("recent readings")
	case strings.Contains(msg, "latest"):
		p.Time = readLatest
		p.Add("latest")
	}
	return p
}

func monitoringQuery(farmID domain.FarmID, p monitoringParams, now time.Time) *query.Query {
	q := query.From("monitoring_tower_dashboard_fixed").ForFarm(int64(farmID))

	if p.NeedsAttention {
		q.Eq("needs_attention", true)
	}
	if p.PH != "" {
		q.Eq("ph_color", p.PH)
	}
	if p.EC != "" {
		q.Or(
			query.Contains("ec_status", p.EC),
			query.Contains("ec_status", "very_"+p.EC),
		)
	}

	// latest only sorts, which the row order below already does.
	switch p.Time {
	case readToday:
		q.Gte("read_at", midnight(now))
	case readRecent:
		q.Gte("read_at", now.AddDate(0, 0, -7))
	}
	return q.OrderAsc("row_number").OrderAsc("tower_number_within_row")
}

func readingIssues(r store.Row) string {
	var issues []string
	switch r.Str("ph_color") {
	case phTooLow:
		issues = append(issues, "pH Too Low")
	case phTooHigh:
		issues = append(issues, "pH Too High")
	}
	ec := strings.ToLower(r.Str("ec_status"))
	if strings.Contains(ec, levelLow) {
		issues = append(issues, "EC Too Low")
	}
	if strings.Contains(ec, levelHigh) {
		issues = append(issues, "EC Too High")
	}

	ph, _ := r.Float("ph_value")
	ecValue, _ := r.Float("ec_value")
	switch {
	case ph == 0 && ecValue == 0:
		issues = append(issues, "No Readings")
	case r.Bool("needs_attention") && len(issues) == 0:
		issues = append(issues, "Overdue for Reading")
	}

	if len(issues) == 0 {
		return "None"
	}
	return strings.Join(issues, ", ")
}

func reading(r store.Row, col string) string {
	if v, ok := r.Float(col); ok && v != 0 {
		return fmt.Sprintf("%.1f", v)
	}
	return "No Reading"
}

func Monitoring(d Deps) reports.Module {
	const dataType = "monitoring_data"

	return reports.Define(reports.Definition[monitoringParams]{
		Key:      "monitoring",
		Name:     "Nutrient Monitoring Data",
		Keywords: []string{"monitoring", "nutrient", "ph", "ec", "reading"},
		DataType: dataType,
		Parse:    parseMonitoring,
		Fetch: func(ctx context.Context, farmID domain.FarmID, p monitoringParams) ([]store.Row, error) {
			rows, err := d.Store.Select(ctx, monitoringQuery(farmID, p, d.now()))
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Stringer("farm_id", farmID).Msg("monitoring query failed")
				return nil, ErrMonitoringUnavailable
			}
			return rows, nil
		},
		Render: func(rows []store.Row, p monitoringParams) (*domain.Report, error) {
			sum := summary.ForMonitoring(rows)

			title := "Tower Monitoring Dashboard"
			if terms := p.SearchTerms(); len(terms) > 0 {
				title = "Monitoring: " + strings.Join(terms, ", ")
			}

			t := html.Table{
				Title:       title,
				Subtitle:    farmName(rows, "Farm Data"),
				Theme:       html.Steel,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Towers", len(rows),
					"Needs Attention", sum.NeedsAttention,
					"Good", sum.GoodStatus,
					"Never Read", sum.NeverRead,
				),
				Columns: []string{
					"Tower ID", "pH Value", "EC Value", "Last Reading",
					"Read By", "Needs Attention", "Issues",
				},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Text("tower_identifier", "Unknown"), Bold: true},
					{Text: reading(r, "ph_value"), Color: r.Str("ph_color")},
					{Text: reading(r, "ec_value")},
					{Text: r.Text("last_read_human_readable", "Never")},
					{Text: r.Text("reader_name", "-")},
					{Text: yesNo(r.Bool("needs_attention")), Bold: r.Bool("needs_attention")},
					{Text: readingIssues(r)},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Monitoring Dashboard - " + farmName(rows, "Farm Data"),
				Description: fmt.Sprintf("%d towers monitored matching criteria.", len(rows)),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				FarmName:    farmName(rows, "Unknown Farm"),
				Summary:     sum,
			})
		},
	})
}
