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

var sensorLastHour = re(`last.*hour`)

var sensorLookback = map[string]time.Duration{
	"recent":    24 * time.Hour,
	"last_hour": time.Hour,
}

type sensorParams struct {
	reports.Terms
	ReadingType string
	Time        string
}

func parseSensor(message string) sensorParams {
	msg := strings.ToLower(message)
	var p sensorParams

	if strings.Contains(msg, "temp") {
		p.ReadingType = "temperature"
		p.Add("temperature")
	}
	if strings.Contains(msg, "humidity") {
		p.ReadingType = "humidity"
		p.Add("humidity")
	}
	if containsAny(msg, "recent", "latest", "today") {
		p.Time = "recent"
		p.Add("recent")
	}
	if sensorLastHour.MatchString(msg) {
		p.Time = "last_hour"
		p.Add("last hour")
	}
	return p
}

func sensorQuery(farmID domain.FarmID, p sensorParams, now time.Time) *query.Query {
	q := query.From("sensor_readings_compiled").ForFarm(int64(farmID))
	if p.ReadingType != "" {
		q.Eq("reading_type", p.ReadingType)
	}
	if window, ok := sensorLookback[p.Time]; ok {
		q.Gte("time", now.Add(-window))
	}
	return q.OrderDesc("time").Limit(100)
}

func Sensor(d Deps) reports.Module {
	const dataType = "sensor_data"

	return reports.Define(reports.Definition[sensorParams]{
		Key:      "sensor",
		Name:     "Sensor Reading Data",
		Keywords: []string{"sensor", "temperature", "humidity", "data"},
		DataType: dataType,
		Parse:    parseSensor,
		Fetch: func(ctx context.Context, farmID domain.FarmID, p sensorParams) ([]store.Row, error) {
			return d.Store.Select(ctx, sensorQuery(farmID, p, d.now()))
		},
		Render: func(rows []store.Row, p sensorParams) (*domain.Report, error) {
			sum := summary.ForSensors(rows)
			t := html.Table{
				Title:       "Sensor Readings Report",
				Theme:       html.Steel,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Sensors", sum.UniqueSensors,
					"Reading Types", sum.ReadingTypes,
					"Latest", sum.LatestReading,
				),
				Columns:     []string{"Sensor", "Reading Type", "Value", "Time"},
				GeneratedAt: d.now(),
			}
			for _, r := range rows {
				when := "-"
				if ts, ok := r.Time("time"); ok {
					when = ts.Format("1/2/2006, 3:04:05 PM")
				}
				t.Rows = append(t.Rows, []html.Cell{
					{Text: r.Text("sensor_name", "-")},
					{Text: r.Text("reading_type", "-")},
					{Text: decimal(r, "value", 2, "-")},
					{Text: when},
				})
			}

			return page(t, domain.Metadata{
				Title:       "Sensor Readings - Farm Data",
				Description: fmt.Sprintf("%d readings found matching criteria.", len(rows)),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				Summary:     sum,
			})
		},
	})
}
