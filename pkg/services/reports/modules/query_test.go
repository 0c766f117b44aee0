package modules

import (
	"testing"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday.
var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

const farm7 = domain.FarmID(7)

func TestModuleQueries(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		query    *query.Query
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "tower plant wins over status",
			query:    towerQuery(farm7, parseTower("growing lettuce towers")),
			wantSQL:  "SELECT * FROM tower_display_with_plants WHERE farm_id = $1 AND plant_name ILIKE $2 ORDER BY tower_identifier ASC",
			wantArgs: []any{int64(7), "%lettuce%"},
		},
		{
			name:     "tower status wins over maintenance",
			query:    towerQuery(farm7, parseTower("available towers needing repair")),
			wantSQL:  "SELECT * FROM tower_display_with_plants WHERE farm_id = $1 AND tower_status IN ($2, $3) ORDER BY tower_identifier ASC",
			wantArgs: []any{int64(7), "Available", "Partially Available"},
		},
		{
			name:     "tower maintenance",
			query:    towerQuery(farm7, parseTower("towers needing service")),
			wantSQL:  "SELECT * FROM tower_display_with_plants WHERE farm_id = $1 AND has_maintenance = $2 ORDER BY tower_identifier ASC",
			wantArgs: []any{int64(7), true},
		},
		{
			name:     "tower availability alone",
			query:    towerQuery(farm7, towerParams{Availability: true}),
			wantSQL:  "SELECT * FROM tower_display_with_plants WHERE farm_id = $1 AND overall_available_ports > $2 ORDER BY tower_identifier ASC",
			wantArgs: []any{int64(7), 0},
		},
		{
			name:     "tower without filters",
			query:    towerQuery(farm7, parseTower("hello")),
			wantSQL:  "SELECT * FROM tower_display_with_plants WHERE farm_id = $1 ORDER BY tower_identifier ASC",
			wantArgs: []any{int64(7)},
		},
		{
			name:  "tasks overdue this week on towers",
			query: tasksQuery(farm7, parseTasks("show me overdue tower tasks this week"), fixedNow),
			wantSQL: "SELECT * FROM task_assignment_view WHERE farm_id = $1 AND due_date < $2 AND status <> $3 " +
				"AND due_date >= $4 AND due_date < $5 AND tower_id IS NOT NULL LIMIT 100",
			wantArgs: []any{int64(7), fixedNow, "completed", sunday, sunday.Add(7 * 24 * time.Hour)},
		},
		{
			name:  "tasks unassigned recurring today",
			query: tasksQuery(farm7, parseTasks("unassigned recurring tasks today"), fixedNow),
			wantSQL: "SELECT * FROM task_assignment_view WHERE farm_id = $1 AND due_date >= $2 AND due_date < $3 " +
				"AND assigned_to IS NULL AND is_recurring = $4 ORDER BY due_date ASC LIMIT 100",
			wantArgs: []any{int64(7), today, today.Add(24 * time.Hour), true},
		},
		{
			name:     "tasks completed",
			query:    tasksQuery(farm7, parseTasks("finished jobs"), fixedNow),
			wantSQL:  "SELECT * FROM task_assignment_view WHERE farm_id = $1 AND status = $2 LIMIT 100",
			wantArgs: []any{int64(7), "completed"},
		},
		{
			name:  "spacer herbs expand to alternatives",
			query: spacerQuery(farm7, parseSpacer("ready herbs with low quantity"), fixedNow),
			wantSQL: "SELECT * FROM spacer_inventory WHERE farm_id = $1 " +
				"AND (plant_type ILIKE $2 OR plant_type ILIKE $3 OR plant_type ILIKE $4) ORDER BY spacer_date DESC",
			wantArgs: []any{int64(7), "%basil%", "%cilantro%", "%parsley%"},
		},
		{
			name:     "spacer status wins over quantity",
			query:    spacerQuery(farm7, parseSpacer("ready trays running low"), fixedNow),
			wantSQL:  "SELECT * FROM spacer_inventory WHERE farm_id = $1 AND status IN ($2) ORDER BY spacer_date DESC",
			wantArgs: []any{int64(7), "Ready"},
		},
		{
			name:     "spacer overdue",
			query:    spacerQuery(farm7, parseSpacer("overdue trays"), fixedNow),
			wantSQL:  "SELECT * FROM spacer_inventory WHERE farm_id = $1 AND expected_ready_date < $2 AND status = $3 ORDER BY spacer_date DESC",
			wantArgs: []any{int64(7), fixedNow, "Growing"},
		},
		{
			name:  "pest recent product keeps undated rows",
			query: pestQuery(farm7, parsePest("recent pyganic applications"), fixedNow),
			wantSQL: "SELECT * FROM pest_recent_applications WHERE farm_id = $1 AND product_name ILIKE $2 " +
				"AND (application_date >= $3 OR application_date IS NULL) ORDER BY application_date DESC NULLS LAST",
			wantArgs: []any{int64(7), "%Pyganic%", "2024-02-10"},
		},
		{
			name:     "pest show all skips time window",
			query:    pestQuery(farm7, parsePest("all organic fungicide sprays"), fixedNow),
			wantSQL:  "SELECT * FROM pest_recent_applications WHERE farm_id = $1 AND product_type ILIKE $2 AND omri_certified = $3 ORDER BY application_date DESC NULLS LAST",
			wantArgs: []any{int64(7), "%Fungicide%", true},
		},
		{
			name:     "pest product wins over type",
			query:    pestQuery(farm7, parsePest("pageant fungicide"), fixedNow),
			wantSQL:  "SELECT * FROM pest_recent_applications WHERE farm_id = $1 AND product_name ILIKE $2 ORDER BY application_date DESC NULLS LAST",
			wantArgs: []any{int64(7), "%Pageant%"},
		},
		{
			name:     "pest last month starts on the first",
			query:    pestQuery(farm7, parsePest("last month spray log"), fixedNow),
			wantSQL:  "SELECT * FROM pest_recent_applications WHERE farm_id = $1 AND (application_date >= $2 OR application_date IS NULL) ORDER BY application_date DESC NULLS LAST",
			wantArgs: []any{int64(7), "2024-04-01"},
		},
		{
			name:  "monitoring attention low ph today",
			query: monitoringQuery(farm7, parseMonitoring("towers with low ph that need attention today"), fixedNow),
			wantSQL: "SELECT * FROM monitoring_tower_dashboard_fixed WHERE farm_id = $1 AND needs_attention = $2 AND ph_color = $3 " +
				"AND read_at >= $4 ORDER BY row_number ASC, tower_number_within_row ASC",
			wantArgs: []any{int64(7), true, "red", today},
		},
		{
			name:  "monitoring ec high",
			query: monitoringQuery(farm7, parseMonitoring("ec readings running high"), fixedNow),
			wantSQL: "SELECT * FROM monitoring_tower_dashboard_fixed WHERE farm_id = $1 AND (ec_status ILIKE $2 OR ec_status ILIKE $3) " +
				"ORDER BY row_number ASC, tower_number_within_row ASC",
			wantArgs: []any{int64(7), "%high%", "%very_high%"},
		},
		{
			name:  "lighting weekly high usage by zone",
			query: lightingQuery(farm7, parseLighting("weekly lighting cost for high usage zones"), fixedNow),
			wantSQL: "SELECT * FROM light_total_summary WHERE farm_id = $1 AND period_day >= $2 AND total_usage_hours >= $3 " +
				"ORDER BY period_day DESC, zones_active DESC LIMIT 30",
			wantArgs: []any{int64(7), "2024-04-10", 12},
		},
		{
			name:     "lighting expensive days",
			query:    lightingQuery(farm7, parseLighting("expensive lights"), fixedNow),
			wantSQL:  "SELECT * FROM light_total_summary WHERE farm_id = $1 AND total_cost >= $2 ORDER BY period_day DESC LIMIT 30",
			wantArgs: []any{int64(7), 50},
		},
		{
			name:     "sensor temperature last hour",
			query:    sensorQuery(farm7, parseSensor("temperature readings from the last hour"), fixedNow),
			wantSQL:  "SELECT * FROM sensor_readings_compiled WHERE farm_id = $1 AND reading_type = $2 AND time >= $3 ORDER BY time DESC LIMIT 100",
			wantArgs: []any{int64(7), "temperature", fixedNow.Add(-time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When
			sql, args, err := tt.query.Build(query.Postgres)

			// Then
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
