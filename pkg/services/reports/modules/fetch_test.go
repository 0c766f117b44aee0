package modules

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/services/config"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/store/datasource"
	"github.com/de-tools/farm-atlas/pkg/store/farm"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func mockGateway(t *testing.T) (*query.Gateway, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return query.NewGateway(db, query.Postgres), mock
}

type staticNames struct {
	mu     sync.Mutex
	name   string
	called []domain.FarmID
}

func (s *staticNames) Lookup(_ context.Context, id domain.FarmID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called = append(s.called, id)
	return s.name
}

func (s *staticNames) Enrich(ctx context.Context, id domain.FarmID, rows []store.Row) {
	name := s.Lookup(ctx, id)
	for _, r := range rows {
		r["farm_name"] = name
	}
}

func orchestrator(t *testing.T, d Deps) *reports.Orchestrator {
	reg := reports.Load(testContext(t), All(d))
	return reports.NewOrchestrator(reg, reports.Options{
		Priority: config.DefaultPriority,
		Fallback: config.DefaultFallback,
		Clock:    func() time.Time { return fixedNow },
	})
}

func TestAll_RegistersEveryModule(t *testing.T) {
	reg := reports.Load(testContext(t), All(fixedDeps()))

	assert.Equal(t, 15, reg.Len())
	for _, key := range config.DefaultPriority {
		_, ok := reg.Get(key)
		assert.True(t, ok, key)
	}
	_, ok := reg.Get(config.DefaultFallback)
	assert.True(t, ok)
}

func TestRouting(t *testing.T) {
	o := orchestrator(t, fixedDeps())

	tests := []struct {
		message string
		want    string
	}{
		{"show me pending deliveries that are overdue", "pendingDeliveries"},
		{"what can i sell", "availableHarvest"},
		{"what's the ph on tower 3", "monitoring"},
		{"any ready trays", "spacer"},
		{"tasks", "tasks"},
		{"hello there", "tower"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			sel, err := o.Route(tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Module.Key)
		})
	}
}

func TestPendingDeliveries_FetchOverdue(t *testing.T) {
	// Given
	gw, mock := mockGateway(t)
	mock.ExpectQuery("SELECT * FROM rpt_pending_deliveries WHERE farm_id = $1 AND expected_delivery_date < $2 ORDER BY expected_delivery_date ASC").
		WithArgs(int64(7), fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"customer_name", "expected_delivery_date"}).
			AddRow("Green Grocer", "2024-05-01"))

	o := orchestrator(t, Deps{Store: gw, Now: func() time.Time { return fixedNow }})

	// When
	report, err := o.Process(testContext(t), "show me pending deliveries that are overdue", farm7)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 1, report.Metadata.RecordCount)
	assert.Equal(t, "pending deliveries, overdue", report.Metadata.SearchQuery)
	assert.Equal(t, []string{"pending deliveries", "deliveries"}, report.Metadata.MatchedKeywords)
	assert.Equal(t, farm7, report.Metadata.FarmID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryStats_FetchesOneRow(t *testing.T) {
	gw, mock := mockGateway(t)
	mock.ExpectQuery("SELECT * FROM rpt_summary_stats WHERE farm_id = $1 LIMIT 1").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"pending_deliveries", "overdue_deliveries"}).AddRow(int64(3), int64(0)))

	o := orchestrator(t, Deps{Store: gw, Now: func() time.Time { return fixedNow }})

	report, err := o.Process(testContext(t), "open the dashboard", farm7)

	require.NoError(t, err)
	assert.Equal(t, "rpt_summary_stats", report.Metadata.DataType)
	assert.Equal(t, 1, report.Metadata.RecordCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonitoring_HidesDatabaseErrors(t *testing.T) {
	gw, mock := mockGateway(t)
	mock.ExpectQuery("SELECT * FROM monitoring_tower_dashboard_fixed WHERE farm_id = $1 ORDER BY row_number ASC, tower_number_within_row ASC").
		WithArgs(int64(7)).
		WillReturnError(errors.New(`relation "monitoring_tower_dashboard_fixed" does not exist`))

	m := Monitoring(Deps{Store: gw, Now: func() time.Time { return fixedNow }})

	rows, err := m.Fetch(testContext(t), farm7, m.Parse("what's the ph on tower 3"))

	assert.Nil(t, rows)
	assert.ErrorIs(t, err, ErrMonitoringUnavailable)
	assert.NotContains(t, err.Error(), "does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonitoring_FailureBecomesFriendlyReport(t *testing.T) {
	gw, mock := mockGateway(t)
	mock.ExpectQuery("SELECT * FROM monitoring_tower_dashboard_fixed WHERE farm_id = $1 ORDER BY row_number ASC, tower_number_within_row ASC").
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset by peer"))

	o := orchestrator(t, Deps{Store: gw, Now: func() time.Time { return fixedNow }})

	report, err := o.Process(testContext(t), "what's the ph on tower 3", farm7)

	require.NoError(t, err)
	assert.True(t, report.Metadata.Error)
	assert.Equal(t, "monitoring", report.Metadata.ModuleUsed)
	assert.NotContains(t, report.HTMLContent, "connection reset")
}

func TestTasks_FetchEnrichesFarmName(t *testing.T) {
	gw, mock := mockGateway(t)
	mock.ExpectQuery("SELECT * FROM task_assignment_view WHERE farm_id = $1 ORDER BY due_date ASC LIMIT 100").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"task_type", "status"}).
			AddRow("Harvest", "pending").
			AddRow("Clean", "completed"))

	names := &staticNames{name: "North Field"}
	m := Tasks(Deps{Store: gw, Farms: names, Now: func() time.Time { return fixedNow }})

	rows, err := m.Fetch(testContext(t), farm7, m.Parse("tasks"))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "North Field", r.Str("farm_name"))
	}
	assert.Equal(t, []domain.FarmID{farm7}, names.called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcess_EmptyLightingGivesNoDataReport(t *testing.T) {
	gw, mock := mockGateway(t)
	mock.ExpectQuery("SELECT * FROM light_total_summary WHERE farm_id = $1 ORDER BY period_day DESC LIMIT 30").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"period_day"}))

	o := orchestrator(t, Deps{Store: gw, Now: func() time.Time { return fixedNow }})

	report, err := o.Process(testContext(t), "lighting", farm7)

	require.NoError(t, err)
	assert.Equal(t, "No Lighting Usage Report Found", report.Metadata.Title)
	assert.Equal(t, 0, report.Metadata.RecordCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func openSQLite(t *testing.T, ctx context.Context, name string) (*query.Gateway, *sql.DB) {
	gw, db, err := datasource.Open(ctx, config.Datasource{
		Driver:    "sqlite",
		DSN:       "file:" + name + "?mode=memory&cache=shared",
		Bootstrap: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return gw, db
}

func TestProcess_NeverMixesFarms(t *testing.T) {
	// Given
	ctx := testContext(t)
	gw, db := openSQLite(t, ctx, "modules_isolation")

	for _, stmt := range []string{
		`INSERT INTO farms (id, farm_name) VALUES (1, 'North Field'), (2, 'South Field')`,
		`INSERT INTO rpt_available_harvest (farm_id, plant_name, available_quantity, days_since_harvest, freshness_level)
			VALUES (1, 'Basil', 5, 1, 'very_fresh'), (1, 'Kale', 3, 4, 'fresh'), (2, 'Chard', 9, 2, 'fresh')`,
		`INSERT INTO task_assignment_view (farm_id, task_type, status, due_date)
			VALUES (1, 'Harvest', 'pending', '2024-05-12 09:00:00'), (2, 'Wash South', 'pending', '2024-05-12 09:00:00')`,
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	names, err := farm.NewNames(gw, 16)
	require.NoError(t, err)
	o := orchestrator(t, Deps{Store: gw, Farms: names, Now: func() time.Time { return fixedNow }})

	// When
	harvest, err := o.Process(ctx, "what can i sell", 1)
	require.NoError(t, err)
	empty, err := o.Process(ctx, "what can i sell", 3)
	require.NoError(t, err)
	tasks, err := o.Process(ctx, "tasks", 1)
	require.NoError(t, err)

	// Then
	assert.Equal(t, 2, harvest.Metadata.RecordCount)
	assert.NotContains(t, harvest.HTMLContent, "Chard")

	assert.Equal(t, "No Available Harvest Report Found", empty.Metadata.Title)
	assert.Equal(t, domain.FarmID(3), empty.Metadata.FarmID)

	assert.Equal(t, 1, tasks.Metadata.RecordCount)
	assert.Equal(t, "North Field", tasks.Metadata.FarmName)
	assert.NotContains(t, tasks.HTMLContent, "Wash South")
}
