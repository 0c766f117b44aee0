package modules

import (
	"testing"

	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/google/go-cmp/cmp"
)

func TestParsePending(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    pendingParams
	}{
		{
			name:    "overdue deliveries",
			message: "show me pending deliveries that are overdue",
			want: pendingParams{
				Terms: reports.Terms{"pending deliveries", "overdue"},
				Time:  timeOverdue,
			},
		},
		{
			name:    "urgent wholesale due today",
			message: "Urgent WHOLESALE deliveries due today",
			want: pendingParams{
				Terms:        reports.Terms{"pending deliveries", "urgent", "wholesale", "due today"},
				Urgency:      "urgent",
				CustomerType: "wholesale",
				Time:         timeToday,
			},
		},
		{
			name:    "retailer also reads as retail",
			message: "deliveries for the retailer",
			want: pendingParams{
				Terms:        reports.Terms{"pending deliveries", "wholesale", "consumer"},
				CustomerType: "consumer",
			},
		},
		{
			name:    "late then today keeps today",
			message: "late deliveries today",
			want: pendingParams{
				Terms: reports.Terms{"pending deliveries", "overdue", "due today"},
				Time:  timeToday,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given / When
			got := parsePending(tt.message)

			// Then
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parsePending() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTower(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    towerParams
	}{
		{
			name:    "plant variety",
			message: "show me green oak towers",
			want: towerParams{
				Terms:  reports.Terms{"Lettuce, Oakleaf Green"},
				Plants: []string{"Lettuce, Oakleaf Green"},
			},
		},
		{
			name:    "availability and repair",
			message: "which towers are available and need repair",
			want: towerParams{
				Terms:        reports.Terms{"available", "maintenance needed"},
				Statuses:     []string{"Available", "Partially Available"},
				Availability: true,
				Maintenance:  true,
			},
		},
		{
			name:    "plant with statuses",
			message: "towers growing lettuce that are clean",
			want: towerParams{
				Terms:    reports.Terms{"lettuce", "growing", "clean"},
				Plants:   []string{"lettuce"},
				Statuses: []string{"Growing", "Clean"},
			},
		},
		{
			name:    "nothing recognised",
			message: "hello",
			want:    towerParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTower(tt.message)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseTower() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTasks(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    tasksParams
	}{
		{
			name:    "overdue tower tasks this week",
			message: "show me overdue tower tasks this week",
			want: tasksParams{
				Terms:  reports.Terms{"overdue", "this week", "tower tasks"},
				Status: statusOverdue,
				Window: windowWeek,
				Tower:  true,
			},
		},
		{
			name:    "unassigned recurring today",
			message: "unassigned recurring tasks today",
			want: tasksParams{
				Terms:      reports.Terms{"unassigned", "due today", "recurring"},
				Unassigned: true,
				Window:     windowToday,
				Recurring:  true,
			},
		},
		{
			name:    "completed overrides pending",
			message: "pending or completed work",
			want: tasksParams{
				Terms:  reports.Terms{"pending", "completed"},
				Status: statusCompleted,
			},
		},
		{
			name:    "my urgent tasks",
			message: "my urgent tasks",
			want: tasksParams{
				Terms:  reports.Terms{"my tasks", "urgent"},
				Mine:   true,
				Urgent: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTasks(tt.message)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseTasks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSpacer(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    spacerParams
	}{
		{
			name:    "herbs ready low quantity",
			message: "ready herbs with low quantity",
			want: spacerParams{
				Terms:    reports.Terms{"herb", "ready", "low quantity"},
				Plants:   []string{"herb"},
				Statuses: []string{"Ready"},
				Quantity: quantityLow,
			},
		},
		{
			name:    "overdue trays",
			message: "overdue trays",
			want: spacerParams{
				Terms: reports.Terms{"overdue"},
				Date:  dateOverdue,
			},
		},
		{
			name:    "abundant basil seeded this week",
			message: "abundant basil seeded this week",
			want: spacerParams{
				Terms:    reports.Terms{"basil", "growing", "high quantity", "recent"},
				Plants:   []string{"basil"},
				Statuses: []string{"Growing"},
				Quantity: quantityHigh,
				Date:     dateRecent,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSpacer(tt.message)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseSpacer() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePest(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    pestParams
	}{
		{
			name:    "recent product",
			message: "recent pyganic applications",
			want: pestParams{
				Terms:    reports.Terms{"Pyganic", "recent"},
				Products: []string{"Pyganic"},
				Time:     pestRecent,
			},
		},
		{
			name:    "show all organic fungicide",
			message: "all organic fungicide sprays",
			want: pestParams{
				Terms:   reports.Terms{"fungicide", "all", "OMRI certified"},
				Types:   []string{"Fungicide"},
				ShowAll: true,
				OMRI:    true,
			},
		},
		{
			name:    "current year reads as recent",
			message: "pest sprays for the current year",
			want: pestParams{
				Terms: reports.Terms{"recent"},
				Time:  pestRecent,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePest(tt.message)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parsePest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseMonitoring(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    monitoringParams
	}{
		{
			name:    "low ph needing attention today",
			message: "towers with low ph that need attention today",
			want: monitoringParams{
				Terms:          reports.Terms{"needs attention", "pH low", "today only"},
				NeedsAttention: true,
				PH:             phTooLow,
				Time:           readToday,
			},
		},
		{
			name:    "ec high",
			message: "ec readings running high",
			want: monitoringParams{
				Terms: reports.Terms{"EC high"},
				EC:    levelHigh,
			},
		},
		{
			name:    "latest beats recent",
			message: "latest recent readings",
			want: monitoringParams{
				Terms: reports.Terms{"latest"},
				Time:  readLatest,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMonitoring(tt.message)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseMonitoring() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLighting(t *testing.T) {
	got := parseLighting("weekly lighting cost for high usage zones")

	want := lightingParams{
		Terms:  reports.Terms{"weekly", "zones", "cost analysis", "high usage"},
		Period: periodWeekly,
		Zones:  true,
		Usage:  usageHigh,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseLighting() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSensor(t *testing.T) {
	got := parseSensor("Temperature readings from the last hour")

	want := sensorParams{
		Terms:       reports.Terms{"temperature", "last hour"},
		ReadingType: "temperature",
		Time:        "last_hour",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseSensor() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_IsPure(t *testing.T) {
	d := Deps{}
	for _, m := range All(d) {
		message := "urgent overdue lettuce towers with low ph this week"
		first := m.Parse(message)
		second := m.Parse(message)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%s: parse is not deterministic (-first +second):\n%s", m.Key, diff)
		}
	}
}
