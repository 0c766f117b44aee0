package modules

import (
	"context"
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/summary"
	"github.com/de-tools/farm-atlas/pkg/store/query"
)

const (
	statusPending   = "pending"
	statusCompleted = "completed"
	statusOverdue   = "overdue"

	windowToday = "today"
	windowWeek  = "this_week"
)

var (
	tasksPending    = re(`pending|waiting|todo|to.*do`)
	tasksCompleted  = re(`completed|done|finished`)
	tasksOverdue    = re(`overdue|late|past.*due`)
	tasksMine       = re(`assigned.*to.*me|my.*tasks|mine`)
	tasksUnassigned = re(`unassigned|no.*one.*assigned|not.*assigned`)
	tasksThisWeek   = re(`this.*week|week`)
	tasksUrgent     = re(`urgent|priority`)
	tasksRecurring  = re(`recurring|repeat|regular`)
)

type tasksParams struct {
	reports.Terms
	Status     string
	Mine       bool
	Unassigned bool
	Window     string
	Urgent     bool
	Tower      bool
	Recurring  bool
}

func parseTasks(message string) tasksParams {
	msg := strings.ToLower(message)
	var p tasksParams

	if tasksPending.MatchString(msg) {
		p.Status = statusPending
		p.Add("pending")
	}
	if tasksCompleted.MatchString(msg) {
		p.Status = statusCompleted
		p.Add("completed")
	}
	if tasksOverdue.MatchString(msg) {
		p.Status = statusOverdue
		p.Add("overdue")
	}

	if tasksMine.MatchString(msg) {
		p.Mine = true
		p.Add("my tasks")
	}
	if tasksUnassigned.MatchString(msg) {
		p.Unassigned = true
		p.Add("unassigned")
	}

	if strings.Contains(msg, "today") {
		p.Window = windowToday
		p.Add("due today")
	}
	if tasksThisWeek.MatchString(msg) {
		p.Window = windowWeek
		p.Add("this week")
	}
	if tasksUrgent.MatchString(msg) {
		p.Urgent = true
		p.Add("urgent")
	}
	if strings.Contains(msg, "tower") {
		p.Tower = true
		p.Add("tower tasks")
	}
	if tasksRecurring.MatchString(msg) {
		p.Recurring = true
		p.Add("recurring")
	}
	return p
}

func tasksQuery(farmID domain.FarmID, p tasksParams, now time.Time) *query.Query {
	q := query.From("task_assignment_view").ForFarm(int64(farmID)).Limit(100)

	switch p.Status {
	case "":
	case statusOverdue:
		q.Lt("due_date", now).Neq("status", statusCompleted)
	default:
		q.Eq("status", p.Status)
	}

	var start, end time.Time
	switch p.Window {
	case windowToday:
		start = midnight(now)
		end = start.Add(24 * time.Hour)
	case windowWeek:
		start = now.Add(-time.Duration(now.Weekday()) * 24 * time.Hour)
		end = start.Add(7 * 24 * time.Hour)
	}
	if !start.IsZero() {
		q.Gte("due_date", start).Lt("due_date", end)
	}

	if p.Unassigned {
		q.IsNull("assigned_to")
	}
	if p.Tower {
		q.NotNull("tower_id")
	}
	if p.Recurring {
		q.Eq("is_recurring", true)
	}

	// The view orders by status itself.
	if p.Status == "" {
		q.OrderAsc("due_date")
	}
	return q
}

func Tasks(d Deps) reports.Module {
	const dataType = "tasks"

	return reports.Define(reports.Definition[tasksParams]{
		Key:      "tasks",
		Name:     "Task Assignment Report",
		Keywords: []string{"tasks", "assignments", "todo", "overdue", "pending", "completed", "due", "work", "assigned"},
		DataType: dataType,
		Parse:    parseTasks,
		Fetch: func(ctx context.Context, farmID domain.FarmID, p tasksParams) ([]store.Row, error) {
			rows, err := d.Store.Select(ctx, tasksQuery(farmID, p, d.now()))
			if err != nil {
				return nil, err
			}
			d.enrich(ctx, farmID, rows)
			return rows, nil
		},
		Render: func(rows []store.Row, p tasksParams) (*domain.Report, error) {
			now := d.now()
			sum := summary.ForTasks(rows, now)
			farm := farmName(rows, "Unknown Farm")

			title := "Task Assignment Report"
			if terms := p.SearchTerms(); len(terms) > 0 {
				title = "Tasks: " + strings.Join(terms, ", ")
			}

			t := html.Table{
				Title:       title,
				Subtitle:    farm,
				Theme:       html.Purple,
				SearchTerms: p.SearchTerms(),
				Summary: items(
					"Total", sum.TotalTasks,
					"Pending", sum.Pending,
					"Completed", sum.Completed,
					"Overdue", sum.Overdue,
					"Unassigned", sum.Unassigned,
					"Recurring", sum.RecurringTasks,
				),
				Columns: []string{
					"Task Type", "Assigned To", "Role", "Due Date",
					"Status", "Tower", "Recurring", "Notes",
				},
				GeneratedAt: now,
			}
			for _, r := range rows {
				status := r.Text("status", "Unknown")
				overdue := false
				if due, ok := r.Time("due_date"); ok {
					overdue = due.Before(now) && status != statusCompleted
				}

				cells := []html.Cell{
					{Text: r.Text("task_type", "Task")},
					{Text: r.Text("assigned_to_name", "Unassigned")},
					{Text: r.Text("assigned_role_name", "-")},
					{Text: date(r, "due_date")},
					{Text: status, Bold: status != statusCompleted},
					{Text: r.Text("tower_identifier", "-")},
					{Text: yesNo(r.Bool("is_recurring"))},
					{Text: r.Text("notes", "-")},
				}
				for i := range cells {
					cells[i].Color = r.Str("color_code")
					cells[i].Background = r.Str("bg_color_code")
				}
				t.Rows = append(t.Rows, cells)

				class := ""
				if overdue {
					class = "overdue-row"
				}
				t.RowClasses = append(t.RowClasses, class)
			}

			return page(t, domain.Metadata{
				Title:       "Task Assignment Report - " + farm,
				Description: matching(len(rows), "tasks", p.SearchTerms()),
				RecordCount: len(rows),
				DataType:    dataType,
				SearchQuery: joinTerms(p),
				FarmName:    farm,
				Summary:     sum,
			})
		},
	})
}
