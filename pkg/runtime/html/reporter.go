package html

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
)

// Theme colours the header and table accents of a report.
type Theme struct {
	Accent     string
	Background string
}

var (
	Green  = Theme{Accent: "#2E8B57", Background: "#f0f8f0"}
	Brown  = Theme{Accent: "#8B4513", Background: "#fdf6f0"}
	Steel  = Theme{Accent: "#4682B4", Background: "#e6f3ff"}
	Amber  = Theme{Accent: "#D2691E", Background: "#fff8e6"}
	Purple = Theme{Accent: "#6A5ACD", Background: "#f3f0ff"}
)

type Cell struct {
	Text       string
	Class      string
	Color      string
	Background string
	Bold       bool
}

type SummaryItem struct {
	Label string
	Value string
}

// Table is a single-table report page.
type Table struct {
	Title       string
	Subtitle    string
	Theme       Theme
	SearchTerms []string
	Summary     []SummaryItem
	Columns     []string
	Rows        [][]Cell
	RowClasses  []string
	Footer      string
	GeneratedAt time.Time
}

type Card struct {
	Label string
	Value string
	Unit  string
	Color string
}

type Dashboard struct {
	Title       string
	Description string
	Cards       []Card
	GeneratedAt time.Time
}

var cssColor = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|rgba?\([0-9., ]+\))$`)

// safeColor admits only values that are plainly CSS colours. Anything else
// from a data row is dropped.
func safeColor(c string) template.CSS {
	c = strings.TrimSpace(c)
	if !cssColor.MatchString(c) {
		return ""
	}
	return template.CSS(c)
}

var funcs = template.FuncMap{
	"color": safeColor,
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			t = time.Now()
		}
		return t.Format("Jan 2, 2006 3:04 PM")
	},
	"join": strings.Join,
}

const baseStyle = `
body { font-family: Arial, sans-serif; margin: 20px; font-size: 12px; color: #333; line-height: 1.4; background: #f8f9fa; }
.container { background: #fff; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.08); }
h1 { font-size: 18px; margin: 0 0 6px 0; padding-bottom: 5px; }
.info { font-size: 11px; color: #666; padding: 10px; border-radius: 6px; margin-bottom: 14px; }
.summary { display: flex; flex-wrap: wrap; gap: 12px; margin-bottom: 14px; }
.summary .item { padding: 8px 12px; border-radius: 6px; font-size: 11px; }
.summary .item strong { display: block; font-size: 16px; }
table { width: 100%; border-collapse: collapse; font-size: 11px; }
th, td { border: 1px solid #ddd; padding: 6px 8px; text-align: left; }
th { background-color: #f8f9fa; font-weight: bold; text-transform: uppercase; font-size: 10px; }
tr:nth-child(even) { background-color: #f9f9f9; }
.footer { margin-top: 16px; font-size: 10px; color: #666; text-align: center; border-top: 1px solid #ddd; padding-top: 8px; }
.status-growing { background-color: #d4edda; color: #155724; }
.status-clean { background-color: #cce7ff; color: #004085; }
.status-available { background-color: #f0f0f0; color: #495057; }
.status-maintenance { background-color: #fff3cd; color: #856404; }
.status-ready { background-color: #d4edda; color: #155724; }
.overdue-row { background-color: #fdecea !important; }
.usage-high, .cost-high { color: #dc3545; font-weight: bold; }
.usage-medium, .cost-medium { color: #fd7e14; }
.usage-low, .cost-low { color: #28a745; }
@media print { body { background: #fff; } .container { box-shadow: none; } }
`

var tableTmpl = template.Must(template.New("table").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>` + baseStyle + `
h1 { color: {{color .Theme.Accent}}; border-bottom: 2px solid {{color .Theme.Accent}}; }
th { color: {{color .Theme.Accent}}; }
.info { background: {{color .Theme.Background}}; border-left: 4px solid {{color .Theme.Accent}}; }
.summary .item { background: {{color .Theme.Background}}; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<div class="info">
{{if .Subtitle}}<div>{{.Subtitle}}</div>{{end}}
<div>Generated: {{stamp .GeneratedAt}}</div>
{{if .SearchTerms}}<div>Search: {{join .SearchTerms ", "}}</div>{{end}}
<div>Records: {{len .Rows}}</div>
</div>
{{if .Summary}}<div class="summary">{{range .Summary}}<div class="item"><strong>{{.Value}}</strong>{{.Label}}</div>{{end}}</div>{{end}}
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- $classes := .RowClasses}}
{{- range $i, $row := .Rows}}
<tr{{with index $classes $i}} class="{{.}}"{{end}}>{{range $row}}<td{{if .Class}} class="{{.Class}}"{{end}}{{if or (color .Color) (color .Background)}} style="{{with color .Color}}color: {{.}};{{end}}{{with color .Background}} background-color: {{.}};{{end}}"{{end}}>{{if .Bold}}<strong>{{.Text}}</strong>{{else}}{{.Text}}{{end}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{if .Footer}}<div class="footer">{{.Footer}}</div>{{end}}
</div>
</body>
</html>`))

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background: #f4f7f6; color: #333; }
h1 { text-align: center; color: #2E8B57; }
.description { text-align: center; color: #666; font-size: 12px; }
.dashboard { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-top: 20px; }
.card { background: #fff; border-radius: 8px; padding: 20px; box-shadow: 0 4px 8px rgba(0,0,0,0.1); text-align: center; }
.card h2 { margin: 0 0 10px 0; font-size: 16px; color: #555; }
.card .value { font-size: 36px; font-weight: bold; }
.card .unit { font-size: 18px; }
.card .status { height: 5px; border-radius: 3px; margin-top: 15px; background-color: #ddd; }
.footer { margin-top: 16px; font-size: 10px; color: #666; text-align: center; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Description}}<div class="description">{{.Description}}</div>{{end}}
<div class="dashboard">
{{- range .Cards}}
<div class="card"><h2>{{.Label}}</h2><div class="value">{{.Value}}{{if .Unit}} <span class="unit">{{.Unit}}</span>{{end}}</div><div class="status"{{with color .Color}} style="background-color: {{.}};"{{end}}></div></div>
{{- end}}
</div>
<div class="footer">Generated: {{stamp .GeneratedAt}}</div>
</body>
</html>`))

func RenderTable(t Table) (string, error) {
	if len(t.RowClasses) < len(t.Rows) {
		classes := make([]string, len(t.Rows))
		copy(classes, t.RowClasses)
		t.RowClasses = classes
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return "", fmt.Errorf("row %d has %d cells, table has %d columns", i, len(row), len(t.Columns))
		}
	}

	var sb strings.Builder
	if err := tableTmpl.Execute(&sb, t); err != nil {
		return "", fmt.Errorf("failed to render %q: %w", t.Title, err)
	}
	return sb.String(), nil
}

func RenderDashboard(d Dashboard) (string, error) {
	var sb strings.Builder
	if err := dashboardTmpl.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("failed to render %q: %w", d.Title, err)
	}
	return sb.String(), nil
}
