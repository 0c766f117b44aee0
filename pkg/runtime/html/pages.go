package html

import (
	"html/template"
	"strings"
	"time"
)

var noDataTmpl = template.Must(template.New("nodata").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>No {{.Name}} Found</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background: #f8f9fa; color: #333; }
.box { background: #fff; border-radius: 8px; padding: 30px; text-align: center; box-shadow: 0 2px 4px rgba(0,0,0,0.08); }
h1 { font-size: 20px; color: #6c757d; }
.terms { color: #666; font-size: 12px; }
.hint { color: #888; font-size: 12px; margin-top: 16px; }
</style>
</head>
<body>
<div class="box">
<h1>No {{.Name}} Found</h1>
<p>No data found for the specified criteria.</p>
{{if .Terms}}<p class="terms">Searched for: {{join .Terms ", "}}</p>{{end}}
<p class="hint">Try broadening your search or asking about a different time period.</p>
<p class="hint">Checked: {{stamp .At}}</p>
</div>
</body>
</html>`))

var errorTmpl = template.Must(template.New("error").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Temporary Data Issue</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background: #f8f9fa; color: #333; }
.box { background: #fff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.08); border-left: 4px solid #ffc107; }
h1 { font-size: 20px; color: #856404; }
li { margin: 4px 0; }
</style>
</head>
<body>
<div class="box">
<h1>Hmm, we encountered a small hiccup</h1>
<p>We're having trouble accessing your {{.Name}} right now. This is usually temporary.</p>
<p><strong>You can try:</strong></p>
<ul>
<li>Asking again in a moment</li>
<li>Rephrasing your question</li>
<li>Asking about a different part of the farm</li>
</ul>
</div>
</body>
</html>`))

var mockTmpl = template.Must(template.New("mock").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Mock Data Table</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 8px; }
th { background-color: #f2f2f2; }
.note { color: #666; font-size: 12px; }
</style>
</head>
<body>
<h1>Mock Data Table</h1>
<p class="note">Query: {{.Message}}</p>
<table>
<thead><tr><th>ID</th><th>Name</th><th>Status</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Status}}</td></tr>
{{- end}}
</tbody>
</table>
<p class="note">No datasource is configured; showing sample rows.</p>
</body>
</html>`))

// MockRow is a sample record served when no datasource is configured.
type MockRow struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

var MockRows = []MockRow{
	{ID: 1, Name: "Sample Item 1", Status: "Active"},
	{ID: 2, Name: "Sample Item 2", Status: "Pending"},
	{ID: 3, Name: "Sample Item 3", Status: "Complete"},
}

func NoData(moduleName string, terms []string, at time.Time) string {
	return execute(noDataTmpl, struct {
		Name  string
		Terms []string
		At    time.Time
	}{moduleName, terms, at}, "No "+moduleName+" Found")
}

// FriendlyError never includes the underlying error; callers log it instead.
func FriendlyError(moduleName string) string {
	return execute(errorTmpl, struct{ Name string }{strings.ToLower(moduleName)}, "Temporary Data Issue")
}

func MockTable(message string) string {
	return execute(mockTmpl, struct {
		Message string
		Rows    []MockRow
	}{message, MockRows}, "Mock Data Table")
}

func execute(t *template.Template, data any, title string) string {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "<!DOCTYPE html><html><body><h1>" + template.HTMLEscapeString(title) + "</h1></body></html>"
	}
	return sb.String()
}
