package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/nao1215/markdown"
	"gopkg.in/yaml.v3"
)

const (
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

func ValidReportFormat(format string) bool {
	switch format {
	case FormatHTML, FormatJSON, FormatYAML:
		return true
	}
	return false
}

type TableConfig struct {
	OrderWidth    int
	KeyWidth      int
	NameWidth     int
	DataTypeWidth int
	KeywordsWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		OrderWidth:    8,
		KeyWidth:      20,
		NameWidth:     30,
		DataTypeWidth: 26,
		KeywordsWidth: 60,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// Handle writes a report as the raw HTML page or as its JSON/YAML envelope.
func (c *Reporter) Handle(report *domain.Report, format string) error {
	switch format {
	case FormatHTML:
		_, err := io.WriteString(c.writer, report.HTMLContent+"\n")
		return err
	case FormatJSON:
		enc := json.NewEncoder(c.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(c.writer)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

var selectionTmpl = template.Must(template.New("selection").Funcs(template.FuncMap{"join": strings.Join}).Parse(`Message: {{.Message}}
Module:  {{.Selection.Module.Key}} ({{.Selection.Module.Name}})
Matched: {{if .Selection.Matched}}{{join .Selection.Matched ", "}}{{else}}-{{end}}

Trace:
{{range .Selection.Trace}}  {{printf "%-22s" .Module}} {{.Outcome}}{{if .Matched}} [{{join .Matched ", "}}]{{end}}
{{end}}`))

func (c *Reporter) HandleSelection(message string, sel reports.Selection) error {
	return selectionTmpl.Execute(c.writer, struct {
		Message   string
		Selection reports.Selection
	}{message, sel})
}

// HandleModules lists modules in the order given. The last one is the fallback.
func (c *Reporter) HandleModules(modules []reports.Module, format string) error {
	rows := make([][]string, 0, len(modules))
	for i, m := range modules {
		order := strconv.Itoa(i + 1)
		if i == len(modules)-1 {
			order = "fallback"
		}
		rows = append(rows, []string{order, m.Key, m.Name, m.DataType, strings.Join(m.Keywords, ", ")})
	}

	switch format {
	case FormatText:
		return c.textTable(rows)
	case FormatMarkdown:
		md := markdown.NewMarkdown(c.writer)
		md.H1("Report Modules")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Order", "Key", "Name", "Data Type", "Keywords"},
			Rows:   rows,
		})
		return md.Build()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func (c *Reporter) textTable(rows [][]string) error {
	widths := []int{c.config.OrderWidth, c.config.KeyWidth, c.config.NameWidth, c.config.DataTypeWidth, c.config.KeywordsWidth}

	funcMap := template.FuncMap{
		"formatRow": func(cells []string) string {
			parts := make([]string, len(cells))
			for i, cell := range cells {
				parts[i] = fmt.Sprintf(" %-*s ", widths[i], truncate(cell, widths[i]))
			}
			return "|" + strings.Join(parts, "|") + "|"
		},
		"separator": func() string {
			parts := make([]string, len(widths))
			for i, w := range widths {
				parts[i] = strings.Repeat("-", w+2)
			}
			return "+" + strings.Join(parts, "+") + "+"
		},
		"header": func() []string {
			return []string{"Order", "Key", "Name", "Data Type", "Keywords"}
		},
	}

	tmpl := `{{separator}}
{{formatRow header}}
{{separator}}
{{range .}}{{formatRow .}}
{{end}}{{separator}}
`

	t, err := template.New("modules").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, rows)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
