// Package terminal renders dashboard summaries as formatted text tables
// for the CLI.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/money"
)

type TableConfig struct {
	KeyWidth   int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{KeyWidth: 24, ValueWidth: 18}
}

// Report is the terminal-facing view of one workbook run.
type Report struct {
	Title       string
	Source      string
	Granularity domain.Granularity
	Sections    []Section
}

// Section is one sheet's aggregation, or a warning when the sheet could
// not feed the pipeline.
type Section struct {
	Title        string
	Groups       []domain.AggregateGroup
	Total        float64
	ExcludedRows int
	Warning      string
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer, config: DefaultTableConfig()}
}

func (c *Reporter) Handle(report *Report) error {
	funcMap := template.FuncMap{
		"row": func(key, value string) string {
			return fmt.Sprintf("| %-*s | %*s |", c.config.KeyWidth, key, c.config.ValueWidth, value)
		},
		"groupRow": func(g domain.AggregateGroup) string {
			return fmt.Sprintf("| %-*s | %*s |", c.config.KeyWidth, g.Key, c.config.ValueWidth, money.FormatPesos(g.Total))
		},
		"pesos": money.FormatPesos,
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.KeyWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
	}

	tmpl := `
{{.Title}}
Archivo: {{.Source}}
Agrupación: {{.Granularity}}
{{range .Sections}}
=== {{.Title}} ===
{{if .Warning}}! {{.Warning}}
{{else}}{{separator}}
{{row "Periodo" "Total"}}
{{separator}}
{{range .Groups}}{{groupRow .}}
{{end}}{{separator}}
Total: {{pesos .Total}}{{if .ExcludedRows}}
Filas excluidas por datos faltantes: {{.ExcludedRows}}{{end}}
{{end}}{{end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
