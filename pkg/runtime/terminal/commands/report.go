package commands

import (
	"fmt"
	"os"
	"strings"

	terminalexport "github.com/co-tools/billing-atlas/pkg/export/terminal"
	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/services/coerce"
	"github.com/co-tools/billing-atlas/pkg/services/dataset"
	"github.com/co-tools/billing-atlas/pkg/services/pivot"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	file        string
	granularity string
	registry    *dataset.Registry
	reporter    *terminalexport.Reporter
}

func NewReportCmd(registry *dataset.Registry, reporter *terminalexport.Reporter) *cobra.Command {
	rc := &ReportCmd{registry: registry, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a billing workbook per period",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.file, "file", "", "Path to the xlsx workbook")
	cmd.Flags().StringVar(&rc.granularity, "granularity", "month", "Period grouping: day, month or year")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	granularity, err := domain.ParseGranularity(rc.granularity)
	if err != nil {
		return err
	}

	f, err := os.Open(rc.file)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	ds, err := rc.registry.Add(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("failed to load workbook: %w", err)
	}

	report := &terminalexport.Report{
		Title:       "Resumen de facturación",
		Source:      rc.file,
		Granularity: granularity,
		Sections:    sections(ds, granularity),
	}
	return rc.reporter.Handle(report)
}

// sections builds one aggregation section per date/value sheet. The wide
// target sheet has no period axis and is not reported here.
func sections(ds *dataset.Dataset, granularity domain.Granularity) []terminalexport.Section {
	var out []terminalexport.Section
	for _, sheet := range ds.Sheets() {
		if sheet.Spec.Wide() {
			continue
		}

		section := terminalexport.Section{Title: strings.ToUpper(string(sheet.Spec.Role))}
		if !sheet.Pipelined() {
			section.Warning = sheet.Diagnostics().Warning
			out = append(out, section)
			continue
		}

		coerced, drops := coerce.Table(sheet.Raw, sheet.Spec.CoerceSpec())
		groups := pivot.SumByPeriod(coerced, sheet.Spec.DateColumn, sheet.Spec.ValueColumn, granularity)

		section.Groups = groups
		section.Total = pivot.Total(groups)
		section.ExcludedRows = drops.Excluded()
		out = append(out, section)
	}
	return out
}
