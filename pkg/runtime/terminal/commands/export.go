package commands

import (
	"fmt"
	"os"
	"time"

	exportexcel "github.com/co-tools/billing-atlas/pkg/export/excel"
	"github.com/co-tools/billing-atlas/pkg/services/coerce"
	"github.com/co-tools/billing-atlas/pkg/services/dataset"
	"github.com/co-tools/billing-atlas/pkg/services/filter"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	file      string
	out       string
	client    string
	cierre    string
	comercial string
	residuos  []string
	from      string
	to        string
	columns   []string
	registry  *dataset.Registry
}

func NewExportCmd(registry *dataset.Registry) *cobra.Command {
	ec := &ExportCmd{registry: registry}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered consolidated workbook to disk",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.file, "file", "", "Path to the xlsx workbook")
	cmd.Flags().StringVar(&ec.out, "out", "consolidado_con_totales_y_tabla.xlsx", "Output path")
	cmd.Flags().StringVar(&ec.client, "client", "", "Client name substring filter")
	cmd.Flags().StringVar(&ec.cierre, "cierre", "", "Billing close filter (Todos disables)")
	cmd.Flags().StringVar(&ec.comercial, "comercial", "", "Salesperson filter (Todos disables)")
	cmd.Flags().StringSliceVar(&ec.residuos, "residuo", nil, "Waste type multi-select filter")
	cmd.Flags().StringVar(&ec.from, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&ec.to, "to", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringSliceVar(&ec.columns, "columns", nil, "Columns for the consolidated sheet (default: all)")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(ec.file)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	ds, err := ec.registry.Add(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("failed to load workbook: %w", err)
	}

	sheet, _ := ds.Sheet(dataset.RolePosibles)
	if sheet == nil || !sheet.Available {
		return fmt.Errorf("workbook %s has no posibles sheet", ec.file)
	}

	from, err := parseDay(ec.from)
	if err != nil {
		return fmt.Errorf("invalid --from date: %w", err)
	}
	to, err := parseDay(ec.to)
	if err != nil {
		return fmt.Errorf("invalid --to date: %w", err)
	}

	table := coerce.Columns(sheet.Raw, coerce.Spec{Dates: []string{sheet.Spec.DateColumn}})
	filtered := filter.Apply(table,
		filter.TextContains("Cliente", ec.client),
		filter.Equals("CIERRE DE FACTURACIÓN", ec.cierre),
		filter.Equals("Comercial", ec.comercial),
		filter.OneOf("Residuo", ec.residuos),
		filter.DateBetween(sheet.Spec.DateColumn, from, to),
	)

	spec := exportexcel.DefaultSpec()
	if len(ec.columns) > 0 {
		spec.Columns = ec.columns
	}

	buf, err := exportexcel.Buffer(filtered, spec)
	if err != nil {
		return fmt.Errorf("failed to build export: %w", err)
	}

	if err := os.WriteFile(ec.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ec.out, err)
	}

	cmd.Printf("Exportadas %d filas a %s\n", filtered.Len(), ec.out)
	return nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
