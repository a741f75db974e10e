package dashboard

import (
	"errors"
	"net/http"

	"github.com/co-tools/billing-atlas/pkg/charts"
	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/services/coerce"
	"github.com/co-tools/billing-atlas/pkg/services/dataset"
	"github.com/co-tools/billing-atlas/pkg/services/pivot"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/rs/zerolog"
)

// ChartsPage renders the full dashboard as one HTML page: evolution of
// possible and sent billing, target compliance, the client Pareto and
// billing per salesperson. Sheets that cannot feed a chart are skipped.
func (h *Handler) ChartsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	granularity, err := domain.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	var page []components.Charter

	if groups, ok := sheetGroups(ds, dataset.RolePosibles, granularity); ok {
		page = append(page, charts.EvolutionLine("Evolución posibles", groups))
	}
	if groups, ok := sheetGroups(ds, dataset.RoleEnviados, granularity); ok {
		page = append(page, charts.EvolutionLine("Total enviados a facturar", groups))
	}

	if comparison := comparisonResponse(ds); len(comparison.Rows) > 0 {
		rows := make([]domain.TargetComparison, 0, len(comparison.Rows))
		for _, row := range comparison.Rows {
			rows = append(rows, domain.TargetComparison{
				Month:     row.Month,
				MonthName: row.MonthName,
				Target:    row.Target,
				Actual:    row.Actual,
				Ratio:     row.Ratio,
			})
		}
		page = append(page, charts.TargetBar(rows), charts.ComplianceLine(rows))
	}

	if sheet, _ := ds.Sheet(dataset.RolePosibles); sheet != nil && sheet.Pipelined() && sheet.Raw.HasColumn("Cliente") {
		coerced, _ := coerce.Table(sheet.Raw, sheet.Spec.CoerceSpec())
		entries, err := pivot.Pareto(pivot.SumBy(coerced, "Cliente", sheet.Spec.ValueColumn))
		switch {
		case errors.Is(err, pivot.ErrNoPositiveTotal):
			logger.Warn().Msg("pareto chart skipped: totals are not positive")
		case err == nil:
			page = append(page, charts.ParetoChart("Pareto clientes", entries))
		}
	}

	if sheet, _ := ds.Sheet(dataset.RoleFacturado); sheet != nil && sheet.Pipelined() && sheet.Raw.HasColumn("COMERCIAL") {
		coerced, _ := coerce.Table(sheet.Raw, sheet.Spec.CoerceSpec())
		groups := pivot.SumBy(coerced, "COMERCIAL", sheet.Spec.ValueColumn)
		page = append(page, charts.SalesBar(groups))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderPage(w, "Dashboard Comercial", page...); err != nil {
		logger.Error().Err(err).Msg("failed to render charts page")
	}
}

func sheetGroups(ds *dataset.Dataset, role dataset.Role, g domain.Granularity) ([]domain.AggregateGroup, bool) {
	sheet, _ := ds.Sheet(role)
	if sheet == nil || !sheet.Pipelined() {
		return nil, false
	}
	coerced, _ := coerce.Table(sheet.Raw, sheet.Spec.CoerceSpec())
	groups := pivot.SumByPeriod(coerced, sheet.Spec.DateColumn, sheet.Spec.ValueColumn, g)
	return groups, len(groups) > 0
}
