// Package dashboard exposes the reporting pipeline over HTTP: workbook
// upload, per-sheet summaries and series, the Pareto and target views,
// the search tab and the consolidated export.
package dashboard

import (
	"fmt"
	"net/http"
	"time"

	exportexcel "github.com/co-tools/billing-atlas/pkg/export/excel"
	"github.com/co-tools/billing-atlas/pkg/models/api"
	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/money"
	"github.com/co-tools/billing-atlas/pkg/services/coerce"
	"github.com/co-tools/billing-atlas/pkg/services/dataset"
	"github.com/co-tools/billing-atlas/pkg/services/filter"
	"github.com/co-tools/billing-atlas/pkg/services/pivot"
	"github.com/co-tools/billing-atlas/pkg/services/targets"
	"github.com/co-tools/billing-atlas/pkg/store/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	registry *dataset.Registry
	sessions *session.Store
}

func NewHandler(registry *dataset.Registry, sessions *session.Store) *Handler {
	return &Handler{registry: registry, sessions: sessions}
}

// Upload ingests a workbook and reports per-sheet diagnostics.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("workbook")
	if err != nil {
		badRequest(w, r, "missing workbook file")
		return
	}
	defer file.Close()

	ds, err := h.registry.Add(ctx, file)
	if err != nil {
		logger.Error().Err(err).Msg("workbook upload failed")
		badRequest(w, r, fmt.Sprintf("unreadable workbook: %v", err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.UploadResponse{DatasetID: ds.ID, Sheets: sheetStatuses(ds)})
}

// GetDataset reports the sheet inventory of an uploaded workbook.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, api.UploadResponse{DatasetID: ds.ID, Sheets: sheetStatuses(ds)})
}

// Summary returns the period-bucketed aggregation of one sheet. The
// multi-period selection is retained per session and restored while the
// chosen periods still exist.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	sheet, ok := h.pipelineSheet(w, r, ds)
	if !ok {
		return
	}

	granularity, err := domain.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	resp := api.Summary{Sheet: string(sheet.Spec.Role), Granularity: granularity.String()}
	if !sheet.Pipelined() {
		resp.Warning = sheet.Diagnostics().Warning
		render.JSON(w, r, resp)
		return
	}

	coerced, report := coerce.Table(sheet.Raw, sheet.Spec.CoerceSpec())
	groups := pivot.SumByPeriod(coerced, sheet.Spec.DateColumn, sheet.Spec.ValueColumn, granularity)

	available := make([]string, 0, len(groups))
	for _, g := range groups {
		available = append(available, g.Key)
	}

	tab := string(sheet.Spec.Role)
	selected := r.URL.Query()["periods"]
	if r.URL.Query().Has("periods") {
		if err := h.sessions.Save(w, r, tab, map[string][]string{"periods": selected}); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to persist period selection")
		}
	} else {
		selected = session.Restore(h.sessions.Selections(r, tab)["periods"], available)
	}

	kept := pivot.Keep(groups, selected)
	for _, g := range kept {
		resp.Groups = append(resp.Groups, api.PeriodTotal{
			Period:         g.Key,
			Total:          g.Total,
			TotalFormatted: money.FormatPesos(g.Total),
		})
	}
	resp.Total = pivot.Total(kept)
	resp.TotalFormatted = money.FormatPesos(resp.Total)
	resp.ExcludedRows = report.Excluded()

	render.JSON(w, r, resp)
}

// Series returns the chart-ready chronological series for one sheet.
func (h *Handler) Series(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	sheet, ok := h.pipelineSheet(w, r, ds)
	if !ok {
		return
	}
	granularity, err := domain.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	series := api.Series{Name: string(sheet.Spec.Role)}
	if sheet.Pipelined() {
		coerced, _ := coerce.Table(sheet.Raw, sheet.Spec.CoerceSpec())
		for _, g := range pivot.SumByPeriod(coerced, sheet.Spec.DateColumn, sheet.Spec.ValueColumn, granularity) {
			series.Labels = append(series.Labels, g.Key)
			series.Values = append(series.Values, g.Total)
		}
	}
	render.JSON(w, r, series)
}

// Pareto returns the cumulative-share ranking of a grouping column.
func (h *Handler) Pareto(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	sheet, ok := h.pipelineSheet(w, r, ds)
	if !ok {
		return
	}

	group := r.URL.Query().Get("group")
	if group == "" {
		group = "Cliente"
	}
	if !sheet.Raw.HasColumn(group) {
		badRequest(w, r, fmt.Sprintf("sheet has no column %q", group))
		return
	}

	coerced, _ := coerce.Table(sheet.Raw, sheet.Spec.CoerceSpec())
	groups := pivot.SumBy(coerced, group, sheet.Spec.ValueColumn)
	entries, err := pivot.Pareto(groups)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, api.ErrResponse{Error: "cumulative share is undefined: totals are not positive"})
		return
	}

	resp := api.ParetoResponse{Group: group, Total: pivot.Total(groups)}
	for _, e := range entries {
		resp.Points = append(resp.Points, api.ParetoPoint{
			Key:           e.Key,
			Value:         e.Value,
			CumulativePct: e.CumulativePct,
		})
	}
	render.JSON(w, r, resp)
}

// Comparison joins the monthly targets against the sent-to-billing
// amounts.
func (h *Handler) Comparison(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}

	resp := comparisonResponse(ds)
	render.JSON(w, r, resp)
}

func comparisonResponse(ds *dataset.Dataset) api.ComparisonResponse {
	metas, _ := ds.Sheet(dataset.RoleMetas)
	enviados, _ := ds.Sheet(dataset.RoleEnviados)

	var resp api.ComparisonResponse
	if metas == nil || !metas.Available {
		resp.Warning = "target sheet not found; no comparison available"
		return resp
	}

	targetRows, skipped := targets.Reshape(metas.Raw)
	resp.SkippedMonths = skipped

	actuals := map[int]float64{}
	if enviados != nil && enviados.Pipelined() {
		coerced, _ := coerce.Table(enviados.Raw, enviados.Spec.CoerceSpec())
		actuals = pivot.SumByMonth(coerced, enviados.Spec.DateColumn, enviados.Spec.ValueColumn)
	}

	for _, row := range targets.Compare(targetRows, actuals) {
		resp.Rows = append(resp.Rows, api.ComparisonRow{
			Month:           row.Month,
			MonthName:       row.MonthName,
			Target:          row.Target,
			Actual:          row.Actual,
			Ratio:           row.Ratio,
			TargetFormatted: money.FormatPesos(row.Target),
			ActualFormatted: money.FormatPesos(row.Actual),
		})
	}
	return resp
}

// Search runs the filter chain over the posibles sheet. Selections are
// retained in the session and restored while still valid among the
// current options.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	sheet, _ := ds.Sheet(dataset.RolePosibles)
	if sheet == nil || !sheet.Available {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, api.ErrResponse{Error: "posibles sheet not found"})
		return
	}

	table := coerce.Columns(sheet.Raw, coerce.Spec{Dates: []string{sheet.Spec.DateColumn}})
	state := h.searchState(w, r, table)

	filtered := filter.Apply(table, state.predicates(sheet.Spec.DateColumn)...)

	resp := api.SearchResponse{
		Columns: table.Columns,
		Options: state.options(table, sheet.Spec.DateColumn),
		Applied: state.api(),
		Total:   pivot.Sum(filtered, sheet.Spec.ValueColumn),
	}
	for _, row := range filtered.Rows {
		out := make(map[string]string, len(table.Columns))
		for _, col := range table.Columns {
			out[col] = row[col].Display()
		}
		resp.Rows = append(resp.Rows, out)
	}

	render.JSON(w, r, resp)
}

// Export streams the consolidated workbook for the current search
// filters and column selection.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	sheet, _ := ds.Sheet(dataset.RolePosibles)
	if sheet == nil || !sheet.Available {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, api.ErrResponse{Error: "posibles sheet not found"})
		return
	}

	table := coerce.Columns(sheet.Raw, coerce.Spec{Dates: []string{sheet.Spec.DateColumn}})
	state := h.searchState(w, r, table)
	filtered := filter.Apply(table, state.predicates(sheet.Spec.DateColumn)...)

	spec := exportexcel.DefaultSpec()
	spec.Columns = r.URL.Query()["columns"]

	buf, err := exportexcel.Buffer(filtered, spec)
	if err != nil {
		logger.Error().Err(err).Msg("workbook export failed")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.ErrResponse{Error: fmt.Sprintf("export failed: %v", err)})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="consolidado_con_totales_y_tabla.xlsx"`)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error().Err(err).Msg("failed to stream export")
	}
}

func (h *Handler) dataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	id := chi.URLParam(r, "dataset")
	ds, ok := h.registry.Get(id)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, api.ErrResponse{Error: fmt.Sprintf("dataset %q not found", id)})
		return nil, false
	}
	return ds, true
}

// pipelineSheet resolves the {sheet} URL param to a role with a
// date/value pipeline.
func (h *Handler) pipelineSheet(w http.ResponseWriter, r *http.Request, ds *dataset.Dataset) (*dataset.SheetData, bool) {
	role := dataset.Role(chi.URLParam(r, "sheet"))
	switch role {
	case dataset.RolePosibles, dataset.RoleEnviados, dataset.RoleFacturado:
	default:
		badRequest(w, r, fmt.Sprintf("unknown sheet %q", role))
		return nil, false
	}
	sheet, _ := ds.Sheet(role)
	return sheet, true
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, api.ErrResponse{Error: msg})
}

func sheetStatuses(ds *dataset.Dataset) []api.SheetStatus {
	var statuses []api.SheetStatus
	for _, sheet := range ds.Sheets() {
		diag := sheet.Diagnostics()
		statuses = append(statuses, api.SheetStatus{
			Role:           diag.Role,
			Name:           diag.Name,
			Rows:           diag.RowsRead,
			Available:      sheet.Available,
			MissingColumns: diag.MissingColumns,
			Warning:        diag.Warning,
		})
	}
	return statuses
}

// searchState carries the search tab's filter values, merged from the
// request and the session (request wins, session fills gaps while its
// values remain valid).
type searchState struct {
	client    string
	cierre    string
	comercial string
	residuos  []string
	from, to  time.Time
}

const searchTab = "buscar"

func (h *Handler) searchState(w http.ResponseWriter, r *http.Request, table domain.Table) searchState {
	q := r.URL.Query()
	saved := h.sessions.Selections(r, searchTab)

	state := searchState{}

	pick := func(name string) string {
		if q.Has(name) {
			return q.Get(name)
		}
		if vals := saved[name]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}

	state.client = pick("client")
	state.cierre = session.RestoreOne(pick("cierre"), filter.Options(table, "CIERRE DE FACTURACIÓN"))
	state.comercial = session.RestoreOne(pick("comercial"), filter.Options(table, "Comercial"))
	if q.Has("residuo") {
		state.residuos = q["residuo"]
	} else {
		state.residuos = session.Restore(saved["residuo"], filter.Options(table, "Residuo"))
	}
	state.from = parseDay(pick("from"))
	state.to = parseDay(pick("to"))

	selections := map[string][]string{
		"client":    {state.client},
		"cierre":    {state.cierre},
		"comercial": {state.comercial},
		"residuo":   state.residuos,
		"from":      {formatDay(state.from)},
		"to":        {formatDay(state.to)},
	}
	if err := h.sessions.Save(w, r, searchTab, selections); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to persist filter selection")
	}
	return state
}

func (s searchState) predicates(dateCol string) []filter.Predicate {
	return []filter.Predicate{
		filter.TextContains("Cliente", s.client),
		filter.Equals("CIERRE DE FACTURACIÓN", s.cierre),
		filter.Equals("Comercial", s.comercial),
		filter.OneOf("Residuo", s.residuos),
		filter.DateBetween(dateCol, s.from, s.to),
	}
}

// options derives every filter's option list from the table narrowed by
// all the other active filters.
func (s searchState) options(table domain.Table, dateCol string) map[string][]string {
	except := func(skip string) []filter.Predicate {
		var preds []filter.Predicate
		if skip != "client" {
			preds = append(preds, filter.TextContains("Cliente", s.client))
		}
		if skip != "cierre" {
			preds = append(preds, filter.Equals("CIERRE DE FACTURACIÓN", s.cierre))
		}
		if skip != "comercial" {
			preds = append(preds, filter.Equals("Comercial", s.comercial))
		}
		if skip != "residuo" {
			preds = append(preds, filter.OneOf("Residuo", s.residuos))
		}
		preds = append(preds, filter.DateBetween(dateCol, s.from, s.to))
		return preds
	}

	return map[string][]string{
		"cierre":    filter.Options(table, "CIERRE DE FACTURACIÓN", except("cierre")...),
		"comercial": filter.Options(table, "Comercial", except("comercial")...),
		"residuo":   filter.Options(table, "Residuo", except("residuo")...),
	}
}

func (s searchState) api() api.FilterState {
	return api.FilterState{
		Client:    s.client,
		Cierre:    s.cierre,
		Comercial: s.comercial,
		Residuos:  s.residuos,
		From:      formatDay(s.from),
		To:        formatDay(s.to),
	}
}

func parseDay(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
