package httpapi

import (
	"net/http"
	"time"

	"arts.org/internal/report"
	"arts.org/internal/workflow"
)

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	stats, err := a.flow.Stats(r.Context(), p)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleDepartments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := principal(r); !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	deps, err := a.flow.ListDepartments(r.Context())
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": deps})
}

// handleReportExport streams the scoped recommendation list as CSV or a
// printable HTML table.
func (a *API) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}

	f := workflow.Filter{
		DepartmentID: r.URL.Query().Get("department_id"),
		TitleQuery:   r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := workflow.ParseStatus(raw)
		if err != nil {
			handleWorkflowError(w, r, err)
			return
		}
		f.Status = status
	}
	recs, err := a.flow.ListRecommendations(r.Context(), p, f)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	deps, err := a.flow.ListDepartments(r.Context())
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	rows := report.Rows(recs, deps)

	switch r.URL.Query().Get("format") {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="ARTS_Export.csv"`)
		if err := report.WriteCSV(w, rows); err != nil {
			// Headers already sent; nothing more to do but log upstream.
			return
		}
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = report.WriteHTML(w, rows, time.Now())
	default:
		writeError(w, r, http.StatusBadRequest, "format must be csv or html")
	}
}
