package httpapi

import (
	"net/http"
	"strings"

	"arts.org/internal/workflow"
)

func (a *API) handlePlanResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/plans/")
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := parts[0]

	switch parts[1] {
	case "toggle":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.togglePlan(w, r, id)
	case "evidence":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.submitEvidence(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) togglePlan(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	plan, err := a.flow.TogglePlan(r.Context(), p, id)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// submitEvidence expects a multipart form with a "file" part and an
// optional "description" field.
func (a *API) submitEvidence(w http.ResponseWriter, r *http.Request, planID string) {
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, r, http.StatusBadRequest, "multipart form required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	description := r.FormValue("description")

	ev, err := a.flow.SubmitEvidence(r.Context(), p, planID, file, contentType, description)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (a *API) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	var status workflow.PlanStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := workflow.ParsePlanStatus(raw)
		if err != nil {
			handleWorkflowError(w, r, err)
			return
		}
		status = parsed
	}
	plans, err := a.flow.ListAssignedPlans(r.Context(), p, status)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": plans})
}
