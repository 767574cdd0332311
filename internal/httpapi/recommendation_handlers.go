package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"arts.org/internal/audit"
	"arts.org/internal/workflow"
)

type setStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) handleRecommendationsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listRecommendations(w, r)
	case http.MethodPost:
		a.createRecommendation(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleRecommendationResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/recommendations/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	id := parts[0]

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getRecommendation(w, r, id)
	case len(parts) == 2 && parts[1] == "status":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		a.setRecommendationStatus(w, r, id)
	case len(parts) == 2 && parts[1] == "plans":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.createPlan(w, r, id)
	case len(parts) == 2 && parts[1] == "history":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getHistory(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) listRecommendations(w http.ResponseWriter, r *http.Request) {
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
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		f.Limit = n
	}
	recs, err := a.flow.ListRecommendations(r.Context(), p, f)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": recs})
}

func (a *API) createRecommendation(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req workflow.CreateRecommendationInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := a.flow.CreateRecommendation(r.Context(), p, req)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), string(workflow.ActionRecommendationCreate), map[string]any{
		"recommendation_id": rec.ID,
	})
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) getRecommendation(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	detail, err := a.flow.GetRecommendation(r.Context(), p, id)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) setRecommendationStatus(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req setStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	status, err := workflow.ParseStatus(req.Status)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	rec, err := a.flow.SetStatus(r.Context(), p, id, status)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), string(workflow.ActionStatusChange), map[string]any{
		"recommendation_id": rec.ID,
		"status":            string(rec.Status),
	})
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) createPlan(w http.ResponseWriter, r *http.Request, recommendationID string) {
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req workflow.CreatePlanInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	plan, err := a.flow.CreatePlan(r.Context(), p, recommendationID, req)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (a *API) getHistory(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	entries, err := a.flow.History(r.Context(), p, id)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}
