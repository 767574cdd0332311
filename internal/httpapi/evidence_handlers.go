package httpapi

import (
	"net/http"
	"strings"

	"arts.org/internal/audit"
	"arts.org/internal/workflow"
)

type reviewRequest struct {
	Decision string `json:"decision"`
}

func (a *API) handleEvidenceResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/evidence/")
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "review" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	a.reviewEvidence(w, r, parts[0])
}

func (a *API) reviewEvidence(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	decision, err := workflow.ParseReviewDecision(req.Decision)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	ev, err := a.flow.ReviewEvidence(r.Context(), p, id, decision)
	if err != nil {
		handleWorkflowError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), string(workflow.ActionEvidenceReview), map[string]any{
		"evidence_id": ev.ID,
		"decision":    string(decision),
	})
	writeJSON(w, http.StatusOK, ev)
}
