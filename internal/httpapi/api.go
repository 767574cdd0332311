package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"arts.org/internal/auth"
	"arts.org/internal/obs"
	"arts.org/internal/workflow"
)

// ReadyProbe checks downstream readiness (e.g. database ping).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer over the auth and workflow services.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string
	auth       *auth.Service
	flow       *workflow.Service
	rateBurst  int
	ratePerSec int
}

// New wires all routes. filesDir, when non-empty, is served read-only under
// /files/ for evidence downloads.
func New(rp ReadyProbe, version string, authSvc *auth.Service, flow *workflow.Service, filesDir string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		auth:       authSvc,
		flow:       flow,
		rateBurst:  20,
		ratePerSec: 10,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/token", a.handleToken)
	a.mux.HandleFunc("/v1/me", a.handleMe)

	a.mux.HandleFunc("/v1/recommendations", a.handleRecommendationsCollection)
	a.mux.HandleFunc("/v1/recommendations/", a.handleRecommendationResource)
	a.mux.HandleFunc("/v1/plans/", a.handlePlanResource)
	a.mux.HandleFunc("/v1/evidence/", a.handleEvidenceResource)
	a.mux.HandleFunc("/v1/tasks", a.handleTasks)
	a.mux.HandleFunc("/v1/dashboard", a.handleDashboard)
	a.mux.HandleFunc("/v1/departments", a.handleDepartments)
	a.mux.HandleFunc("/v1/reports/export", a.handleReportExport)

	if filesDir != "" {
		a.mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(filesDir))))
	}

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// SetRateLimit overrides the per-IP rate limit defaults.
func (a *API) SetRateLimit(burst, perSec int) {
	if burst > 0 {
		a.rateBurst = burst
	}
	if perSec > 0 {
		a.ratePerSec = perSec
	}
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	h := obs.Instrument(a.mux)
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 10<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = LoggingJSON(h)
	h = RequestID(h)
	h = CORS(h)
	h = SecurityHeaders(h)
	return h
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "arts-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "arts-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// principal pulls the authenticated caller placed in context by withAuth.
func principal(r *http.Request) (auth.Principal, bool) {
	return auth.PrincipalFromContext(r.Context())
}
