// Package health serves the liveness and readiness probes.
//
// GET /healthz reports liveness and always answers 200 while the process can
// serve HTTP. GET /readyz runs every registered [Checker] and answers 200
// only when all of them pass. Both endpoints respond with a JSON body holding
// a "status" field ("ok" or "fail") and, for readiness, a "checks" map with
// one entry per checker.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// probeTimeout bounds a single readiness check.
const probeTimeout = 5 * time.Second

// Checker probes one dependency by name. Check returns nil when the
// dependency is usable and an error describing the problem otherwise.
type Checker struct {
	// Name labels the check in the JSON response (e.g. "catalog").
	Name string

	// Check probes the dependency. It must respect context cancellation.
	Check func(ctx context.Context) error
}

// Handler answers /healthz and /readyz. The checker list is fixed at
// construction, so a Handler is safe for concurrent use.
type Handler struct {
	checkers []Checker
}

// New builds a [Handler] that runs the given checkers, in order, on every
// /readyz request.
func New(checkers ...Checker) *Handler {
	return &Handler{checkers: append([]Checker(nil), checkers...)}
}

// Register adds the probe routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, probeResult{Status: "ok"})
}

// Readyz runs every checker with a [probeTimeout] deadline derived from the
// request context and reports 503 if any of them fail.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks, ready := h.runChecks(r.Context())

	res := probeResult{Status: "ok", Checks: checks}
	code := http.StatusOK
	if !ready {
		res.Status = "fail"
		code = http.StatusServiceUnavailable
	}
	respond(w, code, res)
}

func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string, len(h.checkers))
	ready := true
	for _, c := range h.checkers {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := c.Check(probeCtx)
		cancel()

		if err != nil {
			checks[c.Name] = "fail: " + err.Error()
			ready = false
			continue
		}
		checks[c.Name] = "ok"
	}
	return checks, ready
}

// CatalogChecker reports readiness based on the number of products the
// server currently knows about. A server whose catalog failed to load (or
// reloaded to empty) cannot take orders.
func CatalogChecker(size func() int) Checker {
	return Checker{
		Name: "catalog",
		Check: func(context.Context) error {
			if size() == 0 {
				return errors.New("product catalog is empty")
			}
			return nil
		},
	}
}

// probeResult is the JSON body for both probe endpoints.
type probeResult struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func respond(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
