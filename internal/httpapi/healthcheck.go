package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"floodalert/internal/db"
	"floodalert/internal/utils"
)

const probeTimeout = 2 * time.Second

// Component is one dependency reported by /healthz. An optional component
// that fails only degrades the report; a required one fails it.
type Component struct {
	Name     string
	Check    func(ctx context.Context) error
	Optional bool
}

type healthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

type healthchecker struct {
	components []Component
}

func newHealthchecker(conn *sql.DB, extra []Component) *healthchecker {
	database := Component{Name: "database", Check: func(ctx context.Context) error { return db.Check(ctx, conn) }}
	return &healthchecker{components: append([]Component{database}, extra...)}
}

func (h *healthchecker) report(ctx context.Context) (healthReport, bool) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out := healthReport{Status: "ok", Components: make(map[string]string, len(h.components))}
	healthy := true
	for _, c := range h.components {
		err := c.Check(ctx)
		if err == nil {
			out.Components[c.Name] = "ok"
			continue
		}
		out.Components[c.Name] = err.Error()
		if c.Optional {
			if healthy {
				out.Status = "degraded"
			}
			continue
		}
		slog.Error("health check failed", "component", c.Name, "error", err)
		healthy = false
		out.Status = "error"
	}
	return out, healthy
}

func (h *healthchecker) handleHealthz(w http.ResponseWriter, r *http.Request) {
	rep, healthy := h.report(r.Context())
	status := http.StatusOK
	if !healthy {
		status = http.StatusInternalServerError
	}
	utils.WriteJSON(w, status, rep)
}
