package risk

import (
	"log/slog"
	"net/http"

	"floodalert/internal/geo"
	"floodalert/internal/modules/risk/controller"
	"floodalert/internal/modules/risk/service"
)

func RegisterFeature(mux *http.ServeMux, svc *service.Service) {
	riskController := controller.NewRiskController(svc)
	riskController.RegisterRoutes(mux)
}

// RegisterMQTT wires device location reports to per-device checks. The
// returned Sessions must be closed on shutdown.
func RegisterMQTT(sub LocationSubscriber, pub Publisher, svc service.Assessor, fixes *geo.LastKnown, logger *slog.Logger) *service.Sessions {
	sessions := service.NewSessions(svc)
	registerMQTTHandler(sub, pub, fixes, sessions, logger.With("component", "risk-mqtt"))
	return sessions
}
