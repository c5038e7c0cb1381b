package controller

import (
	"context"
	"net/http"

	"floodalert/internal/geo"
	"floodalert/internal/modules/risk/types"
)

// RiskService is the part of the risk pipeline the HTTP surface uses.
type RiskService interface {
	AssessLocation(ctx context.Context, p geo.Provider) types.RiskAssessment
	Evacuation(ctx context.Context, p geo.Provider) types.EvacuationStatus
}

type RiskController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type riskControllerImpl struct {
	service RiskService
}

func NewRiskController(service RiskService) RiskController {
	return &riskControllerImpl{service: service}
}

func (c *riskControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /risk", c.handleRiskPage)
	mux.HandleFunc("GET /api/v1/risk", c.handleRisk)
	mux.HandleFunc("GET /api/v1/evacuation", c.handleEvacuation)
}
