package controller

import (
	"context"
	"net/http"

	"floodalert/internal/geo"
	"floodalert/internal/modules/zones/types"
)

type ZonesService interface {
	Status(ctx context.Context, p geo.Provider) (types.Status, error)
	Overview(ctx context.Context) (types.Overview, error)
}

type ZonesController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type zonesControllerImpl struct {
	service ZonesService
}

func NewZonesController(service ZonesService) ZonesController {
	return &zonesControllerImpl{service: service}
}

func (c *zonesControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/zones", c.handleZones)
	mux.HandleFunc("GET /api/v1/zones/status", c.handleStatus)
}
