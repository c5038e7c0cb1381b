package controller

import (
	"context"
	"net/http"

	"floodalert/internal/modules/watch/types"
	"floodalert/internal/utils"
)

type PlacesService interface {
	Statuses(ctx context.Context) ([]types.PlaceStatus, error)
}

type PlacesController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type placesControllerImpl struct {
	service PlacesService
}

func NewPlacesController(service PlacesService) PlacesController {
	return &placesControllerImpl{service: service}
}

func (c *placesControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/places", c.handlePlaces)
}

func (c *placesControllerImpl) handlePlaces(w http.ResponseWriter, r *http.Request) {
	statuses, err := c.service.Statuses(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to load places")
		return
	}
	utils.WriteJSON(w, http.StatusOK, statuses)
}
