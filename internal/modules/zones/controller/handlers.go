package controller

import (
	"log/slog"
	"net/http"

	"floodalert/internal/geo"
	"floodalert/internal/utils"
)

func (c *zonesControllerImpl) handleZones(w http.ResponseWriter, r *http.Request) {
	overview, err := c.service.Overview(r.Context())
	if err != nil {
		slog.Error("zones overview failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load zones")
		return
	}
	utils.WriteJSON(w, http.StatusOK, overview)
}

func (c *zonesControllerImpl) handleStatus(w http.ResponseWriter, r *http.Request) {
	provider, err := geo.FromQuery(r.URL.Query())
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, err := c.service.Status(r.Context(), provider)
	if err != nil {
		slog.Error("zone status failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check flood zones")
		return
	}
	utils.WriteJSON(w, http.StatusOK, status)
}
