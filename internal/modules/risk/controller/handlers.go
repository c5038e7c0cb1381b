package controller

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"

	"floodalert/internal/geo"
	"floodalert/internal/modules/risk/views"
	"floodalert/internal/modules/tips"
	"floodalert/internal/utils"
)

func (c *riskControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := views.DashboardData{Items: dashboardItems(locationQuery(r))}

	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, data); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *riskControllerImpl) handleRiskPage(w http.ResponseWriter, r *http.Request) {
	provider, err := geo.FromQuery(r.URL.Query())
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	a := c.service.AssessLocation(r.Context(), provider)

	data := views.RiskPageData{
		Assessment: a,
		Gauge:      views.NewGauge(a.CombinedLevel),
		Tips:       tips.All(),
		Lat:        r.URL.Query().Get("lat"),
		Lon:        r.URL.Query().Get("lon"),
	}
	var buf bytes.Buffer
	if err := views.RenderRiskPage(&buf, data); err != nil {
		slog.Error("risk page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *riskControllerImpl) handleRisk(w http.ResponseWriter, r *http.Request) {
	provider, err := geo.FromQuery(r.URL.Query())
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, c.service.AssessLocation(r.Context(), provider))
}

func (c *riskControllerImpl) handleEvacuation(w http.ResponseWriter, r *http.Request) {
	provider, err := geo.FromQuery(r.URL.Query())
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, c.service.Evacuation(r.Context(), provider))
}

// locationQuery keeps lat/lon so dashboard links check the same place.
func locationQuery(r *http.Request) string {
	q := r.URL.Query()
	keep := url.Values{}
	for _, k := range []string{"lat", "lon"} {
		if v := q.Get(k); v != "" {
			keep.Set(k, v)
		}
	}
	if len(keep) == 0 {
		return ""
	}
	return "?" + keep.Encode()
}

func dashboardItems(query string) []views.DashboardItem {
	return []views.DashboardItem{
		{ID: "safety-tips", Title: "Safety Tips", Description: "Flood risk gauge and what to do before, during and after a flood.", Href: "/risk" + query},
		{ID: "flood-map", Title: "Current Flood Map", Description: "Check the flood risk for your current area.", Href: "/api/v1/zones/status" + query},
		{ID: "emergency-contacts", Title: "Emergency Contacts", Description: "Call emergency services quickly.", Href: "/api/v1/contacts"},
		{ID: "evacuation-routes", Title: "Evacuation Routes", Description: "Find a safe route to shelter if you are in danger.", Href: "/api/v1/evacuation" + query},
	}
}
