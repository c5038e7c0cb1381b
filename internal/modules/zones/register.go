package zones

import (
	"database/sql"
	"net/http"

	"floodalert/internal/modules/zones/controller"
	"floodalert/internal/modules/zones/repository"
	"floodalert/internal/modules/zones/routing"
	"floodalert/internal/modules/zones/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, router routing.Router) *service.Service {
	zonesService := service.NewService(repository.NewRepository(db), router)
	controller.NewZonesController(zonesService).RegisterRoutes(mux)
	return zonesService
}
