package contacts

import (
	"database/sql"
	"net/http"

	"floodalert/internal/modules/contacts/controller"
	"floodalert/internal/modules/contacts/repository"
	"floodalert/internal/modules/contacts/service"
)

// RegisterFeature mounts the contacts API and returns the service for other
// surfaces.
func RegisterFeature(mux *http.ServeMux, db *sql.DB) *service.Service {
	contactsService := service.NewService(repository.NewRepository(db))
	controller.NewContactsController(contactsService).RegisterRoutes(mux)
	return contactsService
}
