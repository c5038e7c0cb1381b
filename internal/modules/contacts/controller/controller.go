package controller

import (
	"context"
	"net/http"

	"floodalert/internal/modules/contacts/types"
)

type ContactsService interface {
	Load(ctx context.Context) types.State
}

type ContactsController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type contactsControllerImpl struct {
	service ContactsService
}

func NewContactsController(service ContactsService) ContactsController {
	return &contactsControllerImpl{service: service}
}

func (c *contactsControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/contacts", c.handleContacts)
}
