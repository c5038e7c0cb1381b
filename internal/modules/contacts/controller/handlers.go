package controller

import (
	"log/slog"
	"net/http"

	"floodalert/internal/modules/contacts/types"
	"floodalert/internal/utils"
)

func (c *contactsControllerImpl) handleContacts(w http.ResponseWriter, r *http.Request) {
	switch st := c.service.Load(r.Context()).(type) {
	case types.Success:
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"state":    "success",
			"contacts": st.Contacts,
		})
	case types.Failure:
		utils.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"state":   "error",
			"message": st.Message,
		})
	default:
		slog.Error("contacts load ended without a result", "state", st)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load contacts")
	}
}
