package httpapi

import (
	"database/sql"
	"net/http"
)

// NewMux returns a mux serving /healthz for the database plus any extra
// components. Features register their own routes on it.
func NewMux(conn *sql.DB, components ...Component) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", newHealthchecker(conn, components).handleHealthz)
	return mux
}
