package http

import (
	"database/sql"
	"log"
	"net/http"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := h.db.QueryRowContext(r.Context(), "SELECT 1").Scan(&one); err != nil {
		log.Printf("health check failed: %v", err)
		writeError(w, http.StatusInternalServerError, "error connecting to the database")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Welcome to the contacts API!"})
}
