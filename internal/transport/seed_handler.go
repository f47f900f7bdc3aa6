package transport

import (
	"database/sql"
	"net/http"

	"accsmarket-backend/internal/database"
	"accsmarket-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SeedHandler exposes the development reseed endpoint
type SeedHandler struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSeedHandler creates a new SeedHandler
func NewSeedHandler(db *sql.DB, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{db: db, logger: logger}
}

// RegisterRoutes registers the seed route
func (h *SeedHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/seed-data", h.SeedData)
}

// SeedData wipes the database and loads the sample data set
func (h *SeedHandler) SeedData(w http.ResponseWriter, r *http.Request) {
	if err := database.Seed(r.Context(), h.db, h.logger); err != nil {
		h.logger.Error("Failed to seed database", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to seed database")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Database seeded successfully"})
}
