package handlers

import (
	"net/http"

	"github.com/bengeek06/pm-users-api/pkg/config"
	"gorm.io/gorm"
)

// APIVersion is returned by the /version endpoint.
const APIVersion = "1.0.0"

// MetaHandler serves the version, config and health endpoints.
type MetaHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewMetaHandler(db *gorm.DB, cfg *config.Config) *MetaHandler {
	return &MetaHandler{db: db, cfg: cfg}
}

// Version handles GET /version
func (h *MetaHandler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": APIVersion})
}

// Config handles GET /config. Secrets and credentials are never
// included.
func (h *MetaHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"env":                 h.cfg.Server.Env,
		"database_host":       h.cfg.Database.Host,
		"database_name":       h.cfg.Database.Name,
		"company_service_url": h.cfg.Services.CompanyURL,
		"role_service_url":    h.cfg.Services.RoleURL,
	})
}

// Health handles GET /health
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := http.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]string{"status": status})
}
