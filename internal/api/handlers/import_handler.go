package handlers

import (
	"errors"
	"net/http"

	"github.com/astroflux/astroflux/backend/internal/api/middleware"
	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/importer"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// ImportHandler triggers horoscope imports from the external providers.
type ImportHandler struct {
	imp        *importer.Importer
	horoscopes *services.HoroscopeService
	audit      *services.AuditService
	cfg        config.Config
}

func NewImportHandler(imp *importer.Importer, horoscopes *services.HoroscopeService, audit *services.AuditService, cfg config.Config) *ImportHandler {
	return &ImportHandler{imp: imp, horoscopes: horoscopes, audit: audit, cfg: cfg}
}

type ImportSignRequest struct {
	Sign   string `json:"sign" binding:"required"`
	Period string `json:"period"`
}

// ImportSign fetches and stores today's reading for one sign.
func (h *ImportHandler) ImportSign(c *gin.Context) {
	var req ImportSignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Period == "" {
		req.Period = "daily"
	}

	session := middleware.GetSession(c)
	row, err := h.imp.ImportSign(c.Request.Context(), req.Sign, req.Period, session.AdminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidZodiacSign), errors.Is(err, services.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, importer.ErrAlreadyImported):
			c.JSON(http.StatusConflict, gin.H{"error": importer.ErrAlreadyImported.Error()})
		case errors.Is(err, importer.ErrAllProvidersFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": importer.ErrAllProvidersFailed.Error()})
		default:
			middleware.GetRequestLogger(c).WithError(err).Error("horoscope import failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "horoscope": row})
}

// ImportAll walks every zodiac sign, skipping ones already imported for
// today. Partial provider failure is not an error; the counts tell the
// operator what happened.
func (h *ImportHandler) ImportAll(c *gin.Context) {
	session := middleware.GetSession(c)
	imported, skipped, err := h.imp.ImportAll(c.Request.Context(), "daily", session.AdminID)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("bulk import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imported": imported,
		"skipped":  skipped,
	})
}

type DeleteByDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// DeleteByDate removes every horoscope row for a target date so a bad
// import can be rerun.
func (h *ImportHandler) DeleteByDate(c *gin.Context) {
	var req DeleteByDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.horoscopes.DeleteByDate(req.Date)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("import cleanup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	session := middleware.GetSession(c)
	h.audit.Record(session.AdminID, "delete_horoscopes_by_date", "horoscopes", 0,
		map[string]any{"date": req.Date, "deleted": deleted},
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
