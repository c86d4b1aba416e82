package handlers

import (
	"net/http"
	"strconv"

	"github.com/astroflux/astroflux/backend/internal/api/middleware"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the audit trail and the dashboard counters.
type AuditHandler struct {
	audit      *services.AuditService
	horoscopes *services.HoroscopeService
	insights   *services.InsightService
	tarot      *services.TarotService
}

func NewAuditHandler(audit *services.AuditService, horoscopes *services.HoroscopeService, insights *services.InsightService, tarot *services.TarotService) *AuditHandler {
	return &AuditHandler{audit: audit, horoscopes: horoscopes, insights: insights, tarot: tarot}
}

// List returns audit entries newest first with limit/offset paging.
func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	entries, total, err := h.audit.List(limit, offset)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("audit listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"entries": entries,
	})
}

// Dashboard returns active content counts plus the latest audit entries,
// enough to render the admin landing page in one request.
func (h *AuditHandler) Dashboard(c *gin.Context) {
	horoscopes, err := h.horoscopes.CountActive()
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("dashboard horoscope count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	insights, err := h.insights.CountActive()
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("dashboard insight count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	cards, err := h.tarot.CountActive()
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("dashboard tarot count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	recent, _, err := h.audit.List(10, 0)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("dashboard audit fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"active_horoscopes": horoscopes,
			"active_insights":   insights,
			"active_tarot":      cards,
		},
		"recent_activity": recent,
	})
}
