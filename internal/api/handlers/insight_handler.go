package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/astroflux/astroflux/backend/internal/api/middleware"
	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// InsightHandler serves the admin insight screens.
type InsightHandler struct {
	insights *services.InsightService
	audit    *services.AuditService
	cfg      config.Config
}

func NewInsightHandler(insights *services.InsightService, audit *services.AuditService, cfg config.Config) *InsightHandler {
	return &InsightHandler{insights: insights, audit: audit, cfg: cfg}
}

// List returns insight rows filtered by optional period/date parameters.
func (h *InsightHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	rows, err := h.insights.List(c.Query("period"), c.Query("date"), limit)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("insight listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "insights": rows})
}

type CreateInsightRequest struct {
	Period     string `json:"period" binding:"required"`
	TargetDate string `json:"target_date"`
	Category   string `json:"category" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Icon       string `json:"icon"`
	ColorCode  string `json:"color_code"`
}

// Create inserts an insight and records the mutation in the audit log.
func (h *InsightHandler) Create(c *gin.Context) {
	var req CreateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetDate == "" {
		req.TargetDate = time.Now().Format("2006-01-02")
	}

	session := middleware.GetSession(c)
	row := models.Insight{
		Period:     req.Period,
		TargetDate: req.TargetDate,
		Category:   req.Category,
		Title:      req.Title,
		Content:    req.Content,
		Icon:       req.Icon,
		ColorCode:  req.ColorCode,
		CreatedBy:  session.AdminID,
	}

	if err := h.insights.Create(&row); err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("insight creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.audit.Record(session.AdminID, "create_insight", "insights", row.ID,
		map[string]string{"category": row.Category, "period": row.Period, "date": row.TargetDate},
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusCreated, gin.H{"success": true, "insight": row})
}

// Delete removes an insight row.
func (h *InsightHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid insight id"})
		return
	}

	if err := h.insights.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrInsightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrInsightNotFound.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("insight deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	session := middleware.GetSession(c)
	h.audit.Record(session.AdminID, "delete_insight", "insights", uint(id), nil,
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Insight deleted"})
}

// SetActive toggles public visibility of an insight row.
func (h *InsightHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid insight id"})
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.insights.SetActive(uint(id), *req.IsActive); err != nil {
		if errors.Is(err, services.ErrInsightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrInsightNotFound.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("insight update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	session := middleware.GetSession(c)
	h.audit.Record(session.AdminID, "toggle_insight", "insights", uint(id),
		map[string]bool{"is_active": *req.IsActive},
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"success": true})
}
