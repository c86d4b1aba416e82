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

// HoroscopeHandler serves the admin horoscope screens.
type HoroscopeHandler struct {
	horoscopes *services.HoroscopeService
	audit      *services.AuditService
	cfg        config.Config
}

func NewHoroscopeHandler(horoscopes *services.HoroscopeService, audit *services.AuditService, cfg config.Config) *HoroscopeHandler {
	return &HoroscopeHandler{horoscopes: horoscopes, audit: audit, cfg: cfg}
}

// List returns horoscope rows filtered by the optional sign/period/date
// query parameters.
func (h *HoroscopeHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	rows, err := h.horoscopes.List(c.Query("sign"), c.Query("period"), c.Query("date"), limit)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("horoscope listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "horoscopes": rows})
}

type CreateHoroscopeRequest struct {
	ZodiacSign  string `json:"zodiac_sign" binding:"required"`
	Period      string `json:"period" binding:"required"`
	TargetDate  string `json:"target_date"`
	Content     string `json:"content" binding:"required"`
	LoveScore   int    `json:"love_score"`
	CareerScore int    `json:"career_score"`
	HealthScore int    `json:"health_score"`
	LuckyNumber string `json:"lucky_number"`
	LuckyColor  string `json:"lucky_color"`
	LuckyTime   string `json:"lucky_time"`
	Mood        string `json:"mood"`
}

// Create inserts a horoscope and records the mutation in the audit log.
func (h *HoroscopeHandler) Create(c *gin.Context) {
	var req CreateHoroscopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetDate == "" {
		req.TargetDate = time.Now().Format("2006-01-02")
	}

	session := middleware.GetSession(c)
	row := models.Horoscope{
		ZodiacSign:  req.ZodiacSign,
		Period:      req.Period,
		TargetDate:  req.TargetDate,
		Content:     req.Content,
		LoveScore:   req.LoveScore,
		CareerScore: req.CareerScore,
		HealthScore: req.HealthScore,
		LuckyNumber: req.LuckyNumber,
		LuckyColor:  req.LuckyColor,
		LuckyTime:   req.LuckyTime,
		Mood:        req.Mood,
		CreatedBy:   session.AdminID,
	}

	if err := h.horoscopes.Create(&row); err != nil {
		if errors.Is(err, services.ErrInvalidZodiacSign) || errors.Is(err, services.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("horoscope creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.audit.Record(session.AdminID, "create_horoscope", "horoscopes", row.ID,
		map[string]string{"sign": row.ZodiacSign, "period": row.Period, "date": row.TargetDate},
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusCreated, gin.H{"success": true, "horoscope": row})
}

// Delete removes a horoscope row.
func (h *HoroscopeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid horoscope id"})
		return
	}

	if err := h.horoscopes.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrHoroscopeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrHoroscopeNotFound.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("horoscope deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	session := middleware.GetSession(c)
	h.audit.Record(session.AdminID, "delete_horoscope", "horoscopes", uint(id), nil,
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Horoscope deleted"})
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive toggles public visibility of a horoscope row.
func (h *HoroscopeHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid horoscope id"})
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.horoscopes.SetActive(uint(id), *req.IsActive); err != nil {
		if errors.Is(err, services.ErrHoroscopeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrHoroscopeNotFound.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("horoscope update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	session := middleware.GetSession(c)
	h.audit.Record(session.AdminID, "toggle_horoscope", "horoscopes", uint(id),
		map[string]bool{"is_active": *req.IsActive},
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"success": true})
}
