package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/astroflux/astroflux/backend/internal/api/middleware"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated read API consumed by the
// mobile app. Responses are always JSON; errors use a flat
// {"error": "..."} shape so clients have a single failure contract.
type PublicHandler struct {
	horoscopes *services.HoroscopeService
	insights   *services.InsightService
	tarot      *services.TarotService
}

func NewPublicHandler(horoscopes *services.HoroscopeService, insights *services.InsightService, tarot *services.TarotService) *PublicHandler {
	return &PublicHandler{horoscopes: horoscopes, insights: insights, tarot: tarot}
}

// Horoscope returns the active reading for a sign, period and date. The
// date defaults to today so the app can omit it on the home screen.
func (h *PublicHandler) Horoscope(c *gin.Context) {
	sign := c.Query("sign")
	period := c.DefaultQuery("period", "daily")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	row, err := h.horoscopes.GetPublic(sign, period, date)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidZodiacSign), errors.Is(err, services.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrHoroscopeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrHoroscopeNotFound.Error()})
		default:
			middleware.GetRequestLogger(c).WithError(err).Error("public horoscope lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": row})
}

// Insights returns active insight rows for a period and date, grouped by
// category. The flat row count rides along so clients can short-circuit
// empty sections.
func (h *PublicHandler) Insights(c *gin.Context) {
	period := c.DefaultQuery("period", "daily")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	category := c.Query("category")

	grouped, count, err := h.insights.PublicGrouped(period, date, category)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInsightNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrInsightNotFound.Error()})
		default:
			middleware.GetRequestLogger(c).WithError(err).Error("public insight lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"period":  period,
		"date":    date,
		"count":   count,
		"data":    grouped,
	})
}

// Tarot serves the public deck. action=random draws distinct cards
// (count capped by the service, a single draw returns one object rather
// than a one-element array); action=all returns the active deck in order.
func (h *PublicHandler) Tarot(c *gin.Context) {
	action := c.DefaultQuery("action", "random")

	switch action {
	case "random":
		count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
			return
		}

		cards, err := h.tarot.Random(count)
		if err != nil {
			if errors.Is(err, services.ErrNoTarotCards) {
				c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNoTarotCards.Error()})
				return
			}
			middleware.GetRequestLogger(c).WithError(err).Error("public tarot draw failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if len(cards) == 1 {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cards[0]})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(cards), "data": cards})

	case "all":
		cards, err := h.tarot.AllActive()
		if err != nil {
			middleware.GetRequestLogger(c).WithError(err).Error("public tarot listing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(cards), "data": cards})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}
