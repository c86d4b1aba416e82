package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/astroflux/astroflux/backend/internal/api/middleware"
	"github.com/astroflux/astroflux/backend/internal/config"
	"github.com/astroflux/astroflux/backend/internal/models"
	"github.com/astroflux/astroflux/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// TarotHandler serves the admin deck management screens.
type TarotHandler struct {
	tarot *services.TarotService
	audit *services.AuditService
	cfg   config.Config
}

func NewTarotHandler(tarot *services.TarotService, audit *services.AuditService, cfg config.Config) *TarotHandler {
	return &TarotHandler{tarot: tarot, audit: audit, cfg: cfg}
}

// List returns the full deck, including inactive cards.
func (h *TarotHandler) List(c *gin.Context) {
	cards, err := h.tarot.List()
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("tarot listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cards": cards})
}

type CreateTarotCardRequest struct {
	Name            string `json:"name" binding:"required"`
	CardType        string `json:"card_type" binding:"required"`
	Suit            string `json:"suit"`
	Number          int    `json:"number"`
	Emoji           string `json:"emoji"`
	MeaningUpright  string `json:"meaning_upright"`
	MeaningReversed string `json:"meaning_reversed"`
	Description     string `json:"description"`
	Keywords        string `json:"keywords"`
}

// Create inserts a card and records the mutation in the audit log.
func (h *TarotHandler) Create(c *gin.Context) {
	var req CreateTarotCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := middleware.GetSession(c)
	card := models.TarotCard{
		Name:            req.Name,
		CardType:        req.CardType,
		Suit:            req.Suit,
		Number:          req.Number,
		Emoji:           req.Emoji,
		MeaningUpright:  req.MeaningUpright,
		MeaningReversed: req.MeaningReversed,
		Description:     req.Description,
		Keywords:        req.Keywords,
		CreatedBy:       session.AdminID,
	}

	if err := h.tarot.Create(&card); err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("tarot creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.audit.Record(session.AdminID, "create_tarot_card", "tarot_cards", card.ID,
		map[string]string{"name": card.Name},
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusCreated, gin.H{"success": true, "card": card})
}

// Delete removes a card.
func (h *TarotHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	if err := h.tarot.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrTarotCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrTarotCardNotFound.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("tarot deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	session := middleware.GetSession(c)
	h.audit.Record(session.AdminID, "delete_tarot_card", "tarot_cards", uint(id), nil,
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Card deleted"})
}

// SetActive toggles public visibility of a card.
func (h *TarotHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tarot.SetActive(uint(id), *req.IsActive); err != nil {
		if errors.Is(err, services.ErrTarotCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": services.ErrTarotCardNotFound.Error()})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("tarot update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	session := middleware.GetSession(c)
	h.audit.Record(session.AdminID, "toggle_tarot_card", "tarot_cards", uint(id),
		map[string]bool{"is_active": *req.IsActive},
		middleware.ClientKey(c, h.cfg.IPHashSalt), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"success": true})
}
