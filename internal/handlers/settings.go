package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/newera/internal/models"
)

// SettingsHandler manages the singleton contest settings row.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// loadOrInit fetches the settings row, creating a default one on first use.
func (h *SettingsHandler) loadOrInit() (*models.ContestSettings, error) {
	var settings models.ContestSettings
	err := h.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.ContestSettings{
			VotePrice:     0,
			ContestActive: false,
			LastUpdated:   time.Now(),
		}
		if err := h.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

type updateVotePriceRequest struct {
	VotePrice float64 `json:"votePrice"`
}

// UpdateVotePrice sets the price of a single vote.
func (h *SettingsHandler) UpdateVotePrice(c *fiber.Ctx) error {
	var req updateVotePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.VotePrice <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid vote price")
	}

	settings, err := h.loadOrInit()
	if err != nil {
		return err
	}

	if err := h.db.Model(settings).Updates(map[string]interface{}{
		"vote_price":   req.VotePrice,
		"last_updated": time.Now(),
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Vote price updated"})
}

type updateContestStatusRequest struct {
	ContestActive *bool `json:"contestActive"`
}

// UpdateContestStatus opens or closes the contest.
func (h *SettingsHandler) UpdateContestStatus(c *fiber.Ctx) error {
	var req updateContestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ContestActive == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid contest status")
	}

	settings, err := h.loadOrInit()
	if err != nil {
		return err
	}

	if err := h.db.Model(settings).Updates(map[string]interface{}{
		"contest_active": *req.ContestActive,
		"last_updated":   time.Now(),
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Contest status updated"})
}

// GetSettings returns the full settings row for the admin dashboard.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.loadOrInit()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

// GetVotePrice returns the current vote price.
func (h *SettingsHandler) GetVotePrice(c *fiber.Ctx) error {
	var settings models.ContestSettings
	if err := h.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Settings not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"price": settings.VotePrice})
}

// GetContestStatus returns whether the contest is open.
func (h *SettingsHandler) GetContestStatus(c *fiber.Ctx) error {
	var settings models.ContestSettings
	if err := h.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Settings not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"contestActive": settings.ContestActive})
}
