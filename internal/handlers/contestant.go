package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/newera/internal/middleware"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/utils"
)

// ContestantHandler manages contest profile and voting endpoints.
type ContestantHandler struct {
	db *gorm.DB
}

// NewContestantHandler constructs a ContestantHandler.
func NewContestantHandler(db *gorm.DB) *ContestantHandler {
	return &ContestantHandler{db: db}
}

// GetData returns the authenticated contestant's profile and votes.
func (h *ContestantHandler) GetData(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var contestant models.Contestant
	if err := h.db.Preload("Votes").Where("email = ?", claims.Email).First(&contestant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Contestant not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success":                 true,
		"fullname":                contestant.FullName,
		"username":                contestant.Username,
		"email":                   contestant.Email,
		"phoneNumber":             contestant.PhoneNumber,
		"state":                   contestant.State,
		"isRegistrationCompleted": contestant.IsRegistrationCompleted,
		"profilePic":              contestant.ProfilePic,
		"coverPic":                contestant.CoverPic,
		"votes":                   contestant.Votes,
		"role":                    contestant.Role,
	})
}

// Invite returns a contestant's public profile by username.
func (h *ContestantHandler) Invite(c *fiber.Ctx) error {
	username := c.Params("username")

	var contestant models.Contestant
	if err := h.db.Preload("Votes").Where("username = ?", username).First(&contestant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Contestant not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": contestant})
}

type updateVotesRequest struct {
	Username   string `json:"username" validate:"required"`
	Name       string `json:"name" validate:"required"`
	VoterEmail string `json:"voterEmail"`
	Votes      int    `json:"votes" validate:"required,gt=0"`
}

// UpdateVotes appends a vote record to a contestant. Votes are bought by
// public voters, so the endpoint is unauthenticated; it only accepts
// positive counts while the contest is active.
func (h *ContestantHandler) UpdateVotes(c *fiber.Ctx) error {
	var req updateVotesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	// No settings row means the contest was never opened.
	var settings models.ContestSettings
	if err := h.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Contest is not active")
		}
		return err
	}
	if !settings.ContestActive {
		return fiber.NewError(fiber.StatusBadRequest, "Contest is not active")
	}

	var contestant models.Contestant
	if err := h.db.Where("username = ?", req.Username).First(&contestant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Contestant not found")
		}
		return err
	}

	vote := models.Vote{
		ContestantID:  contestant.ID,
		VoterName:     req.Name,
		VoterEmail:    req.VoterEmail,
		NumberOfVotes: req.Votes,
	}
	if err := h.db.Create(&vote).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}
