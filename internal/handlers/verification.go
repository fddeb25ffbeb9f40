package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/newera/internal/config"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/services"
	"github.com/example/newera/internal/utils"
)

// VerificationHandler manages email OTP verification for users and
// contestants.
type VerificationHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
}

// NewVerificationHandler constructs a VerificationHandler.
func NewVerificationHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer) *VerificationHandler {
	return &VerificationHandler{db: db, cfg: cfg, mailer: mailer}
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type resendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// checkOTP applies the shared verification rules: OTP present, matching,
// and no older than the 10-minute window.
func checkOTP(isVerified bool, stored *string, createdAt *time.Time, submitted string) error {
	if isVerified {
		return fiber.NewError(fiber.StatusBadRequest, "Email is already verified")
	}
	if stored == nil || createdAt == nil || *stored != submitted {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
	}
	if time.Now().After(createdAt.Add(utils.OTPWindow)) {
		return fiber.NewError(fiber.StatusBadRequest, "OTP has expired")
	}
	return nil
}

// VerifyUserEmail marks a user verified if the submitted OTP matches and is
// fresh, then clears the OTP fields. A second attempt fails.
func (h *VerificationHandler) VerifyUserEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP or email")
	}

	var user models.User
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if err := checkOTP(user.IsVerified, user.OTP, user.OTPCreatedAt, req.OTP); err != nil {
		return err
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"is_verified":    true,
		"otp":            nil,
		"otp_created_at": nil,
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verification successful",
	})
}

// ResendUserOTP re-issues the OTP for an unverified user and mails it.
func (h *VerificationHandler) ResendUserOTP(c *fiber.Ctx) error {
	var req resendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var user models.User
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if user.IsVerified {
		return fiber.NewError(fiber.StatusBadRequest, "Email already verified")
	}

	otp, otpCreatedAt, err := utils.GenerateOTP()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate OTP")
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"otp":            otp,
		"otp_created_at": otpCreatedAt,
	}).Error; err != nil {
		return err
	}

	verifyLink := fmt.Sprintf("%s/verify-email?otp=%s", h.cfg.SiteURL, otp)
	subject, body := services.ResendOTPEmail(user.Username, otp, verifyLink)
	if err := h.mailer.Send(user.Username, user.Email, subject, body); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "New OTP sent to email",
	})
}

// VerifyContestantEmail mirrors VerifyUserEmail for contestants.
func (h *VerificationHandler) VerifyContestantEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP or email")
	}

	var contestant models.Contestant
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&contestant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Contestant not found")
		}
		return err
	}

	if err := checkOTP(contestant.IsVerified, contestant.OTP, contestant.OTPCreatedAt, req.OTP); err != nil {
		return err
	}

	if err := h.db.Model(&contestant).Updates(map[string]interface{}{
		"is_verified":    true,
		"otp":            nil,
		"otp_created_at": nil,
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Email verification successful",
	})
}

// ResendContestantOTP re-issues the OTP for an unverified contestant.
func (h *VerificationHandler) ResendContestantOTP(c *fiber.Ctx) error {
	var req resendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var contestant models.Contestant
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&contestant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Contestant not found")
		}
		return err
	}

	if contestant.IsVerified {
		return fiber.NewError(fiber.StatusBadRequest, "Email already verified")
	}

	otp, otpCreatedAt, err := utils.GenerateOTP()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate OTP")
	}

	if err := h.db.Model(&contestant).Updates(map[string]interface{}{
		"otp":            otp,
		"otp_created_at": otpCreatedAt,
	}).Error; err != nil {
		return err
	}

	verifyLink := fmt.Sprintf("%s/contest-verify-email?otp=%s", h.cfg.SiteURL, otp)
	subject, body := services.ResendOTPEmail(contestant.Username, otp, verifyLink)
	if err := h.mailer.Send(contestant.Username, contestant.Email, subject, body); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "New OTP sent to email",
	})
}
