package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/newera/internal/config"
	"github.com/example/newera/internal/middleware"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/services"
	"github.com/example/newera/internal/utils"
)

// ContestantAuthHandler mirrors the customer auth flow for contestants.
type ContestantAuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
}

// NewContestantAuthHandler constructs a ContestantAuthHandler.
func NewContestantAuthHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer) *ContestantAuthHandler {
	return &ContestantAuthHandler{db: db, cfg: cfg, mailer: mailer}
}

// Register creates a new unverified contestant and mails a verification OTP.
func (h *ContestantAuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	req.Email = utils.NormalizeEmail(req.Email)

	var count int64
	if err := h.db.Model(&models.Contestant{}).
		Where("email = ? OR username = ? OR phone_number = ?", req.Email, req.Username, req.PhoneNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "Email, username or phone number already exists")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	otp, otpCreatedAt, err := utils.GenerateOTP()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate OTP")
	}

	contestant := models.Contestant{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		State:        req.State,
		PasswordHash: passwordHash,
		Role:         "contestant",
		IsVerified:   false,
		OTP:          &otp,
		OTPCreatedAt: &otpCreatedAt,
	}

	if err := h.db.Create(&contestant).Error; err != nil {
		return err
	}

	verifyLink := fmt.Sprintf("%s/contest-verify-email?otp=%s", h.cfg.SiteURL, otp)
	subject, body := services.VerificationEmail(contestant.Username, otp, verifyLink)
	if err := h.mailer.Send(contestant.Username, contestant.Email, subject, body); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Contestant registered successfully!",
	})
}

// Login authenticates a verified contestant and issues a token.
func (h *ContestantAuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var contestant models.Contestant
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&contestant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(contestant.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	if !contestant.IsVerified {
		return fiber.NewError(fiber.StatusForbidden, "Account is not verified. Please verify your account before logging in.")
	}

	token, expiresAt, err := utils.GenerateToken(h.cfg.JWTSecret, contestant.Email, contestant.Username, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"token":          token,
		"expirationTime": expiresAt,
		"role":           contestant.Role,
	})
}

type completeRegistrationRequest struct {
	Twitter    string `json:"twitter"`
	Instagram  string `json:"instagram"`
	Facebook   string `json:"facebook"`
	Whatsapp   string `json:"whatsapp"`
	ProfilePic string `json:"profilePic"`
	CoverPic   string `json:"coverPic"`
}

// CompleteRegistration stores social handles and profile images for the
// authenticated contestant.
func (h *ContestantAuthHandler) CompleteRegistration(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req completeRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result := h.db.Model(&models.Contestant{}).
		Where("email = ?", claims.Email).
		Updates(map[string]interface{}{
			"twitter":                   req.Twitter,
			"instagram":                 req.Instagram,
			"facebook":                  req.Facebook,
			"whatsapp":                  req.Whatsapp,
			"profile_pic":               req.ProfilePic,
			"cover_pic":                 req.CoverPic,
			"is_registration_completed": true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Contestant not found")
	}

	return c.JSON(fiber.Map{
		"success":                 true,
		"isRegistrationCompleted": true,
	})
}

// ForgotPassword stores a single-use reset token and mails the reset link.
func (h *ContestantAuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var contestant models.Contestant
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&contestant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Contestant with that email does not exist.")
		}
		return err
	}

	resetToken, err := utils.GenerateResetToken()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	expires := time.Now().Add(time.Hour)
	if err := h.db.Model(&contestant).Updates(map[string]interface{}{
		"reset_token":         resetToken,
		"reset_token_expires": expires,
	}).Error; err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", h.cfg.SiteURL, resetToken)
	subject, body := services.PasswordResetEmail(contestant.Username, resetLink)
	if err := h.mailer.Send(contestant.Username, contestant.Email, subject, body); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password reset link sent to your email.",
	})
}

// ResetPassword consumes an unexpired reset token and replaces the
// password hash.
func (h *ContestantAuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var contestant models.Contestant
	err := h.db.Where("reset_token = ? AND reset_token_expires > ?", req.ResetToken, time.Now()).
		First(&contestant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired reset token.")
		}
		return err
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.db.Model(&contestant).Updates(map[string]interface{}{
		"password_hash":       passwordHash,
		"reset_token":         nil,
		"reset_token_expires": nil,
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password has been reset successfully.",
	})
}
