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

// AuthHandler bundles dependencies for customer authentication endpoints.
type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, mailer: mailer}
}

type registerRequest struct {
	FullName    string `json:"fullname" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	State       string `json:"state" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
}

// Register creates a new unverified user and mails a verification OTP.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	req.Email = utils.NormalizeEmail(req.Email)

	var count int64
	if err := h.db.Model(&models.User{}).
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

	user := models.User{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		State:        req.State,
		PasswordHash: passwordHash,
		Role:         "customer",
		IsVerified:   false,
		OTP:          &otp,
		OTPCreatedAt: &otpCreatedAt,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	verifyLink := fmt.Sprintf("%s/verify-email?otp=%s", h.cfg.SiteURL, otp)
	subject, body := services.VerificationEmail(user.Username, otp, verifyLink)
	if err := h.mailer.Send(user.Username, user.Email, subject, body); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully!",
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a verified user and issues a token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var user models.User
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	if !user.IsVerified {
		return fiber.NewError(fiber.StatusForbidden, "Account is not verified. Please verify your account before logging in.")
	}

	token, expiresAt, err := utils.GenerateToken(h.cfg.JWTSecret, user.Email, user.Username, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"token":          token,
		"expirationTime": expiresAt,
		"role":           user.Role,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword stores a single-use reset token and mails the reset link.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var user models.User
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "User with that email does not exist.")
		}
		return err
	}

	resetToken, err := utils.GenerateResetToken()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	expires := time.Now().Add(time.Hour)
	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"reset_token":         resetToken,
		"reset_token_expires": expires,
	}).Error; err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", h.cfg.SiteURL, resetToken)
	subject, body := services.PasswordResetEmail(user.Username, resetLink)
	if err := h.mailer.Send(user.Username, user.Email, subject, body); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password reset link sent to your email.",
	})
}

type resetPasswordRequest struct {
	ResetToken  string `json:"resetToken" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ResetPassword consumes an unexpired reset token and replaces the
// password hash. The token cannot be used twice.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var user models.User
	err := h.db.Where("reset_token = ? AND reset_token_expires > ?", req.ResetToken, time.Now()).
		First(&user).Error
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

	if err := h.db.Model(&user).Updates(map[string]interface{}{
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
