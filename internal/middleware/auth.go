package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/newera/internal/config"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/utils"
)

// TokenHeader carries the signed token on every authenticated request.
const TokenHeader = "x-access-token"

const claimsContextKey = "identityClaims"
const adminContextKey = "currentAdmin"

// AuthRequired validates the request token and loads the identity claims
// into context. Handlers re-resolve the principal by claim email on every
// call; there is no session cache.
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Access token missing")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Token has expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		c.Locals(claimsContextKey, claims)
		return c.Next()
	}
}

// AdminRequired validates the token and resolves it to an Admin row. The
// admin is re-fetched from the store on every call; no role claim is
// embedded in the token itself.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Access token missing")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, token)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Token has expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		var admin models.Admin
		if err := db.Where("email = ?", claims.Email).First(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusForbidden, "Admin not found")
			}
			return err
		}

		c.Locals(claimsContextKey, claims)
		c.Locals(adminContextKey, &admin)
		return c.Next()
	}
}

// GetClaims extracts the authenticated identity claims from context.
func GetClaims(c *fiber.Ctx) (*utils.IdentityClaims, bool) {
	claims, ok := c.Locals(claimsContextKey).(*utils.IdentityClaims)
	return claims, ok
}

// GetAdmin extracts the resolved admin from context.
func GetAdmin(c *fiber.Ctx) (*models.Admin, bool) {
	admin, ok := c.Locals(adminContextKey).(*models.Admin)
	return admin, ok
}
