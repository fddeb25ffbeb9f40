package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/newera/internal/config"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/services"
	"github.com/example/newera/internal/utils"
)

// AdminHandler manages admin authentication and moderation endpoints.
type AdminHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, mailer: mailer}
}

type adminRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates the single admin account. Registration is closed once
// an admin exists.
func (h *AdminHandler) Register(c *fiber.Ctx) error {
	var count int64
	if err := h.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusForbidden, "Admin already exists. Registration is closed.")
	}

	var req adminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	admin := models.Admin{
		Email:        utils.NormalizeEmail(req.Email),
		PasswordHash: passwordHash,
	}
	if err := h.db.Create(&admin).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Admin registered successfully!",
	})
}

// Login authenticates the admin and issues a token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var admin models.Admin
	if err := h.db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password.")
		}
		return err
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password.")
	}

	token, expiresAt, err := utils.GenerateToken(h.cfg.JWTSecret, admin.Email, "admin", h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Login successful!",
		"token":     token,
		"expiresAt": expiresAt,
	})
}

// ListUsers returns all registered users, paginated.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := h.db.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// DeleteUser hard-deletes a user and their dependent rows, including
// orders and their items so no orphans surface in the admin order views.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	if err := h.db.Where("user_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := h.db.Where("user_id = ?", id).Delete(&models.HistoryEntry{}).Error; err != nil {
		return err
	}

	var orderIDs []uuid.UUID
	if err := h.db.Model(&models.Order{}).Where("user_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
		return err
	}
	if len(orderIDs) > 0 {
		if err := h.db.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := h.db.Where("user_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}

// ListContestants returns all contestants with their votes, paginated.
func (h *AdminHandler) ListContestants(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Contestant{}).Count(&total).Error; err != nil {
		return err
	}

	var contestants []models.Contestant
	if err := h.db.Preload("Votes").Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&contestants).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"contestants": contestants,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// DeleteContestant hard-deletes a contestant and their votes.
func (h *AdminHandler) DeleteContestant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Contestant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Contestant not found")
	}

	if err := h.db.Where("contestant_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Contestant deleted successfully"})
}

// ListOrdersByStatus returns all orders in the given status together with
// the owning username. Orders live in their own table, so lookup does not
// scan principals.
func (h *AdminHandler) ListOrdersByStatus(status string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pg := utils.ParsePagination(c)

		var total int64
		if err := h.db.Model(&models.Order{}).Where("status = ?", status).Count(&total).Error; err != nil {
			return err
		}

		var orders []models.Order
		if err := h.db.Preload("Items").Preload("User").
			Where("status = ?", status).
			Order("placed_at desc").
			Limit(pg.Limit).Offset(pg.Offset).
			Find(&orders).Error; err != nil {
			return err
		}

		type orderView struct {
			models.Order
			UserID   uuid.UUID `json:"user_id"`
			Username string    `json:"username"`
		}

		views := make([]orderView, len(orders))
		for i, o := range orders {
			views[i] = orderView{Order: o, UserID: o.UserID}
			if o.User != nil {
				views[i].Username = o.User.Username
			}
		}

		return c.JSON(fiber.Map{
			"success": true,
			"orders":  views,
			"pagination": fiber.Map{
				"current_page":   pg.Page,
				"items_per_page": pg.Limit,
				"total_items":    total,
			},
		})
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrderStatus advances an order along Awaiting -> Pending ->
// Completed. Backward moves are rejected. The owner is emailed on success.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderNumber := c.Params("orderId")

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}
	if !models.ValidOrderStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown order status")
	}

	var order models.Order
	if err := h.db.Preload("User").Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found.")
		}
		return err
	}

	if !models.CanTransition(order.Status, req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid status transition")
	}

	if err := h.db.Model(&order).Update("status", req.Status).Error; err != nil {
		return err
	}

	if order.User != nil {
		subject, body := services.OrderStatusEmail(order.User.Username, order.OrderNumber, req.Status)
		if err := h.mailer.Send(order.User.Username, order.User.Email, subject, body); err != nil {
			log.Printf("[Admin] order status notification failed: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated successfully",
	})
}

// DeleteOrder hard-deletes an order and its items.
func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	orderNumber := c.Params("orderId")

	var order models.Order
	if err := h.db.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found.")
		}
		return err
	}

	if err := h.db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := h.db.Delete(&order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order has been deleted successfully.",
	})
}
