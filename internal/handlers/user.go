package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/newera/internal/config"
	"github.com/example/newera/internal/middleware"
	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/services"
	"github.com/example/newera/internal/utils"
)

// UserHandler manages cart, order and history endpoints for the
// authenticated customer.
type UserHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer) *UserHandler {
	return &UserHandler{db: db, cfg: cfg, mailer: mailer}
}

// currentUser re-resolves the principal by the token's email claim.
func (h *UserHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.Where("email = ?", claims.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetData returns the authenticated user's profile and cart.
func (h *UserHandler) GetData(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var cartItems []models.CartItem
	if err := h.db.Where("user_id = ?", user.ID).Order("created_at asc").Find(&cartItems).Error; err != nil {
		return err
	}

	firstname := user.FullName
	lastname := ""
	if parts := strings.SplitN(user.FullName, " ", 2); len(parts) == 2 {
		firstname, lastname = parts[0], parts[1]
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"firstname":   firstname,
		"lastname":    lastname,
		"username":    user.Username,
		"email":       user.Email,
		"phoneNumber": user.PhoneNumber,
		"state":       user.State,
		"cartItems":   cartItems,
	})
}

type cartItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity" validate:"gt=0"`
}

type updateCartRequest struct {
	CartItems []cartItemRequest `json:"cartItems"`
}

// UpdateCart replaces the user's cart wholesale with the submitted items.
func (h *UserHandler) UpdateCart(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var req updateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	for _, item := range req.CartItems {
		if err := utils.ValidateStruct(&item); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
		}
	}

	if err := h.db.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	for _, item := range req.CartItems {
		cartItem := models.CartItem{
			UserID:   user.ID,
			Name:     item.Name,
			Price:    item.Price,
			Image:    item.Image,
			Quantity: item.Quantity,
		}
		if err := h.db.Create(&cartItem).Error; err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart updated successfully",
	})
}

// ClearCart empties the user's cart.
func (h *UserHandler) ClearCart(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	if err := h.db.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart cleared successfully",
	})
}

type billingAddressRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

type createOrderRequest struct {
	BillingAddress billingAddressRequest `json:"billingAddress"`
	Products       []cartItemRequest     `json:"products" validate:"required,min=1"`
}

// CreateOrder snapshots the submitted items and billing address into a new
// order, recomputes the total server-side, clears the cart and appends a
// history record. The stored snapshot never changes afterwards.
func (h *UserHandler) CreateOrder(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}
	if err := utils.ValidateStruct(&req.BillingAddress); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	order := models.Order{
		UserID:       user.ID,
		OrderNumber:  uuid.NewString(),
		Status:       models.OrderStatusAwaiting,
		BillingName:  req.BillingAddress.Name,
		BillingEmail: req.BillingAddress.Email,
		BillingPhone: req.BillingAddress.Phone,
		BillingAddr:  req.BillingAddress.Address,
		BillingCity:  req.BillingAddress.City,
		BillingState: req.BillingAddress.State,
		BillingZip:   req.BillingAddress.Zip,
		PlacedAt:     time.Now(),
	}

	names := make([]string, 0, len(req.Products))
	for _, p := range req.Products {
		if err := utils.ValidateStruct(&p); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
		}
		names = append(names, p.Name)
	}

	// Catalog prices win over submitted line prices.
	var catalog []models.Product
	if err := h.db.Where("name IN ?", names).Find(&catalog).Error; err != nil {
		return err
	}
	catalogPrices := make(map[string]float64, len(catalog))
	for _, p := range catalog {
		catalogPrices[p.Name] = p.Price
	}

	var total float64
	for _, p := range req.Products {
		price := p.Price
		if catalogPrice, ok := catalogPrices[p.Name]; ok {
			price = catalogPrice
		}
		order.Items = append(order.Items, models.OrderItem{
			Name:     p.Name,
			Price:    price,
			Image:    p.Image,
			Quantity: p.Quantity,
		})
		total += price * float64(p.Quantity)
	}
	order.TotalAmount = total

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	if err := h.db.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	history := models.HistoryEntry{
		UserID:               user.ID,
		TransactionReference: order.OrderNumber,
		Amount:               order.TotalAmount,
		Email:                order.BillingEmail,
		Date:                 time.Now(),
	}
	if err := h.db.Create(&history).Error; err != nil {
		return err
	}

	if h.cfg.AdminNotifyEmail != "" {
		subject, body := services.NewOrderEmail(order.OrderNumber, user.Username, order.TotalAmount)
		if err := h.mailer.Send("Admin", h.cfg.AdminNotifyEmail, subject, body); err != nil {
			log.Printf("[Order] admin notification failed: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetOrders returns the user's orders, newest first.
func (h *UserHandler) GetOrders(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", user.ID).
		Order("placed_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

// GetHistory returns the user's purchase history.
func (h *UserHandler) GetHistory(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var history []models.HistoryEntry
	if err := h.db.Where("user_id = ?", user.ID).Order("date desc").Find(&history).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "history": history})
}

type updateHistoryRequest struct {
	TransactionReference string  `json:"transactionReference" validate:"required"`
	Amount               float64 `json:"amount" validate:"required"`
	Email                string  `json:"email" validate:"required,email"`
}

// UpdateHistory appends a purchase record for the authenticated user.
func (h *UserHandler) UpdateHistory(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var req updateHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	history := models.HistoryEntry{
		UserID:               user.ID,
		TransactionReference: req.TransactionReference,
		Amount:               req.Amount,
		Email:                req.Email,
		Date:                 time.Now(),
	}
	if err := h.db.Create(&history).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Purchase history updated successfully",
	})
}
