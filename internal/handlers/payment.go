package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/newera/internal/models"
	"github.com/example/newera/internal/services"
	"github.com/example/newera/internal/utils"
)

// PaymentHandler manages payment gateway initialization and verification.
// Verification is pull-only: the client calls back after redirect with the
// gateway reference.
type PaymentHandler struct {
	db       *gorm.DB
	paystack *services.PaystackService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(db *gorm.DB, paystack *services.PaystackService) *PaymentHandler {
	return &PaymentHandler{db: db, paystack: paystack}
}

// toMinorUnits converts a major-currency amount to the gateway's integer
// minor unit (kobo).
func toMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

type initializePaymentRequest struct {
	Email  string  `json:"email" validate:"required,email"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// InitializePayment starts a checkout transaction and returns the
// client-usable access code.
func (h *PaymentHandler) InitializePayment(c *fiber.Ctx) error {
	var req initializePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Email and amount are required")
	}

	result, err := h.paystack.InitializeTransaction(utils.NormalizeEmail(req.Email), toMinorUnits(req.Amount))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Server error")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"accessCode": result.AccessCode,
		"reference":  result.Reference,
	})
}

// VerifyPayment checks a transaction with the gateway. The expected amount
// is derived from the stored order when order_id is supplied; otherwise the
// caller's amount query parameter is used.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	reference := c.Params("reference")

	var expected int64
	if orderNumber := c.Query("order_id"); orderNumber != "" {
		var order models.Order
		if err := h.db.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Order not found.")
			}
			return err
		}
		expected = toMinorUnits(order.TotalAmount)
	} else {
		parsed, err := strconv.ParseInt(c.Query("amount"), 10, 64)
		if err != nil || parsed <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid amount format")
		}
		expected = parsed
	}

	result, err := h.paystack.VerifyTransaction(reference)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Error verifying payment")
	}

	if result.Status != "success" || result.Amount != expected {
		return fiber.NewError(fiber.StatusBadRequest, "Payment verification failed.")
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"transactionData": result,
	})
}

type votePaymentRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Votes    int    `json:"votes" validate:"required,gt=0"`
}

// VotePayment starts a vote-purchase transaction. The amount is derived
// from the configured vote price, never from the client.
func (h *PaymentHandler) VotePayment(c *fiber.Ctx) error {
	var req votePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	var contestant models.Contestant
	if err := h.db.Where("username = ?", req.Username).First(&contestant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Contestant not found")
		}
		return err
	}

	var settings models.ContestSettings
	if err := h.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Vote price is not configured")
		}
		return err
	}
	if !settings.ContestActive {
		return fiber.NewError(fiber.StatusBadRequest, "Contest is not active")
	}
	if settings.VotePrice <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Vote price is not configured")
	}

	amount := toMinorUnits(settings.VotePrice) * int64(req.Votes)
	result, err := h.paystack.InitializeTransaction(utils.NormalizeEmail(req.Email), amount)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Server error")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"accessCode": result.AccessCode,
		"reference":  result.Reference,
		"amount":     amount,
	})
}

// VerifyVotePayment checks a vote-purchase transaction against the
// server-derived expected amount for the requested vote count.
func (h *PaymentHandler) VerifyVotePayment(c *fiber.Ctx) error {
	reference := c.Params("reference")

	votes, err := strconv.Atoi(c.Query("votes"))
	if err != nil || votes <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Votes must be a positive number")
	}

	var settings models.ContestSettings
	if err := h.db.First(&settings).Error; err != nil || settings.VotePrice <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Vote price is not configured")
	}
	if !settings.ContestActive {
		return fiber.NewError(fiber.StatusBadRequest, "Contest is not active")
	}
	expected := toMinorUnits(settings.VotePrice) * int64(votes)

	result, err := h.paystack.VerifyTransaction(reference)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Error verifying payment")
	}

	if result.Status != "success" || result.Amount != expected {
		return fiber.NewError(fiber.StatusBadRequest, "Payment verification failed.")
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"transactionData": result,
	})
}
