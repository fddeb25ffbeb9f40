package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered customer.
type User struct {
	BaseModel
	FullName          string         `json:"fullname"`
	Username          string         `gorm:"uniqueIndex" json:"username"`
	Email             string         `gorm:"uniqueIndex" json:"email"`
	PhoneNumber       string         `gorm:"uniqueIndex" json:"phone_number"`
	State             string         `json:"state"`
	PasswordHash      string         `json:"-"`
	Role              string         `json:"role"`
	IsVerified        bool           `json:"is_verified"`
	OTP               *string        `json:"-"`
	OTPCreatedAt      *time.Time     `json:"-"`
	ResetToken        *string        `gorm:"index" json:"-"`
	ResetTokenExpires *time.Time     `json:"-"`
	CartItems         []CartItem     `json:"cart_items,omitempty"`
	History           []HistoryEntry `json:"history,omitempty"`
	Orders            []Order        `json:"orders,omitempty"`
}

// CartItem is one line of a user's open cart. The cart is replaced
// wholesale on update, never merged.
type CartItem struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Image    string    `json:"image"`
	Quantity int       `json:"quantity"`
}

// HistoryEntry records a purchase transaction for a user.
type HistoryEntry struct {
	BaseModel
	UserID               uuid.UUID `gorm:"type:uuid;index" json:"-"`
	TransactionReference string    `json:"transaction_reference"`
	Amount               float64   `json:"amount"`
	Email                string    `json:"email"`
	Date                 time.Time `json:"date"`
}
