package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. An order only ever moves forward along
// Awaiting -> Pending -> Completed.
const (
	OrderStatusAwaiting  = "Awaiting"
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusAwaiting, OrderStatusPending, OrderStatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	switch from {
	case OrderStatusAwaiting:
		return to == OrderStatusPending || to == OrderStatusCompleted
	case OrderStatusPending:
		return to == OrderStatusCompleted
	}
	return false
}

// Order is placed from a user's cart. Item and billing fields are a
// snapshot taken at checkout; only Status changes afterwards.
type Order struct {
	BaseModel
	UserID       uuid.UUID   `gorm:"type:uuid;index" json:"-"`
	User         *User       `json:"-"`
	OrderNumber  string      `gorm:"uniqueIndex" json:"order_id"`
	Status       string      `json:"status"`
	TotalAmount  float64     `json:"total_amount"`
	BillingName  string      `json:"billing_name"`
	BillingEmail string      `json:"billing_email"`
	BillingPhone string      `json:"billing_phone"`
	BillingAddr  string      `json:"billing_address"`
	BillingCity  string      `json:"billing_city"`
	BillingState string      `json:"billing_state"`
	BillingZip   string      `json:"billing_zip"`
	PlacedAt     time.Time   `json:"placed_at"`
	Items        []OrderItem `json:"items,omitempty"`
}

// OrderItem is one snapshotted order line.
type OrderItem struct {
	BaseModel
	OrderID  uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Image    string    `json:"image"`
	Quantity int       `json:"quantity"`
}
