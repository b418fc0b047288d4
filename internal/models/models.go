// Package models contains the normalized view models the service works
// with. The remote backend is loosely typed; everything here is the stable
// shape produced after field-alias resolution.
package models

import (
	"strings"
	"time"
)

// Subscription status values as issued by the backend. Comparison is
// case-insensitive everywhere, the backend is not consistent about casing.
const (
	StatusPendingPayment = "PendingPayment"
	StatusActive         = "Active"
	StatusExpired        = "Expired"
	StatusCancelled      = "Cancelled"
)

// StatusIs reports whether status equals want ignoring case.
func StatusIs(status, want string) bool {
	return strings.EqualFold(status, want)
}

// Customer is the authenticated identity. The credential secret never
// appears here; after authentication only the bearer token is kept.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Avatar  string `json:"avatar,omitempty"`
}

// Session is the per-browser state mirrored into the session store: the
// backend bearer token plus a snapshot of the customer profile.
type Session struct {
	Token    string   `json:"token"`
	Customer Customer `json:"customer"`
}

// Package is a purchasable subscription tier from the plan catalog,
// already mapped into display shape.
type Package struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Image        string   `json:"image"`
	Popular      bool     `json:"popular"`
	DurationDays int      `json:"durationDays,omitempty"`
}

// Subscription is a customer's instance of a plan with its own lifecycle.
// Status transitions are owned by the backend; the service only observes.
type Subscription struct {
	SubscriptionID string  `json:"subscriptionId"`
	PlanID         int     `json:"planId"`
	PlanName       string  `json:"planName"`
	Status         string  `json:"status"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	Price          float64 `json:"price"`
	RemainingDays  *int    `json:"remainingDays,omitempty"`
	ProductName    string  `json:"productName,omitempty"`
	ImageURL       string  `json:"imageUrl,omitempty"`
}

// PaymentInstructions are the bank-transfer details produced once per
// order. They are ephemeral and never persisted.
type PaymentInstructions struct {
	QRUrl           string  `json:"qrUrl"`
	BankName        string  `json:"bankName"`
	BankAccount     string  `json:"bankAccount"`
	AccountHolder   string  `json:"accountHolder"`
	TransferContent string  `json:"transferContent"`
	Amount          float64 `json:"amount"`
}

// Order is the result of placing a subscription order: the created
// subscription record plus the transfer instructions.
type Order struct {
	Subscription Subscription        `json:"subscription"`
	Instructions PaymentInstructions `json:"instructions"`
	Message      string              `json:"message,omitempty"`
}

// Notification is one entry of the read-only notification stream.
// IsRead is a pointer: the backend may omit the flag entirely.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	IsRead    *bool     `json:"isRead,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Link      string    `json:"link,omitempty"`
}
