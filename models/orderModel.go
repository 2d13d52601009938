package models

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPlaced         = "placed"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusReady          = "ready"
	StatusOutForDelivery = "out-for-delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

var orderStatuses = map[string]bool{
	StatusPlaced:         true,
	StatusConfirmed:      true,
	StatusPreparing:      true,
	StatusReady:          true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusCancelled:      true,
}

type OrderItem struct {
	MenuItemID          string  `bson:"menu_item_id" json:"menuItemId" validate:"required"`
	Name                string  `bson:"name" json:"name" validate:"required"`
	Price               float64 `bson:"price" json:"price" validate:"required,gt=0"`
	Quantity            int     `bson:"quantity" json:"quantity" validate:"required,gt=0"`
	Variant             *string `bson:"variant,omitempty" json:"variant,omitempty"`
	SpecialInstructions *string `bson:"special_instructions,omitempty" json:"specialInstructions,omitempty"`
}

// Amount is the line total for the item.
func (i OrderItem) Amount() float64 {
	return Round2(i.Price * float64(i.Quantity))
}

type CustomerInfo struct {
	Name    string `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Email   string `bson:"email" json:"email" validate:"required,email"`
	Phone   string `bson:"phone" json:"phone" validate:"required,inphone"`
	Address string `bson:"address" json:"address" validate:"required"`
}

type DeliveryInfo struct {
	Address       string  `bson:"address" json:"address" validate:"required"`
	Phone         string  `bson:"phone" json:"phone" validate:"required,inphone"`
	DeliveryNotes *string `bson:"delivery_notes,omitempty" json:"deliveryNotes,omitempty"`
}

// CreateOrderRequest is the order submission contract.
type CreateOrderRequest struct {
	Items         []OrderItem  `json:"items" validate:"required,min=1,dive"`
	CustomerInfo  CustomerInfo `json:"customerInfo" validate:"required"`
	DeliveryInfo  DeliveryInfo `json:"deliveryInfo" validate:"required"`
	PaymentMethod string       `json:"paymentMethod" validate:"required,eq=cod|eq=online"`
	Notes         *string      `json:"notes,omitempty"`
}

type Order struct {
	ID                 primitive.ObjectID `bson:"_id" json:"-"`
	OrderNumber        string             `bson:"order_number" json:"orderNumber"`
	Items              []OrderItem        `bson:"items" json:"items"`
	CustomerInfo       CustomerInfo       `bson:"customer_info" json:"customerInfo"`
	DeliveryInfo       DeliveryInfo       `bson:"delivery_info" json:"deliveryInfo"`
	PaymentMethod      string             `bson:"payment_method" json:"paymentMethod"`
	Notes              *string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Subtotal           float64            `bson:"subtotal" json:"subtotal"`
	Tax                float64            `bson:"tax" json:"tax"`
	DeliveryFee        float64            `bson:"delivery_fee" json:"deliveryFee"`
	Total              float64            `bson:"total" json:"total"`
	Status             string             `bson:"status" json:"status"`
	PaymentStatus      string             `bson:"payment_status" json:"paymentStatus"`
	TransactionID      *string            `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	EstimatedTime      *string            `bson:"estimated_time,omitempty" json:"estimatedTime,omitempty"`
	ActualDeliveryTime *time.Time         `bson:"actual_delivery_time,omitempty" json:"actualDeliveryTime,omitempty"`
	NotifiedAt         *time.Time         `bson:"notified_at,omitempty" json:"notifiedAt,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}

func ValidStatus(s string) bool {
	return orderStatuses[s]
}

func ValidPaymentMethod(m string) bool {
	return m == "cod" || m == "online"
}

// IsTerminal reports whether the order can no longer change status.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

// CanTransitionTo enforces the administrative-override model: terminal
// orders reject every transition, any non-terminal order may move to any
// valid status.
func (o *Order) CanTransitionTo(next string) error {
	if !ValidStatus(next) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}
	if o.IsTerminal() {
		return fmt.Errorf("%w: order %s is already %s", ErrStateConflict, o.OrderNumber, o.Status)
	}
	return nil
}

// ApplyPayment records a payment assertion. Paying a settled or cancelled
// order is a conflict; a successful payment on a freshly placed order also
// confirms it.
func (o *Order) ApplyPayment(paymentStatus string, transactionID *string) error {
	if paymentStatus != PaymentPaid && paymentStatus != PaymentFailed {
		return fmt.Errorf("%w: payment status must be %q or %q", ErrValidation, PaymentPaid, PaymentFailed)
	}
	if o.PaymentStatus == PaymentPaid {
		return fmt.Errorf("%w: order %s is already paid", ErrStateConflict, o.OrderNumber)
	}
	if o.Status == StatusCancelled {
		return fmt.Errorf("%w: order %s is cancelled", ErrStateConflict, o.OrderNumber)
	}
	o.PaymentStatus = paymentStatus
	if transactionID != nil {
		o.TransactionID = transactionID
	}
	if paymentStatus == PaymentPaid && o.Status == StatusPlaced {
		o.Status = StatusConfirmed
	}
	return nil
}

// Cancel is a status change, never a delete.
func (o *Order) Cancel() error {
	if o.IsTerminal() {
		return fmt.Errorf("%w: order %s is already %s", ErrStateConflict, o.OrderNumber, o.Status)
	}
	o.Status = StatusCancelled
	return nil
}

// ComputeTotals fills Subtotal, Tax, DeliveryFee and Total from the line
// items. The parts are rounded to 2dp individually and Total is their
// plain sum, so total == subtotal + tax + deliveryFee holds exactly.
func (o *Order) ComputeTotals(taxRate, deliveryFee float64) {
	subtotal := 0.0
	for _, item := range o.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	o.Subtotal = Round2(subtotal)
	o.Tax = Round2(o.Subtotal * taxRate)
	o.DeliveryFee = Round2(deliveryFee)
	o.Total = o.Subtotal + o.Tax + o.DeliveryFee
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
