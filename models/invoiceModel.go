package models

import "time"

// InvoiceData is the read-only projection consumed by the invoice
// generator. It has no identity of its own and is rebuilt from an order on
// demand.
type InvoiceData struct {
	OrderNumber   string
	OrderDate     time.Time
	Items         []OrderItem
	Customer      CustomerInfo
	Delivery      DeliveryInfo
	Subtotal      float64
	Tax           float64
	DeliveryFee   float64
	Total         float64
	PaymentMethod string

	RestaurantName    string
	RestaurantEmail   string
	RestaurantPhone   string
	RestaurantAddress string
}
