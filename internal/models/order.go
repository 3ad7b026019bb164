package models

import (
	"fmt"
	"time"
)

type OrderStatus string

type PaymentStatus string

type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"

	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"

	PaymentMethodStripe         PaymentMethod = "stripe"
	PaymentMethodPaypal         PaymentMethod = "paypal"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
)

// statusTransitions is the forward pipeline the status enum implies.
// Cancelled orders may still move to refunded; delivered may be refunded;
// refunded is terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {OrderStatusRefunded},
	OrderStatusRefunded:   {},
}

// CanTransition reports whether moving from one status to the next is
// allowed by the pipeline.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// OrderItem captures name, SKU and price at time of purchase, decoupled
// from later catalog changes.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	VariantID string  `bson:"variant_id,omitempty" json:"variant_id,omitempty"`
	Name      string  `bson:"name" json:"name"`
	SKU       string  `bson:"sku" json:"sku"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
	Total     float64 `bson:"total" json:"total"`
}

type StatusHistoryEntry struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
}

type Order struct {
	ID              string               `bson:"_id" json:"id"`
	OrderNumber     string               `bson:"order_number" json:"order_number"`
	UserID          string               `bson:"user_id" json:"user_id"`
	Items           []OrderItem          `bson:"items" json:"items"`
	Status          OrderStatus          `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus        `bson:"payment_status" json:"payment_status"`
	PaymentMethod   PaymentMethod        `bson:"payment_method" json:"payment_method"`
	PaymentID       string               `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	Subtotal        float64              `bson:"subtotal" json:"subtotal"`
	Tax             float64              `bson:"tax" json:"tax"`
	Shipping        float64              `bson:"shipping" json:"shipping"`
	Discount        float64              `bson:"discount" json:"discount"`
	Total           float64              `bson:"total" json:"total"`
	Currency        string               `bson:"currency" json:"currency"`
	ShippingAddress Address              `bson:"shipping_address" json:"shipping_address"`
	BillingAddress  Address              `bson:"billing_address" json:"billing_address"`
	TrackingNumber  string               `bson:"tracking_number,omitempty" json:"tracking_number,omitempty"`
	TrackingURL     string               `bson:"tracking_url,omitempty" json:"tracking_url,omitempty"`
	Notes           string               `bson:"notes,omitempty" json:"notes,omitempty"`
	StatusHistory   []StatusHistoryEntry `bson:"status_history" json:"status_history"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at" json:"updated_at"`
}

// FormatOrderNumber renders the human-readable order number for a sequence
// value: ORD + zero-padded 6 digits.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("ORD%06d", seq)
}

// RecalculateTotals keeps the money fields consistent: subtotal comes from
// line totals when unset, and total is always subtotal + tax + shipping −
// discount, never trusted from input.
func (o *Order) RecalculateTotals() {
	if o.Subtotal == 0 {
		for _, item := range o.Items {
			o.Subtotal += item.Total
		}
	}

	o.Total = o.Subtotal + o.Tax + o.Shipping - o.Discount
}

// ApplyStatus moves the order to a new status, appending one history entry.
// The history is append-only; a rejected transition leaves it untouched.
func (o *Order) ApplyStatus(status OrderStatus, note string, now time.Time) error {
	if !CanTransition(o.Status, status) {
		return fmt.Errorf("invalid status transition %s -> %s", o.Status, status)
	}

	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusHistoryEntry{
		Status:    status,
		Timestamp: now,
		Note:      note,
	})
	o.UpdatedAt = now

	return nil
}

// TotalItems is the sum of snapshotted line quantities.
func (o *Order) TotalItems() int {
	total := 0

	for _, item := range o.Items {
		total += item.Quantity
	}

	return total
}

type CreateOrderRequest struct {
	ShippingAddress Address       `json:"shipping_address" validate:"required"`
	BillingAddress  Address       `json:"billing_address" validate:"required"`
	PaymentMethod   PaymentMethod `json:"payment_method" validate:"required,oneof=stripe paypal cash_on_delivery bank_transfer"`
	Tax             float64       `json:"tax" validate:"omitempty,gte=0"`
	Shipping        float64       `json:"shipping" validate:"omitempty,gte=0"`
	Discount        float64       `json:"discount" validate:"omitempty,gte=0"`
	Currency        string        `json:"currency" validate:"omitempty,len=3"`
	Notes           string        `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	Note   string      `json:"note" validate:"omitempty,max=500"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" validate:"required,oneof=pending paid failed refunded partially_refunded"`
	PaymentID     string        `json:"payment_id" validate:"omitempty,max=100"`
}
