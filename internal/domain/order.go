package domain

import (
	"math"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentWebpay      PaymentMethod = "webpay"
	PaymentMercadoPago PaymentMethod = "mercadopago"
	PaymentFlow        PaymentMethod = "flow"
	PaymentTransfer    PaymentMethod = "transfer"
)

type Address struct {
	ID        int64  `json:"-"`
	Street    string `json:"street"`
	Number    string `json:"number"`
	Apartment string `json:"apartment,omitempty"`
	Region    string `json:"region"`
	City      string `json:"city"`
	Comuna    string `json:"comuna"`
	ZipCode   string `json:"zipCode,omitempty"`
}

// OrderItem is a denormalized snapshot of the product at purchase time so
// the order survives later catalog edits. Immutable after creation.
type OrderItem struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"-"`
	ProductID int64  `json:"productId"`
	Name      string `json:"productName"`
	Artist    string `json:"artist,omitempty"`
	Category  string `json:"category,omitempty"`
	Price     int64  `json:"price"`
	Quantity  int32  `json:"quantity"`
	ImageUrl  string `json:"imageUrl,omitempty"`
}

type Order struct {
	ID            int64         `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone string        `json:"customerPhone"`
	Status        OrderStatus   `json:"status"`
	Subtotal      int64         `json:"subtotal"`
	Shipping      int64         `json:"shipping"`
	Tax           int64         `json:"tax"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Items         []OrderItem   `json:"items"`
	Address       Address       `json:"address"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

// DraftOrder is the checkout submission before persistence.
type DraftOrder struct {
	Customer Contact
	Shipping Address
	Payment  PaymentMethod
	Items    []OrderItem
	Subtotal int64
	Total    int64
}

type Contact struct {
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	CreateAccount bool
}

// CalculateTotals fills the money fields. Tax (IVA) is computed and kept as
// its own receipt line; the stored total is subtotal plus shipping only.
func (d *DraftOrder) CalculateTotals(freeShippingFrom, shippingFee int64, taxRate float64) (subtotal, shipping, tax, total int64) {
	subtotal = d.Subtotal
	if subtotal == 0 {
		for _, item := range d.Items {
			subtotal += item.Price * int64(item.Quantity)
		}
	}

	shipping = shippingFee
	if subtotal >= freeShippingFrom {
		shipping = 0
	}

	tax = int64(math.Round(float64(subtotal) * taxRate))
	total = subtotal + shipping

	return subtotal, shipping, tax, total
}
