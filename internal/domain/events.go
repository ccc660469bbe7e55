package domain

import "time"

type OrderItemEvent struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Artist    string `json:"artist,omitempty"`
	Price     int64  `json:"price"`
	Quantity  int32  `json:"quantity"`
	ImageUrl  string `json:"image_url,omitempty"`
}

// OrderCreatedEvent carries everything the notification consumer needs to
// render the confirmation email without reading the database back.
type OrderCreatedEvent struct {
	Event         string           `json:"event"`
	EventID       int64            `json:"event_id"`
	OrderID       int64            `json:"order_id"`
	OrderNumber   string           `json:"order_number"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	Items         []OrderItemEvent `json:"items"`
	Subtotal      int64            `json:"subtotal"`
	Shipping      int64            `json:"shipping"`
	Tax           int64            `json:"tax"`
	Total         int64            `json:"total"`
	Address       Address          `json:"address"`
	CreatedAt     time.Time        `json:"created_at"`
}
