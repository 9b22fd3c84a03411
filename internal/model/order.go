package model

import (
	"strconv"
	"time"
)

// OrderStatusPending is the status assigned to every newly created order.
const OrderStatusPending = "pending"

// CartItem is one line of an order. Price is the unit price captured at the
// time the item was added to the cart, not re-derived from the product.
type CartItem struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size,omitempty"`
	SizeName  string `json:"sizeName,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
	Image     string `json:"image,omitempty"`
}

// CartItemID derives the cart line ID from product, color and optional size.
func CartItemID(productID, color, size string) string {
	id := productID + "-" + color
	if size != "" {
		id += "-" + size
	}
	return id
}

// Order is a customer order. Append-only once created; only status may
// change afterwards.
type Order struct {
	ID       string     `json:"id"`
	FullName string     `json:"fullName"`
	Phone    string     `json:"phone"`
	City     string     `json:"city,omitempty"`
	Notes    string     `json:"notes,omitempty"`
	Items    []CartItem `json:"items"`
	Total    int        `json:"total"`
	Date     string     `json:"date,omitempty"`
	Status   string     `json:"status,omitempty"`
}

// NewOrderID builds an order ID of the form ord-<epoch-millis>.
func NewOrderID(t time.Time) string {
	return "ord-" + strconv.FormatInt(t.UnixMilli(), 10)
}

// DateUnixMilli parses the order date for sorting. Orders without a
// parseable date sort as oldest.
func (o *Order) DateUnixMilli() int64 {
	if o.Date == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339Nano, o.Date)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
