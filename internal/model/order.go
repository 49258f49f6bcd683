package model

import "time"

// Order statuses accepted by the `orders.status` enum.
const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Order is a purchase placed by one user.  The `user` column is the owner.
//
// Fields:
//
//	ID        – primary key identifier.
//	User      – owning username.
//	Total     – order total.
//	Status    – pending, shipped, delivered or cancelled.
//	Address   – shipping address.
//	CreatedAt – creation timestamp.
type Order struct {
	ID        uint64    `json:"id"`         // orders.id
	User      string    `json:"user"`       // orders.user
	Total     float64   `json:"total"`      // orders.total
	Status    string    `json:"status"`     // orders.status
	Address   string    `json:"address"`    // orders.address
	CreatedAt time.Time `json:"created_at"` // orders.created_at
}

// OrderItem is one product line of an order.  It has no owner column of its
// own; it belongs to whoever owns the parent order.
type OrderItem struct {
	ID        uint64  `json:"id"`         // order_items.id
	OrderID   uint64  `json:"order_id"`   // order_items.order_id
	ProductID uint64  `json:"product_id"` // order_items.product_id
	Quantity  int     `json:"quantity"`   // order_items.quantity
	Price     float64 `json:"price"`      // order_items.price
}

// OrderLine is a joined, read-only view of an order item with the order
// status, the customer name and the product name.
type OrderLine struct {
	OrderID      uint64  `json:"order_id"`
	OrderItemID  uint64  `json:"order_item_id"`
	Status       string  `json:"status"`
	Address      string  `json:"address"`
	CustomerName string  `json:"customer_name"`
	ProductID    uint64  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	LineTotal    float64 `json:"total_line_price"`
}
