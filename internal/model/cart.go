package model

// CartEntry is one product a user has put in their cart.
type CartEntry struct {
	ID        uint64 `json:"id"`         // cart.id
	User      string `json:"user"`       // cart.user
	ProductID uint64 `json:"product_id"` // cart.product_id
	Quantity  int    `json:"quantity"`   // cart.quantity
}

// CartLine is a cart entry joined with product data and the line total.
type CartLine struct {
	CartID       uint64  `json:"cart_id"`
	CustomerName string  `json:"customer_name"`
	ProductID    uint64  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	LineTotal    float64 `json:"total_line_price"`
}
