package model

// Product is a catalog entry in the `products` table.  Products have no
// owner; only admins change them.
type Product struct {
	ID          uint64  `json:"id"`          // products.id
	Name        string  `json:"name"`        // products.name
	Description string  `json:"description"` // products.description
	Price       float64 `json:"price"`       // products.price
	Stock       int     `json:"stock"`       // products.stock
	ImageURL    *string `json:"image_url"`   // products.image_url (nullable)
}
