package model

import "time"

// Review is a user's rating of a product.
type Review struct {
	ID        uint64    `json:"id"`         // reviews.id
	ProductID uint64    `json:"product_id"` // reviews.product_id
	User      string    `json:"user"`       // reviews.user
	Rating    int       `json:"rating"`     // reviews.rating (1..5)
	Comment   string    `json:"comment"`    // reviews.comment
	CreatedAt time.Time `json:"created_at"` // reviews.created_at
}
