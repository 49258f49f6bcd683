package validation

// Request payloads.  Owner columns never appear in a payload: handlers stamp
// them from the caller's identity.

type RegisterRequest struct {
	User     string  `json:"user" validate:"required,min=2,max=30,alphanum"`
	Name     string  `json:"name" validate:"required,min=3,max=30"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,max=50,maxbytes=72"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UpdateUserRequest struct {
	Name  string  `json:"name" validate:"required,min=3,max=30"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	Password    string `json:"password" validate:"required,min=6,max=50,maxbytes=72"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=50,maxbytes=72"`
}

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=30"`
	Description string  `json:"description" validate:"required,min=5,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

// OrderRequest creates an order.  User is honoured only for admins placing
// an order on behalf of a customer.
type OrderRequest struct {
	User    string  `json:"user" validate:"omitempty,max=30"`
	Total   float64 `json:"total" validate:"gt=0"`
	Address string  `json:"address" validate:"required,min=1,max=255"`
}

type UpdateOrderRequest struct {
	Total   float64 `json:"total" validate:"gt=0"`
	Status  string  `json:"status" validate:"required,oneof=pending shipped delivered cancelled"`
	Address string  `json:"address" validate:"required,min=1,max=255"`
}

type OrderItemRequest struct {
	OrderID   uint64  `json:"order_id" validate:"required,min=1"`
	ProductID uint64  `json:"product_id" validate:"required,min=1"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type CartRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,min=1"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type ReviewRequest struct {
	ProductID uint64 `json:"product_id" validate:"required,min=1"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,min=3,max=100"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=3,max=100"`
}
