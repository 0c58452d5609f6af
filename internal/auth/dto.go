package auth

import (
	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

// BuyerLoginRequest carries buyer credentials. Phone doubles as the login id.
type BuyerLoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SellerLoginRequest carries seller credentials keyed by WhatsApp number.
type SellerLoginRequest struct {
	Whatsapp string `json:"whatsapp" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginRequest carries admin credentials.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BuyerRegisterRequest creates or claims a buyer account. Registering with a
// phone that already placed guest orders attaches the history to the account.
type BuyerRegisterRequest struct {
	Phone    string  `json:"phone" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	City     *string `json:"city,omitempty"`
	Password string  `json:"password" validate:"required,min=8"`
}

// SellerRegisterRequest creates a pending seller account awaiting approval.
type SellerRegisterRequest struct {
	Whatsapp      string   `json:"whatsapp" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	BusinessName  string   `json:"business_name" validate:"required"`
	Email         string   `json:"email" validate:"required,email"`
	City          *string  `json:"city,omitempty"`
	Region        *string  `json:"region,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	DeliveryPrice *int64   `json:"delivery_price,omitempty" validate:"omitempty,min=0"`
	Password      string   `json:"password" validate:"required,min=8"`
}

// ActorSummary is the minimal identity block returned after login.
type ActorSummary struct {
	ID   uuid.UUID       `json:"id"`
	Name string          `json:"name"`
	Role enums.ActorRole `json:"role"`
}

// LoginResponse contains the access token and the authenticated identity.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	Actor       ActorSummary `json:"actor"`
}

// RegisterResponse reports the created account. AccessToken is empty for
// sellers because pending accounts cannot log in yet.
type RegisterResponse struct {
	AccessToken string              `json:"access_token,omitempty"`
	Actor       ActorSummary        `json:"actor"`
	Status      enums.AccountStatus `json:"status"`
}
