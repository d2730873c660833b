package api

import "github.com/hadfield/catalog/pkg/storage"

// RegisterRequest is the body of POST /api/users/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// LoginResponse carries the token together with the non-secret profile
type LoginResponse struct {
	Token string        `json:"token"`
	User  *storage.User `json:"user"`
}

// ProductRequest is the body of POST /api/products
type ProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}
