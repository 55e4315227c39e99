// internal/api/docs.go
package api

import "alumni-api/internal/models"

// These types are for Swagger documentation
type RegisterRequest struct {
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password" example:"password123"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password" example:"password123"`
}

type AdminResponse struct {
	Message string              `json:"message" example:"Admin created successfully"`
	Admin   models.AdminSummary `json:"admin"`
}

type LoginResponse struct {
	Message string              `json:"message" example:"Login successful"`
	Token   string              `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Admin   models.AdminSummary `json:"admin"`
}

type MemberResponse struct {
	Message string        `json:"message" example:"User created successfully"`
	User    models.Member `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message" example:"User deleted successfully"`
}

type ErrorResponse struct {
	Message string `json:"message" example:"User not found"`
	Error   string `json:"error,omitempty" example:"dial tcp: connection refused"`
}
