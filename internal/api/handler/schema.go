package handler

import (
	"time"

	"github.com/qvideo/rental-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error" example:"video not found"`
}

// --- Auth ---

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password  string `json:"password" validate:"required,notblank,max=72" example:"s3cret"`
	FirstName string `json:"firstName" validate:"required,notblank,max=100" example:"Jane"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100" example:"Doe"`
	// Role is checked by the service, which accepts any letter case.
	Role      string `json:"role,omitempty" validate:"omitempty,max=20" example:"CUSTOMER"`
}

type registerResponse struct {
	Message string      `json:"message" example:"User registered successfully"`
	Email   string      `json:"email" example:"jane@example.com"`
	Role    domain.Role `json:"role" example:"CUSTOMER"`
}

type loginResponse struct {
	Message     string     `json:"message" example:"Login successful"`
	Username    string     `json:"username" example:"jane@example.com"`
	Authorities []string   `json:"authorities" example:"ROLE_CUSTOMER"`
	Token       string     `json:"token,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// --- Videos ---

// videoRequest is the body of both create and update. An omitted
// isAvailable means true.
type videoRequest struct {
	Title     string `json:"title" validate:"required,notblank,max=255" example:"Test Movie"`
	Director  string `json:"director" validate:"required,notblank,max=255" example:"Test Director"`
	Genre     string `json:"genre" validate:"required,notblank,max=100" example:"Action"`
	Available *bool  `json:"isAvailable,omitempty" example:"true"`
}

func (r videoRequest) available() bool {
	return r.Available == nil || *r.Available
}
