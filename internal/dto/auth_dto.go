package dto

import "time"

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// Role restricts the login to one entry point (admin login page vs
	// supervisor login page). Empty means any role is accepted.
	Role string `json:"role" binding:"omitempty,oneof=admin supervisor"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}
