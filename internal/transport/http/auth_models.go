package http

// LoginRequest carries email login fields for both directories.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

// RegisterRequest carries passenger self-registration fields.
type RegisterRequest struct {
	Name     string `json:"name" example:"New Passenger"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

// PasswordResetRequest captures the payload for requesting a reset link.
type PasswordResetRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// PasswordResetConfirmRequest captures the payload for redeeming a token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" example:"2f8a1f9c-92ab-4f7e-a1b3-4a3c0d6a8b2d"`
	NewPassword string `json:"newPassword" example:"NewPass!45"`
}

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}
