package models

import "time"

// Access Token Response
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	TokenID      string    `json:"token_id"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Session is returned by sign-in and refresh
type Session struct {
	Token   TokenResponse `json:"token"`
	Profile *Profile      `json:"profile"`
}

// SignUpRequest carries the signup form
type SignUpRequest struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	ConfirmPassword  string  `json:"confirm_password"`
	FullName         string  `json:"full_name"`
	Phone            *string `json:"phone"`
	Role             string  `json:"role"`
	OrganizationName *string `json:"organization_name"`
	PropertyCount    *int    `json:"property_count"`
}

// SignInRequest carries email/password credentials
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token Refresh Request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PasswordResetRequest starts the forgot-password flow
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm completes it
type PasswordResetConfirm struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
