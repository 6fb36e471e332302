package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Account requests / responses ---

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=7"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateProfileRequest is decoded from a PATCH body. Keys outside these
// fields are collected separately and rejected by the account service.
type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type profileResponse struct {
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Joined time.Time `json:"joined"`
}

type sessionResponse struct {
	User  profileResponse `json:"user"`
	Token string          `json:"token"`
}

// --- Shift requests / responses ---

type createShiftRequest struct {
	Where string `json:"where"`
	// When accepts DD-MM-YYYY, YYYY-MM-DD or RFC 3339; empty means today.
	When        string   `json:"when"`
	Billed      *float64 `json:"billed"      validate:"required"`
	Description string   `json:"description" validate:"required"`
	Paid        bool     `json:"paid"`
}

type updateShiftRequest struct {
	Where       *string  `json:"where"`
	When        *string  `json:"when"`
	Billed      *float64 `json:"billed"`
	Description *string  `json:"description"`
	Paid        *bool    `json:"paid"`
}

type shiftResponse struct {
	ID          string  `json:"id"`
	Where       string  `json:"where"`
	When        string  `json:"when"`
	Billed      float64 `json:"billed"`
	Description string  `json:"description"`
	Paid        bool    `json:"paid"`
	Owner       string  `json:"owner"`
}
