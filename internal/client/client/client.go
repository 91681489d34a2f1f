package client

import (
	"context"

	"github.com/dmitrijs2005/osheen/internal/client/models"
)

// Authority is the part of the backend the session manager depends on.
type Authority interface {
	SetToken(token string)
	ClearToken()
	CurrentProfile(ctx context.Context) (*models.User, error)
}

type Client interface {
	Authority
	Token() string
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

// AuthResult is what a successful login or sign-up exchange yields.
type AuthResult struct {
	Token string
	User  *models.User
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// ProfileUpdate carries the editable profile fields; empty fields are left
// unchanged by the backend.
type ProfileUpdate struct {
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Avatar      string `json:"avatar,omitempty" validate:"omitempty,url"`
	DateOfBirth string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Endpoints are the paths, relative to the base URL, of the backend calls.
type Endpoints struct {
	Profile  string
	Login    string
	Register string
	Logout   string
	Health   string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Profile:  "/auth/me",
		Login:    "/auth/login",
		Register: "/auth/register",
		Logout:   "/auth/logout",
		Health:   "/health",
	}
}

// Empty reports whether upd changes nothing.
func (upd ProfileUpdate) Empty() bool {
	return upd == ProfileUpdate{}
}
