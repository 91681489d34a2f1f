// Package services contains application services for the Osheen client.
// This file defines the authentication service: sign-in, sign-up and
// sign-out against the backend, profile edits and session refresh, each
// keeping the session manager in step with the backend.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/osheen/internal/client/client"
	"github.com/dmitrijs2005/osheen/internal/client/models"
	"github.com/dmitrijs2005/osheen/internal/client/session"
	"github.com/dmitrijs2005/osheen/internal/logging"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNothingToUpdate = errors.New("nothing to update")
)

// Sessions is the part of *session.Manager the service drives.
type Sessions interface {
	Login(ctx context.Context, token string, user *models.User) error
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, user *models.User) error
	CheckAuth(ctx context.Context) session.Result
	IsAuthenticated() bool
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: exchange credentials for a token and start a session.
//   - SignUp: create an account and start a session for it.
//   - SignOut: tell the backend (best effort) and end the session.
//   - Refresh: reconcile the session with the backend.
//   - EditProfile: change profile fields of the logged-in user.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	SignIn(ctx context.Context, email string, password []byte) (*models.User, error)
	SignUp(ctx context.Context, req client.RegisterRequest) (*models.User, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context) session.Result
	EditProfile(ctx context.Context, upd client.ProfileUpdate) (*models.User, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions Sessions
	log      logging.Logger
	validate *validator.Validate
}

// NewAuthService constructs an AuthService bound to the given API client and
// session. A nil logger discards output.
func NewAuthService(c client.Client, s Sessions, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		client:   c,
		sessions: s,
		log:      log.With("component", "auth"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (a *authService) check(v any) error {
	if err := a.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q", ErrInvalidInput, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func (a *authService) SignIn(ctx context.Context, email string, password []byte) (*models.User, error) {
	if err := a.check(credentials{Email: email, Password: string(password)}); err != nil {
		return nil, err
	}

	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.sessions.Login(ctx, res.Token, res.User); err != nil {
		return nil, fmt.Errorf("session error: %w", err)
	}
	return res.User, nil
}

func (a *authService) SignUp(ctx context.Context, req client.RegisterRequest) (*models.User, error) {
	if err := a.check(req); err != nil {
		return nil, err
	}

	res, err := a.client.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	if err := a.sessions.Login(ctx, res.Token, res.User); err != nil {
		return nil, fmt.Errorf("session error: %w", err)
	}
	return res.User, nil
}

// SignOut ends the session locally even if the backend cannot be told.
func (a *authService) SignOut(ctx context.Context) error {
	if a.sessions.IsAuthenticated() {
		if err := a.client.Logout(ctx); err != nil {
			a.log.Warn(ctx, "remote logout failed", "err", err)
		}
	}
	return a.sessions.Logout(ctx)
}

func (a *authService) Refresh(ctx context.Context) session.Result {
	return a.sessions.CheckAuth(ctx)
}

func (a *authService) EditProfile(ctx context.Context, upd client.ProfileUpdate) (*models.User, error) {
	if !a.sessions.IsAuthenticated() {
		return nil, session.ErrNotAuthenticated
	}
	if upd.Empty() {
		return nil, ErrNothingToUpdate
	}
	if err := a.check(upd); err != nil {
		return nil, err
	}

	user, err := a.client.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile error: %w", err)
	}
	if err := a.sessions.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("session error: %w", err)
	}
	return user, nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
