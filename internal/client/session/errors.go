package session

import (
	"errors"

	"github.com/dmitrijs2005/osheen/internal/client/models"
)

var (
	ErrInvalidToken     = errors.New("empty token")
	ErrInvalidUser      = models.ErrInvalidUser
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired     = errors.New("token expired")

	// ErrSuperseded marks a reconciliation whose answer arrived after the
	// session had already changed.
	ErrSuperseded = errors.New("session changed during reconciliation")
)
