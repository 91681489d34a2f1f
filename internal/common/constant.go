// Package common contains constants and helpers shared by the client
// packages.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme prefixes the token in AuthorizationHeaderName.
	BearerScheme = "Bearer"

	// RequestIDHeaderName correlates a client request with backend logs.
	RequestIDHeaderName = "X-Request-ID"

	DefaultDatabaseFile = "osheen.db"
)
