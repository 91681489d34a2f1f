// Package client talks to the Osheen Oracle backend, the remote authority
// for who is logged in.
//
// # Overview
//
//  1. Client is the transport-agnostic contract: CurrentProfile, Login,
//     Register, UpdateProfile, Logout and Ping, plus SetToken/ClearToken for
//     the bearer credential attached to every outgoing request.
//  2. HTTPClient implements it over JSON/HTTP against a single configured
//     base URL. Responses use the envelope
//
//	{"success": true, "message": "...", "token": "...", "user": {...}}
//
//     where the profile (and token) may instead sit under "data".
//
// # Error Handling
//
// Failures are classified so callers can tell a rejected credential from a
// backend that could not be reached. Match with errors.Is:
//
//   - ErrUnauthorized: 401/403 or an explicit "success": false on an
//     authenticated call. The credential is not valid.
//   - ErrUnavailable: transport errors, timeouts, 429 and 5xx. Nothing is
//     known about the credential.
//   - ErrMalformedResponse: a 2xx whose body is not the expected envelope.
//   - ErrRejected: any other refusal (validation, conflicts).
//
// HTTP failures are returned as *APIError, which unwraps to one of the
// sentinels above.
package client
