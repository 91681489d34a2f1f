// Package session owns the authentication session of the client: the
// token/profile pair, its durable copy in the KV store and the bearer
// credential attached to the backend client.
//
// A Manager is created once at the application root and handed to consumers
// through NewContext/FromContext. Boot is optimistic: Initialize publishes
// whatever valid pair the store holds without talking to the backend, and
// CheckAuth later reconciles it. Reconciliation returns a tagged Result so
// callers can tell a rejected credential from one that could not be checked:
//
//	OutcomeNoSession     nothing stored, no request made
//	OutcomeConfirmed     profile refreshed from the backend
//	OutcomeInconclusive  backend unreachable or answer unusable; state kept
//	OutcomeRejected      credential refused; session evicted
//
// Login, Logout and eviction notify subscribers registered with Subscribe.
package session
