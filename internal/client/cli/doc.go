// Package cli provides the interactive Osheen Oracle command-line client.
//
// The App restores the stored session at startup, reconciles it with the
// backend, and then runs a REPL for account commands. Two background loops
// run alongside: the session watcher, which periodically re-checks the
// credential, and the online status watcher, which pings the backend and
// re-checks the session when it becomes reachable again.
//
// Commands:
//   - register / login / logout
//   - whoami   print the current profile
//   - check    reconcile the session with the backend now
//   - profile  edit profile fields
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
