// Package client talks to the WombGuard backend and opens the local store.
//
// # Overview
//
// The package provides:
//  1. The Client interface, one method per backend endpoint the CLI uses:
//     health, login/register/verify-email, user profile, risk prediction and
//     history, dashboards and the chat assistant.
//  2. HTTPClient, which implements Client on top of the request gateway so
//     that every call shares header injection and 401 teardown.
//  3. Local store bootstrap (InitDatabase, RunMigrations, OpenMetadata) for
//     SQLite with embedded goose migrations, Redis, or process memory.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrNoUserData. RequestError carries the
// message to show the user and unwraps to the cause.
package client
