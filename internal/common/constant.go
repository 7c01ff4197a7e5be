// Package common contains shared constants, sentinel errors and small helpers
// used across the WombGuard client.
package common

// Durable storage keys. The names match the keys the web client kept in
// browser storage so that exported state stays recognisable.
const (
	// IdentityKey holds the JSON-serialized current identity.
	IdentityKey = "wombguard_user"
	// TokenKey holds the backend-issued bearer token.
	TokenKey = "wombguard_token"
	// LegacyTokenKey is an older token key that is only ever deleted.
	LegacyTokenKey = "authToken"
	// ProviderSessionKey holds the managed auth provider's session token.
	ProviderSessionKey = "wombguard_provider_session"
)

// HTTP header names set on every outbound backend request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)
