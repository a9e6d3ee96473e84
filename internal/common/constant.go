// Package common contains shared constants and sentinel errors used across
// Promptify components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// identity token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Machine-readable reasons attached to gRPC status messages so that clients
// can tell business failures apart without parsing free text.
const (
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonForbidden         = "forbidden"
	ReasonNotFound          = "not_found"
	ReasonUnauthenticated   = "unauthenticated"
	ReasonInvalidArgument   = "invalid_argument"
)

// DefaultStartingCoins is the balance granted to a freshly bootstrapped profile.
const DefaultStartingCoins = 10
