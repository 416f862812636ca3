package routing

import "errors"

var (
	// ErrInvalidRequest rejects malformed requests before any network call.
	ErrInvalidRequest = errors.New("invalid route request")

	// ErrRoutingUnavailable is terminal: every provider in the chain failed.
	// No synthetic route is ever returned in its place; a wrong but
	// plausible-looking route is worse than an explicit error.
	ErrRoutingUnavailable = errors.New("no routing provider could compute the route")
)
