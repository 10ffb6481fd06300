package route

import "errors"

var (
	// ErrBadFallback indicates a route's fallback names a missing action or the route's own action.
	ErrBadFallback = errors.New("bad fallback")

	// ErrDuplicateRoute indicates two routes share a method, path and requirements.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrNoRouteMatches indicates no route's Criteria matched the request.
	ErrNoRouteMatches = errors.New("no route matches")
)
