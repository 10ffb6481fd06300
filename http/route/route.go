package route

import (
	"errors"

	"github.com/xy-planning-network/switchback/resource"
)

// A Fallback maps a kind of delegate error to the Action
// re-dispatched when the delegate fails with it.
type Fallback struct {
	Kind   error
	Action Action
}

// A Route binds the Criteria a request must meet to the Delegate
// producing its record, the Responder writing its response,
// and the ordered fallbacks recovering from delegate errors.
//
// Routes are created once at build time, are immutable,
// and are read concurrently by all in-flight requests.
type Route struct {
	Action   Action
	Criteria Criteria

	res       *resource.Resource
	delegate  Delegate
	responder Responder
	fallbacks []Fallback
}

// Resource returns the resource the Route was built for.
func (rt *Route) Resource() *resource.Resource { return rt.res }

// Delegate returns the Delegate the Route invokes.
func (rt *Route) Delegate() Delegate { return rt.delegate }

// Fallback resolves the Action to recover with for err.
// Fallbacks are consulted in declaration order; the first kind
// err wraps wins. The second return reports whether any matched.
func (rt *Route) Fallback(err error) (Action, bool) {
	for _, fb := range rt.fallbacks {
		if errors.Is(err, fb.Kind) {
			return fb.Action, true
		}
	}

	return "", false
}
