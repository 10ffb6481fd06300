package route

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/infer"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/session"
	"github.com/xy-planning-network/switchback/logger"
)

// A Router dispatches requests against an ordered route list:
// the first route whose Criteria the request satisfies wins,
// its Delegate runs, and its Responder - or a fallback route,
// when the Delegate fails recoverably - writes the response.
//
// A Router is immutable once constructed and safe for concurrent use.
type Router struct {
	routes   []*Route
	doer     *resp.Responder
	l        logger.Logger
	sessions session.SessionStorer
	trace    bool
}

// NewRouter constructs a *Router over routes, responding through doer.
//
// The route list is validated as a set before any dispatching occurs,
// so combining routes from multiple Builders stays safe.
func NewRouter(routes []*Route, doer *resp.Responder, opts ...RouterOpt) (*Router, error) {
	if doer == nil {
		return nil, fmt.Errorf("%w: router requires a responder", switchback.ErrBadConfig)
	}

	if err := Validate(routes); err != nil {
		return nil, err
	}

	ro := &Router{
		routes: routes,
		doer:   doer,
		trace:  switchback.EnvVarOrBool("SWITCHBACK_TRACE", false),
	}
	for _, opt := range opts {
		opt(ro)
	}

	if ro.l == nil {
		ro.l = logger.New()
	}

	return ro, nil
}

// A RouterOpt configures a *Router under construction.
type RouterOpt func(*Router)

// WithLogger sets the logger dispatching reports through.
func WithLogger(l logger.Logger) RouterOpt {
	return func(ro *Router) {
		ro.l = l
	}
}

// WithSessionStore makes the Router inject each request's session
// into its context, under switchback.SessionKey.
func WithSessionStore(store session.SessionStorer) RouterOpt {
	return func(ro *Router) {
		ro.sessions = store
	}
}

// WithTrace overrides the SWITCHBACK_TRACE env var,
// toggling per-dispatch debug logging.
func WithTrace(on bool) RouterOpt {
	return func(ro *Router) {
		ro.trace = on
	}
}

// Match scans the route list in declaration order and returns the first
// route the request satisfies, or ErrNoRouteMatches.
func (ro *Router) Match(r *http.Request) (*Route, error) {
	for _, rt := range ro.routes {
		if rt.Criteria.Match(r) {
			return rt, nil
		}
	}

	return nil, fmt.Errorf("%w: %s %s", ErrNoRouteMatches, r.Method, r.URL.Path)
}

// ServeHTTP matches and dispatches the request.
//
// Failure states map onto status codes like so:
//
//	no route matches             404
//	a path var fails to coerce   400
//	anything else                500
//
// ServeHTTP implements http.Handler.
func (ro *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithValue(r.Context(), switchback.RequestIDKey, uuid.NewString())

	if ro.sessions != nil {
		s, err := ro.sessions.GetSession(r)
		if err != nil {
			ro.l.Error(fmt.Sprintf("cannot retrieve session: %s", err), &logger.LogContext{Error: err, Request: r})
		} else {
			ctx = context.WithValue(ctx, switchback.SessionKey, s)
		}
	}

	r = r.WithContext(ctx)

	rt, err := ro.Match(r)
	if err != nil {
		ro.tracef("no match for %s %s", r.Method, r.URL.Path)
		ro.doer.Err(w, r, err, resp.Code(http.StatusNotFound))
		return
	}

	if err := ro.dispatch(w, r, rt, false); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, infer.ErrTypeConversion) {
			code = http.StatusBadRequest
		}

		ro.doer.Err(w, r, err, resp.Code(code))
	}
}

// dispatch invokes rt's delegate against fresh inference sources
// and hands the record to rt's responder.
//
// A delegate failure matching one of rt's fallbacks re-dispatches to the
// fallback route exactly once: a failure while already recovering propagates.
func (ro *Router) dispatch(w http.ResponseWriter, r *http.Request, rt *Route, recovering bool) error {
	ro.tracef("dispatching %s %s to %s", r.Method, r.URL.Path, rt.delegate.Name())

	record, src, err := rt.delegate.Call(r, rt.Criteria.Path.String())
	if err != nil {
		if recovering {
			return fmt.Errorf("recovery failed: %w", err)
		}

		a, ok := rt.Fallback(err)
		if !ok {
			return err
		}

		fb := find(ro.routes, rt.res, a)
		if fb == nil {
			// NOTE(dlk): Validate rejects this at build time; guard anyway.
			return err
		}

		ro.tracef("recovering %q with %q after: %s", rt.Action, a, err)
		return ro.dispatch(w, r, fb, true)
	}

	return rt.responder.Respond(w, r, record, src)
}

// tracef debug-logs dispatching decisions when tracing is on.
func (ro *Router) tracef(format string, args ...any) {
	if !ro.trace {
		return
	}

	ro.l.Debug(fmt.Sprintf(format, args...), nil)
}
