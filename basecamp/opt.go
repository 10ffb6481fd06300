package basecamp

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/route"
	"github.com/xy-planning-network/switchback/http/session"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/postgres"
)

// An Option configures a *Basecamp either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some Options require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithDB is an example of the first.
// An unexported field on the passed in *Basecamp is updated with the enclosed value.
//
// defaultResponder is an example of the second.
// An unexported field on the passed in *Basecamp
// is updated only when the closure it returns is called.
type Option func(b *Basecamp) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the switchback app.
func WithContext(ctx context.Context) Option {
	return func(b *Basecamp) (OptFollowup, error) {
		b.ctx = ctx
		return nil, nil
	}
}

// WithDB exposes the provided *postgres.DB to the switchback app.
//
// WithDB assumes a connection has already been established.
func WithDB(db *postgres.DB) Option {
	return func(b *Basecamp) (OptFollowup, error) {
		b.db = db
		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the ENVIRONMENT environment variable a valid Environment.
//
// If both fail, the default Environment is Development.
func WithEnv(envVar string) Option {
	e := switchback.Environment(envVar)
	if err := e.Valid(); err == nil {
		return func(b *Basecamp) (OptFollowup, error) {
			b.env = e
			return nil, nil
		}
	}

	return func(b *Basecamp) (OptFollowup, error) {
		b.env = switchback.EnvVarOrEnv(environmentEnvVar, switchback.Development)
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the switchback app.
func WithLogger(l logger.Logger) Option {
	return func(b *Basecamp) (OptFollowup, error) {
		b.l = l
		return nil, nil
	}
}

// WithParser exposes the provided template.Parser to the switchback app.
func WithParser(p template.Parser) Option {
	return func(b *Basecamp) (OptFollowup, error) {
		b.p = p
		return nil, nil
	}
}

// WithResponder constructs a followup option that, when called,
// exposes the *resp.Responder to the switchback app.
func WithResponder(r *resp.Responder) Option {
	return func(b *Basecamp) (OptFollowup, error) {
		return func() error {
			b.Responder = r
			return nil
		}, nil
	}
}

// WithRoutes appends the routes the app dispatches against,
// usually the product of route.Builder.Build.
func WithRoutes(routes ...*route.Route) Option {
	return func(b *Basecamp) (OptFollowup, error) {
		b.routes = append(b.routes, routes...)
		return nil, nil
	}
}

// WithServer exposes the *http.Server to the switchback app.
func WithServer(s *http.Server) Option {
	return func(b *Basecamp) (OptFollowup, error) {
		b.srv = s
		return nil, nil
	}
}

// WithSessionStore exposes the session.SessionStorer to the switchback app.
func WithSessionStore(store session.SessionStorer) Option {
	return func(b *Basecamp) (OptFollowup, error) {
		b.sessions = store
		return nil, nil
	}
}
