package basecamp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/route"
	"github.com/xy-planning-network/switchback/http/session"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/postgres"
)

// A Basecamp manages and exposes all components of a switchback app to one another.
type Basecamp struct {
	*resp.Responder

	ctx      context.Context
	db       *postgres.DB
	env      switchback.Environment
	handler  http.Handler
	l        logger.Logger
	p        template.Parser
	routes   []*route.Route
	sessions session.SessionStorer
	srv      *http.Server
	url      *url.URL
}

// New constructs a Basecamp from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
func New(opts ...Option) (*Basecamp, error) {
	b := new(Basecamp)
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Basecamp under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Basecamp
	// until either (1) user supplied Options or (2) default Options
	// configure the *Basecamp first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(b)
		if err != nil {
			return b, fmt.Errorf("%w: %s", switchback.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", switchback.ErrBadConfig, err)
		}
	}

	if err := b.buildHandler(); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Basecamp) Env() switchback.Environment           { return b.env }
func (b *Basecamp) EmitDB() *postgres.DB                  { return b.db }
func (b *Basecamp) EmitLogger() logger.Logger             { return b.l }
func (b *Basecamp) EmitSessionStore() session.SessionStorer { return b.sessions }

// Handler exposes the full middleware-wrapped handler the web server mounts.
func (b *Basecamp) Handler() http.Handler { return b.handler }

// Embark begins the web server.
//
// These, and (*Basecamp).Shutdown, stop Embark:
//
// - os.Interrupt
// - os.Kill
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (b *Basecamp) Embark() error {
	var cancel context.CancelFunc
	b.ctx, cancel = context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		os.Kill,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	go func() {
		s := <-ch
		b.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
		cancel()
	}()

	go func() {
		b.l.Info(fmt.Sprintf("running web server at %s", b.srv.Addr), nil)
		b.srv.Handler = b.handler
		if err := b.srv.ListenAndServe(); err != http.ErrServerClosed {
			err = fmt.Errorf("could not listen: %w", err)
			b.l.Error(err.Error(), nil)
		}
	}()

	<-b.ctx.Done()
	return b.Shutdown()
}

// Shutdown shutdowns the web server.
func (b *Basecamp) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b.l.Info("shutting down web server", nil)
	err := b.srv.Shutdown(shutdownCtx)
	if err == http.ErrServerClosed {
		b.l.Info("web server shutdown successfully", nil)
		return nil
	}

	if err != nil {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	b.l.Info("web server shutdown successfully", nil)
	return nil
}

// buildHandler assembles the dispatching route.Router and wraps it
// in the middleware every request passes through:
// panic recovery, response compression, rate limiting,
// HTTPS enforcement and request logging.
//
// Requests for static assets bypass dispatching.
func (b *Basecamp) buildHandler() error {
	ropts := []route.RouterOpt{route.WithLogger(b.l)}
	if b.sessions != nil {
		ropts = append(ropts, route.WithSessionStore(b.sessions))
	}

	dispatcher, err := route.NewRouter(b.routes, b.Responder, ropts...)
	if err != nil {
		return err
	}

	m := mux.NewRouter()
	assetsServer := http.FileServer(http.Dir(assetsPublicPath))
	m.PathPrefix(assetsPath).Handler(http.StripPrefix(assetsPath, assetsServer))
	m.PathPrefix("/").Handler(dispatcher)

	h := middleware.Chain(
		m,
		middleware.RateLimit(middleware.NewVisitors()),
		middleware.ForceHTTPS(b.env),
		middleware.LogRequest(b.l),
	)

	b.handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handlers.CompressHandler(h))

	return nil
}

// MaintModeHandler responds 503 Service Unavailable to every request,
// rendering tmpl/maintenance.tmpl when the parser locates it.
func MaintModeHandler(p template.Parser, l logger.Logger, contact string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "600")

		if p == nil || !p.Exists("tmpl/maintenance.tmpl") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		tmpl, err := p.Parse("tmpl/maintenance.tmpl")
		if err != nil {
			l.Error(err.Error(), nil)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusServiceUnavailable)
		if err := tmpl.Execute(w, map[string]any{"Contact": contact}); err != nil {
			l.Error(err.Error(), nil)
		}
	})
}
