package basecamp

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/session"
	"github.com/xy-planning-network/switchback/http/template"
	"github.com/xy-planning-network/switchback/logger"
)

// defaultOpts is the configuration every app starts from;
// options passed to New overwrite it.
func defaultOpts() []Option {
	return []Option{
		WithEnv(os.Getenv(environmentEnvVar)),
		defaultURL(),
		defaultLogger(),
		defaultParser(),
		defaultSessionStore(),
		defaultResponder(),
		defaultServer(),
	}
}

func defaultURL() Option {
	return func(b *Basecamp) (OptFollowup, error) {
		b.url = switchback.EnvVarOrURL(BaseURLEnvVar, defaultBaseURL)
		return nil, nil
	}
}

// defaultLogger constructs a logger.Logger configured for use in the application,
// honoring the LOG_LEVEL env var.
func defaultLogger() Option {
	return func(b *Basecamp) (OptFollowup, error) {
		return func() error {
			if b.l != nil {
				return nil
			}

			opts := []logger.LoggerOptFn{logger.WithEnv(b.env.String())}
			if ll := logger.NewLogLevel(os.Getenv(logLevelEnvVar)); ll != logger.LogLevelUnk {
				opts = append(opts, logger.WithLevel(ll))
			}

			b.l = logger.New(opts...)
			return nil
		}, nil
	}
}

// defaultParser constructs a template.Parser reading view templates
// from the working directory, making available these functions in an HTML template:
//
//   - "env"
//   - "nonce"
//   - "rootUrl"
func defaultParser() Option {
	return func(b *Basecamp) (OptFollowup, error) {
		return func() error {
			if b.p != nil {
				return nil
			}

			p := template.NewParser()
			p.AddFn(template.Env(b.env))
			p.AddFn(template.RootUrl(b.url))

			b.p = p
			return nil
		}, nil
	}
}

// defaultSessionStore constructs a cookie-backed SessionStorer when both
// SESSION_AUTH_KEY and SESSION_ENCRYPTION_KEY are set;
// without them the app runs sessionless.
//
// Both KEY env vars must be valid hex encoded values; cf. [encoding/hex].
func defaultSessionStore() Option {
	return func(b *Basecamp) (OptFollowup, error) {
		return func() error {
			if b.sessions != nil {
				return nil
			}

			ak, ek := os.Getenv(SessionAuthKeyEnvVar), os.Getenv(SessionEncryptKeyEnvVar)
			if ak == "" && ek == "" {
				return nil
			}

			appName := strings.ToLower(switchback.EnvVarOrString(AppTitleEnvVar, "app"))
			appName = regexp.MustCompile(`[,':]`).ReplaceAllString(appName, "")
			appName = regexp.MustCompile(`\s`).ReplaceAllString(appName, "-")

			store, err := session.NewStoreService(session.Config{
				AuthKey:     ak,
				EncryptKey:  ek,
				Env:         b.env,
				SessionName: "switchback-" + appName,
			}, session.WithMaxAge(3600*24*7), session.WithCookie())
			if err != nil {
				return err
			}

			b.sessions = store
			return nil
		}, nil
	}
}

// defaultResponder configures the *resp.Responder to be used when responding to requests.
func defaultResponder() Option {
	return func(b *Basecamp) (OptFollowup, error) {
		return func() error {
			if b.Responder != nil {
				return nil
			}

			contact := switchback.EnvVarOrString(ContactUsEnvVar, defaultContactUs)
			b.Responder = resp.NewResponder(
				resp.WithContactErrMsg(fmt.Sprintf(session.ContactUsErr, contact)),
				resp.WithLogger(b.l),
				resp.WithParser(b.p),
				resp.WithRootUrl(b.url.String()),
			)

			return nil
		}, nil
	}
}

// defaultServer constructs a default *http.Server.
func defaultServer() Option {
	return func(b *Basecamp) (OptFollowup, error) {
		return func() error {
			if b.srv != nil {
				return nil
			}

			port := switchback.EnvVarOrString(portEnvVar, DefaultPort)
			if port[0] != ':' {
				port = ":" + port
			}

			b.srv = &http.Server{
				Addr:         port,
				IdleTimeout:  switchback.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
				ReadTimeout:  switchback.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
				WriteTimeout: switchback.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
			}

			return nil
		}, nil
	}
}
