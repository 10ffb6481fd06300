package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/middleware"
)

func TestChain(t *testing.T) {
	record := func(mark string, order *[]string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				*order = append(*order, mark)
				h.ServeHTTP(w, r)
			})
		}
	}

	t.Run("Declaration-Order", func(t *testing.T) {
		var order []string
		h := middleware.Chain(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
			record("first", &order),
			record("second", &order),
		)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("Zero-Adapters", func(t *testing.T) {
		called := false
		h := middleware.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.True(t, called)
	})
}

func TestForceHTTPS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tcs := []struct {
		name     string
		env      switchback.Environment
		proto    string
		expected int
	}{
		{"Development-Passes", switchback.Development, "", http.StatusOK},
		{"Testing-Passes", switchback.Testing, "", http.StatusOK},
		{"Already-HTTPS-Passes", switchback.Production, "https", http.StatusOK},
		{"Production-Redirects", switchback.Production, "", http.StatusPermanentRedirect},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "https://example.com/widgets", nil)
			if tc.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tc.proto)
			}

			w := httptest.NewRecorder()
			middleware.ForceHTTPS(tc.env)(ok).ServeHTTP(w, r)

			require.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestLogRequest(t *testing.T) {
	t.Run("Nil-Logger-Noops", func(t *testing.T) {
		called := false
		h := middleware.LogRequest(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/widgets", nil))

		require.True(t, called)
	})
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middleware.RateLimit(middleware.NewVisitors())(ok)

	var last int
	for i := 0; i < 25; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/widgets", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7")
		h.ServeHTTP(w, r)
		last = w.Code
	}

	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestGetIPAddress(t *testing.T) {
	tcs := []struct {
		name     string
		header   http.Header
		expected string
	}{
		{"Zero-Value", http.Header{}, "0.0.0.0"},
		{"Public-Forwarded-For", http.Header{"X-Forwarded-For": []string{"203.0.113.7"}}, "203.0.113.7"},
		{"Skips-Private", http.Header{"X-Forwarded-For": []string{"203.0.113.7, 10.0.0.1"}}, "203.0.113.7"},
		{"Real-Ip", http.Header{"X-Real-Ip": []string{"198.51.100.2"}}, "198.51.100.2"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, middleware.GetIPAddress(tc.header))
		})
	}
}
