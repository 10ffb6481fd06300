package route_test

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/route"
	"github.com/xy-planning-network/switchback/http/session"
	"github.com/xy-planning-network/switchback/http/template/templatetest"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/resource"
)

type widget struct {
	ID   uint
	Name string
}

func (w widget) GetID() uint { return w.ID }

// widgetOps is the record prototype routes delegate to in tests.
type widgetOps struct {
	store     map[int]widget
	createErr error
	newErr    error
	updateErr error
}

func newWidgetOps(ws ...widget) *widgetOps {
	ops := &widgetOps{store: make(map[int]widget)}
	for _, w := range ws {
		ops.store[int(w.ID)] = w
	}

	return ops
}

func (ops *widgetOps) FindByID(id int) (widget, error) {
	w, ok := ops.store[id]
	if !ok {
		return widget{}, fmt.Errorf("%w: no widget %d", switchback.ErrNotExist, id)
	}

	return w, nil
}

func (ops *widgetOps) All() ([]widget, error) {
	all := make([]widget, 0, len(ops.store))
	for _, w := range ops.store {
		all = append(all, w)
	}

	return all, nil
}

func (ops *widgetOps) New() (widget, error) { return widget{}, ops.newErr }

func (ops *widgetOps) Create(params url.Values) (widget, error) {
	if ops.createErr != nil {
		return widget{}, ops.createErr
	}

	w := widget{ID: 7, Name: params.Get("name")}
	ops.store[int(w.ID)] = w
	return w, nil
}

func (ops *widgetOps) Update(id int, params url.Values) (widget, error) {
	if ops.updateErr != nil {
		return widget{}, ops.updateErr
	}

	w := widget{ID: uint(id), Name: params.Get("name")}
	ops.store[id] = w
	return w, nil
}

func (ops *widgetOps) Delete(id int) (widget, error) {
	w, err := ops.FindByID(id)
	if err != nil {
		return widget{}, err
	}

	delete(ops.store, id)
	return w, nil
}

func newWidgetRouter(t *testing.T, ops *widgetOps, files ...templatetest.FileMocker) *route.Router {
	t.Helper()

	doer := resp.NewResponder(resp.WithParser(templatetest.NewParser(files...)))
	res, err := resource.New("Widget", ops)
	require.Nil(t, err)

	routes, err := route.NewBuilder(res, doer).Resources().Build()
	require.Nil(t, err)

	ro, err := route.NewRouter(routes, doer, route.WithSessionStore(session.NewStubStore()))
	require.Nil(t, err)

	return ro
}

func postForm(target string, vals url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(vals.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestRouterServeHTTP(t *testing.T) {
	t.Run("Show-Renders-View", func(t *testing.T) {
		ops := newWidgetOps(widget{ID: 5, Name: "Sprocket"})
		ro := newWidgetRouter(t, ops, templatetest.NewMockFile(
			"views/widgets/show.tmpl",
			[]byte(`<h1>{{.Data.Name}}</h1>`),
		))

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/5", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "<h1>Sprocket</h1>", w.Body.String())
	})

	t.Run("Absent-View-Is-Empty-OK", func(t *testing.T) {
		ops := newWidgetOps(widget{ID: 5, Name: "Sprocket"})
		ro := newWidgetRouter(t, ops)

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/5", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, w.Body.String())
	})

	t.Run("Broken-View-Writes-Single-Response", func(t *testing.T) {
		ops := newWidgetOps(widget{ID: 5, Name: "Sprocket"})
		ro := newWidgetRouter(t, ops, templatetest.NewMockFile(
			"views/widgets/show.tmpl",
			[]byte(`{{.Data.Name`),
		))

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/5", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)

		// the error page is the entire response; nothing is appended after it.
		body := strings.TrimSpace(w.Body.String())
		require.True(t, strings.HasSuffix(body, "</html>"))
	})

	t.Run("New-Wins-Over-Show", func(t *testing.T) {
		ro := newWidgetRouter(t, newWidgetOps(), templatetest.NewMockFile(
			"views/widgets/new.tmpl",
			[]byte(`<form></form>`),
		))

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/new", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "<form></form>", w.Body.String())
	})

	t.Run("Create-Redirects-To-Show", func(t *testing.T) {
		ops := newWidgetOps()
		ro := newWidgetRouter(t, ops)

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, postForm("/widgets", url.Values{"name": []string{"Spoke"}}))

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/widgets/7", w.Header().Get("Location"))
		require.Equal(t, "Spoke", ops.store[7].Name)
	})

	t.Run("Destroy-Redirects-To-Index", func(t *testing.T) {
		ops := newWidgetOps(widget{ID: 5, Name: "Sprocket"})
		ro := newWidgetRouter(t, ops)

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/widgets/5", nil))

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/widgets", w.Header().Get("Location"))
		require.Empty(t, ops.store)
	})

	t.Run("Invalid-Create-Falls-Back-To-New", func(t *testing.T) {
		ops := newWidgetOps()
		ops.createErr = fmt.Errorf("%w: name required", switchback.ErrNotValid)
		ro := newWidgetRouter(t, ops, templatetest.NewMockFile(
			"views/widgets/new.tmpl",
			[]byte(`<form></form>`),
		))

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, postForm("/widgets", url.Values{}))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "<form></form>", w.Body.String())
	})

	t.Run("Invalid-Update-Falls-Back-To-Edit", func(t *testing.T) {
		ops := newWidgetOps(widget{ID: 5, Name: "Sprocket"})
		ops.updateErr = fmt.Errorf("%w: name required", switchback.ErrNotValid)
		ro := newWidgetRouter(t, ops, templatetest.NewMockFile(
			"views/widgets/edit.tmpl",
			[]byte(`editing {{.Data.Name}}`),
		))

		r := httptest.NewRequest(http.MethodPut, "/widgets/5", strings.NewReader("name="))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "editing Sprocket", w.Body.String())
	})

	t.Run("Recovery-Is-Single-Hop", func(t *testing.T) {
		ops := newWidgetOps()
		ops.createErr = fmt.Errorf("%w: name required", switchback.ErrNotValid)
		ops.newErr = fmt.Errorf("%w: still broken", switchback.ErrNotValid)
		ro := newWidgetRouter(t, ops)

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, postForm("/widgets", url.Values{}))

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Unrecovered-Error-Is-500", func(t *testing.T) {
		// destroy has no fallback, so a missing record surfaces.
		ro := newWidgetRouter(t, newWidgetOps())

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/widgets/5", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("No-Match-Is-404", func(t *testing.T) {
		ro := newWidgetRouter(t, newWidgetOps())

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gizmos", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Uncoercible-Path-Var-Is-400", func(t *testing.T) {
		ro := newWidgetRouter(t, newWidgetOps())

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/abc", nil))

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// traceRouter builds a widget router whose logger writes into out,
// at debug level so trace lines are not filtered.
func traceRouter(t *testing.T, ops *widgetOps, out *bytes.Buffer, opts ...route.RouterOpt) *route.Router {
	t.Helper()
	t.Setenv("SENTRY_DSN", "")

	doer := resp.NewResponder(resp.WithParser(templatetest.NewParser()))
	res, err := resource.New("Widget", ops)
	require.Nil(t, err)

	routes, err := route.NewBuilder(res, doer).Resources().Build()
	require.Nil(t, err)

	l := logger.New(logger.WithLogger(log.New(out, "", 0)), logger.WithLevel(logger.LogLevelDebug))
	ro, err := route.NewRouter(routes, doer, append([]route.RouterOpt{route.WithLogger(l)}, opts...)...)
	require.Nil(t, err)

	return ro
}

func TestRouterTrace(t *testing.T) {
	t.Run("Logs-Dispatch-Decisions", func(t *testing.T) {
		ops := newWidgetOps()
		ops.createErr = fmt.Errorf("%w: name required", switchback.ErrNotValid)
		out := new(bytes.Buffer)
		ro := traceRouter(t, ops, out, route.WithTrace(true))

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, postForm("/widgets", url.Values{}))

		require.Contains(t, out.String(), "dispatching POST /widgets")
		require.Contains(t, out.String(), `recovering "create" with "new"`)
	})

	t.Run("Logs-No-Match", func(t *testing.T) {
		out := new(bytes.Buffer)
		ro := traceRouter(t, newWidgetOps(), out, route.WithTrace(true))

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gizmos", nil))

		require.Contains(t, out.String(), "no match for GET /gizmos")
	})

	t.Run("Env-Flag-Enables", func(t *testing.T) {
		t.Setenv("SWITCHBACK_TRACE", "true")

		out := new(bytes.Buffer)
		ro := traceRouter(t, newWidgetOps(widget{ID: 5}), out)

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/widgets/5", nil))

		require.Contains(t, out.String(), "dispatching GET /widgets/5")
	})

	t.Run("Off-Is-A-No-Op", func(t *testing.T) {
		t.Setenv("SWITCHBACK_TRACE", "")

		ops := newWidgetOps()
		ops.createErr = fmt.Errorf("%w: name required", switchback.ErrNotValid)
		out := new(bytes.Buffer)
		ro := traceRouter(t, ops, out)

		w := httptest.NewRecorder()
		ro.ServeHTTP(w, postForm("/widgets", url.Values{}))
		ro.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gizmos", nil))

		require.Empty(t, out.String())
	})
}

func TestRouterMatch(t *testing.T) {
	ro := newWidgetRouter(t, newWidgetOps())

	t.Run("First-Declared-Wins", func(t *testing.T) {
		rt, err := ro.Match(httptest.NewRequest(http.MethodGet, "/widgets/new", nil))

		require.Nil(t, err)
		require.Equal(t, route.ActionNew, rt.Action)
	})

	t.Run("No-Match", func(t *testing.T) {
		_, err := ro.Match(httptest.NewRequest(http.MethodPatch, "/widgets/5", nil))

		require.ErrorIs(t, err, route.ErrNoRouteMatches)
	})
}
