package basecamp_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/basecamp"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/route"
	"github.com/xy-planning-network/switchback/http/template/templatetest"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/resource"
)

type tent struct {
	ID   uint
	Name string
}

func (t tent) GetID() uint { return t.ID }

type tentOps struct{}

func (ops *tentOps) All() ([]tent, error) {
	return []tent{{ID: 1, Name: "Yurt"}}, nil
}

func (ops *tentOps) FindByID(id int) (tent, error) {
	if id != 1 {
		return tent{}, fmt.Errorf("%w: no tent %d", switchback.ErrNotExist, id)
	}

	return tent{ID: 1, Name: "Yurt"}, nil
}

func TestNew(t *testing.T) {
	t.Setenv("ENVIRONMENT", "TESTING")

	doer := resp.NewResponder(resp.WithParser(templatetest.NewParser(
		templatetest.NewMockFile("views/tents/index.tmpl", []byte(`{{range .Data}}{{.Name}}{{end}}`)),
	)))

	res, err := resource.New("Tent", &tentOps{})
	require.Nil(t, err)

	routes, err := route.NewBuilder(res, doer).Index().Show().Build()
	require.Nil(t, err)

	b, err := basecamp.New(
		basecamp.WithResponder(doer),
		basecamp.WithRoutes(routes...),
	)
	require.Nil(t, err)
	require.Equal(t, switchback.Testing, b.Env())

	t.Run("Dispatches", func(t *testing.T) {
		w := httptest.NewRecorder()
		b.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tents", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Yurt", w.Body.String())
	})

	t.Run("Unknown-Path-404s", func(t *testing.T) {
		w := httptest.NewRecorder()
		b.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rivers", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewRejectsBadRoutes(t *testing.T) {
	t.Setenv("ENVIRONMENT", "TESTING")

	doer := resp.NewResponder(resp.WithParser(templatetest.NewParser()))
	res, err := resource.New("Tent", &tentOps{})
	require.Nil(t, err)

	// both builders produce the same index route, an invalid set.
	first, err := route.NewBuilder(res, doer).Index().Build()
	require.Nil(t, err)
	second, err := route.NewBuilder(res, doer).Index().Build()
	require.Nil(t, err)

	_, err = basecamp.New(
		basecamp.WithResponder(doer),
		basecamp.WithRoutes(first...),
		basecamp.WithRoutes(second...),
	)

	require.ErrorIs(t, err, route.ErrDuplicateRoute)
}

func TestMaintModeHandler(t *testing.T) {
	l := logger.New()

	t.Run("No-Template", func(t *testing.T) {
		handler := basecamp.MaintModeHandler(templatetest.NewParser(), l, "test@example.com")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.Equal(t, "600", w.Result().Header.Get("Retry-After"))
		require.Empty(t, w.Body.String())
	})

	t.Run("Renders-Template", func(t *testing.T) {
		msg := "Sorry for the inconvenience"
		p := templatetest.NewParser(templatetest.NewMockFile("tmpl/maintenance.tmpl", []byte(msg)))
		handler := basecamp.MaintModeHandler(p, l, "test@example.com")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/maint-mode-test", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.Equal(t, msg, w.Body.String())
	})
}
