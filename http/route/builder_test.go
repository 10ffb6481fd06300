package route_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/route"
	"github.com/xy-planning-network/switchback/resource"
)

func newWidgetResource(t *testing.T, opts ...resource.Opt) *resource.Resource {
	t.Helper()

	res, err := resource.New("Widget", newWidgetOps(), opts...)
	require.Nil(t, err)
	return res
}

func TestBuilderBuild(t *testing.T) {
	doer := resp.NewResponder()

	t.Run("Conventional-Set", func(t *testing.T) {
		routes, err := route.NewBuilder(newWidgetResource(t), doer).Resources().Build()

		require.Nil(t, err)
		require.Len(t, routes, len(route.Actions))
	})

	t.Run("Duplicate-Route", func(t *testing.T) {
		_, err := route.NewBuilder(newWidgetResource(t), doer).Show().Show().Build()

		require.ErrorIs(t, err, route.ErrDuplicateRoute)
	})

	t.Run("Requirement-Distinguishes-Duplicates", func(t *testing.T) {
		numeric := func(r *http.Request) bool { return true }
		res := newWidgetResource(t, resource.WithRequirement("numeric", numeric))

		_, err := route.NewBuilder(res, doer).
			Show(route.WithRequired("numeric")).
			Show(route.WithRedirect(route.ActionIndex)).
			Index().
			Build()

		require.Nil(t, err)
	})

	t.Run("Fallback-To-Missing-Action", func(t *testing.T) {
		// create's default fallback targets new, which is never declared.
		_, err := route.NewBuilder(newWidgetResource(t), doer).Create().Build()

		require.ErrorIs(t, err, route.ErrBadFallback)
	})

	t.Run("Fallback-To-Self", func(t *testing.T) {
		_, err := route.NewBuilder(newWidgetResource(t), doer).
			New().
			Show().
			Create(route.WithRescue(switchback.ErrNotExist, route.ActionCreate)).
			Build()

		require.ErrorIs(t, err, route.ErrBadFallback)
	})

	t.Run("Delegate-Param-Without-Source", func(t *testing.T) {
		fn := func(account int) (widget, error) { return widget{}, nil }

		_, err := route.NewBuilder(newWidgetResource(t), doer).
			Index(route.WithDelegate(fn, "account")).
			Build()

		require.ErrorIs(t, err, switchback.ErrBadConfig)
	})

	t.Run("Missing-Conventional-Method", func(t *testing.T) {
		res, err := resource.New("Gizmo", struct{}{})
		require.Nil(t, err)

		_, err = route.NewBuilder(res, doer).Index().Build()

		require.ErrorIs(t, err, switchback.ErrBadConfig)
	})

	t.Run("Malformed-Delegate", func(t *testing.T) {
		_, err := route.NewBuilder(newWidgetResource(t), doer).
			Index(route.WithDelegate(func() widget { return widget{} })).
			Build()

		require.ErrorIs(t, err, switchback.ErrNotValid)
	})

	t.Run("Custom-Delegate-Method", func(t *testing.T) {
		routes, err := route.NewBuilder(newWidgetResource(t), doer).
			Show(route.WithDelegateMethod("FindByID", "id")).
			Build()

		require.Nil(t, err)
		require.Len(t, routes, 1)
	})
}

func TestBuilderPaths(t *testing.T) {
	doer := resp.NewResponder()

	tcs := []struct {
		name   string
		build  func(b *route.Builder, opts ...route.RouteOpt) *route.Builder
		method string
		target string
		action route.Action
	}{
		{"Show", (*route.Builder).Show, http.MethodGet, "/widgets/5", route.ActionShow},
		{"New", (*route.Builder).New, http.MethodGet, "/widgets/new", route.ActionNew},
		{"Index", (*route.Builder).Index, http.MethodGet, "/widgets", route.ActionIndex},
		{"Edit", (*route.Builder).Edit, http.MethodGet, "/widgets/5/edit", route.ActionEdit},
		{"Destroy", (*route.Builder).Destroy, http.MethodDelete, "/widgets/5", route.ActionDestroy},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			routes, err := tc.build(route.NewBuilder(newWidgetResource(t), doer)).Build()
			require.Nil(t, err)
			require.Len(t, routes, 1)

			r := httptest.NewRequest(tc.method, tc.target, nil)
			require.True(t, routes[0].Criteria.Match(r))
			require.Equal(t, tc.action, routes[0].Action)
		})
	}
}

func TestRouteFallback(t *testing.T) {
	doer := resp.NewResponder()

	routes, err := route.NewBuilder(newWidgetResource(t), doer).Resources().Build()
	require.Nil(t, err)

	var create *route.Route
	for _, rt := range routes {
		if rt.Action == route.ActionCreate {
			create = rt
		}
	}
	require.NotNil(t, create)

	t.Run("Default-Validation-Fallback", func(t *testing.T) {
		a, ok := create.Fallback(fmt.Errorf("%w: name required", switchback.ErrNotValid))

		require.True(t, ok)
		require.Equal(t, route.ActionNew, a)
	})

	t.Run("Unmapped-Kind", func(t *testing.T) {
		_, ok := create.Fallback(switchback.ErrNotExist)

		require.False(t, ok)
	})
}
