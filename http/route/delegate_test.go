package route_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback/http/infer"
	"github.com/xy-planning-network/switchback/http/route"
)

func TestDelegateCall(t *testing.T) {
	t.Run("Binds-Path-Var", func(t *testing.T) {
		d, err := route.NewDelegate("double", func(id int) (any, error) { return id * 2, nil }, "id")
		require.Nil(t, err)

		r := httptest.NewRequest(http.MethodGet, "/widgets/21", nil)
		record, src, err := d.Call(r, "/widgets/:id")

		require.Nil(t, err)
		require.Equal(t, 42, record)
		require.Equal(t, 21, src["id"])
	})

	t.Run("Binds-Params", func(t *testing.T) {
		d, err := route.NewDelegate(
			"echo",
			func(params url.Values) (any, error) { return params.Get("name"), nil },
			infer.ParamsKey,
		)
		require.Nil(t, err)

		r := httptest.NewRequest(http.MethodGet, "/widgets?name=Spoke", nil)
		record, _, err := d.Call(r, "/widgets")

		require.Nil(t, err)
		require.Equal(t, "Spoke", record)
	})

	t.Run("Uncoercible-Var", func(t *testing.T) {
		d, err := route.NewDelegate("double", func(id int) (any, error) { return id, nil }, "id")
		require.Nil(t, err)

		r := httptest.NewRequest(http.MethodGet, "/widgets/abc", nil)
		_, _, err = d.Call(r, "/widgets/:id")

		require.ErrorIs(t, err, infer.ErrTypeConversion)
	})
}
