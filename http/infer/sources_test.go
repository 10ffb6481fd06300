package infer_test

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback/http/infer"
)

func TestNewSources(t *testing.T) {
	t.Run("Zero-Vars", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest("GET", "http://example.com/widgets", nil)

		// Act
		src, err := infer.NewSources(r, "/widgets")

		// Assert
		require.Nil(t, err)
		require.Equal(t, "/widgets", src[infer.PathKey])
		require.Equal(t, url.Values{}, src[infer.ParamsKey])
	})

	t.Run("One-Var", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://example.com/widgets/5", nil)

		src, err := infer.NewSources(r, "/widgets/:id")

		require.Nil(t, err)
		require.Equal(t, 5, src["id"])
	})

	t.Run("Many-Vars", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://example.com/accounts/3/widgets/50", nil)

		src, err := infer.NewSources(r, "/accounts/:account_id/widgets/:id")

		require.Nil(t, err)
		require.Equal(t, 3, src["account_id"])
		require.Equal(t, 50, src["id"])
	})

	t.Run("With-Query-Params", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://example.com/widgets/5?color=mauve", nil)

		src, err := infer.NewSources(r, "/widgets/:id")

		require.Nil(t, err)
		params, ok := src[infer.ParamsKey].(url.Values)
		require.True(t, ok)
		require.Equal(t, "mauve", params.Get("color"))
	})

	t.Run("Non-Integer-Var", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://example.com/widgets/abc", nil)

		_, err := infer.NewSources(r, "/widgets/:id")

		require.ErrorIs(t, err, infer.ErrTypeConversion)
	})
}

func TestVars(t *testing.T) {
	tcs := []struct {
		name     string
		template string
		expected []string
	}{
		{"None", "/widgets", nil},
		{"One", "/widgets/:id", []string{"id"}},
		{"Many", "/accounts/:account_id/widgets/:id", []string{"account_id", "id"}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, infer.Vars(tc.template))
		})
	}
}

func TestSplitPath(t *testing.T) {
	tcs := []struct {
		name     string
		path     string
		expected []string
	}{
		{"Root", "/", nil},
		{"Empty", "", nil},
		{"One", "/widgets", []string{"widgets"}},
		{"Trailing-Slash", "/widgets/", []string{"widgets"}},
		{"Nested", "/widgets/5/edit", []string{"widgets", "5", "edit"}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, infer.SplitPath(tc.path))
		})
	}
}
