package switchback_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
)

func TestEnvironmentValid(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input switchback.Environment
		err   error
	}{
		{"Development", switchback.Development, nil},
		{"Production", switchback.Production, nil},
		{"Review", switchback.Review, nil},
		{"Staging", switchback.Staging, nil},
		{"Testing", switchback.Testing, nil},
		{"Zero-Value", switchback.Environment(""), switchback.ErrNotValid},
		{"Unknown", switchback.Environment("LOCAL"), switchback.ErrNotValid},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Valid()
			if tc.err == nil {
				require.Nil(t, err)
				return
			}

			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestEnvVarOrEnv(t *testing.T) {
	const key = "TEST_ENV_VAR_OR_ENV"

	t.Run("Unset", func(t *testing.T) {
		t.Setenv(key, "")
		require.Equal(t, switchback.Development, switchback.EnvVarOrEnv(key, switchback.Development))
	})

	t.Run("Lower-Cased", func(t *testing.T) {
		t.Setenv(key, "staging")
		require.Equal(t, switchback.Staging, switchback.EnvVarOrEnv(key, switchback.Development))
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Setenv(key, "LOCAL")
		require.Equal(t, switchback.Development, switchback.EnvVarOrEnv(key, switchback.Development))
	})
}

func TestEnvVarOrDuration(t *testing.T) {
	const key = "TEST_ENV_VAR_OR_DURATION"

	t.Run("Unset", func(t *testing.T) {
		t.Setenv(key, "")
		require.Equal(t, 5*time.Second, switchback.EnvVarOrDuration(key, 5*time.Second))
	})

	t.Run("Set", func(t *testing.T) {
		t.Setenv(key, "250ms")
		require.Equal(t, 250*time.Millisecond, switchback.EnvVarOrDuration(key, 5*time.Second))
	})
}
