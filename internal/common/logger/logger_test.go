package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"path", "/api/v1/likes",
		"access_token", "eyJhbGciOi",
		"init_data", "query_id=1&user=...",
		"dangling",
	})

	require.Equal(t, []interface{}{
		"path", "/api/v1/likes",
		"access_token", "[REDACTED]",
		"init_data", "[REDACTED]",
		"dangling",
	}, out)
}

func TestIsProduction(t *testing.T) {
	require.True(t, IsProduction("production"))
	for _, env := range []string{"prod", "Production", "staging", "development", ""} {
		require.False(t, IsProduction(env), env)
	}
}

func TestNew_Environments(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		l, err := New(env)
		require.NoError(t, err)
		require.NotNil(t, l.SugaredLogger)
		l.With("env", env).Debug("logger ready")
	}
}
