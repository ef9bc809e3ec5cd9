package logutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSensitiveLogField(t *testing.T) {
	for _, key := range []string{"Authorization", "Cookie", "Set-Cookie", "X-Api-Key", "session_token", "client_secret"} {
		require.True(t, IsSensitiveLogField(key), key)
	}
	for _, key := range []string{"Content-Type", "Accept", "X-Request-Id"} {
		require.False(t, IsSensitiveLogField(key), key)
	}
}

func TestFormatHeadersForLogRedacts(t *testing.T) {
	headers := http.Header{}
	headers.Set("Cookie", "session_id=supersecret")
	headers.Set("Accept", "application/json")

	out := FormatHeadersForLog(headers)
	require.NotContains(t, out, "supersecret")
	require.Contains(t, out, "[REDACTED]")
	require.Contains(t, out, `accept="application/json"`)
}

func TestTruncateForLog(t *testing.T) {
	require.Equal(t, "", TruncateForLog("   ", 10))
	require.Equal(t, "abc", TruncateForLog("abc", 10))
	require.Equal(t, "abcde... [truncated]", TruncateForLog("abcdefgh", 5))
	require.Equal(t, "a\\nb", TruncateForLog("a\nb", 10))
}
