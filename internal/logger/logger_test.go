package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureStderr swaps os.Stderr while fn runs and returns what was written to it
func captureStderr(t *testing.T, fn func()) string {
	orig := os.Stderr
	defer func() { os.Stderr = orig }()

	r, w, err := os.Pipe()
	require.NoError(t, err, "failed to create stderr pipe")
	os.Stderr = w

	fn()

	require.NoError(t, w.Close(), "failed to close stderr pipe")
	out, err := io.ReadAll(r)
	require.NoError(t, err, "failed to read stderr pipe")

	return string(out)
}

func decodeEntry(t *testing.T, line string) map[string]any {
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry), "JSON log should be valid: %s", line)
	return entry
}

func TestLogger_parseLevel(t *testing.T) {
	t.Run("valid value", func(t *testing.T) {
		tests := []struct {
			input    string
			expected slog.Level
		}{
			{"DEBUG", slog.LevelDebug},
			{"debug", slog.LevelDebug},
			{"Info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"ERROR", slog.LevelError},
		}

		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				got, err := parseLevel(tt.input)

				require.NoError(t, err)
				require.Equal(t, tt.expected, got)
			})
		}
	})

	t.Run("not valid", func(t *testing.T) {
		for _, value := range []string{"", "uknown", "warning"} {
			_, err := parseLevel(value)

			require.Error(t, err, "level %q must be rejected", value)
		}
	})
}

func TestLogger_New(t *testing.T) {
	t.Run("dev is text", func(t *testing.T) {
		stderr := captureStderr(t, func() {
			l, err := New(EnvDev, LevelInfo)
			require.NoError(t, err)

			l.Info("order created", "order_id", 7)
		})

		require.Contains(t, stderr, "level=INFO")
		require.Contains(t, stderr, `msg="order created"`)
		require.Contains(t, stderr, "order_id=7")
	})

	t.Run("prod is json", func(t *testing.T) {
		stderr := captureStderr(t, func() {
			l, err := New(EnvProd, LevelInfo)
			require.NoError(t, err)

			l.Info("order created", "order_id", 7)
		})

		entry := decodeEntry(t, stderr)
		require.Equal(t, "order created", entry["msg"])
		require.Equal(t, "INFO", entry["level"])
		require.EqualValues(t, 7, entry["order_id"])
	})

	t.Run("unknown environment", func(t *testing.T) {
		_, err := New("staging", LevelInfo)

		require.Error(t, err)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := New(EnvProd, "verbose")

		require.Error(t, err)
	})
}

func TestLogger_Source(t *testing.T) {
	stderr := captureStderr(t, func() {
		l, err := NewJSONLogger(LevelInfo)
		require.NoError(t, err)

		l.Warn("stock is low")
	})

	entry := decodeEntry(t, stderr)
	source, ok := entry["source"].(map[string]any)
	require.True(t, ok, "source must be logged")
	require.Equal(t, "logger_test.go", source["file"], "source must point to the caller without directory")
}

func TestLogger_Redact(t *testing.T) {
	stderr := captureStderr(t, func() {
		l, err := NewJSONLogger(LevelInfo)
		require.NoError(t, err)

		l.Info("login attempt",
			"username", "nk",
			"password", "StrongEnoughPassword",
			"Refresh_Token", "eyJhbGciOi",
			"authorization", "Bearer eyJhbGciOi",
		)
	})

	entry := decodeEntry(t, stderr)
	require.Equal(t, "nk", entry["username"])
	require.Equal(t, redacted, entry["password"])
	require.Equal(t, redacted, entry["Refresh_Token"])
	require.Equal(t, redacted, entry["authorization"])
	require.NotContains(t, stderr, "StrongEnoughPassword")
}

func TestLogger_NewNoOpLogger(t *testing.T) {
	stderr := captureStderr(t, func() {
		l := NewNoOpLogger()
		l.Debug("debug message")
		l.Info("info message")
		l.Warn("warn message")
		l.Error("error message")
	})

	require.Empty(t, stderr, "NoOp logger should not write anything")
}

func TestLogger_Levels(t *testing.T) {
	write := map[string]func(Logger){
		LevelDebug: func(l Logger) { l.Debug("test") },
		LevelInfo:  func(l Logger) { l.Info("test") },
		LevelWarn:  func(l Logger) { l.Warn("test") },
		LevelError: func(l Logger) { l.Error("test") },
	}
	order := []string{LevelDebug, LevelInfo, LevelWarn, LevelError}

	for i, configured := range order {
		for j, written := range order {
			isLogged := j >= i

			t.Run(configured+" logger writes "+written, func(t *testing.T) {
				stderr := captureStderr(t, func() {
					l, err := NewTextLogger(configured)
					require.NoError(t, err)

					write[written](l)
				})

				require.Equal(t, isLogged, stderr != "", "unexpected output: %q", stderr)
			})
		}
	}
}

func TestLogger_With(t *testing.T) {
	t.Run("with", func(t *testing.T) {
		stderr := captureStderr(t, func() {
			l, err := NewTextLogger(LevelInfo)
			require.NoError(t, err)

			l.With("component", "recorder", "workers", 2).Info("started")
		})

		require.Contains(t, stderr, "component=recorder")
		require.Contains(t, stderr, "workers=2")
		require.Contains(t, stderr, "msg=started")
	})

	t.Run("with group", func(t *testing.T) {
		stderr := captureStderr(t, func() {
			l, err := NewJSONLogger(LevelInfo)
			require.NoError(t, err)

			l.WithGroup("cart").Info("item added", "product_id", 3)
		})

		entry := decodeEntry(t, stderr)
		group, ok := entry["cart"].(map[string]any)
		require.True(t, ok, "attributes must be grouped")
		require.EqualValues(t, 3, group["product_id"])
	})
}
