package middlewares

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	var level zerolog.Level
	var ctxTraceID string
	h := TraceID(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		level = zerolog.Ctx(r.Context()).GetLevel()
		ctxTraceID, _ = TraceIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rw := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		r.Header.Set(TraceIDHeader, "not-a-uuid")
		h.ServeHTTP(rw, r)

		require.NotEqual(t, zerolog.Disabled, level)
		require.Len(t, rw.Header().Get(TraceIDHeader), 36)
		require.Equal(t, rw.Header().Get(TraceIDHeader), ctxTraceID)
	})

	t.Run("propagated", func(t *testing.T) {
		rw := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		r.Header.Set(TraceIDHeader, "0b7c7f4e-7f57-4d38-9a2d-3c1f6b1e2a10")
		h.ServeHTTP(rw, r)

		require.Equal(t, "0b7c7f4e-7f57-4d38-9a2d-3c1f6b1e2a10", rw.Header().Get(TraceIDHeader))
		require.Equal(t, "0b7c7f4e-7f57-4d38-9a2d-3c1f6b1e2a10", ctxTraceID)
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	next := func(called *bool) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			*called = true
		})
	}

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		called := false
		rw := httptest.NewRecorder()
		CORS()(next(&called)).ServeHTTP(rw, httptest.NewRequest(http.MethodOptions, "/api/profile", nil))

		require.False(t, called)
		require.Equal(t, http.StatusNoContent, rw.Code)
		require.Equal(t, "*", rw.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origins", func(t *testing.T) {
		t.Parallel()

		called := false
		h := CORS("https://dondi.io/", "https://app.dondi.io")(next(&called))

		r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		r.Header.Set("Origin", "https://dondi.io")
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, r)
		require.True(t, called)
		require.Equal(t, "https://dondi.io", rw.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "Origin", rw.Header().Get("Vary"))

		r.Header.Set("Origin", "https://evil.example")
		rw = httptest.NewRecorder()
		h.ServeHTTP(rw, r)
		require.Empty(t, rw.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCompress(t *testing.T) {
	t.Parallel()

	payload := strings.Repeat(`{"code":"200","text":"Success","value":null}`, 100)
	h := Compress(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write([]byte(payload))
	}))

	t.Run("gzip", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		r.Header.Set("Accept-Encoding", "gzip")
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, r)

		require.Equal(t, "gzip", rw.Header().Get("Content-Encoding"))
		zr, err := gzip.NewReader(rw.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(zr)
		require.NoError(t, err)
		require.Equal(t, payload, string(body))
	})

	t.Run("identity", func(t *testing.T) {
		t.Parallel()

		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

		require.Empty(t, rw.Header().Get("Content-Encoding"))
		require.Equal(t, payload, rw.Body.String())
	})
}

func TestWithLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	h := WithLogging(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusServiceUnavailable)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/profile?address=0x1", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	r = r.WithContext(logger.WithContext(r.Context()))
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, r)

	require.Equal(t, http.StatusServiceUnavailable, rw.Code)
	require.Contains(t, buf.String(), `"level":"warn"`)
	require.Contains(t, buf.String(), `"ip":"203.0.113.7"`)
	require.Contains(t, buf.String(), `"query":"address=0x1"`)
	require.Contains(t, buf.String(), `"statusCode":503`)
}
