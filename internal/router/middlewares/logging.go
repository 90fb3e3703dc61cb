package middlewares

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithLogging logs every served request. Failed requests are logged at warn level with the
// query so a failing view can be replayed.
func WithLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &responseWriterLogger{
			ResponseWriter: rw,
			statusCode:     http.StatusOK,
		}
		h.ServeHTTP(lrw, r)

		var ev *zerolog.Event
		if lrw.statusCode >= http.StatusBadRequest {
			ev = log.Ctx(r.Context()).Warn().Str("query", r.URL.RawQuery)
		} else {
			ev = log.Ctx(r.Context()).Debug()
		}
		if ip, err := extractClientIP(r); err == nil {
			ev = ev.Str("ip", ip)
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("statusCode", lrw.statusCode).
			Dur("took", time.Since(start)).
			Msg("request served")
	})
}

type responseWriterLogger struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseWriterLogger) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
}
