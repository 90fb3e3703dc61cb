package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TraceIDHeader carries the trace id in requests and responses.
const TraceIDHeader = "Trace-ID"

// TraceID tags the request logger and the response with a trace id. A valid id sent by the
// client is kept so a frontend can correlate its calls, otherwise a new one is generated.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			id, err := uuid.NewRandom()
			if err != nil {
				log.Warn().Err(err).Msg("failed to generate a trace id")
				next.ServeHTTP(w, r)
				return
			}
			traceID = id.String()
		}

		logger := log.With().Str("traceId", traceID).Logger()
		ctx := context.WithValue(logger.WithContext(r.Context()), ContextTraceID, traceID)
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
