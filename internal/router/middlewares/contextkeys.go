package middlewares

import "context"

// ContextKey is used to key context values.
type ContextKey int

const (
	// ContextIPAddress holds the client ip, taken from X-Forwarded-For or the remote address.
	ContextIPAddress ContextKey = iota
	// ContextTraceID holds the trace id of the request.
	ContextTraceID
)

// ClientIP returns the client ip stored by the rate limiter.
func ClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(ContextIPAddress).(string)
	return ip, ok
}

// TraceIDFromContext returns the trace id stored by TraceID.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ContextTraceID).(string)
	return id, ok
}
