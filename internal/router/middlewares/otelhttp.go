package middlewares

import (
	"net/http"

	"github.com/dondinetwork/go-dondi/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// OtelHTTP records request metrics of the route named operation.
func OtelHTTP(operation string) func(h http.Handler) http.Handler {
	attrs := metrics.Attrs(attribute.String("route", operation))
	return func(h http.Handler) http.Handler {
		return otelhttp.NewHandler(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if labeler, ok := otelhttp.LabelerFromContext(r.Context()); ok {
				labeler.Add(attrs...)
			}
			h.ServeHTTP(rw, r)
		}), operation)
	}
}
