package middlewares

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-limiter/httplimit"
	"github.com/sethvargo/go-limiter/memorystore"
)

// RateLimiterConfig specifies a default rate limiting configuration, and optional custom rate limiting
// rules for particular request paths.
type RateLimiterConfig struct {
	Default RateLimiterRouteConfig

	PathLimits map[string]RateLimiterRouteConfig
}

// RateLimiterRouteConfig specifies the maximum request per interval, and
// interval length for a rate limiting rule.
type RateLimiterRouteConfig struct {
	MaxRPI   uint64
	Interval time.Duration
}

// RateLimitController creates a middleware that rate limits requests per client ip. The ip
// is the first valid X-Forwarded-For entry set by the load balancer, or the connection
// remote address. Paths listed in PathLimits get their own limiter.
func RateLimitController(cfg RateLimiterConfig) (mux.MiddlewareFunc, error) {
	keyFunc := func(r *http.Request) (string, error) {
		if ip, ok := ClientIP(r.Context()); ok && ip != "" {
			return ip, nil
		}
		return extractClientIP(r)
	}

	defaultRL, err := createRateLimiter(cfg.Default, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("creating default rate limiter: %s", err)
	}
	customRLs := make(map[string]*httplimit.Middleware, len(cfg.PathLimits))
	for path, routeCfg := range cfg.PathLimits {
		customRLs[path], err = createRateLimiter(routeCfg, keyFunc)
		if err != nil {
			return nil, fmt.Errorf("creating custom rate limiter for path %s: %s", path, err)
		}
	}

	return func(next http.Handler) http.Handler {
		handlers := make(map[string]http.Handler, len(customRLs))
		for path, rl := range customRLs {
			handlers[path] = rl.Handle(next)
		}
		fallback := defaultRL.Handle(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, err := extractClientIP(r)
			if err != nil {
				log.Ctx(r.Context()).Warn().Err(err).Msg("rejecting request without client ip")
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), ContextIPAddress, ip))

			h, ok := handlers[r.URL.Path]
			if !ok {
				h = fallback
			}
			h.ServeHTTP(w, r)
		})
	}, nil
}

func createRateLimiter(cfg RateLimiterRouteConfig, kf httplimit.KeyFunc) (*httplimit.Middleware, error) {
	defaultStore, err := memorystore.New(&memorystore.Config{
		Tokens:   cfg.MaxRPI,
		Interval: cfg.Interval,
	})
	if err != nil {
		return nil, fmt.Errorf("creating default memory: %s", err)
	}
	m, err := httplimit.NewMiddleware(defaultStore, kf)
	if err != nil {
		return nil, fmt.Errorf("creating default httplimiter: %s", err)
	}
	return m, nil
}

func extractClientIP(r *http.Request) (string, error) {
	for _, entry := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(entry)); ip != nil {
			return ip.String(), nil
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", fmt.Errorf("getting ip from remote addr: %s", err)
	}
	return host, nil
}
