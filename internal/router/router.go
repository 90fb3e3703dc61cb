package router

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dondinetwork/go-dondi/internal/dashboard"
	"github.com/dondinetwork/go-dondi/internal/router/controllers"
	"github.com/dondinetwork/go-dondi/internal/router/middlewares"
	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/dondinetwork/go-dondi/pkg/links"
	"github.com/gorilla/mux"
)

// Config contains the HTTP surface parameters.
type Config struct {
	APIPrefix         string
	MaxRPI            uint64
	RateLimInterval   time.Duration
	LegacyStatusCodes bool
	// AllowedOrigins of cross origin calls, empty allows every origin.
	AllowedOrigins []string
	// PathLimits overrides the rate limit of single routes, keyed by route without prefix.
	PathLimits map[string]middlewares.RateLimiterRouteConfig
}

// ConfiguredRouter returns a fully configured Router that can be used as an http handler.
func ConfiguredRouter(
	cfg Config,
	dash dashboard.Dashboard,
	reader controllers.ContractReader,
	submitter chainsource.Submitter,
	store links.Store,
) (*Router, error) {
	instrDashboard, err := dashboard.NewInstrumentedDashboard(dash)
	if err != nil {
		return nil, fmt.Errorf("instrumenting dashboard: %s", err)
	}

	re := controllers.NewResponder(cfg.LegacyStatusCodes)
	dashboardController := controllers.NewDashboardController(instrDashboard, re)
	contractController := controllers.NewContractController(reader, re)
	txController := controllers.NewTransactionController(submitter, re)
	linksController := controllers.NewLinksController(store, re)
	infraController := controllers.NewInfraController()

	// General router configuration.
	router := NewRouter()
	router.Use(middlewares.CORS(cfg.AllowedOrigins...), middlewares.TraceID, middlewares.Compress)

	api := router.WithPrefix(cfg.APIPrefix)
	pathLimits := make(map[string]middlewares.RateLimiterRouteConfig, len(cfg.PathLimits))
	for uri, limit := range cfg.PathLimits {
		pathLimits[api.prefix+uri] = limit
	}
	rateLim, err := middlewares.RateLimitController(middlewares.RateLimiterConfig{
		Default: middlewares.RateLimiterRouteConfig{
			MaxRPI:   cfg.MaxRPI,
			Interval: cfg.RateLimInterval,
		},
		PathLimits: pathLimits,
	})
	if err != nil {
		return nil, fmt.Errorf("creating rate limit controller middleware: %s", err)
	}

	get := func(uri, op string, f http.HandlerFunc) {
		api.Get(uri, f, middlewares.WithLogging, middlewares.OtelHTTP(op), rateLim)
	}
	post := func(uri, op string, f http.HandlerFunc) {
		api.Post(uri, f, middlewares.WithLogging, middlewares.OtelHTTP(op), rateLim)
	}

	// Dashboard views.
	get("/profile", "Profile", dashboardController.Profile)
	get("/slotdetail", "SlotDetail", dashboardController.SlotDetail)
	get("/statistics", "Statistics", dashboardController.Statistics)
	get("/partners", "Partners", dashboardController.Partners)
	get("/dondiinfo", "DondiInfo", dashboardController.Info)
	get("/getreinvestpartnerscnt", "ReinvestPartners", dashboardController.ReinvestPartners)

	// Contract pass-through.
	get("/getx3matrix", "GetX3Matrix", contractController.GetX3Matrix)
	get("/getx6matrix", "GetX6Matrix", contractController.GetX6Matrix)
	get("/users", "Users", contractController.Users)
	get("/getbalances", "GetBalances", contractController.GetBalances)
	get("/isuserexists", "IsUserExists", contractController.IsUserExists)
	get("/lastuserid", "LastUserID", contractController.LastUserID)
	get("/levelprice", "LevelPrice", contractController.LevelPrice)
	get("/owneraddress", "OwnerAddress", contractController.OwnerAddress)
	get("/userids", "UserIDs", contractController.UserIDs)
	get("/idtoaddress", "IDToAddress", contractController.IDToAddress)
	get("/useractivex3levels", "UserActiveX3Levels", contractController.UserActiveX3Levels)
	get("/useractivex6levels", "UserActiveX6Levels", contractController.UserActiveX6Levels)
	get("/findfreex3referrer", "FindFreeX3Referrer", contractController.FindFreeX3Referrer)
	get("/findfreex6referrer", "FindFreeX6Referrer", contractController.FindFreeX6Referrer)
	get("/getlastlevel", "GetLastLevel", contractController.GetLastLevel)

	// Transactions.
	post("/registrationext", "RegistrationExt", txController.RegistrationExt)
	post("/buynewlevel", "BuyNewLevel", txController.BuyNewLevel)

	// Referral links.
	post("/generatelink", "GenerateLink", linksController.GenerateLink)
	post("/getidfromlink", "GetIDFromLink", linksController.GetIDFromLink)

	get("/version", "Version", infraController.Version)

	// Health endpoint configuration.
	router.Get("/healthz", infraController.Health)
	router.Get("/health", infraController.Health)

	return router, nil
}

// Router provides a nice api around mux.Router.
type Router struct {
	r      *mux.Router
	prefix string
}

// NewRouter is a Mux HTTP router constructor.
func NewRouter() *Router {
	r := mux.NewRouter()
	r.PathPrefix("/").Methods(http.MethodOptions) // accept OPTIONS on all routes and do nothing
	return &Router{r: r}
}

// WithPrefix returns a Router that registers its routes under prefix on the same mux.
func (r *Router) WithPrefix(prefix string) *Router {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return &Router{r: r.r, prefix: r.prefix + prefix}
}

// Get creates a subroute on the specified URI that only accepts GET. You can provide specific middlewares.
func (r *Router) Get(uri string, f func(http.ResponseWriter, *http.Request), mid ...mux.MiddlewareFunc) {
	sub := r.r.Path(r.prefix + uri).Subrouter()
	sub.HandleFunc("", f).Methods(http.MethodGet)
	sub.Use(mid...)
}

// Post creates a subroute on the specified URI that only accepts POST. You can provide specific middlewares.
func (r *Router) Post(uri string, f func(http.ResponseWriter, *http.Request), mid ...mux.MiddlewareFunc) {
	sub := r.r.Path(r.prefix + uri).Subrouter()
	sub.HandleFunc("", f).Methods(http.MethodPost)
	sub.Use(mid...)
}

// Use adds middlewares to all routes, including the health checks.
func (r *Router) Use(mid ...mux.MiddlewareFunc) {
	r.r.Use(mid...)
}

// Handler returns the configured router http handler.
func (r *Router) Handler() http.Handler {
	return r.r
}
