package websvc

import (
	"log/slog"
	"net/http"

	"github.com/AdguardTeam/golibs/netutil/httputil"
	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path pattern constants.
const (
	PathPatternHealthCheck = "/health-check"
	PathPatternMetrics     = "/metrics"
	PathPatternLogin       = "/control/login"
	PathPatternLogout      = "/control/logout"
	PathPatternProfile     = "/control/profile"
	PathPatternStatus      = "/control/status"
)

// Route pattern constants.
const (
	routePatternHealthCheck = http.MethodGet + " " + PathPatternHealthCheck
	routePatternMetrics     = http.MethodGet + " " + PathPatternMetrics
	routePatternPostLogin   = http.MethodPost + " " + PathPatternLogin
	routePatternGetLogout   = http.MethodGet + " " + PathPatternLogout
	routePatternGetProfile  = http.MethodGet + " " + PathPatternProfile
	routePatternGetStatus   = http.MethodGet + " " + PathPatternStatus
)

// pathLoginPage is the path of the login page of the admin interface, which is
// served elsewhere.
const pathLoginPage = "/login.html"

// publicPaths are the paths served without authentication.
var publicPaths = []string{
	PathPatternHealthCheck,
	PathPatternLogin,
	PathPatternMetrics,
}

// route registers all necessary handlers in mux.
func (svc *Service) route(mux *http.ServeMux) {
	routes := []struct {
		handler http.Handler
		pattern string
		isJSON  bool
	}{{
		handler: httputil.HealthCheckHandler,
		pattern: routePatternHealthCheck,
		isJSON:  false,
	}, {
		handler: promhttp.HandlerFor(svc.metrics, promhttp.HandlerOpts{}),
		pattern: routePatternMetrics,
		isJSON:  false,
	}, {
		handler: http.HandlerFunc(svc.handlePostLogin),
		pattern: routePatternPostLogin,
		isJSON:  false,
	}, {
		handler: http.HandlerFunc(svc.handleGetLogout),
		pattern: routePatternGetLogout,
		isJSON:  false,
	}, {
		handler: http.HandlerFunc(svc.handleGetProfile),
		pattern: routePatternGetProfile,
		isJSON:  true,
	}, {
		handler: http.HandlerFunc(svc.handleGetStatus),
		pattern: routePatternGetStatus,
		isJSON:  true,
	}}

	logMw := httputil.NewLogMiddleware(svc.logger, slog.LevelDebug)
	for _, r := range routes {
		var hdlr http.Handler
		if r.isJSON {
			hdlr = gziphandler.GzipHandler(jsonMw(r.handler))
		} else {
			hdlr = r.handler
		}

		mux.Handle(r.pattern, logMw.Wrap(hdlr))
	}
}
