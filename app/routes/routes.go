package routes

import (
	"net/http"

	"postsapi/app/controllers"
	"postsapi/app/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// PostsPath is the single resource path served by the API.
const PostsPath = "/api/posts"

// Options configures the optional parts of the router.
type Options struct {
	Logger logrus.FieldLogger
	// Metrics and Gatherer are set together to record requests and serve /metrics.
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
}

// SetupRoutes defines the application's routes and returns the handler to serve.
// Unmatched paths and methods answer with the 404 envelope.
func SetupRoutes(postController *controllers.PostController, opts Options) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(controllers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(controllers.NotFound)
	router.Use(middleware.ContentTypeJSON)

	// Posts API endpoints; an empty id query lists everything.
	router.HandleFunc(PostsPath, postController.Show).Methods(http.MethodGet).Queries("id", "{id:.+}")
	router.HandleFunc(PostsPath, postController.Index).Methods(http.MethodGet)
	router.HandleFunc(PostsPath, postController.Create).Methods(http.MethodPost)
	router.HandleFunc(PostsPath, postController.Update).Methods(http.MethodPut)
	router.HandleFunc(PostsPath, postController.Delete).Methods(http.MethodDelete)

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}

	// Wrapped outside the router so unmatched requests are logged and counted too.
	mws := []mux.MiddlewareFunc{middleware.Logger(logger)}
	if opts.Metrics != nil {
		mws = append(mws, opts.Metrics.Middleware())
	}
	mws = append(mws, middleware.Recoverer(logger))

	return middleware.Chain(router, mws...)
}
