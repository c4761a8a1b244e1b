package service

import (
	"context"
	"io"
	"net"
	"net/http"

	"postsapi/app/config"
	"postsapi/app/controllers"
	"postsapi/app/middleware"
	"postsapi/app/repositories"
	"postsapi/app/routes"
	"postsapi/app/services"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// metricsNamespace prefixes every exported Prometheus metric.
const metricsNamespace = "postsapi"

// App is a fully wired posts API.
type App struct {
	Config  config.Config
	Handler http.Handler
	Logger  *logrus.Logger

	repo repositories.PostRepository
}

// NewApp wires the store, service, controller and router described by cfg.
// Log lines are written to logOut.
func NewApp(cfg config.Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := cfg.NewLogger(logOut)
	if err != nil {
		return nil, err
	}

	ids, err := services.NewIDGenerator(cfg.IDFormat)
	if err != nil {
		return nil, err
	}

	opts := routes.Options{Logger: logger}
	if cfg.Metrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := middleware.NewMetrics(registry, metricsNamespace)
		if err != nil {
			return nil, err
		}
		opts.Metrics = m
		opts.Gatherer = registry
	}

	repo, err := repositories.New(cfg.Store)
	if err != nil {
		return nil, errors.Wrap(err, "could not create post store")
	}

	postService := services.NewPostService(repo, ids, logger)
	postController := controllers.NewPostController(postService, logger)

	return &App{
		Config:  cfg,
		Handler: routes.SetupRoutes(postController, opts),
		Logger:  logger,
		repo:    repo,
	}, nil
}

// Listen opens the configured address. On failure the store is closed too and
// both errors are reported together.
func (a *App) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", a.Config.Addr)
	if err == nil {
		return ln, nil
	}
	a.Logger.WithField("addr", a.Config.Addr).Errorf("Could not listen: %v", err)

	var result error = multierror.Append(nil, errors.Wrap(err, "could not listen"))
	if err := a.Close(); err != nil {
		a.Logger.Error(err)
		result = multierror.Append(result, err)
	}
	return nil, result
}

// Run serves on ln until ctx is done, then shuts the server down and closes
// the store. Failures from both steps are reported together.
func (a *App) Run(ctx context.Context, ln net.Listener) error {
	a.Logger.WithFields(logrus.Fields{
		"store":     a.Config.Store,
		"id_format": a.Config.IDFormat,
		"metrics":   a.Config.Metrics,
	}).Info("Starting posts API")

	var result error
	grace, err := a.Config.GracePeriod()
	if err != nil {
		ln.Close()
		result = multierror.Append(result, err)
	} else if err := routes.NewServer(a.Handler, grace, a.Logger).Serve(ctx, ln); err != nil {
		result = multierror.Append(result, err)
	}
	if err := a.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

// Close releases the post store. Every post is lost.
func (a *App) Close() error {
	if err := a.repo.Close(); err != nil {
		return errors.Wrap(err, "could not close post store")
	}
	return nil
}
