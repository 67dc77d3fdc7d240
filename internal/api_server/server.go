package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/apptrackhq/ats/internal/auth"
	"github.com/apptrackhq/ats/internal/config"
	handlers "github.com/apptrackhq/ats/internal/handlers/v1alpha1"
	"github.com/apptrackhq/ats/internal/service"
	"github.com/apptrackhq/ats/pkg/metrics"
	"github.com/apptrackhq/ats/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg            *config.Config
	listener       net.Listener
	applicationSrv *service.ApplicationService
	jobSrv         *service.JobService
	workflowSrv    *service.WorkflowService
}

// New returns a new instance of the ats api server.
func New(
	cfg *config.Config,
	listener net.Listener,
	applicationService *service.ApplicationService,
	jobService *service.JobService,
	workflowService *service.WorkflowService,
) *Server {
	return &Server{
		cfg:            cfg,
		listener:       listener,
		applicationSrv: applicationService,
		jobSrv:         jobService,
		workflowSrv:    workflowService,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{s.cfg.Service.BaseUrl},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1alpha1", func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Route("/applications", handlers.NewApplicationHandler(s.applicationSrv).Routes)
		r.Route("/jobs", handlers.NewJobHandler(s.jobSrv).Routes)
		r.Route("/workflow", handlers.NewWorkflowHandler(s.workflowSrv).Routes)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(ctxTimeout)
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
