package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/apptrackhq/ats/internal/api_server"
	"github.com/apptrackhq/ats/internal/config"
	"github.com/apptrackhq/ats/internal/events"
	"github.com/apptrackhq/ats/internal/service"
	"github.com/apptrackhq/ats/internal/store"
	"github.com/apptrackhq/ats/internal/workflow"
	"github.com/apptrackhq/ats/pkg/log"
	"github.com/apptrackhq/ats/pkg/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ats api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")
		zap.S().Infof("Using config: %s", cfg)

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalf("running initial migration: %v", err)
		}
		if err := s.Seed(); err != nil {
			zap.S().Fatalf("seeding workflow accounts: %v", err)
		}

		metrics.RegisterWorkflowStatsCollector(s)

		ep := events.NewEventProducer(&events.StdoutWriter{})
		defer func() { _ = ep.Close() }()

		rnd := workflow.SystemRand()
		dispatcher := workflow.NewDispatcher()

		automation := workflow.NewScheduler(
			"automation",
			workflow.NewAutomationProcessor(s, ep, rnd),
			dispatcher,
			cfg.Workflow.AutomationInterval,
		)
		mimic := workflow.NewScheduler(
			"mimic",
			workflow.NewMimicProcessor(s, ep, rnd),
			dispatcher,
			cfg.Workflow.MimicInterval,
			workflow.WithStartupDelay(cfg.Workflow.MimicStartupDelay),
		)

		applicationService := service.NewApplicationService(s, ep)
		jobService := service.NewJobService(s)
		workflowService := service.NewWorkflowService(s, automation, mimic)

		if cfg.Workflow.AutoStart {
			workflowService.StartAll()
			defer workflowService.StopAll()
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalf("creating listener: %s", err)
			}

			server := apiserver.New(cfg, listener, applicationService, jobService, workflowService)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalf("Error running server: %s", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalf("creating metrics listener: %s", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalf("Error running metrics server: %s", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
