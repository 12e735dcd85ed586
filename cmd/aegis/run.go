package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aegisai/aegis/pkg/advisory"
	"aegisai/aegis/pkg/auditlog"
	"aegisai/aegis/pkg/auditlog/retention"
	alstorage "aegisai/aegis/pkg/auditlog/storage"
	"aegisai/aegis/pkg/auditor"
	"aegisai/aegis/pkg/auth"
	"aegisai/aegis/pkg/classifier"
	"aegisai/aegis/pkg/cli"
	"aegisai/aegis/pkg/config"
	"aegisai/aegis/pkg/feedback"
	"aegisai/aegis/pkg/guard"
	"aegisai/aegis/pkg/pipeline"
	"aegisai/aegis/pkg/policy"
	"aegisai/aegis/pkg/policy/engine"
	"aegisai/aegis/pkg/policy/store"
	"aegisai/aegis/pkg/scoring"
	"aegisai/aegis/pkg/server"
	"aegisai/aegis/pkg/telemetry/logging"
	"aegisai/aegis/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Aegis governance server",
	Long: `Start the Aegis governance server with the specified configuration.

The server listens on the configured address and routes governance requests
through the screening, auditing, policy, advisory, and audit-trail stages.

Examples:
  # Start with default config
  aegis run

  # Start with custom config
  aegis run --config /etc/aegis/config.yaml

  # Override listen address
  aegis run --listen 0.0.0.0:8080

  # Validate config without starting the server
  aegis run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.Install()

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Aegis v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
	}

	policyStore, closeStore, err := buildPolicyStore(cfg.Policy)
	if err != nil {
		return cli.NewConfigError("policy", err.Error())
	}
	defer closeStore()
	fmt.Println("✓ Policy store initialized")

	var rater classifier.Rater = classifier.Disabled{}
	if cfg.Classifier.Enabled {
		rater = classifier.NewHTTPClient(cfg.Classifier, collector)
		fmt.Printf("✓ Classifier enabled (%s)\n", cfg.Classifier.Model)
	}

	auditStorage, err := buildAuditStorage(cfg.Audit)
	if err != nil {
		return cli.NewConfigError("audit", err.Error())
	}
	defer auditStorage.Close()

	recorder := auditlog.NewRecorder(auditStorage, cfg.Audit, collector)
	defer recorder.Close()
	fmt.Println("✓ Audit trail initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Audit.PruneSchedule != "" && cfg.Audit.RetentionDays > 0 {
		pruner := retention.NewPruner(auditStorage, &retention.Config{
			RetentionDays: cfg.Audit.RetentionDays,
			PruneSchedule: cfg.Audit.PruneSchedule,
		})
		if err := pruner.Start(ctx); err != nil {
			logger.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer pruner.Stop()
		}
	}

	scorer := scoring.NewScorer(rater)
	eng := engine.New(policyStore, rater, collector)
	verifier := auth.NewStaticVerifier(cfg.Auth)

	orch := pipeline.New(pipeline.Deps{
		Guard:      guard.New(scorer, eng, rater),
		Auditor:    auditor.New(scorer, eng, rater),
		Engine:     eng,
		Advisor:    advisory.New(rater),
		Feedback:   feedback.NewCollector(feedback.NewMemory(), rater),
		Verifier:   verifier,
		AuditSink:  recorder,
		AuditStore: auditStorage,
		Observer:   collector,
	})

	srv := server.NewServer(&cfg.Server, orch, verifier, collector)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()
	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return cli.NewCommandError("run", err)
		}
		fmt.Println("✓ Server stopped")
		return nil
	}
}

func buildPolicyStore(cfg config.PolicyConfig) (policy.Store, func(), error) {
	switch cfg.Backend {
	case "file":
		fs, err := store.NewFile(cfg.Path, cfg.MaxFileSize)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Watch {
			if err := fs.Watch(); err != nil {
				return nil, nil, err
			}
		}
		return fs, func() { _ = fs.Close() }, nil
	case "sqlite":
		ss, err := store.NewSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return ss, func() { _ = ss.Close() }, nil
	case "memory":
		return store.NewMemoryWithDefaults(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported policy backend: %s", cfg.Backend)
	}
}

func buildAuditStorage(cfg config.AuditConfig) (auditlog.Storage, error) {
	switch cfg.Backend {
	case "sqlite":
		sqliteCfg := alstorage.DefaultSQLiteConfig()
		if cfg.Path != "" {
			sqliteCfg.Path = cfg.Path
		}
		return alstorage.NewSQLiteStorage(sqliteCfg)
	case "memory":
		return alstorage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported audit backend: %s", cfg.Backend)
	}
}
