package cli

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/bstardust/threadpool-server/internal/accesslog"
	"github.com/bstardust/threadpool-server/internal/config"
	"github.com/bstardust/threadpool-server/internal/logger"
	"github.com/bstardust/threadpool-server/internal/pool"
	"github.com/bstardust/threadpool-server/internal/server"
	"github.com/bstardust/threadpool-server/internal/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCommand(ctx context.Context, cfg *config.Config) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve [address]",
		Short: "Start the server on the given address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cfg, configFile); err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if len(args) > 0 {
				cfg.Server.Addr = args[0]
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	cmd.Flags().StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "Address to listen on")
	cmd.Flags().IntVar(&cfg.Pool.Workers, "workers", 0, "Number of pool workers (0 = one per CPU)")
	cmd.Flags().StringVar(&cfg.Server.DocRoot, "doc-root", cfg.Server.DocRoot, "Directory containing hello.html and 404.html")
	cmd.Flags().StringVar(&cfg.Server.AccessLogPath, "access-log", "", "Path to a JSON access log (disabled when empty)")
	cmd.Flags().DurationVar(&cfg.Server.SleepDelay, "sleep-delay", cfg.Server.SleepDelay, "Delay applied by the /sleep route")

	return cmd
}

// loadConfig layers the optional config file and environment variables
// (THREADPOOL_SERVER_*) over the flag-populated defaults.
func loadConfig(cfg *config.Config, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix("THREADPOOL_SERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.doc_root", cfg.Server.DocRoot)
	v.SetDefault("server.access_log", cfg.Server.AccessLogPath)
	v.SetDefault("server.sleep_delay", cfg.Server.SleepDelay)
	v.SetDefault("pool.workers", cfg.Pool.Workers)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger.SetLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return err
	}

	workers := cfg.Pool.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	p, err := pool.Build(workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}

	journal := accesslog.New(cfg.Server.AccessLogPath)
	if err := journal.Load(); err != nil {
		logger.Warn("Could not load access log: %v", err)
	}
	journal.StartPeriodicSave(ctx)

	reporter := stats.New()
	reporter.Start()

	handler := server.NewHandler(cfg.Server.DocRoot, cfg.Server.SleepDelay, reporter, journal)
	srv := server.New(cfg.Server.Addr, p, handler)

	err = srv.Start(ctx)

	// Drain the pool before the final journal flush so every handled
	// connection is accounted for.
	p.Shutdown()
	journal.StopPeriodicSave()
	reporter.Finish()

	return err
}
