package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bstardust/threadpool-server/internal/config"
	"github.com/bstardust/threadpool-server/internal/logger"
	"github.com/spf13/cobra"
)

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	rootCmd := &cobra.Command{
		Use:   "threadpool-server",
		Short: "Serve canned pages through a fixed-size worker pool",
		Long:  `A small web server that handles every connection on a pre-spawned pool of workers instead of spawning a goroutine per connection.`,
	}

	// Global flags
	cfg := config.New()
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add commands
	rootCmd.AddCommand(newServeCommand(ctx, cfg))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Error executing command: %v", err)
		os.Exit(1)
	}
}
