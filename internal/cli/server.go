package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prabalesh/paneltop/internal/actions"
	"github.com/prabalesh/paneltop/internal/collector"
	"github.com/prabalesh/paneltop/internal/config"
	"github.com/prabalesh/paneltop/internal/server"
)

var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status server the dashboard polls",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServer(viper.GetViper())
		if err != nil {
			return err
		}

		logger, closer, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		defer closer.Close()

		if !logger.Enabled(cmd.Context(), slog.LevelDebug) {
			gin.SetMode(gin.ReleaseMode)
		}

		auth := server.NewAuth(cfg.AuthSecret)
		if auth == nil {
			logger.Warn("No auth secret set. Restart and clear-cache are open to anyone who can reach the server.")
		}

		col := collector.New(collector.Options{
			Root:     cfg.Root,
			AppsDir:  cfg.AppsDir,
			LogFile:  cfg.LogFile,
			CacheTTL: cfg.CacheTTL,
			Logger:   logger,
		})
		srv := server.New(server.Options{
			Addr:           cfg.Addr,
			Source:         logLines{col, cfg.LogLines},
			Restarter:      actions.NewRestarter(cfg.RestartCommand, logger),
			Auth:           auth,
			StreamInterval: cfg.StreamInterval,
			Logger:         logger,
		})

		logger.Info("Serving panel", "root", cfg.Root, "addr", cfg.Addr)

		// Graceful Shutdown Channel
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-stop:
		}
		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		logger.Info("Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String("addr", ":8080", "address to listen on")
	serverCmd.Flags().String("root", "", "panel root measured for storage usage")
	serverCmd.Flags().String("apps-dir", "", "directory holding one folder per app (default <root>/Apps)")
	serverCmd.Flags().String("panel-log", "", "log file served by /api/logs (default <root>/logs/app.log)")
	serverCmd.Flags().Int("log-lines", 0, "lines returned by /api/logs (default 50)")
	serverCmd.Flags().String("restart-command", "", "shell command run by /api/restart")
	serverCmd.Flags().Duration("cache-ttl", 0, "how long directory sizes are reused (default 30s)")
	serverCmd.Flags().Duration("stream-interval", 0, "push interval for /api/ws (default 5s)")

	viper.BindPFlag(config.KeyAddr, serverCmd.Flags().Lookup("addr"))
	viper.BindPFlag(config.KeyRoot, serverCmd.Flags().Lookup("root"))
	viper.BindPFlag(config.KeyAppsDir, serverCmd.Flags().Lookup("apps-dir"))
	viper.BindPFlag(config.KeyLogFile, serverCmd.Flags().Lookup("panel-log"))
	viper.BindPFlag(config.KeyLogLines, serverCmd.Flags().Lookup("log-lines"))
	viper.BindPFlag(config.KeyRestartCommand, serverCmd.Flags().Lookup("restart-command"))
	viper.BindPFlag(config.KeyCacheTTL, serverCmd.Flags().Lookup("cache-ttl"))
	viper.BindPFlag(config.KeyStreamInterval, serverCmd.Flags().Lookup("stream-interval"))
}

// logLines applies the configured default line count to log requests that
// do not ask for one.
type logLines struct {
	*collector.Collector
	n int
}

func (l logLines) Logs(lines int) (string, error) {
	if lines <= 0 {
		lines = l.n
	}
	return l.Collector.Logs(lines)
}
