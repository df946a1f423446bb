package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prabalesh/paneltop/internal/client"
	"github.com/prabalesh/paneltop/internal/config"
	"github.com/prabalesh/paneltop/internal/poller"
	"github.com/prabalesh/paneltop/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live dashboard (default command)",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadClient(viper.GetViper())
	if err != nil {
		return err
	}

	// The dashboard owns the terminal, so logs only go to a file.
	logger, closer, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := client.New(cfg.URL, client.WithToken(cfg.Token), client.WithTimeout(cfg.Timeout))
	app := ui.NewApp(c,
		ui.WithSource(c.BaseURL()),
		ui.WithInterval(cfg.Interval),
		ui.WithLogger(logger),
		ui.WithContext(ctx),
	)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	handle := startPolling(ctx, app, cfg.Interval, p.Send)
	defer handle.Stop()

	logger.Info("Dashboard started", "url", cfg.URL, "interval", cfg.Interval)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

// startPolling drives app's refreshes from a poller and hands the poller to
// app so the pause key controls it.
func startPolling(ctx context.Context, app *ui.App, interval time.Duration, send func(tea.Msg)) *poller.Handle {
	handle := poller.Every(ctx, interval, func(t time.Time) {
		send(ui.RefreshMsg(t))
	})
	app.AttachScheduler(handle)
	return handle
}
