package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prabalesh/paneltop/internal/client"
	"github.com/prabalesh/paneltop/internal/config"
	"github.com/prabalesh/paneltop/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Fetch one snapshot and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClient(viper.GetViper())
		if err != nil {
			return err
		}
		showLogs, _ := cmd.Flags().GetBool("logs")

		c := client.New(cfg.URL, client.WithToken(cfg.Token), client.WithTimeout(cfg.Timeout))
		return printSnapshot(cmd.Context(), cmd.OutOrStdout(), c, showLogs)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("logs", false, "also print the log tail")
}

// printSnapshot renders status, apps and optionally logs as plain sections.
func printSnapshot(ctx context.Context, w io.Writer, f ui.Fetcher, showLogs bool) error {
	snap, err := f.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}
	apps, err := f.AppsStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch apps storage: %w", err)
	}

	fmt.Fprintln(w, ui.HeaderStyle.Render("Server Status"))
	fmt.Fprintln(w, strings.Join(ui.StatusLines(snap), "\n"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, ui.HeaderStyle.Render("Apps Storage"))
	rows, chart := ui.RenderApps(nil, apps.Apps)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No apps found")
	} else {
		fmt.Fprintln(w, strings.Join(rows, "\n"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, chart.View(40))
	}

	if showLogs {
		blob, err := f.Logs(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch logs: %w", err)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.HeaderStyle.Render("Logs"))
		fmt.Fprintln(w, blob.Logs)
	}
	return nil
}
