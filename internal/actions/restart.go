package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// DefaultRestartCommand is run when no restart command is configured.
const DefaultRestartCommand = "/usr/local/bin/restart"

var ErrNoCommand = errors.New("no restart command configured")

// Restarter launches the panel's restart script without waiting for it.
type Restarter struct {
	command string
	logger  *slog.Logger
	start   func(*exec.Cmd) error
}

func NewRestarter(command string, logger *slog.Logger) *Restarter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Restarter{
		command: command,
		logger:  logger,
		start:   startDetached,
	}
}

func (r *Restarter) Command() string {
	return r.command
}

// Restart starts the command through the shell and returns once it has been
// spawned. The child is reaped in the background.
func (r *Restarter) Restart(ctx context.Context) error {
	if r.command == "" {
		return ErrNoCommand
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.Command("sh", "-c", r.command)
	if err := r.start(cmd); err != nil {
		return fmt.Errorf("failed to start restart command: %w", err)
	}

	r.logger.Info("Restart command started", "command", r.command, "pid", cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			r.logger.Warn("Restart command exited with error", "command", r.command, "error", err)
		}
	}()
	return nil
}
