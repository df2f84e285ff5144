package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roster/core/internal/adapters/cli"
	"github.com/roster/core/internal/infrastructure/config"
)

// RunInteractive starts the menu session. SIGINT or SIGTERM end the process
// with status 0 while the menu blocks on input; a save in flight is either
// renamed into place or never seen.
func RunInteractive(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(ctx, afero.NewOsFs(), cfg, args)
	if err != nil {
		return err
	}
	defer a.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	go func() {
		<-quit
		fmt.Fprintln(out, "\n👋 Goodbye.")
		a.Close()
		os.Exit(0)
	}()

	sessionID := uuid.NewString()
	sessionLogger := a.logger.WithSessionID(sessionID)
	sessionLogger.Infow("Session started", "path", a.location.Path, "records", a.service.Count())

	a.announce(out)
	session := cli.NewSession(a.service, in, out, cli.Options{
		AppName:     cfg.App.Name,
		MaxAttempts: cfg.Session.MaxAttempts,
		Recorder:    a.metrics,
		Logger:      sessionLogger,
	})
	if err := session.Run(ctx); err != nil {
		return err
	}

	sessionLogger.Infow("Session ended", "records", a.service.Count())
	return nil
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [file]",
		Short: "Print the roster and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runList(cmd.Context(), afero.NewOsFs(), cfg, args, cmd.OutOrStdout())
		},
	}
}

func runList(ctx context.Context, fs afero.Fs, cfg *config.Config, args []string, out io.Writer) error {
	a, err := newApp(ctx, fs, cfg, args)
	if err != nil {
		return err
	}
	defer a.Close()

	cli.WriteTable(out, a.service.ListEmployees())
	return nil
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print roster version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", cfg.App.Name, cfg.App.Version)
			return nil
		},
	}
}
