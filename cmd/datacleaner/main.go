package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"datacleaner/internal/app"
	"datacleaner/internal/config"
	"datacleaner/internal/services"
	"datacleaner/pkg/contracts"
)

// errCleaningFailed is returned after the user-facing message has been printed
var errCleaningFailed = errors.New("cleaning failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errCleaningFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "datacleaner",
		Short:         "Clean CSV and Excel tables",
		Long:          "datacleaner removes duplicate rows, fills missing values and trims outliers,\nthen reports what changed.",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(contracts.GetFullVersionString() + "\n")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ./configs/config.yaml)")

	root.AddCommand(newCleanCmd(&cfgFile), newServeCmd(&cfgFile))
	return root
}

// keepStdoutForReport moves console logging off stdout so the printed report
// stays parseable
func keepStdoutForReport(cfg *config.Config) {
	switch cfg.Logging.Output {
	case "console":
		cfg.Logging.Output = "stderr"
	case "both":
		cfg.Logging.Output = "file"
	}
}

func newCleanCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clean <file>",
		Short: "Clean one file and write the artifacts to a new run directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.NewApplication(*cfgFile, keepStdoutForReport)
			if err != nil {
				return err
			}
			defer closeQuietly(a)

			result, err := a.CleaningService.Clean(cmd.Context(), args[0])
			outcome := services.Present(result, err)
			printOutcome(cmd.OutOrStdout(), outcome)
			if err != nil {
				a.Logger.ErrorContext(cmd.Context(), "clean command failed", slog.String("error", err.Error()))
				return errCleaningFailed
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nHeatmap: %s\nPreview: %s\n", result.HeatmapPath, a.Paths.PreviewPath(result.RunID))
			return nil
		},
	}
}

func newServeCmd(cfgFile *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cleaning API and progress feed over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			portSet := cmd.Flags().Changed("port")
			a, err := app.NewApplication(*cfgFile, func(cfg *config.Config) {
				if portSet {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides the config file)")
	return cmd
}

func printOutcome(w io.Writer, outcome services.Outcome) {
	fmt.Fprintln(w, outcome.Report)
	if outcome.OutputPath != "" {
		fmt.Fprintf(w, "\nCleaned file: %s\n", outcome.OutputPath)
	}
}

func closeQuietly(a *app.Application) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.Close(ctx)
}
