package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/docfill/internal/config"
	"github.com/javajack/docfill/internal/logging"
	"github.com/javajack/docfill/mapping"
	"github.com/javajack/docfill/roster/sqlite"
)

// now is replaced in tests.
var now = time.Now

// app is the state shared by all subcommands.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:          "docfill",
		Short:        "Fill Word templates and manage the roster",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = a.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = a.logFormat
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "json", "Log format (json or console)")

	root.AddCommand(
		a.serveCmd(),
		a.fillCmd(),
		a.describeCmd(),
		a.validateCmd(),
		a.importCmd(),
		a.exportCmd(),
		a.templateCmd(),
	)
	return root
}

// orDefault returns flag when it is set, otherwise fallback.
func orDefault(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func (a *app) openStore(ctx context.Context, path string) (*sqlite.Store, error) {
	path = orDefault(path, a.cfg.DBPath)
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("roster database opened", zap.String("path", path))
	return store, nil
}

// loadMapping reads the mapping file at path, or the built-in mapping when
// neither path nor the configured mapping path is set.
func (a *app) loadMapping(path string) (*mapping.Mapping, error) {
	path = orDefault(path, a.cfg.MappingPath)
	if path == "" {
		return mapping.Default()
	}
	return mapping.Load(path)
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	return os.ReadFile(path)
}
