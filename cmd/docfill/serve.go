package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/docfill/internal/httpapi"
)

func (a *app) serveCmd() *cobra.Command {
	var addr, db, template, mappingPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the roster and document API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.openStore(ctx, db)
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := a.loadMapping(mappingPath)
			if err != nil {
				return err
			}

			api := httpapi.New(httpapi.Deps{
				Store:          store,
				Mapping:        m,
				TemplatePath:   orDefault(template, a.cfg.TemplatePath),
				Font:           a.cfg.Font(),
				Logger:         a.logger,
				MaxUploadBytes: a.cfg.MaxUploadBytes,
			})
			srv := &http.Server{
				Addr:              orDefault(addr, a.cfg.Addr),
				Handler:           api.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return a.run(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $DOCFILL_ADDR)")
	cmd.Flags().StringVar(&db, "db", "", "Roster database path (default $DOCFILL_DB_PATH)")
	cmd.Flags().StringVar(&template, "template", "", "Counseling template path (default $DOCFILL_TEMPLATE_PATH)")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "Field mapping file (default built-in)")
	return cmd
}

// run serves until ctx is cancelled, then shuts down within the configured timeout.
func (a *app) run(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		a.logger.Info("listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", zap.Duration("timeout", a.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
