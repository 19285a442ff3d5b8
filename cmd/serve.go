package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"deliverydesk/internal/bootstrap"
	"deliverydesk/internal/bootstrap/catalog"
	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/transport/httpui"
	"deliverydesk/internal/usecase/exceptions"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the exception desk page over HTTP",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *exceptions.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = app.Config.HTTP.Addr
		}

		handler, err := httpui.NewHandler(ctx, svc)
		if err != nil {
			return errs.Wrap(err, "create page handler")
		}
		defer handler.Close()

		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if catalogFile := app.Config.Form.CatalogFile; catalogFile != "" {
			go func() {
				if err := catalog.Watch(sigCtx, catalogFile, svc.SetCatalog); err != nil {
					logging.Warn(ctx, "catalog watch stopped", slog.Any("err", errs.Loggable(err)))
				}
			}()
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: app.Config.HTTP.ReadHeaderTimeout,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		}

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- server.ListenAndServe()
		}()

		logging.Info(ctx, "exception desk listening", slog.String("addr", addr))

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error(ctx, "http server failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "serve exception desk")
			}
			return nil
		case <-sigCtx.Done():
		}

		logging.Info(ctx, "shutting down exception desk")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
}
