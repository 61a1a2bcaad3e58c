package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"storefront/handler"
	"storefront/model"
	"storefront/service"
	"storefront/telemetry"
)

// NewServeCommand exposes one shopping session over HTTP.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer sess.Close(context.WithoutCancel(ctx))

			catalog, err := sess.loadCatalog(ctx)
			if err != nil {
				return err
			}
			name := opts.Config.CustomerName
			if name == "" {
				name = "guest"
			}
			svc := sess.newService(catalog, model.NewCustomer(name, opts.Config.CustomerTaxID))
			return serve(ctx, newServer(opts.Config.HTTPAddr, sess.tel, svc), svc, sess.logger(), opts.Config.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&opts.Config.HTTPAddr, "addr", opts.Config.HTTPAddr, "HTTP listen address")
	return cmd
}

// newServer builds the instrumented HTTP server for svc.
func newServer(addr string, tel *telemetry.Telemetry, svc service.ServiceInterface) *http.Server {
	router := mux.NewRouter()
	handler.NewHandler(svc, tel.Logger).RegisterRoutes(router)
	router.Handle("/metrics", tel.MetricsHandler()).Methods(http.MethodGet)

	h := otelhttp.NewHandler(router, "storefront",
		otelhttp.WithTracerProvider(tel.TracerProvider),
		otelhttp.WithMeterProvider(tel.MeterProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			route := r.URL.Path
			var match mux.RouteMatch
			if router.Match(r, &match) && match.Route != nil {
				if tpl, err := match.Route.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			return []attribute.KeyValue{attribute.String("http.route", route)}
		}),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serve runs srv until ctx ends, then drains in-flight requests and saves
// the catalog.
func serve(ctx context.Context, srv *http.Server, svc service.ServiceInterface, logger *slog.Logger, timeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown_signal")
	case serveErr = <-errc:
		if serveErr != nil {
			logger.Error("http_server_error", "error", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}
	// no request is in flight past this point
	if err := svc.Save(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "save catalog", err)
	}
	logger.Info("service_stopped")
	if serveErr != nil {
		return WrapExitError(ExitFailure, "http server", serveErr)
	}
	return nil
}
