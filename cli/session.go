package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"storefront/model"
	"storefront/service"
	"storefront/store"
	"storefront/telemetry"
)

// session bundles what every command opens: telemetry and the catalog store.
type session struct {
	tel   *telemetry.Telemetry
	store store.CatalogStore
}

func openSession(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*session, error) {
	tel, err := telemetry.New(opts.Config, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitFailure, "telemetry", err)
	}
	st, err := store.Open(ctx, opts.Config.StoreKind, opts.Config.Location())
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, WrapExitError(ExitCommandError, "open catalog store", err)
	}
	return &session{tel: tel, store: st}, nil
}

func (s *session) logger() *slog.Logger { return s.tel.Logger }

// loadCatalog reads the catalog. A missing catalog file yields an empty
// catalog.
func (s *session) loadCatalog(ctx context.Context) (*model.Catalog, error) {
	products, err := s.store.Load(ctx)
	if errors.Is(err, os.ErrNotExist) {
		s.logger().WarnContext(ctx, "catalog_missing", slog.String("error", err.Error()))
		products, err = nil, nil
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load catalog", err)
	}
	if n := s.store.Skipped(); n > 0 {
		s.logger().WarnContext(ctx, "catalog_records_skipped",
			slog.Int("skipped", n),
			slog.String("reason", "unknown product type"),
		)
	}
	catalog, err := model.NewCatalog(products)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load catalog", err)
	}
	s.logger().InfoContext(ctx, "catalog_loaded", slog.Int("products", catalog.Len()))
	return catalog, nil
}

func (s *session) newService(catalog *model.Catalog, customer *model.Customer) *service.Service {
	return service.NewService(catalog, customer, s.store,
		service.WithLogger(s.logger()),
		service.WithTracer(s.tel.TracerProvider.Tracer(telemetry.ServiceName)),
		service.WithMeter(s.tel.MeterProvider.Meter(telemetry.ServiceName)),
	)
}

func (s *session) Close(ctx context.Context) error {
	return errors.Join(s.store.Close(), s.tel.Shutdown(ctx))
}
