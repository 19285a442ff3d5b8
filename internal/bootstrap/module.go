package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"deliverydesk/internal/bootstrap/catalog"
	"deliverydesk/internal/bootstrap/config"
	"deliverydesk/internal/bootstrap/database"
	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	cacheinfra "deliverydesk/internal/infrastructure/cache"
	"deliverydesk/internal/infrastructure/persistence/memory"
	sqliterepo "deliverydesk/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "deliverydesk/internal/infrastructure/persistence/sqlite/uow"
	"deliverydesk/internal/ports"
	"deliverydesk/internal/usecase/exceptions"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideCatalog),
	fx.Provide(provideStore),
	fx.Provide(provideApp),
	fx.Provide(exceptions.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideCatalog(ctx context.Context, cfg config.Config) (exception.Catalog, error) {
	return catalog.Load(ctx, cfg.Form.CatalogFile)
}

type storeResult struct {
	fx.Out

	Repo  ports.ExceptionRepository
	UoW   ports.UnitOfWork
	Cache ports.Cache
}

// provideStore picks the exception store and view-state cache for store.driver.
func provideStore(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (storeResult, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"), slog.String("store_driver", cfg.Store.Driver))

	if cfg.Store.Driver != config.DriverSQLite {
		repo := memory.NewExceptionRepository()
		logging.Info(logCtx, "using in-process exception store")
		return storeResult{
			Repo:  repo,
			UoW:   memory.NewUnitOfWork(repo),
			Cache: cacheinfra.NewMemoryCache(),
		}, nil
	}

	db, err := database.Open(logCtx, cfg.Store)
	if err != nil {
		return storeResult{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(stopCtx context.Context) error {
			return database.Close(logging.WithAttrs(stopCtx, slog.String("component", "bootstrap.fx")), db)
		},
	})

	return storeResult{
		Repo:  sqliterepo.NewExceptionRepository(db),
		UoW:   sqliteuow.NewUnitOfWork(db),
		Cache: cacheinfra.NewSQLiteCache(db),
	}, nil
}

func provideApp(cfg config.Config, cat exception.Catalog) *App {
	return &App{
		Config:  cfg,
		Catalog: cat,
	}
}
