package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-erp/internal/application/document"
	"github.com/jhoicas/inventario-erp/internal/application/inventory"
	"github.com/jhoicas/inventario-erp/internal/application/ports"
	"github.com/jhoicas/inventario-erp/internal/application/settlement"
	"github.com/jhoicas/inventario-erp/internal/application/usecase"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/ws"
	httpRouter "github.com/jhoicas/inventario-erp/internal/interfaces/http"
	"github.com/jhoicas/inventario-erp/pkg/config"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

// storage persistencia elegida por APP_STORAGE.
type storage interface {
	ports.TxRunner
	Repositories() repository.Repositories
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var store storage
	if cfg.App.Storage == "postgres" {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		store = postgres.NewTxRunner(pool)
	} else {
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		store = memory.New()
	}

	m := metrics.New("inventario")
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	stock := inventory.NewStockStore(store.Repositories(), inventory.StoreOptions{
		AllowNegative:  cfg.Stock.AllowNegative,
		ReservationTTL: cfg.Stock.ReservationTTL,
	}, m, log)
	ledger := inventory.NewLedger(store, stock, hub, m, log)

	matcher := settlement.NewMatcher(store, m, log)

	// Saldos y acumulados deben coincidir con el libro y las liquidaciones antes de aceptar
	// tráfico. Lo divergente queda detenido en la base hasta que el operador corra cmd/replay.
	if divergences, err := ledger.Verify(ctx); err != nil {
		log.Error().Err(err).Int("pairs", len(divergences)).Msg("verificación inicial del libro")
	}
	if mismatches, err := matcher.Verify(ctx); err != nil {
		log.Error().Err(err).Int("records", len(mismatches)).Msg("verificación inicial de liquidaciones")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario ERP API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName:    cfg.App.Name,
		Documents:      document.NewEngine(store, ledger, m, log),
		Ledger:         ledger,
		Replenishment:  inventory.NewReplenishmentUseCase(store),
		Matcher:        matcher,
		ProductUC:      usecase.NewProductUseCase(store),
		WarehouseUC:    usecase.NewWarehouseUseCase(store),
		CounterpartyUC: usecase.NewCounterpartyUseCase(store),
		Metrics:        m,
		Hub:            hub,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
