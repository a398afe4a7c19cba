// replay herramienta de operador para el libro de movimientos y las liquidaciones.
//
// Uso: go run ./cmd/replay <verify|rebuild|settlements-verify|settlements-reconcile>
//
//	verify                  compara cada saldo almacenado con la suma del libro y detiene los divergentes
//	rebuild                 recalcula todos los saldos desde el libro vacío y levanta las detenciones de stock
//	settlements-verify      compara settled/allocated con las liquidaciones y detiene los divergentes
//	settlements-reconcile   reescribe settled/allocated desde las liquidaciones y levanta sus detenciones
//
// Las detenciones se guardan en la tabla halts: el servidor API en marcha las respeta sin reiniciar.
//
// Requiere APP_STORAGE=postgres: el store en memoria no sobrevive entre procesos.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-erp/internal/application/inventory"
	"github.com/jhoicas/inventario-erp/internal/application/settlement"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-erp/pkg/config"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: replay <verify|rebuild|settlements-verify|settlements-reconcile>")
		os.Exit(2)
	}
	cmd := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.App.Storage != "postgres" {
		log.Fatal().Str("storage", cfg.App.Storage).Msg("replay requiere APP_STORAGE=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	runner := postgres.NewTxRunner(pool)

	stock := inventory.NewStockStore(runner.Repositories(), inventory.StoreOptions{
		AllowNegative:  cfg.Stock.AllowNegative,
		ReservationTTL: cfg.Stock.ReservationTTL,
	}, nil, log)
	ledger := inventory.NewLedger(runner, stock, nil, nil, log)
	matcher := settlement.NewMatcher(runner, nil, log)

	switch cmd {
	case "verify":
		divergences, err := ledger.Verify(ctx)
		for _, d := range divergences {
			fmt.Printf("sku=%d warehouse=%d stored=%s replayed=%s\n", d.SKUID, d.WarehouseID, d.Stored, d.Replayed)
		}
		exitOn(log, err)
		fmt.Println("libro y saldos consistentes")
	case "rebuild":
		n, err := ledger.Rebuild(ctx)
		exitOn(log, err)
		fmt.Printf("%d saldos reconstruidos\n", n)
	case "settlements-verify":
		mismatches, err := matcher.Verify(ctx)
		for _, mm := range mismatches {
			fmt.Printf("%s=%d stored=%s computed=%s\n", mm.Kind, mm.ID, mm.Stored, mm.Computed)
		}
		exitOn(log, err)
		fmt.Println("liquidaciones consistentes")
	case "settlements-reconcile":
		n, err := matcher.Reconcile(ctx)
		exitOn(log, err)
		fmt.Printf("%d registros corregidos\n", n)
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q\n", cmd)
		os.Exit(2)
	}
}

func exitOn(log *logger.Logger, err error) {
	if err != nil {
		log.Error().Err(err).Msg("replay")
		os.Exit(1)
	}
}
