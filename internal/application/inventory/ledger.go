package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/application/ports"
	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/inventory"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

// Ledger libro de movimientos: única vía de escritura sobre los saldos. Cada append pliega
// el movimiento en el saldo del par dentro de la misma transacción.
type Ledger struct {
	tx       ports.TxRunner
	store    *StockStore
	notifier ports.StockNotifier
	metrics  ports.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewLedger construye el libro.
func NewLedger(tx ports.TxRunner, store *StockStore, notifier ports.StockNotifier, metrics ports.Metrics, log *logger.Logger) *Ledger {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Ledger{
		tx:       tx,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		log:      log.Component("ledger"),
		now:      time.Now,
	}
}

// Store devuelve el almacén de saldos asociado.
func (l *Ledger) Store() *StockStore { return l.store }

// Append valida y agrega entry usando los repositorios de la transacción en curso, y pliega
// el saldo del par. Devuelve el saldo resultante. No confirma: el llamador es dueño de la tx
// y debe invocar Committed tras el commit.
//
// Las salidas toman como costo unitario el costo promedio vigente del par.
func (l *Ledger) Append(ctx context.Context, repos repository.Repositories, entry *entity.MovementEntry) (*entity.StockBalance, error) {
	if err := l.validate(ctx, repos, entry); err != nil {
		return nil, err
	}
	key := entity.StockKey{SKUID: entry.SKUID, WarehouseID: entry.WarehouseID}
	if err := CheckHalted(ctx, repos.Halts, key); err != nil {
		return nil, err
	}

	bal, err := repos.Stock.GetForUpdate(ctx, entry.SKUID, entry.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("ledger: bloquear saldo: %w", err)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now()
	}
	if entry.TxRef == "" {
		entry.TxRef = uuid.NewString()
	}
	if entry.Quantity.IsNegative() {
		entry.UnitCost = bal.AvgCost
	}

	inventory.Fold(bal, entry)
	if !l.store.AllowNegative() && entry.Quantity.IsNegative() && bal.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: sku %d bodega %d quedaría en %s",
			domain.ErrInsufficientStock, entry.SKUID, entry.WarehouseID, bal.Quantity)
	}
	if err := repos.Movements.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("ledger: agregar movimiento: %w", err)
	}
	if err := repos.Stock.Upsert(ctx, bal); err != nil {
		return nil, fmt.Errorf("ledger: actualizar saldo: %w", err)
	}
	return bal, nil
}

func (l *Ledger) validate(ctx context.Context, repos repository.Repositories, entry *entity.MovementEntry) error {
	var fields []domain.FieldError
	if entry.Quantity.IsZero() {
		fields = append(fields, domain.FieldError{Field: "quantity", Rule: "ne", Message: "la cantidad no puede ser cero"})
	}
	if !entry.Reason.Valid() {
		fields = append(fields, domain.FieldError{Field: "reason", Rule: "oneof", Message: fmt.Sprintf("motivo desconocido %q", entry.Reason)})
	}
	if entry.UnitCost.IsNegative() {
		fields = append(fields, domain.FieldError{Field: "unit_cost", Rule: "gte", Message: "el costo unitario no puede ser negativo"})
	}
	ok, err := repos.Products.Exists(ctx, entry.SKUID)
	if err != nil {
		return fmt.Errorf("ledger: validar sku: %w", err)
	}
	if !ok {
		fields = append(fields, domain.FieldError{Field: "sku_id", Rule: "exists", Message: fmt.Sprintf("sku %d no existe", entry.SKUID)})
	}
	ok, err = repos.Warehouses.Exists(ctx, entry.WarehouseID)
	if err != nil {
		return fmt.Errorf("ledger: validar bodega: %w", err)
	}
	if !ok {
		fields = append(fields, domain.FieldError{Field: "warehouse_id", Rule: "exists", Message: fmt.Sprintf("bodega %d no existe", entry.WarehouseID)})
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// Committed registra métricas y publica los saldos cambiados. Solo tras un commit exitoso.
func (l *Ledger) Committed(ctx context.Context, entries []*entity.MovementEntry, balances []*entity.StockBalance) {
	for _, e := range entries {
		l.metrics.LedgerAppended(e.Reason)
	}
	if len(balances) == 0 {
		return
	}
	l.notifier.PublishBalances(ctx, Latest(balances))
}

// Record agrega un movimiento aislado en su propia transacción. Las salidas pasan por
// reserve/append/release sobre el par. Devuelve el ID asignado.
func (l *Ledger) Record(ctx context.Context, entry *entity.MovementEntry) (int64, error) {
	var reqs []ReserveRequest
	if entry.Quantity.IsNegative() {
		reqs = append(reqs, ReserveRequest{SKUID: entry.SKUID, WarehouseID: entry.WarehouseID, Quantity: entry.Quantity.Neg()})
	}
	var bal *entity.StockBalance
	err := l.store.WithReservations(ctx, reqs, func() error {
		return l.tx.Run(ctx, func(repos repository.Repositories) error {
			var err error
			bal, err = l.Append(ctx, repos, entry)
			return err
		})
	})
	if err != nil {
		return 0, err
	}
	l.Committed(ctx, []*entity.MovementEntry{entry}, []*entity.StockBalance{bal})
	return entry.ID, nil
}

// List movimientos del libro según filtro.
func (l *Ledger) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementEntry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	var out []*entity.MovementEntry
	err := l.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		out, err = repos.Movements.List(ctx, filter)
		return err
	})
	return out, err
}

// Divergence par cuyo saldo almacenado no coincide con el plegado del libro.
type Divergence struct {
	SKUID       int64           `json:"sku_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Stored      decimal.Decimal `json:"stored"`
	Replayed    decimal.Decimal `json:"replayed"`
}

// Replay pliega todo el libro desde saldo vacío.
func Replay(ctx context.Context, movements repository.MovementRepository) (map[entity.StockKey]*entity.StockBalance, error) {
	folded := make(map[entity.StockKey]*entity.StockBalance)
	err := movements.Scan(ctx, func(e *entity.MovementEntry) error {
		key := entity.StockKey{SKUID: e.SKUID, WarehouseID: e.WarehouseID}
		bal, ok := folded[key]
		if !ok {
			bal = &entity.StockBalance{SKUID: e.SKUID, WarehouseID: e.WarehouseID}
			folded[key] = bal
		}
		inventory.Fold(bal, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: replay: %w", err)
	}
	return folded, nil
}

// Verify compara cada saldo almacenado con el plegado del libro. Los pares divergentes quedan
// detenidos y se devuelve ErrConsistencyFault junto con el detalle.
func (l *Ledger) Verify(ctx context.Context) ([]Divergence, error) {
	var divergences []Divergence
	err := l.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		folded, err := Replay(ctx, repos.Movements)
		if err != nil {
			return err
		}
		stored, err := repos.Stock.List(ctx, 0)
		if err != nil {
			return fmt.Errorf("ledger: listar saldos: %w", err)
		}
		seen := make(map[entity.StockKey]bool, len(stored))
		for _, s := range stored {
			key := s.Key()
			seen[key] = true
			replayed := decimal.Zero
			if f, ok := folded[key]; ok {
				replayed = f.Quantity
			}
			if !s.Quantity.Equal(replayed) {
				divergences = append(divergences, Divergence{SKUID: key.SKUID, WarehouseID: key.WarehouseID, Stored: s.Quantity, Replayed: replayed})
			}
		}
		for key, f := range folded {
			if !seen[key] && !f.Quantity.IsZero() {
				divergences = append(divergences, Divergence{SKUID: key.SKUID, WarehouseID: key.WarehouseID, Stored: decimal.Zero, Replayed: f.Quantity})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(divergences) == 0 {
		l.log.Info().Msg("verificación del libro sin divergencias")
		return nil, nil
	}
	sort.Slice(divergences, func(i, j int) bool {
		if divergences[i].SKUID != divergences[j].SKUID {
			return divergences[i].SKUID < divergences[j].SKUID
		}
		return divergences[i].WarehouseID < divergences[j].WarehouseID
	})
	now := l.now()
	err = l.tx.Run(ctx, func(repos repository.Repositories) error {
		for _, d := range divergences {
			halt := &entity.Halt{
				Scope:       entity.HaltStock,
				SubjectID:   d.SKUID,
				WarehouseID: d.WarehouseID,
				Reason:      fmt.Sprintf("almacenado %s, libro %s", d.Stored, d.Replayed),
				CreatedAt:   now,
			}
			if err := repos.Halts.Put(ctx, halt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return divergences, fmt.Errorf("ledger: registrar detenciones: %w", err)
	}
	for _, d := range divergences {
		l.log.Error().Int64("sku_id", d.SKUID).Int64("warehouse_id", d.WarehouseID).
			Str("stored", d.Stored.String()).Str("replayed", d.Replayed.String()).Msg("par detenido por inconsistencia")
	}
	return divergences, fmt.Errorf("%w: %d par(es) divergente(s)", domain.ErrConsistencyFault, len(divergences))
}

// Rebuild reemplaza todos los saldos por el replay completo del libro y levanta las
// detenciones de stock, en una sola transacción. Devuelve la cantidad de pares reconstruidos.
func (l *Ledger) Rebuild(ctx context.Context) (int, error) {
	var (
		balances []*entity.StockBalance
		resumed  int
	)
	err := l.tx.Run(ctx, func(repos repository.Repositories) error {
		folded, err := Replay(ctx, repos.Movements)
		if err != nil {
			return err
		}
		balances = make([]*entity.StockBalance, 0, len(folded))
		for _, b := range folded {
			balances = append(balances, b)
		}
		sort.Slice(balances, func(i, j int) bool {
			if balances[i].SKUID != balances[j].SKUID {
				return balances[i].SKUID < balances[j].SKUID
			}
			return balances[i].WarehouseID < balances[j].WarehouseID
		})
		if err := repos.Stock.ReplaceAll(ctx, balances); err != nil {
			return err
		}
		resumed, err = repos.Halts.Clear(ctx, entity.HaltStock)
		return err
	})
	if err != nil {
		return 0, err
	}
	l.log.Info().Int("pairs", len(balances)).Int("resumed", resumed).Msg("saldos reconstruidos desde el libro")
	l.Committed(ctx, nil, balances)
	return len(balances), nil
}

// Latest deduplica saldos por par conservando el último.
func Latest(balances []*entity.StockBalance) []entity.StockBalance {
	idx := make(map[entity.StockKey]int, len(balances))
	out := make([]entity.StockBalance, 0, len(balances))
	for _, b := range balances {
		if b == nil {
			continue
		}
		if i, ok := idx[b.Key()]; ok {
			out[i] = *b
			continue
		}
		idx[b.Key()] = len(out)
		out = append(out, *b)
	}
	return out
}
