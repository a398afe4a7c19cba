package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/application/ports"
	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
	"github.com/jhoicas/inventario-erp/pkg/keylock"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

// StoreOptions política del almacén de saldos.
type StoreOptions struct {
	AllowNegative  bool          // backorders: no se rechaza por saldo insuficiente
	ReservationTTL time.Duration // vigencia de una reserva no liberada
}

type reservation struct {
	token     string
	key       entity.StockKey
	quantity  decimal.Decimal
	expiresAt time.Time
}

// ReserveRequest cantidad a reservar de un par (SKU, bodega).
type ReserveRequest struct {
	SKUID       int64
	WarehouseID int64
	Quantity    decimal.Decimal
}

// StockStore lectura de saldos y reservas en proceso por par (SKU, bodega).
// Las reservas solo viven en memoria: protegen la ventana reserve-append-release de una
// transición, el saldo persistido sigue siendo el plegado del libro. Las detenciones por
// inconsistencia se leen del repositorio para que apliquen a todos los procesos.
type StockStore struct {
	stock   repository.StockRepository
	halts   repository.HaltRepository
	opts    StoreOptions
	locks   *keylock.Keyed
	metrics ports.Metrics
	log     *logger.Logger
	now     func() time.Time

	mu           sync.Mutex
	reservations map[string]*reservation
	byKey        map[entity.StockKey]map[string]*reservation
}

// NewStockStore construye el almacén sobre los repositorios fuera de transacción.
func NewStockStore(repos repository.Repositories, opts StoreOptions, metrics ports.Metrics, log *logger.Logger) *StockStore {
	if opts.ReservationTTL <= 0 {
		opts.ReservationTTL = 30 * time.Second
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &StockStore{
		stock:        repos.Stock,
		halts:        repos.Halts,
		opts:         opts,
		locks:        keylock.New(),
		metrics:      metrics,
		log:          log.Component("stock"),
		now:          time.Now,
		reservations: make(map[string]*reservation),
		byKey:        make(map[entity.StockKey]map[string]*reservation),
	}
}

// AllowNegative indica si la política admite saldos negativos.
func (s *StockStore) AllowNegative() bool { return s.opts.AllowNegative }

// GetBalance saldo persistido del par (cero si nunca tuvo movimientos).
func (s *StockStore) GetBalance(ctx context.Context, skuID, warehouseID int64) (*entity.StockBalance, error) {
	bal, err := s.stock.Get(ctx, skuID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("stock: leer saldo: %w", err)
	}
	return bal, nil
}

// Available saldo menos reservas vigentes. Espera a que termine la transición en curso
// sobre el par para no contar dos veces una reserva ya consumida.
func (s *StockStore) Available(ctx context.Context, skuID, warehouseID int64) (decimal.Decimal, error) {
	key := entity.StockKey{SKUID: skuID, WarehouseID: warehouseID}
	unlock := s.locks.Lock(lockKey(key))
	defer unlock()
	bal, err := s.GetBalance(ctx, skuID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return bal.Quantity.Sub(s.reserved(key)), nil
}

// Reserve aparta qty del par y devuelve el token de la reserva. Falla con ErrInsufficientStock
// si el disponible no alcanza (salvo backorders) y con ErrConsistencyFault si el par está detenido.
func (s *StockStore) Reserve(ctx context.Context, skuID, warehouseID int64, qty decimal.Decimal) (string, error) {
	if !qty.IsPositive() {
		return "", domain.Invalid("quantity", "gt", "la cantidad a reservar debe ser positiva")
	}
	key := entity.StockKey{SKUID: skuID, WarehouseID: warehouseID}
	unlock := s.locks.Lock(lockKey(key))
	defer unlock()

	if err := CheckHalted(ctx, s.halts, key); err != nil {
		return "", err
	}
	bal, err := s.GetBalance(ctx, skuID, warehouseID)
	if err != nil {
		return "", err
	}
	available := bal.Quantity.Sub(s.reserved(key))
	if !s.opts.AllowNegative && available.LessThan(qty) {
		s.metrics.ReservationRejected()
		s.log.Debug().Int64("sku_id", skuID).Int64("warehouse_id", warehouseID).
			Str("available", available.String()).Str("requested", qty.String()).Msg("reserva rechazada")
		return "", fmt.Errorf("%w: sku %d bodega %d disponible %s solicitado %s",
			domain.ErrInsufficientStock, skuID, warehouseID, available, qty)
	}

	r := &reservation{token: uuid.NewString(), key: key, quantity: qty, expiresAt: s.now().Add(s.opts.ReservationTTL)}
	s.mu.Lock()
	s.reservations[r.token] = r
	if s.byKey[key] == nil {
		s.byKey[key] = make(map[string]*reservation)
	}
	s.byKey[key][r.token] = r
	s.mu.Unlock()
	return r.token, nil
}

// ReserveAll reserva varias líneas en orden. Si una falla, libera las ya tomadas.
func (s *StockStore) ReserveAll(ctx context.Context, reqs []ReserveRequest) ([]string, error) {
	tokens := make([]string, 0, len(reqs))
	for _, r := range reqs {
		token, err := s.Reserve(ctx, r.SKUID, r.WarehouseID, r.Quantity)
		if err != nil {
			s.ReleaseAll(tokens)
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// Release libera una reserva. Un token desconocido o expirado devuelve ErrReservationNotFound.
func (s *StockStore) Release(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[token]
	if !ok {
		return domain.ErrReservationNotFound
	}
	s.drop(r)
	if !r.expiresAt.After(s.now()) {
		return domain.ErrReservationNotFound
	}
	return nil
}

// ReleaseAll libera tokens ignorando los ya expirados.
func (s *StockStore) ReleaseAll(tokens []string) {
	for _, t := range tokens {
		_ = s.Release(t)
	}
}

// WithReservations reserva reqs, ejecuta fn (la transacción que agrega las salidas) y consume
// las reservas mientras mantiene bloqueados los pares. Un Reserve concurrente ve el saldo
// anterior con la reserva o el saldo nuevo sin ella, nunca ambos descuentos.
func (s *StockStore) WithReservations(ctx context.Context, reqs []ReserveRequest, fn func() error) error {
	tokens, err := s.ReserveAll(ctx, reqs)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(reqs))
	for _, r := range reqs {
		keys = append(keys, lockKey(entity.StockKey{SKUID: r.SKUID, WarehouseID: r.WarehouseID}))
	}
	unlock := s.locks.LockAll(keys...)
	defer unlock()
	defer s.ReleaseAll(tokens)
	return fn()
}

// Halted lista los pares detenidos.
func (s *StockStore) Halted(ctx context.Context) ([]entity.StockKey, error) {
	halts, err := s.halts.List(ctx, entity.HaltStock)
	if err != nil {
		return nil, fmt.Errorf("stock: listar detenciones: %w", err)
	}
	out := make([]entity.StockKey, 0, len(halts))
	for _, h := range halts {
		out = append(out, entity.StockKey{SKUID: h.SubjectID, WarehouseID: h.WarehouseID})
	}
	return out, nil
}

// CheckHalted devuelve ErrConsistencyFault si el par está detenido.
func CheckHalted(ctx context.Context, halts repository.HaltRepository, key entity.StockKey) error {
	return ports.CheckHalts(ctx, halts, entity.StockHalt(key))
}

// reserved suma las reservas vigentes del par y descarta las expiradas.
func (s *StockStore) reserved(key entity.StockKey) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	total := decimal.Zero
	for _, r := range s.byKey[key] {
		if !r.expiresAt.After(now) {
			s.drop(r)
			continue
		}
		total = total.Add(r.quantity)
	}
	return total
}

// drop requiere s.mu.
func (s *StockStore) drop(r *reservation) {
	delete(s.reservations, r.token)
	if m := s.byKey[r.key]; m != nil {
		delete(m, r.token)
		if len(m) == 0 {
			delete(s.byKey, r.key)
		}
	}
}

func lockKey(k entity.StockKey) string {
	return fmt.Sprintf("stock:%d:%d", k.SKUID, k.WarehouseID)
}
