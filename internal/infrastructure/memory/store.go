// Package memory implementa la persistencia en memoria con el mismo contrato atomic(fn)
// que PostgreSQL: cada Run trabaja sobre una copia del estado y la publica solo si fn
// termina sin error.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

var errReadOnly = errors.New("memory: escritura en vista de solo lectura")

// state tablas en memoria. Los mapas guardan copias propias; nadie fuera del paquete recibe
// estos punteros. Los slices de solo inserción se recortan a su capacidad al clonar para que
// un append en la copia nunca escriba sobre el arreglo compartido.
type state struct {
	products       map[int64]*entity.Product
	warehouses     map[int64]*entity.Warehouse
	counterparties map[int64]*entity.Counterparty
	movements      []*entity.MovementEntry
	stock          map[entity.StockKey]*entity.StockBalance
	documents      map[int64]*entity.Document
	accounts       map[int64]*entity.Account
	adjustments    []*entity.AccountAdjustment
	financials     map[int64]*entity.FinancialRecord
	settlements    []*entity.SettlementEntry
	halts          map[entity.HaltKey]*entity.Halt

	seqProduct, seqWarehouse, seqCounterparty, seqDocument, seqLine int64
	seqAccount, seqAdjustment, seqFinancial, seqSettlement          int64
}

func newState() *state {
	return &state{
		products:       make(map[int64]*entity.Product),
		warehouses:     make(map[int64]*entity.Warehouse),
		counterparties: make(map[int64]*entity.Counterparty),
		stock:          make(map[entity.StockKey]*entity.StockBalance),
		documents:      make(map[int64]*entity.Document),
		accounts:       make(map[int64]*entity.Account),
		financials:     make(map[int64]*entity.FinancialRecord),
		halts:          make(map[entity.HaltKey]*entity.Halt),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copia superficial: los valores se reemplazan (nunca se mutan) al escribir.
func (s *state) clone() *state {
	c := *s
	c.products = cloneMap(s.products)
	c.warehouses = cloneMap(s.warehouses)
	c.counterparties = cloneMap(s.counterparties)
	c.movements = s.movements[:len(s.movements):len(s.movements)]
	c.stock = cloneMap(s.stock)
	c.documents = cloneMap(s.documents)
	c.accounts = cloneMap(s.accounts)
	c.adjustments = s.adjustments[:len(s.adjustments):len(s.adjustments)]
	c.financials = cloneMap(s.financials)
	c.settlements = s.settlements[:len(s.settlements):len(s.settlements)]
	c.halts = cloneMap(s.halts)
	return &c
}

// access abstrae cómo un repositorio llega al estado: dentro de una tx, en una vista de
// solo lectura o directamente sobre el Store con su propio bloqueo.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(st *state) error) error  { return fn(a.st) }
func (a txAccess) write(fn func(st *state) error) error { return fn(a.st) }

type snapshotAccess struct{ st *state }

func (a snapshotAccess) read(fn func(st *state) error) error { return fn(a.st) }
func (a snapshotAccess) write(func(st *state) error) error   { return errReadOnly }

type directAccess struct{ s *Store }

func (a directAccess) read(fn func(st *state) error) error {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return fn(a.s.state)
}

func (a directAccess) write(fn func(st *state) error) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	work := a.s.state.clone()
	if err := fn(work); err != nil {
		return err
	}
	a.s.state = work
	return nil
}

// Store persistencia en memoria. Las transacciones se serializan entre sí; las lecturas
// fuera de transacción ven siempre el último estado confirmado.
type Store struct {
	mu     sync.RWMutex
	state  *state
	txHook func(repository.Repositories) repository.Repositories
}

// New construye un Store vacío.
func New() *Store {
	return &Store{state: newState()}
}

// SetTxHook permite envolver los repositorios de cada transacción (inyección de fallas en tests).
func (s *Store) SetTxHook(hook func(repository.Repositories) repository.Repositories) {
	s.mu.Lock()
	s.txHook = hook
	s.mu.Unlock()
}

// Run ejecuta fn sobre una copia del estado y la publica si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	repos := newRepositories(txAccess{st: work})
	if s.txHook != nil {
		repos = s.txHook(repos)
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Snapshot ejecuta fn sobre el estado confirmado, sin permitir escrituras.
func (s *Store) Snapshot(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(newRepositories(snapshotAccess{st: s.state}))
}

// Repositories devuelve repositorios fuera de transacción (cada llamada es atómica por sí sola).
// No usarlos dentro de fn de Run: el bloqueo no es reentrante.
func (s *Store) Repositories() repository.Repositories {
	return newRepositories(directAccess{s: s})
}

func newRepositories(a access) repository.Repositories {
	return repository.Repositories{
		Products:       &productRepo{a: a},
		Warehouses:     &warehouseRepo{a: a},
		Counterparties: &counterpartyRepo{a: a},
		Movements:      &movementRepo{a: a},
		Stock:          &stockRepo{a: a},
		Documents:      &documentRepo{a: a},
		Accounts:       &accountRepo{a: a},
		Financials:     &financialRepo{a: a},
		Settlements:    &settlementRepo{a: a},
		Halts:          &haltRepo{a: a},
	}
}
