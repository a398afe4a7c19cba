// Package document orquesta el ciclo de vida de los documentos de negocio (compra, venta,
// devolución, toma física y traslado) y sus efectos sobre el libro y las cuentas.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/application/inventory"
	"github.com/jhoicas/inventario-erp/internal/application/ports"
	"github.com/jhoicas/inventario-erp/internal/domain"
	lifecycle "github.com/jhoicas/inventario-erp/internal/domain/document"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

// Engine motor de documentos. Cada transición corre dentro de una sola unidad atómica.
type Engine struct {
	tx      ports.TxRunner
	ledger  *inventory.Ledger
	stock   *inventory.StockStore
	metrics ports.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewEngine construye el motor.
func NewEngine(tx ports.TxRunner, ledger *inventory.Ledger, metrics ports.Metrics, log *logger.Logger) *Engine {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Engine{
		tx:      tx,
		ledger:  ledger,
		stock:   ledger.Store(),
		metrics: metrics,
		log:     log.Component("documents"),
		now:     time.Now,
	}
}

// Create valida el cuerpo según el tipo y persiste el borrador.
func (e *Engine) Create(ctx context.Context, docType entity.DocumentType, raw []byte) (*entity.Document, error) {
	doc, fields := Validate(docType, raw)
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}
	now := e.now()
	doc.Status = entity.StatusDraft
	doc.Amount = doc.Total()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	err := e.tx.Run(ctx, func(repos repository.Repositories) error {
		return repos.Documents.Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Int64("document_id", doc.ID).Str("type", string(doc.Type)).Msg("documento creado")
	return doc, nil
}

// Get devuelve el documento con sus líneas.
func (e *Engine) Get(ctx context.Context, id int64) (*entity.Document, error) {
	var doc *entity.Document
	err := e.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		doc, err = repos.Documents.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: documento %d", domain.ErrNotFound, id)
	}
	return doc, nil
}

// Confirm valida referencias y registra la cuenta por cobrar/pagar. No mueve stock.
func (e *Engine) Confirm(ctx context.Context, id int64) (doc *entity.Document, err error) {
	defer func() { e.observe(doc, id, lifecycle.TransitionConfirm, err) }()

	err = e.tx.Run(ctx, func(repos repository.Repositories) error {
		d, err := e.lockForTransition(ctx, repos, id, lifecycle.TransitionConfirm)
		if err != nil {
			return err
		}
		if err := checkReferences(ctx, repos, d); err != nil {
			return err
		}
		now := e.now()
		d.Amount = d.Total()
		if err := e.registerAccount(ctx, repos, d, now); err != nil {
			return err
		}
		d.Status = entity.StatusConfirmed
		d.ConfirmedAt = &now
		d.UpdatedAt = now
		if err := repos.Documents.Update(ctx, d); err != nil {
			return err
		}
		doc = d
		return nil
	})
	return doc, err
}

// Fulfill agrega los movimientos del documento. Las líneas de salida se reservan antes de la
// transacción y se consumen al terminar; si una reserva falla el documento sigue confirmado.
func (e *Engine) Fulfill(ctx context.Context, id int64) (doc *entity.Document, err error) {
	defer func() { e.observe(doc, id, lifecycle.TransitionFulfill, err) }()

	current, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := lifecycle.Next(current.Status, lifecycle.TransitionFulfill); err != nil {
		return nil, err
	}

	var (
		entries  []*entity.MovementEntry
		balances []*entity.StockBalance
	)
	err = e.stock.WithReservations(ctx, outboundReservations(current), func() error {
		return e.tx.Run(ctx, func(repos repository.Repositories) error {
			entries, balances = nil, nil
			d, err := e.lockForTransition(ctx, repos, id, lifecycle.TransitionFulfill)
			if err != nil {
				return err
			}
			p := &plan{ledger: e.ledger, repos: repos, doc: d, txRef: uuid.NewString(), now: e.now()}
			if err := p.lockPairs(ctx); err != nil {
				return err
			}
			if err := p.apply(ctx); err != nil {
				return err
			}
			entries, balances = p.entries, p.balances
			d.Status = entity.StatusFulfilled
			d.FulfilledAt = &p.now
			d.UpdatedAt = p.now
			if err := repos.Documents.Update(ctx, d); err != nil {
				return err
			}
			doc = d
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	e.ledger.Committed(ctx, entries, balances)
	return doc, nil
}

// Cancel anula un borrador o un documento confirmado. Nunca agrega movimientos: solo libera
// la cuenta registrada y revierte las notas crédito de una devolución.
func (e *Engine) Cancel(ctx context.Context, id int64) (doc *entity.Document, err error) {
	defer func() { e.observe(doc, id, lifecycle.TransitionCancel, err) }()

	err = e.tx.Run(ctx, func(repos repository.Repositories) error {
		d, err := e.lockForTransition(ctx, repos, id, lifecycle.TransitionCancel)
		if err != nil {
			return err
		}
		now := e.now()
		if d.Status == entity.StatusConfirmed {
			if err := e.releaseAccount(ctx, repos, d, now); err != nil {
				return err
			}
		}
		d.Status = entity.StatusCancelled
		d.CancelledAt = &now
		d.UpdatedAt = now
		if err := repos.Documents.Update(ctx, d); err != nil {
			return err
		}
		doc = d
		return nil
	})
	return doc, err
}

// lockForTransition bloquea la cabecera y verifica que la transición sea válida desde el
// estado actual (la segunda de dos transiciones concurrentes falla aquí).
func (e *Engine) lockForTransition(ctx context.Context, repos repository.Repositories, id int64, t lifecycle.Transition) (*entity.Document, error) {
	d, err := repos.Documents.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: documento %d", domain.ErrNotFound, id)
	}
	if _, err := lifecycle.Next(d.Status, t); err != nil {
		return nil, err
	}
	return d, nil
}

func (e *Engine) observe(doc *entity.Document, id int64, t lifecycle.Transition, err error) {
	docType := entity.DocumentType("unknown")
	if doc != nil {
		docType = doc.Type
	}
	e.metrics.DocumentTransition(docType, string(t), ports.ResultOf(err))
	if err != nil {
		e.log.Warn().Err(err).Int64("document_id", id).Str("transition", string(t)).Msg("transición rechazada")
		return
	}
	e.log.Info().Int64("document_id", id).Str("type", string(doc.Type)).Str("status", string(doc.Status)).
		Msg("transición aplicada")
}

// checkReferences valida cantidades y existencia de SKU, bodegas y contraparte.
func checkReferences(ctx context.Context, repos repository.Repositories, d *entity.Document) error {
	traits := lifecycle.TraitsOf(d)
	var fields []domain.FieldError

	if len(d.Lines) == 0 {
		fields = append(fields, domain.FieldError{Field: "items", Rule: "min", Message: "el documento no tiene líneas"})
	}
	for i, l := range d.Lines {
		if traits.Direction == lifecycle.Counted {
			if l.Quantity.IsNegative() {
				fields = append(fields, domain.FieldError{Field: fmt.Sprintf("items.%d.counted_quantity", i), Rule: "gte", Message: "la cantidad contada no puede ser negativa"})
			}
		} else if !l.Quantity.IsPositive() {
			fields = append(fields, domain.FieldError{Field: fmt.Sprintf("items.%d.quantity", i), Rule: "gt", Message: "la cantidad debe ser mayor que 0"})
		}
		ok, err := repos.Products.Exists(ctx, l.SKUID)
		if err != nil {
			return err
		}
		if !ok {
			fields = append(fields, domain.FieldError{Field: fmt.Sprintf("items.%d.sku_id", i), Rule: "exists", Message: fmt.Sprintf("sku %d no existe", l.SKUID)})
		}
	}

	ok, err := repos.Warehouses.Exists(ctx, d.WarehouseID)
	if err != nil {
		return err
	}
	if !ok {
		fields = append(fields, domain.FieldError{Field: "warehouse_id", Rule: "exists", Message: fmt.Sprintf("bodega %d no existe", d.WarehouseID)})
	}
	if traits.Direction == lifecycle.Both {
		if d.ToWarehouseID == d.WarehouseID {
			fields = append(fields, domain.FieldError{Field: "to_warehouse_id", Rule: "nefield", Message: "origen y destino deben ser distintos"})
		}
		ok, err := repos.Warehouses.Exists(ctx, d.ToWarehouseID)
		if err != nil {
			return err
		}
		if !ok {
			fields = append(fields, domain.FieldError{Field: "to_warehouse_id", Rule: "exists", Message: fmt.Sprintf("bodega %d no existe", d.ToWarehouseID)})
		}
	}

	if traits.Counterpart != "" {
		cp, err := repos.Counterparties.GetByID(ctx, d.CounterpartyID)
		if err != nil {
			return err
		}
		switch {
		case cp == nil:
			fields = append(fields, domain.FieldError{Field: "counterparty_id", Rule: "exists", Message: fmt.Sprintf("contraparte %d no existe", d.CounterpartyID)})
		case cp.Kind != traits.Counterpart:
			fields = append(fields, domain.FieldError{Field: "counterparty_id", Rule: "kind", Message: fmt.Sprintf("se esperaba un %s", traits.Counterpart)})
		}
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// registerAccount compras y ventas registran una cuenta por el total; las devoluciones
// aplican notas crédito sobre las cuentas abiertas del lado original.
func (e *Engine) registerAccount(ctx context.Context, repos repository.Repositories, d *entity.Document, now time.Time) error {
	traits := lifecycle.TraitsOf(d)
	if traits.Account == 0 || !d.Amount.IsPositive() {
		return nil
	}
	if d.Type == entity.DocumentReturn {
		return e.applyCreditNote(ctx, repos, d, traits.Account, now)
	}
	acc := &entity.Account{
		Type:           traits.Account,
		CounterpartyID: d.CounterpartyID,
		DocumentType:   d.Type,
		DocumentID:     d.ID,
		Amount:         d.Amount,
		Status:         entity.AccountOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repos.Accounts.Create(ctx, acc); err != nil {
		return err
	}
	d.AccountID = acc.ID
	return nil
}

// applyCreditNote reduce primero la cuenta del documento origen (si se indicó) y luego las
// cuentas abiertas más antiguas de la contraparte. El remanente queda como cuenta de
// reembolso en el lado opuesto.
func (e *Engine) applyCreditNote(ctx context.Context, repos repository.Repositories, d *entity.Document, side entity.AccountType, now time.Time) error {
	var ids []int64
	if d.SourceDocumentID != 0 {
		src, err := repos.Documents.GetByID(ctx, d.SourceDocumentID)
		if err != nil {
			return err
		}
		wantType := entity.DocumentSale
		if d.ReturnKind == entity.ReturnPurchase {
			wantType = entity.DocumentPurchase
		}
		if src == nil || src.Type != wantType || src.CounterpartyID != d.CounterpartyID {
			return domain.Invalid("source_document_id", "exists", fmt.Sprintf("el documento origen %d no corresponde a esta devolución", d.SourceDocumentID))
		}
		if src.Status != entity.StatusConfirmed && src.Status != entity.StatusFulfilled {
			return domain.Invalid("source_document_id", "status", fmt.Sprintf("el documento origen %d está %s", d.SourceDocumentID, src.Status))
		}
		if src.AccountID != 0 {
			ids = append(ids, src.AccountID)
		}
	}
	open, err := repos.Accounts.List(ctx, repository.AccountFilter{Type: side, CounterpartyID: d.CounterpartyID, OnlyOpen: true})
	if err != nil {
		return err
	}
	for _, a := range open {
		if len(ids) == 0 || a.ID != ids[0] {
			ids = append(ids, a.ID)
		}
	}

	remaining := d.Amount
	for _, accID := range ids {
		if !remaining.IsPositive() {
			break
		}
		acc, err := repos.Accounts.GetForUpdate(ctx, accID)
		if err != nil {
			return err
		}
		if acc == nil || acc.Type != side {
			continue
		}
		if err := ports.CheckHalts(ctx, repos.Halts, entity.AccountHalt(acc.ID)); err != nil {
			return err
		}
		outstanding := acc.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		amount := decimal.Min(outstanding, remaining)
		acc.Adjusted = acc.Adjusted.Add(amount)
		acc.Refresh(now)
		if err := repos.Accounts.Update(ctx, acc); err != nil {
			return err
		}
		adj := &entity.AccountAdjustment{AccountID: acc.ID, DocumentID: d.ID, Amount: amount, CreatedAt: now}
		if err := repos.Accounts.AddAdjustment(ctx, adj); err != nil {
			return err
		}
		remaining = remaining.Sub(amount)
	}

	if remaining.IsPositive() {
		refund := &entity.Account{
			Type:           side.Opposite(),
			CounterpartyID: d.CounterpartyID,
			DocumentType:   d.Type,
			DocumentID:     d.ID,
			Amount:         remaining,
			Status:         entity.AccountOpen,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Accounts.Create(ctx, refund); err != nil {
			return err
		}
		d.AccountID = refund.ID
	}
	return nil
}

// releaseAccount anula la cuenta registrada al confirmar y revierte las notas crédito.
// Una cuenta con liquidaciones ya aplicadas no se puede anular.
func (e *Engine) releaseAccount(ctx context.Context, repos repository.Repositories, d *entity.Document, now time.Time) error {
	if d.AccountID != 0 {
		acc, err := repos.Accounts.GetForUpdate(ctx, d.AccountID)
		if err != nil {
			return err
		}
		if acc != nil {
			if err := ports.CheckHalts(ctx, repos.Halts, entity.AccountHalt(acc.ID)); err != nil {
				return err
			}
			if !acc.Settled.IsZero() {
				return fmt.Errorf("%w: la cuenta %d ya tiene liquidaciones", domain.ErrConflict, acc.ID)
			}
			acc.Status = entity.AccountVoid
			acc.Refresh(now)
			if err := repos.Accounts.Update(ctx, acc); err != nil {
				return err
			}
		}
	}
	if d.Type != entity.DocumentReturn {
		return nil
	}
	adjustments, err := repos.Accounts.ListAdjustmentsByDocument(ctx, d.ID)
	if err != nil {
		return err
	}
	for _, adj := range adjustments {
		if !adj.Amount.IsPositive() {
			continue
		}
		acc, err := repos.Accounts.GetForUpdate(ctx, adj.AccountID)
		if err != nil {
			return err
		}
		if acc == nil {
			return fmt.Errorf("%w: cuenta %d del ajuste %d", domain.ErrConsistencyFault, adj.AccountID, adj.ID)
		}
		if err := ports.CheckHalts(ctx, repos.Halts, entity.AccountHalt(acc.ID)); err != nil {
			return err
		}
		acc.Adjusted = acc.Adjusted.Sub(adj.Amount)
		acc.Refresh(now)
		if err := repos.Accounts.Update(ctx, acc); err != nil {
			return err
		}
		reverse := &entity.AccountAdjustment{AccountID: acc.ID, DocumentID: d.ID, Amount: adj.Amount.Neg(), CreatedAt: now}
		if err := repos.Accounts.AddAdjustment(ctx, reverse); err != nil {
			return err
		}
	}
	return nil
}
