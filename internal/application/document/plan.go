package document

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/application/inventory"
	lifecycle "github.com/jhoicas/inventario-erp/internal/domain/document"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

// outboundReservations líneas que retiran stock y deben reservarse antes de la transacción.
// Las tomas físicas no reservan: el ajuste se calcula bajo bloqueo y deja el saldo en lo contado.
func outboundReservations(d *entity.Document) []inventory.ReserveRequest {
	traits := lifecycle.TraitsOf(d)
	if traits.Direction != lifecycle.Outbound && traits.Direction != lifecycle.Both {
		return nil
	}
	reqs := make([]inventory.ReserveRequest, 0, len(d.Lines))
	for _, l := range d.Lines {
		reqs = append(reqs, inventory.ReserveRequest{SKUID: l.SKUID, WarehouseID: d.WarehouseID, Quantity: l.Quantity})
	}
	return reqs
}

// plan agrega los movimientos de un documento dentro de la transacción de fulfill.
type plan struct {
	ledger *inventory.Ledger
	repos  repository.Repositories
	doc    *entity.Document
	txRef  string
	now    time.Time

	entries  []*entity.MovementEntry
	balances []*entity.StockBalance
}

// lockPairs bloquea todos los pares del documento en orden (SKU, bodega) antes del primer
// append. Dos transiciones que tocan los mismos pares toman las filas en el mismo orden.
func (p *plan) lockPairs(ctx context.Context) error {
	traits := lifecycle.TraitsOf(p.doc)
	seen := make(map[entity.StockKey]bool)
	var keys []entity.StockKey
	add := func(sku, wh int64) {
		k := entity.StockKey{SKUID: sku, WarehouseID: wh}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, l := range p.doc.Lines {
		add(l.SKUID, p.doc.WarehouseID)
		if traits.Direction == lifecycle.Both {
			add(l.SKUID, p.doc.ToWarehouseID)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].SKUID != keys[j].SKUID {
			return keys[i].SKUID < keys[j].SKUID
		}
		return keys[i].WarehouseID < keys[j].WarehouseID
	})
	for _, k := range keys {
		if _, err := p.repos.Stock.GetForUpdate(ctx, k.SKUID, k.WarehouseID); err != nil {
			return err
		}
	}
	return nil
}

func (p *plan) apply(ctx context.Context) error {
	traits := lifecycle.TraitsOf(p.doc)
	for _, l := range p.doc.Lines {
		var err error
		switch traits.Direction {
		case lifecycle.Inbound:
			_, err = p.append(ctx, p.doc.WarehouseID, l.SKUID, l.Quantity, inboundCost(p.doc, l), traits.Reason)
		case lifecycle.Outbound:
			_, err = p.append(ctx, p.doc.WarehouseID, l.SKUID, l.Quantity.Neg(), decimal.Zero, traits.Reason)
		case lifecycle.Both:
			err = p.transfer(ctx, l)
		case lifecycle.Counted:
			err = p.count(ctx, l)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// transfer agrega el par salida/entrada con el mismo tx_ref; la entrada hereda el costo de la salida.
func (p *plan) transfer(ctx context.Context, l entity.DocumentLine) error {
	out, err := p.append(ctx, p.doc.WarehouseID, l.SKUID, l.Quantity.Neg(), decimal.Zero, entity.ReasonTransferOut)
	if err != nil {
		return err
	}
	_, err = p.append(ctx, p.doc.ToWarehouseID, l.SKUID, l.Quantity, out.UnitCost, entity.ReasonTransferIn)
	return err
}

// count ajusta el saldo al valor contado. Sin diferencia no hay movimiento.
func (p *plan) count(ctx context.Context, l entity.DocumentLine) error {
	bal, err := p.repos.Stock.GetForUpdate(ctx, l.SKUID, p.doc.WarehouseID)
	if err != nil {
		return err
	}
	delta := l.Quantity.Sub(bal.Quantity)
	if delta.IsZero() {
		return nil
	}
	_, err = p.append(ctx, p.doc.WarehouseID, l.SKUID, delta, bal.AvgCost, entity.ReasonTakeAdjustment)
	return err
}

func (p *plan) append(ctx context.Context, warehouseID, skuID int64, qty, cost decimal.Decimal, reason entity.MovementReason) (*entity.MovementEntry, error) {
	entry := &entity.MovementEntry{
		SKUID:              skuID,
		WarehouseID:        warehouseID,
		Quantity:           qty,
		UnitCost:           cost,
		Reason:             reason,
		SourceDocumentType: p.doc.Type,
		SourceDocumentID:   p.doc.ID,
		TxRef:              p.txRef,
		CreatedAt:          p.now,
	}
	bal, err := p.ledger.Append(ctx, p.repos, entry)
	if err != nil {
		return nil, err
	}
	p.entries = append(p.entries, entry)
	p.balances = append(p.balances, bal)
	return entry, nil
}

// inboundCost compras entran al precio de compra; las devoluciones de venta al costo vigente.
func inboundCost(d *entity.Document, l entity.DocumentLine) decimal.Decimal {
	if d.Type == entity.DocumentPurchase {
		return l.UnitPrice
	}
	return decimal.Zero
}
