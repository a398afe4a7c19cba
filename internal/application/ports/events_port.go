package ports

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// StockNotifier recibe los saldos que cambiaron, siempre después del commit.
// Implementaciones: hub websocket, mock en tests.
type StockNotifier interface {
	PublishBalances(ctx context.Context, balances []entity.StockBalance)
}

// Metrics puerto de métricas del núcleo. Los resultados son etiquetas cortas
// ("ok", "validation", "insufficient_stock", "over_settlement", "consistency_fault", "error").
type Metrics interface {
	LedgerAppended(reason entity.MovementReason)
	DocumentTransition(docType entity.DocumentType, transition, result string)
	SettlementApplied(result string)
	ReservationRejected()
}

// NopNotifier descarta las notificaciones.
type NopNotifier struct{}

func (NopNotifier) PublishBalances(context.Context, []entity.StockBalance) {}

// NopMetrics descarta las métricas.
type NopMetrics struct{}

func (NopMetrics) LedgerAppended(entity.MovementReason)                   {}
func (NopMetrics) DocumentTransition(entity.DocumentType, string, string) {}
func (NopMetrics) SettlementApplied(string)                               {}
func (NopMetrics) ReservationRejected()                                   {}

// ResultOf traduce un error del núcleo a la etiqueta de resultado de las métricas.
func ResultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrOverSettlement):
		return "over_settlement"
	case errors.Is(err, domain.ErrConsistencyFault):
		return "consistency_fault"
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}
