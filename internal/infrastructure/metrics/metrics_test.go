package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-erp/internal/application/ports"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

var _ ports.Metrics = (*Metrics)(nil)

func TestMetrics_Counters(t *testing.T) {
	m := New("test")

	m.LedgerAppended(entity.ReasonSaleShipment)
	m.LedgerAppended(entity.ReasonSaleShipment)
	m.DocumentTransition(entity.DocumentSale, "fulfill", "insufficient_stock")
	m.SettlementApplied("ok")
	m.ReservationRejected()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerEntries.WithLabelValues("sale-shipment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentTransitions.WithLabelValues("sale", "fulfill", "insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Settlements.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsRejected))
}
