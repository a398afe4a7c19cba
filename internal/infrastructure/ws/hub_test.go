package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

func TestEncodeBalances(t *testing.T) {
	raw, err := EncodeBalances([]entity.StockBalance{{SKUID: 1, WarehouseID: 2, Quantity: decimal.NewFromInt(6)}})
	require.NoError(t, err)

	var msg struct {
		Type string `json:"type"`
		Data []struct {
			SKUID       int64  `json:"sku_id"`
			WarehouseID int64  `json:"warehouse_id"`
			Quantity    string `json:"quantity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "stock_update", msg.Type)
	require.Len(t, msg.Data, 1)
	assert.Equal(t, int64(2), msg.Data[0].WarehouseID)
	assert.Equal(t, "6", msg.Data[0].Quantity)
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	h := NewHub(logger.Nop())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			h.PublishBalances(context.Background(), []entity.StockBalance{{SKUID: 1, WarehouseID: 1}})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("PublishBalances bloqueó sin Run activo")
	}
}

func TestHub_RunStopsWithContext(t *testing.T) {
	h := NewHub(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	h.PublishBalances(ctx, nil)
	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó")
	}
	assert.Equal(t, 0, h.Clients())
}
