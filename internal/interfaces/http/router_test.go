package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-erp/internal/application/document"
	"github.com/jhoicas/inventario-erp/internal/application/inventory"
	"github.com/jhoicas/inventario-erp/internal/application/settlement"
	"github.com/jhoicas/inventario-erp/internal/application/usecase"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/inventario-erp/internal/interfaces/http"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

// buildTestApp arma la API completa sobre el store en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	db := memory.New()
	m := metrics.New("inventario")
	log := logger.Nop()
	stock := inventory.NewStockStore(db.Repositories(), inventory.StoreOptions{}, m, log)
	ledger := inventory.NewLedger(db, stock, nil, m, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName:    "test",
		Documents:      document.NewEngine(db, ledger, m, log),
		Ledger:         ledger,
		Replenishment:  inventory.NewReplenishmentUseCase(db),
		Matcher:        settlement.NewMatcher(db, m, log),
		ProductUC:      usecase.NewProductUseCase(db),
		WarehouseUC:    usecase.NewWarehouseUseCase(db),
		CounterpartyUC: usecase.NewCounterpartyUseCase(db),
		Metrics:        m,
	})
	return app, db
}

// call lanza una petición y decodifica el cuerpo JSON en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type idResp struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type errResp struct {
	Code   string `json:"code"`
	Fields []struct {
		Field string `json:"field"`
		Rule  string `json:"rule"`
	} `json:"fields"`
}

// seedCatalog crea SKU, bodega, proveedor y cliente; devuelve sus IDs.
func seedCatalog(t *testing.T, app *fiber.App) (sku, wh, supplier, customer int64) {
	t.Helper()
	var r idResp
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products",
		map[string]interface{}{"code": "T-1", "name": "Tornillo", "price": "8", "reorder_point": "20"}, &r))
	sku = r.ID
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/warehouses",
		map[string]interface{}{"name": "Principal"}, &r))
	wh = r.ID
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/counterparties",
		map[string]interface{}{"kind": "supplier", "name": "Proveedor"}, &r))
	supplier = r.ID
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/counterparties",
		map[string]interface{}{"kind": "customer", "name": "Cliente"}, &r))
	customer = r.ID
	return
}

func TestAPI_PurchaseFulfilmentAndStockReads(t *testing.T) {
	app, _ := buildTestApp(t)
	sku, wh, supplier, customer := seedCatalog(t, app)

	var doc idResp
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/documents/purchase", map[string]interface{}{
		"supplier_id": supplier, "warehouse_id": wh,
		"items": []map[string]interface{}{{"sku_id": sku, "quantity": "10", "unit_price": "5"}},
	}, &doc))
	assert.Equal(t, "draft", doc.Status)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/documents/"+itoa(doc.ID)+"/confirm", nil, &doc))
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/documents/"+itoa(doc.ID)+"/fulfill", nil, &doc))
	assert.Equal(t, "fulfilled", doc.Status)

	var bal struct {
		Quantity  decimal.Decimal `json:"quantity"`
		Available decimal.Decimal `json:"available"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet,
		"/api/stock/balance?sku_id="+itoa(sku)+"&warehouse_id="+itoa(wh), nil, &bal))
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, bal.Available.Equal(decimal.NewFromInt(10)))

	var warnings struct {
		Total int `json:"total"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock/warnings", nil, &warnings))
	assert.Equal(t, 1, warnings.Total)

	var movements struct {
		Items []struct {
			Reason string `json:"reason"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/ledger/movements?sku_id="+itoa(sku), nil, &movements))
	require.Len(t, movements.Items, 1)
	assert.Equal(t, "purchase-receipt", movements.Items[0].Reason)

	// Venta mayor al saldo: queda confirmada y responde 409.
	var sale idResp
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/documents/sale", map[string]interface{}{
		"customer_id": customer, "warehouse_id": wh,
		"items": []map[string]interface{}{{"sku_id": sku, "quantity": "20", "unit_price": "8"}},
	}, &sale))
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/documents/"+itoa(sale.ID)+"/confirm", nil, nil))
	var e errResp
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/documents/"+itoa(sale.ID)+"/fulfill", nil, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/documents/"+itoa(sale.ID), nil, &sale))
	assert.Equal(t, "confirmed", sale.Status)

	// Transición inválida.
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/documents/"+itoa(doc.ID)+"/cancel", nil, &e))
	assert.Equal(t, "INVALID_TRANSITION", e.Code)
}

func TestAPI_ValidationErrorsCarryFieldPaths(t *testing.T) {
	app, _ := buildTestApp(t)

	var e errResp
	status := call(t, app, http.MethodPost, "/api/documents/return", map[string]interface{}{
		"type": 0, "counterparty_id": 1, "warehouse_id": 1,
		"items": []map[string]interface{}{
			{"sku_id": 1, "return_quantity": "1", "price": "2"},
			{"sku_id": 1, "return_quantity": "0", "price": "2"},
		},
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", e.Code)
	require.NotEmpty(t, e.Fields)
	assert.Equal(t, "items.1.return_quantity", e.Fields[0].Field)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/documents/invoice", map[string]interface{}{}, &e))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/documents/abc", nil, &e))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/documents/999", nil, &e))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/stock/balance?sku_id=0", nil, &e))
}

func TestAPI_SettlementFlow(t *testing.T) {
	app, db := buildTestApp(t)
	_, wh, supplier, _ := seedCatalog(t, app)
	_ = wh

	ctx := context.Background()
	acc := &entity.Account{Type: entity.AccountPayable, CounterpartyID: supplier, DocumentType: entity.DocumentPurchase,
		DocumentID: 1, Amount: decimal.NewFromInt(50), Status: entity.AccountOpen}
	require.NoError(t, db.Repositories().Accounts.Create(ctx, acc))
	rec := &entity.FinancialRecord{AccountType: entity.AccountPayable, Direction: entity.DirectionPayment,
		Amount: decimal.NewFromInt(80), Status: entity.FinancialOpen}
	require.NoError(t, db.Repositories().Financials.Create(ctx, rec))

	var candidates []idResp
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/settlements/candidates?account_type=2", nil, &candidates))
	require.Len(t, candidates, 1)

	body := map[string]interface{}{
		"account_type": 2, "account_id": acc.ID, "financial_id": rec.ID,
		"settlement_amount": "50", "settlement_date": "2024-05-01",
	}
	var entry idResp
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/settlements", body, &entry))
	assert.NotZero(t, entry.ID)

	var e errResp
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/settlements", body, &e))
	assert.Equal(t, "OVER_SETTLEMENT", e.Code)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/settlements/candidates?account_type=2", nil, &candidates))
	assert.Empty(t, candidates)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/settlements/candidates?account_type=3", nil, &e))
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	app, _ := buildTestApp(t)

	var health map[string]string
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "ok", health["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "inventario_http_requests_total")
}

func itoa(id int64) string {
	return decimal.NewFromInt(id).String()
}
