package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// CreateProductRequest entrada para crear un SKU.
type CreateProductRequest struct {
	ProductID    int64           `json:"product_id" validate:"gte=0"`
	Code         string          `json:"code" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Price        decimal.Decimal `json:"price" validate:"decimal_gte=0"`
	ReorderPoint decimal.Decimal `json:"reorder_point" validate:"decimal_gte=0"`
}

// ProductResponse salida de un SKU.
type ProductResponse struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=300"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCounterpartyRequest body para POST /api/counterparties.
type CreateCounterpartyRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=customer supplier"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"tax_id" validate:"max=50"`
}

// CounterpartyResponse cliente o proveedor en respuestas.
type CounterpartyResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProductResponse mapea un SKU.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{ID: p.ID, ProductID: p.ProductID, Code: p.Code, Name: p.Name, Price: p.Price, ReorderPoint: p.ReorderPoint, CreatedAt: p.CreatedAt}
}

// ToWarehouseResponse mapea una bodega.
func ToWarehouseResponse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address, CreatedAt: w.CreatedAt}
}

// ToCounterpartyResponse mapea una contraparte.
func ToCounterpartyResponse(c *entity.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{ID: c.ID, Kind: c.Kind, Name: c.Name, TaxID: c.TaxID, CreatedAt: c.CreatedAt}
}
