package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// DocumentRepository puerto de documentos (cabecera + líneas).
type DocumentRepository interface {
	// Create persiste cabecera y líneas; asigna IDs.
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id int64) (*entity.Document, error)
	// GetForUpdate bloquea la cabecera para una transición.
	GetForUpdate(ctx context.Context, id int64) (*entity.Document, error)
	// Update persiste los campos de cabecera (estado, cuenta, monto, fechas). Las líneas no cambian.
	Update(ctx context.Context, doc *entity.Document) error
}
