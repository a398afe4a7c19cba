package repository

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// HaltRepository puerto de detenciones por inconsistencia.
type HaltRepository interface {
	// Put registra la detención; si ya existe conserva la original.
	Put(ctx context.Context, halt *entity.Halt) error
	// Get devuelve la detención de la clave o nil si no está detenida.
	Get(ctx context.Context, key entity.HaltKey) (*entity.Halt, error)
	// List detenciones de los ámbitos indicados (todos si no se indica ninguno).
	List(ctx context.Context, scopes ...entity.HaltScope) ([]*entity.Halt, error)
	// Clear levanta las detenciones de los ámbitos indicados y devuelve cuántas había.
	Clear(ctx context.Context, scopes ...entity.HaltScope) (int, error)
}
