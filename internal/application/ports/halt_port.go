package ports

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

// CheckHalts devuelve ErrConsistencyFault si alguna de las claves está detenida. Dentro de
// una transición se llama con el repositorio de la tx para ver detenciones de otros procesos.
func CheckHalts(ctx context.Context, halts repository.HaltRepository, keys ...entity.HaltKey) error {
	for _, k := range keys {
		h, err := halts.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("leer detención %s: %w", k, err)
		}
		if h != nil {
			return fmt.Errorf("%w: %s detenido (%s)", domain.ErrConsistencyFault, k, h.Reason)
		}
	}
	return nil
}
