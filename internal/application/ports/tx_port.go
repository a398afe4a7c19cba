package ports

import (
	"context"

	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

// TxRunner es el contrato atomic(fn): ejecuta fn con repositorios atados a una unidad de trabajo
// y confirma todo o nada. Si fn retorna error (o falla el commit) ningún cambio queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
	// Snapshot ejecuta fn de solo lectura sobre una vista consistente (verificación y replay).
	Snapshot(ctx context.Context, fn func(repos repository.Repositories) error) error
}
