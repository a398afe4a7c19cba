package entity

import "time"

// Warehouse representa una bodega física o lógica donde se almacena inventario.
type Warehouse struct {
	ID        int64
	Name      string
	Address   string
	CreatedAt time.Time
}
