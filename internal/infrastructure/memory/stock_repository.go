package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

type movementRepo struct{ a access }

func (r *movementRepo) Append(_ context.Context, e *entity.MovementEntry) error {
	return r.a.write(func(st *state) error {
		e.ID = int64(len(st.movements)) + 1
		cp := *e
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.MovementEntry, error) {
	out := make([]*entity.MovementEntry, 0)
	err := r.a.read(func(st *state) error {
		skipped := 0
		for _, e := range st.movements {
			if f.SKUID != 0 && e.SKUID != f.SKUID {
				continue
			}
			if f.WarehouseID != 0 && e.WarehouseID != f.WarehouseID {
				continue
			}
			if f.DocumentID != 0 && e.SourceDocumentID != f.DocumentID {
				continue
			}
			if skipped < f.Offset {
				skipped++
				continue
			}
			if f.Limit > 0 && len(out) >= f.Limit {
				break
			}
			cp := *e
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) Scan(_ context.Context, fn func(e *entity.MovementEntry) error) error {
	return r.a.read(func(st *state) error {
		for _, e := range st.movements {
			cp := *e
			if err := fn(&cp); err != nil {
				return err
			}
		}
		return nil
	})
}

type stockRepo struct{ a access }

func (r *stockRepo) Get(_ context.Context, skuID, warehouseID int64) (*entity.StockBalance, error) {
	var out *entity.StockBalance
	err := r.a.read(func(st *state) error {
		out = balanceOf(st, skuID, warehouseID)
		return nil
	})
	return out, err
}

// GetForUpdate: la tx en memoria ya es exclusiva.
func (r *stockRepo) GetForUpdate(ctx context.Context, skuID, warehouseID int64) (*entity.StockBalance, error) {
	return r.Get(ctx, skuID, warehouseID)
}

func (r *stockRepo) Upsert(_ context.Context, b *entity.StockBalance) error {
	return r.a.write(func(st *state) error {
		cp := *b
		st.stock[b.Key()] = &cp
		return nil
	})
}

func (r *stockRepo) List(_ context.Context, warehouseID int64) ([]*entity.StockBalance, error) {
	out := make([]*entity.StockBalance, 0)
	err := r.a.read(func(st *state) error {
		for _, b := range st.stock {
			if warehouseID != 0 && b.WarehouseID != warehouseID {
				continue
			}
			cp := *b
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SKUID != out[j].SKUID {
			return out[i].SKUID < out[j].SKUID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, err
}

func (r *stockRepo) ReplaceAll(_ context.Context, balances []*entity.StockBalance) error {
	return r.a.write(func(st *state) error {
		st.stock = make(map[entity.StockKey]*entity.StockBalance, len(balances))
		for _, b := range balances {
			cp := *b
			st.stock[b.Key()] = &cp
		}
		return nil
	})
}

func balanceOf(st *state, skuID, warehouseID int64) *entity.StockBalance {
	if b, ok := st.stock[entity.StockKey{SKUID: skuID, WarehouseID: warehouseID}]; ok {
		cp := *b
		return &cp
	}
	return &entity.StockBalance{SKUID: skuID, WarehouseID: warehouseID}
}
