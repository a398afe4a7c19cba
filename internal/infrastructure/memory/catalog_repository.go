package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

type productRepo struct{ a access }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.write(func(st *state) error {
		for _, existing := range st.products {
			if existing.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
		st.seqProduct++
		p.ID = st.seqProduct
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		cp := *p
		st.products[p.ID] = &cp
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Exists(_ context.Context, id int64) (bool, error) {
	var ok bool
	err := r.a.read(func(st *state) error {
		_, ok = st.products[id]
		return nil
	})
	return ok, err
}

func (r *productRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.read(func(st *state) error {
		out = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

type warehouseRepo struct{ a access }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.a.write(func(st *state) error {
		st.seqWarehouse++
		w.ID = st.seqWarehouse
		if w.CreatedAt.IsZero() {
			w.CreatedAt = time.Now()
		}
		cp := *w
		st.warehouses[w.ID] = &cp
		return nil
	})
}

func (r *warehouseRepo) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.a.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			cp := *w
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *warehouseRepo) Exists(_ context.Context, id int64) (bool, error) {
	var ok bool
	err := r.a.read(func(st *state) error {
		_, ok = st.warehouses[id]
		return nil
	})
	return ok, err
}

type counterpartyRepo struct{ a access }

func (r *counterpartyRepo) Create(_ context.Context, c *entity.Counterparty) error {
	return r.a.write(func(st *state) error {
		st.seqCounterparty++
		c.ID = st.seqCounterparty
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		cp := *c
		st.counterparties[c.ID] = &cp
		return nil
	})
}

func (r *counterpartyRepo) GetByID(_ context.Context, id int64) (*entity.Counterparty, error) {
	var out *entity.Counterparty
	err := r.a.read(func(st *state) error {
		if c, ok := st.counterparties[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *counterpartyRepo) Exists(_ context.Context, id int64) (bool, error) {
	var ok bool
	err := r.a.read(func(st *state) error {
		_, ok = st.counterparties[id]
		return nil
	})
	return ok, err
}
