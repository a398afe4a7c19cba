package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

type haltRepo struct{ a access }

func (r *haltRepo) Put(_ context.Context, h *entity.Halt) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.halts[h.Key()]; ok {
			return nil
		}
		if h.CreatedAt.IsZero() {
			h.CreatedAt = time.Now()
		}
		cp := *h
		st.halts[h.Key()] = &cp
		return nil
	})
}

func (r *haltRepo) Get(_ context.Context, key entity.HaltKey) (*entity.Halt, error) {
	var out *entity.Halt
	err := r.a.read(func(st *state) error {
		if h, ok := st.halts[key]; ok {
			cp := *h
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *haltRepo) List(_ context.Context, scopes ...entity.HaltScope) ([]*entity.Halt, error) {
	out := make([]*entity.Halt, 0)
	err := r.a.read(func(st *state) error {
		for _, h := range st.halts {
			if inScopes(h.Scope, scopes) {
				cp := *h
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Scope != b.Scope {
			return a.Scope < b.Scope
		}
		if a.SubjectID != b.SubjectID {
			return a.SubjectID < b.SubjectID
		}
		return a.WarehouseID < b.WarehouseID
	})
	return out, err
}

func (r *haltRepo) Clear(_ context.Context, scopes ...entity.HaltScope) (int, error) {
	cleared := 0
	err := r.a.write(func(st *state) error {
		for k, h := range st.halts {
			if inScopes(h.Scope, scopes) {
				delete(st.halts, k)
				cleared++
			}
		}
		return nil
	})
	return cleared, err
}

func inScopes(s entity.HaltScope, scopes []entity.HaltScope) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, x := range scopes {
		if x == s {
			return true
		}
	}
	return false
}
