package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
)

type accountRepo struct{ a access }

func (r *accountRepo) Create(_ context.Context, acc *entity.Account) error {
	return r.a.write(func(st *state) error {
		st.seqAccount++
		acc.ID = st.seqAccount
		if acc.CreatedAt.IsZero() {
			acc.CreatedAt = time.Now()
		}
		if acc.UpdatedAt.IsZero() {
			acc.UpdatedAt = acc.CreatedAt
		}
		cp := *acc
		st.accounts[acc.ID] = &cp
		return nil
	})
}

func (r *accountRepo) GetByID(_ context.Context, id int64) (*entity.Account, error) {
	var out *entity.Account
	err := r.a.read(func(st *state) error {
		if acc, ok := st.accounts[id]; ok {
			cp := *acc
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *accountRepo) Update(_ context.Context, acc *entity.Account) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.accounts[acc.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *acc
		st.accounts[acc.ID] = &cp
		return nil
	})
}

func (r *accountRepo) List(_ context.Context, f repository.AccountFilter) ([]*entity.Account, error) {
	out := make([]*entity.Account, 0)
	err := r.a.read(func(st *state) error {
		for _, acc := range st.accounts {
			if f.Type != 0 && acc.Type != f.Type {
				continue
			}
			if f.CounterpartyID != 0 && acc.CounterpartyID != f.CounterpartyID {
				continue
			}
			if f.OnlyOpen && acc.Status != entity.AccountOpen {
				continue
			}
			cp := *acc
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *accountRepo) AddAdjustment(_ context.Context, adj *entity.AccountAdjustment) error {
	return r.a.write(func(st *state) error {
		st.seqAdjustment++
		adj.ID = st.seqAdjustment
		if adj.CreatedAt.IsZero() {
			adj.CreatedAt = time.Now()
		}
		cp := *adj
		st.adjustments = append(st.adjustments, &cp)
		return nil
	})
}

func (r *accountRepo) ListAdjustmentsByDocument(_ context.Context, documentID int64) ([]*entity.AccountAdjustment, error) {
	out := make([]*entity.AccountAdjustment, 0)
	err := r.a.read(func(st *state) error {
		for _, adj := range st.adjustments {
			if adj.DocumentID == documentID {
				cp := *adj
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

type financialRepo struct{ a access }

func (r *financialRepo) Create(_ context.Context, f *entity.FinancialRecord) error {
	return r.a.write(func(st *state) error {
		st.seqFinancial++
		f.ID = st.seqFinancial
		if f.CreatedAt.IsZero() {
			f.CreatedAt = time.Now()
		}
		if f.UpdatedAt.IsZero() {
			f.UpdatedAt = f.CreatedAt
		}
		cp := *f
		st.financials[f.ID] = &cp
		return nil
	})
}

func (r *financialRepo) GetByID(_ context.Context, id int64) (*entity.FinancialRecord, error) {
	var out *entity.FinancialRecord
	err := r.a.read(func(st *state) error {
		if f, ok := st.financials[id]; ok {
			cp := *f
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *financialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.FinancialRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *financialRepo) Update(_ context.Context, f *entity.FinancialRecord) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.financials[f.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *f
		st.financials[f.ID] = &cp
		return nil
	})
}

func (r *financialRepo) List(_ context.Context) ([]*entity.FinancialRecord, error) {
	out := make([]*entity.FinancialRecord, 0)
	err := r.a.read(func(st *state) error {
		for _, f := range st.financials {
			cp := *f
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

type settlementRepo struct{ a access }

func (r *settlementRepo) Create(_ context.Context, e *entity.SettlementEntry) error {
	return r.a.write(func(st *state) error {
		st.seqSettlement++
		e.ID = st.seqSettlement
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		cp := *e
		st.settlements = append(st.settlements, &cp)
		return nil
	})
}

func (r *settlementRepo) ListByAccount(_ context.Context, accountID int64) ([]*entity.SettlementEntry, error) {
	return r.filter(func(e *entity.SettlementEntry) bool { return e.AccountID == accountID })
}

func (r *settlementRepo) ListByFinancial(_ context.Context, financialID int64) ([]*entity.SettlementEntry, error) {
	return r.filter(func(e *entity.SettlementEntry) bool { return e.FinancialID == financialID })
}

func (r *settlementRepo) filter(keep func(e *entity.SettlementEntry) bool) ([]*entity.SettlementEntry, error) {
	out := make([]*entity.SettlementEntry, 0)
	err := r.a.read(func(st *state) error {
		for _, e := range st.settlements {
			if keep(e) {
				cp := *e
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}
