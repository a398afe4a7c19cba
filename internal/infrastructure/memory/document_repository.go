package memory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

type documentRepo struct{ a access }

func copyDocument(d *entity.Document) *entity.Document {
	cp := *d
	cp.Lines = append([]entity.DocumentLine(nil), d.Lines...)
	return &cp
}

func (r *documentRepo) Create(_ context.Context, d *entity.Document) error {
	return r.a.write(func(st *state) error {
		st.seqDocument++
		d.ID = st.seqDocument
		now := time.Now()
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
		d.UpdatedAt = d.CreatedAt
		for i := range d.Lines {
			st.seqLine++
			d.Lines[i].ID = st.seqLine
			d.Lines[i].DocumentID = d.ID
			d.Lines[i].LineNo = i + 1
		}
		st.documents[d.ID] = copyDocument(d)
		return nil
	})
}

func (r *documentRepo) GetByID(_ context.Context, id int64) (*entity.Document, error) {
	var out *entity.Document
	err := r.a.read(func(st *state) error {
		if d, ok := st.documents[id]; ok {
			out = copyDocument(d)
		}
		return nil
	})
	return out, err
}

func (r *documentRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *documentRepo) Update(_ context.Context, d *entity.Document) error {
	return r.a.write(func(st *state) error {
		current, ok := st.documents[d.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := copyDocument(d)
		next.Lines = current.Lines
		st.documents[d.ID] = next
		return nil
	})
}
