package settlement

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
	"github.com/jhoicas/inventario-erp/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-erp/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	db      *memory.Store
	matcher *Matcher
}

func newFixture() *fixture {
	db := memory.New()
	return &fixture{db: db, matcher: NewMatcher(db, nil, logger.Nop())}
}

func (f *fixture) account(t *testing.T, typ entity.AccountType, amount string) *entity.Account {
	t.Helper()
	acc := &entity.Account{Type: typ, CounterpartyID: 1, DocumentType: entity.DocumentSale, DocumentID: 1,
		Amount: dec(amount), Status: entity.AccountOpen}
	require.NoError(t, f.db.Repositories().Accounts.Create(context.Background(), acc))
	return acc
}

func (f *fixture) financial(t *testing.T, typ entity.AccountType, amount string) *entity.FinancialRecord {
	t.Helper()
	rec := &entity.FinancialRecord{AccountType: typ, Direction: entity.DirectionReceipt, Amount: dec(amount), Status: entity.FinancialOpen}
	require.NoError(t, f.db.Repositories().Financials.Create(context.Background(), rec))
	return rec
}

func (f *fixture) reload(t *testing.T, acc *entity.Account, rec *entity.FinancialRecord) (*entity.Account, *entity.FinancialRecord) {
	t.Helper()
	ctx := context.Background()
	a, err := f.db.Repositories().Accounts.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	r, err := f.db.Repositories().Financials.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	return a, r
}

func request(acc *entity.Account, rec *entity.FinancialRecord, amount string) dto.SettleRequest {
	return dto.SettleRequest{
		AccountType:      int(acc.Type),
		AccountID:        acc.ID,
		FinancialID:      rec.ID,
		SettlementAmount: dec(amount),
		SettlementDate:   "2024-05-01",
		Remark:           "abono",
	}
}

func TestSettle_ClosesAccountThenRejectsRepeat(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acc := f.account(t, entity.AccountReceivable, "32.00")
	rec := f.financial(t, entity.AccountReceivable, "50.00")

	entry, err := f.matcher.Settle(ctx, request(acc, rec, "32.00"))
	require.NoError(t, err)
	assert.True(t, entry.SettlementAmount.Equal(dec("32")))
	assert.Equal(t, "2024-05-01", entry.SettlementDate.Format("2006-01-02"))

	a, r := f.reload(t, acc, rec)
	assert.Equal(t, entity.AccountClosed, a.Status)
	assert.True(t, a.Outstanding().IsZero())
	assert.True(t, r.Unallocated().Equal(dec("18")))
	assert.Equal(t, entity.FinancialOpen, r.Status)

	_, err = f.matcher.Settle(ctx, request(acc, rec, "32.00"))
	require.ErrorIs(t, err, domain.ErrOverSettlement)

	a2, r2 := f.reload(t, acc, rec)
	assert.Equal(t, a, a2)
	assert.Equal(t, r, r2)
	entries, err := f.db.Repositories().Settlements.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	candidates, err := f.matcher.Candidates(ctx, entity.AccountReceivable, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSettle_BoundedByUnallocated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acc := f.account(t, entity.AccountPayable, "100")
	rec := f.financial(t, entity.AccountPayable, "40")

	_, err := f.matcher.Settle(ctx, request(acc, rec, "40.01"))
	require.ErrorIs(t, err, domain.ErrOverSettlement)

	_, err = f.matcher.Settle(ctx, request(acc, rec, "40"))
	require.NoError(t, err)
	a, r := f.reload(t, acc, rec)
	assert.Equal(t, entity.FinancialClosed, r.Status)
	assert.Equal(t, entity.AccountOpen, a.Status)
	assert.True(t, a.Outstanding().Equal(dec("60")))
}

func TestSettle_StructuralValidation(t *testing.T) {
	f := newFixture()
	_, err := f.matcher.Settle(context.Background(), dto.SettleRequest{
		AccountType:      3,
		AccountID:        0,
		FinancialID:      -1,
		SettlementAmount: dec("0"),
		SettlementDate:   "01/05/2024",
		Remark:           strings.Repeat("x", 501),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := map[string]bool{}
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	for _, name := range []string{"account_type", "account_id", "financial_id", "settlement_amount", "settlement_date", "remark"} {
		assert.True(t, fields[name], name)
	}
}

func TestSettle_SemanticValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acc := f.account(t, entity.AccountReceivable, "10")
	rec := f.financial(t, entity.AccountPayable, "10")

	_, err := f.matcher.Settle(ctx, request(acc, rec, "5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req := request(acc, rec, "5")
	req.AccountType = int(entity.AccountPayable)
	_, err = f.matcher.Settle(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = request(acc, rec, "5")
	req.AccountID = 999
	_, err = f.matcher.Settle(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettle_ConcurrentCallsNeverOverAllocate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acc := f.account(t, entity.AccountReceivable, "100")
	rec := f.financial(t, entity.AccountReceivable, "70")
	other := f.account(t, entity.AccountReceivable, "100")

	var ok, over int32
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		target := acc
		if i%2 == 1 {
			target = other
		}
		g.Go(func() error {
			_, err := f.matcher.Settle(ctx, request(target, rec, "10"))
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrOverSettlement):
				atomic.AddInt32(&over, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(7), ok)
	assert.Equal(t, int32(13), over)

	_, r := f.reload(t, acc, rec)
	assert.True(t, r.Allocated.Equal(dec("70")))
	mismatches, err := f.matcher.Verify(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestSettle_VerifyHaltsUntilReconcile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acc := f.account(t, entity.AccountReceivable, "50")
	rec := f.financial(t, entity.AccountReceivable, "50")
	_, err := f.matcher.Settle(ctx, request(acc, rec, "20"))
	require.NoError(t, err)

	tampered, _ := f.reload(t, acc, rec)
	tampered.Settled = dec("25")
	require.NoError(t, f.db.Repositories().Accounts.Update(ctx, tampered))

	mismatches, err := f.matcher.Verify(ctx)
	require.ErrorIs(t, err, domain.ErrConsistencyFault)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "account", mismatches[0].Kind)
	assert.True(t, mismatches[0].Computed.Equal(dec("20")))

	_, err = f.matcher.Settle(ctx, request(acc, rec, "1"))
	require.ErrorIs(t, err, domain.ErrConsistencyFault)

	fixed, err := f.matcher.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	_, err = f.matcher.Settle(ctx, request(acc, rec, "30"))
	require.NoError(t, err)
	a, r := f.reload(t, acc, rec)
	assert.Equal(t, entity.AccountClosed, a.Status)
	assert.Equal(t, entity.FinancialClosed, r.Status)
}

func TestSettle_HaltIsVisibleToOtherMatchers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	acc := f.account(t, entity.AccountReceivable, "50")
	rec := f.financial(t, entity.AccountReceivable, "50")
	_, err := f.matcher.Settle(ctx, request(acc, rec, "20"))
	require.NoError(t, err)

	tampered, _ := f.reload(t, acc, rec)
	tampered.Settled = dec("25")
	require.NoError(t, f.db.Repositories().Accounts.Update(ctx, tampered))

	// el operador corre en otro proceso con su propio matcher sobre la misma base
	operator := NewMatcher(f.db, nil, logger.Nop())
	_, err = operator.Verify(ctx)
	require.ErrorIs(t, err, domain.ErrConsistencyFault)

	_, err = f.matcher.Settle(ctx, request(acc, rec, "1"))
	require.ErrorIs(t, err, domain.ErrConsistencyFault)
	halts, err := f.db.Repositories().Halts.List(ctx, entity.HaltAccount)
	require.NoError(t, err)
	require.Len(t, halts, 1)
	assert.Equal(t, acc.ID, halts[0].SubjectID)

	_, err = operator.Reconcile(ctx)
	require.NoError(t, err)
	_, err = f.matcher.Settle(ctx, request(acc, rec, "1"))
	require.NoError(t, err)
}

// faultyFinancials falla la actualización del registro después de que la cuenta ya se actualizó.
type faultyFinancials struct {
	repository.FinancialRecordRepository
}

func (faultyFinancials) Update(context.Context, *entity.FinancialRecord) error { return errDiskFull }

// faultySettlements falla al persistir la entrada de liquidación.
type faultySettlements struct {
	repository.SettlementRepository
}

func (faultySettlements) Create(context.Context, *entity.SettlementEntry) error { return errDiskFull }

var errDiskFull = errors.New("disco lleno")

func TestSettle_FaultMidTransitionLeavesNoPartialDecrement(t *testing.T) {
	hooks := map[string]func(repository.Repositories) repository.Repositories{
		"falla al actualizar el registro": func(r repository.Repositories) repository.Repositories {
			r.Financials = faultyFinancials{r.Financials}
			return r
		},
		"falla al guardar la entrada": func(r repository.Repositories) repository.Repositories {
			r.Settlements = faultySettlements{r.Settlements}
			return r
		},
	}
	for name, hook := range hooks {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			acc := f.account(t, entity.AccountPayable, "40")
			rec := f.financial(t, entity.AccountPayable, "40")

			f.db.SetTxHook(hook)
			_, err := f.matcher.Settle(ctx, request(acc, rec, "15"))
			require.ErrorIs(t, err, errDiskFull)
			f.db.SetTxHook(nil)

			a, r := f.reload(t, acc, rec)
			assert.True(t, a.Settled.IsZero(), a.Settled.String())
			assert.True(t, r.Allocated.IsZero(), r.Allocated.String())
			entries, err := f.db.Repositories().Settlements.ListByAccount(ctx, acc.ID)
			require.NoError(t, err)
			assert.Empty(t, entries)

			mismatches, err := f.matcher.Verify(ctx)
			require.NoError(t, err)
			assert.Empty(t, mismatches)

			_, err = f.matcher.Settle(ctx, request(acc, rec, "15"))
			require.NoError(t, err)
		})
	}
}

func TestCandidates_RejectsUnknownType(t *testing.T) {
	f := newFixture()
	_, err := f.matcher.Candidates(context.Background(), 7, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
