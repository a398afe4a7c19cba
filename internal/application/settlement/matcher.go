// Package settlement asigna montos de recibos/pagos contra cuentas por cobrar/pagar.
package settlement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/application/dto"
	"github.com/jhoicas/inventario-erp/internal/application/ports"
	"github.com/jhoicas/inventario-erp/internal/domain"
	"github.com/jhoicas/inventario-erp/internal/domain/entity"
	"github.com/jhoicas/inventario-erp/internal/domain/repository"
	"github.com/jhoicas/inventario-erp/pkg/keylock"
	"github.com/jhoicas/inventario-erp/pkg/logger"
	"github.com/jhoicas/inventario-erp/pkg/validator"
)

const dateLayout = "2006-01-02"

// Matcher aplica liquidaciones. Serializa por cuenta y por registro financiero; llamadas
// sobre pares distintos avanzan en paralelo.
type Matcher struct {
	tx      ports.TxRunner
	locks   *keylock.Keyed
	metrics ports.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewMatcher construye el matcher.
func NewMatcher(tx ports.TxRunner, metrics ports.Metrics, log *logger.Logger) *Matcher {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Matcher{
		tx:      tx,
		locks:   keylock.New(),
		metrics: metrics,
		log:     log.Component("settlement"),
		now:     time.Now,
	}
}

// Settle valida la solicitud (estructura y luego saldos) y aplica la liquidación: descuenta
// el pendiente de la cuenta y el remanente del registro y persiste la entrada, todo o nada.
func (m *Matcher) Settle(ctx context.Context, req dto.SettleRequest) (entry *entity.SettlementEntry, err error) {
	defer func() { m.metrics.SettlementApplied(ports.ResultOf(err)) }()

	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, req.SettlementDate)
	if err != nil {
		return nil, domain.Invalid("settlement_date", "datetime", "fecha inválida")
	}
	accountType := entity.AccountType(req.AccountType)

	accKey, finKey := accountKey(req.AccountID), financialKey(req.FinancialID)
	unlock := m.locks.LockAll(accKey, finKey)
	defer unlock()

	err = m.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := ports.CheckHalts(ctx, repos.Halts, entity.AccountHalt(req.AccountID), entity.FinancialHalt(req.FinancialID)); err != nil {
			return err
		}
		acc, err := repos.Accounts.GetForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.Invalid("account_id", "exists", fmt.Sprintf("cuenta %d no existe", req.AccountID))
		}
		fin, err := repos.Financials.GetForUpdate(ctx, req.FinancialID)
		if err != nil {
			return err
		}
		if fin == nil {
			return domain.Invalid("financial_id", "exists", fmt.Sprintf("registro financiero %d no existe", req.FinancialID))
		}
		if acc.Type != accountType {
			return domain.Invalid("account_type", "match", fmt.Sprintf("la cuenta %d es %s", acc.ID, acc.Type))
		}
		if fin.AccountType != accountType {
			return domain.Invalid("financial_id", "match", fmt.Sprintf("el registro %d no corresponde a %s", fin.ID, accountType))
		}

		limit := decimal.Min(acc.Outstanding(), fin.Unallocated())
		if req.SettlementAmount.GreaterThan(limit) {
			return fmt.Errorf("%w: monto %s, pendiente %s, sin asignar %s",
				domain.ErrOverSettlement, req.SettlementAmount, acc.Outstanding(), fin.Unallocated())
		}

		now := m.now()
		acc.Settled = acc.Settled.Add(req.SettlementAmount)
		acc.Refresh(now)
		fin.Allocated = fin.Allocated.Add(req.SettlementAmount)
		fin.Refresh(now)
		if err := repos.Accounts.Update(ctx, acc); err != nil {
			return err
		}
		if err := repos.Financials.Update(ctx, fin); err != nil {
			return err
		}
		e := &entity.SettlementEntry{
			AccountType:      accountType,
			AccountID:        acc.ID,
			FinancialID:      fin.ID,
			SettlementAmount: req.SettlementAmount,
			SettlementDate:   date,
			Remark:           req.Remark,
			CreatedAt:        now,
		}
		if err := repos.Settlements.Create(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		m.log.Warn().Err(err).Int64("account_id", req.AccountID).Int64("financial_id", req.FinancialID).Msg("liquidación rechazada")
		return nil, err
	}
	m.log.Info().Int64("settlement_id", entry.ID).Int64("account_id", entry.AccountID).
		Int64("financial_id", entry.FinancialID).Str("amount", entry.SettlementAmount.String()).Msg("liquidación aplicada")
	return entry, nil
}

// Candidates cuentas abiertas del tipo indicado (las cerradas no se listan).
func (m *Matcher) Candidates(ctx context.Context, accountType entity.AccountType, counterpartyID int64) ([]*entity.Account, error) {
	if !accountType.Valid() {
		return nil, domain.Invalid("account_type", "oneof", "debe ser 1 (por cobrar) o 2 (por pagar)")
	}
	var out []*entity.Account
	err := m.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		out, err = repos.Accounts.List(ctx, repository.AccountFilter{Type: accountType, CounterpartyID: counterpartyID, OnlyOpen: true})
		return err
	})
	return out, err
}

// Mismatch cuenta o registro cuyo acumulado no coincide con la suma de sus liquidaciones.
type Mismatch struct {
	Kind     string          `json:"kind"` // account | financial
	ID       int64           `json:"id"`
	Stored   decimal.Decimal `json:"stored"`
	Computed decimal.Decimal `json:"computed"`
}

// Verify compara account.settled y record.allocated con las entradas de liquidación.
// Los divergentes quedan detenidos (persistido, visible para todos los procesos) hasta Reconcile.
func (m *Matcher) Verify(ctx context.Context) ([]Mismatch, error) {
	var mismatches []Mismatch
	err := m.tx.Snapshot(ctx, func(repos repository.Repositories) error {
		var err error
		mismatches, err = collectMismatches(ctx, repos)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(mismatches) == 0 {
		return nil, nil
	}
	now := m.now()
	err = m.tx.Run(ctx, func(repos repository.Repositories) error {
		for _, mm := range mismatches {
			k := mismatchKey(mm)
			halt := &entity.Halt{
				Scope:     k.Scope,
				SubjectID: k.SubjectID,
				Reason:    fmt.Sprintf("almacenado %s, liquidaciones %s", mm.Stored, mm.Computed),
				CreatedAt: now,
			}
			if err := repos.Halts.Put(ctx, halt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mismatches, fmt.Errorf("settlement: registrar detenciones: %w", err)
	}
	m.log.Error().Int("count", len(mismatches)).Msg("liquidaciones inconsistentes")
	return mismatches, fmt.Errorf("%w: %d cuenta(s)/registro(s) divergente(s)", domain.ErrConsistencyFault, len(mismatches))
}

// Reconcile recalcula los acumulados desde las entradas de liquidación y levanta las
// detenciones de cuentas y registros en la misma transacción.
func (m *Matcher) Reconcile(ctx context.Context) (int, error) {
	fixed, resumed := 0, 0
	err := m.tx.Run(ctx, func(repos repository.Repositories) error {
		fixed = 0
		mismatches, err := collectMismatches(ctx, repos)
		if err != nil {
			return err
		}
		now := m.now()
		for _, mm := range mismatches {
			switch mm.Kind {
			case "account":
				acc, err := repos.Accounts.GetForUpdate(ctx, mm.ID)
				if err != nil {
					return err
				}
				acc.Settled = mm.Computed
				acc.Refresh(now)
				if err := repos.Accounts.Update(ctx, acc); err != nil {
					return err
				}
			case "financial":
				fin, err := repos.Financials.GetForUpdate(ctx, mm.ID)
				if err != nil {
					return err
				}
				fin.Allocated = mm.Computed
				fin.Refresh(now)
				if err := repos.Financials.Update(ctx, fin); err != nil {
					return err
				}
			}
			fixed++
		}
		resumed, err = repos.Halts.Clear(ctx, entity.HaltAccount, entity.HaltFinancial)
		return err
	})
	if err != nil {
		return 0, err
	}
	m.log.Info().Int("fixed", fixed).Int("resumed", resumed).Msg("liquidaciones reconciliadas")
	return fixed, nil
}

func collectMismatches(ctx context.Context, repos repository.Repositories) ([]Mismatch, error) {
	var out []Mismatch
	accounts, err := repos.Accounts.List(ctx, repository.AccountFilter{})
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		entries, err := repos.Settlements.ListByAccount(ctx, acc.ID)
		if err != nil {
			return nil, err
		}
		if sum := sumEntries(entries); !sum.Equal(acc.Settled) {
			out = append(out, Mismatch{Kind: "account", ID: acc.ID, Stored: acc.Settled, Computed: sum})
		}
	}
	records, err := repos.Financials.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, fin := range records {
		entries, err := repos.Settlements.ListByFinancial(ctx, fin.ID)
		if err != nil {
			return nil, err
		}
		if sum := sumEntries(entries); !sum.Equal(fin.Allocated) {
			out = append(out, Mismatch{Kind: "financial", ID: fin.ID, Stored: fin.Allocated, Computed: sum})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func sumEntries(entries []*entity.SettlementEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.SettlementAmount)
	}
	return total
}

func accountKey(id int64) string   { return fmt.Sprintf("account:%d", id) }
func financialKey(id int64) string { return fmt.Sprintf("financial:%d", id) }

func mismatchKey(mm Mismatch) entity.HaltKey {
	if mm.Kind == "account" {
		return entity.AccountHalt(mm.ID)
	}
	return entity.FinancialHalt(mm.ID)
}
