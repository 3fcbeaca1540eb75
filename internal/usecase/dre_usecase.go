package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andviana23/trato-sub001/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// DREConfig classifies account groups by code prefix and configures the
// income-tax provision.
type DREConfig struct {
	// Revenue-type accounts under this prefix count as deductions instead of
	// gross revenue. Empty disables deductions.
	DeductionPrefix string
	// Revenue-type accounts under this prefix are financial revenue.
	FinancialRevenuePrefix string
	// Expense-type accounts under this prefix are financial expenses; the
	// rest are operating expenses.
	FinancialExpensePrefix string
	// IncomeTaxRate is applied to positive pre-tax profit (e.g. 0.15).
	IncomeTaxRate decimal.Decimal
}

// DREUseCase aggregates confirmed ledger entries into an income statement.
// It is read-only and safe to run concurrently with ingestion.
type DREUseCase struct {
	entryRepo EntryRepository
	cfg       DREConfig
}

// NewDREUseCase creates a new DREUseCase.
func NewDREUseCase(entryRepo EntryRepository, cfg DREConfig) *DREUseCase {
	return &DREUseCase{entryRepo: entryRepo, cfg: cfg}
}

// ComputeDREInput selects the period and unit to aggregate.
type ComputeDREInput struct {
	Period domain.Period
	UnitID string
}

// ComputeDRE builds the income statement for one unit and period.
func (uc *DREUseCase) ComputeDRE(ctx context.Context, input ComputeDREInput) (*domain.DREStatement, error) {
	if err := input.Period.Validate(); err != nil {
		return nil, err
	}

	if input.UnitID == "" {
		return nil, fmt.Errorf("%w: unit is required", domain.ErrInvalidPeriod)
	}

	balances, err := uc.entryRepo.SumByAccount(ctx, input.UnitID, input.Period)
	if err != nil {
		return nil, fmt.Errorf("aggregate account balances: %w", err)
	}

	st := &domain.DREStatement{UnitID: input.UnitID, Period: input.Period}

	for _, b := range balances {
		balance := b.Balance()

		switch b.Type {
		case domain.AccountTypeRevenue:
			switch {
			case uc.cfg.DeductionPrefix != "" && strings.HasPrefix(b.Code, uc.cfg.DeductionPrefix):
				st.Deducoes = st.Deducoes.Add(balance)
			case uc.cfg.FinancialRevenuePrefix != "" && strings.HasPrefix(b.Code, uc.cfg.FinancialRevenuePrefix):
				st.ReceitasFinanceiras = st.ReceitasFinanceiras.Add(balance)
			default:
				st.ReceitaBruta = st.ReceitaBruta.Add(balance)
			}
		case domain.AccountTypeCost:
			st.CustosServicos = st.CustosServicos.Add(balance)
		case domain.AccountTypeExpense:
			if uc.cfg.FinancialExpensePrefix != "" && strings.HasPrefix(b.Code, uc.cfg.FinancialExpensePrefix) {
				st.DespesasFinanceiras = st.DespesasFinanceiras.Add(balance)
			} else {
				st.DespesasOperacionais = st.DespesasOperacionais.Add(balance)
			}
		}
	}

	st.ReceitaLiquida = st.ReceitaBruta.Sub(st.Deducoes)
	st.LucroBruto = st.ReceitaLiquida.Sub(st.CustosServicos)
	st.LucroOperacional = st.LucroBruto.Sub(st.DespesasOperacionais)
	st.LucroAntesIR = st.LucroOperacional.Add(st.ReceitasFinanceiras).Sub(st.DespesasFinanceiras)

	if st.LucroAntesIR.IsPositive() && uc.cfg.IncomeTaxRate.IsPositive() {
		st.ProvisaoIR = st.LucroAntesIR.Mul(uc.cfg.IncomeTaxRate).Round(2)
	} else {
		st.ProvisaoIR = decimal.Zero
	}

	st.LucroLiquido = st.LucroAntesIR.Sub(st.ProvisaoIR)

	st.MargemBruta = margin(st.LucroBruto, st.ReceitaBruta)
	st.MargemOperacional = margin(st.LucroOperacional, st.ReceitaBruta)
	st.MargemLiquida = margin(st.LucroLiquido, st.ReceitaBruta)

	return st, nil
}

// margin returns part/total*100 rounded to two decimals, and 0 when the
// total is zero so margins never become NaN or infinite.
func margin(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(oneHundred).DivRound(total, 2)
}

// ComputeDREComparison aggregates two periods and derives per-line deltas.
func (uc *DREUseCase) ComputeDREComparison(ctx context.Context, current, previous domain.Period, unitID string) (*domain.DREComparison, error) {
	cur, err := uc.ComputeDRE(ctx, ComputeDREInput{Period: current, UnitID: unitID})
	if err != nil {
		return nil, err
	}

	prev, err := uc.ComputeDRE(ctx, ComputeDREInput{Period: previous, UnitID: unitID})
	if err != nil {
		return nil, err
	}

	prevLines := prev.Lines()
	deltas := make(map[string]domain.LineDelta, len(prevLines))
	for i, line := range cur.Lines() {
		deltas[line.Name] = lineDelta(line.Value, prevLines[i].Value)
	}

	return &domain.DREComparison{Current: cur, Previous: prev, Deltas: deltas}, nil
}

func lineDelta(cur, prev decimal.Decimal) domain.LineDelta {
	abs := cur.Sub(prev)

	pct := decimal.Zero
	if !prev.IsZero() {
		pct = abs.Mul(oneHundred).DivRound(prev.Abs(), 2)
	}

	return domain.LineDelta{Current: cur, Previous: prev, Absolute: abs, Percentage: pct}
}

// ExportCSV serializes the statement as flat Section,Item,Value rows. The
// returned filename embeds the period boundaries.
func (uc *DREUseCase) ExportCSV(st *domain.DREStatement) ([]byte, string, error) {
	sections := map[string]string{
		"receita_bruta":         "Receitas",
		"deducoes":              "Receitas",
		"receita_liquida":       "Receitas",
		"custos_servicos":       "Custos",
		"lucro_bruto":           "Resultado",
		"despesas_operacionais": "Despesas",
		"lucro_operacional":     "Resultado",
		"receitas_financeiras":  "Financeiro",
		"despesas_financeiras":  "Financeiro",
		"lucro_antes_ir":        "Resultado",
		"provisao_ir":           "Resultado",
		"lucro_liquido":         "Resultado",
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Section", "Item", "Value"}); err != nil {
		return nil, "", err
	}

	for _, line := range st.Lines() {
		if err := w.Write([]string{sections[line.Name], line.Name, line.Value.StringFixed(2)}); err != nil {
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), exportFilename(st, "csv"), nil
}

// ExportJSON serializes the statement as a machine-readable record.
func (uc *DREUseCase) ExportJSON(st *domain.DREStatement) ([]byte, string, error) {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, "", err
	}

	return data, exportFilename(st, "json"), nil
}

func exportFilename(st *domain.DREStatement, ext string) string {
	return fmt.Sprintf("dre_%s_%s_%s.%s",
		st.UnitID,
		st.Period.From.Format("2006-01-02"),
		st.Period.To.Format("2006-01-02"),
		ext,
	)
}
