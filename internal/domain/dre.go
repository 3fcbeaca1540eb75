package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the per-account aggregation of confirmed ledger entries
// for a period: how much was posted to the account's debit and credit sides.
type AccountBalance struct {
	AccountID   string
	Code        string
	Name        string
	Type        AccountType
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// Balance applies the sign convention for the account type: debit-nature
// accounts carry debit minus credit, credit-nature accounts the reverse.
func (b AccountBalance) Balance() decimal.Decimal {
	if b.Type.IsDebitNature() {
		return b.DebitTotal.Sub(b.CreditTotal)
	}
	return b.CreditTotal.Sub(b.DebitTotal)
}

// Period is a closed date range [From, To].
type Period struct {
	From time.Time
	To   time.Time
}

// Validate rejects inverted or zero ranges.
func (p Period) Validate() error {
	if p.From.IsZero() || p.To.IsZero() || p.From.After(p.To) {
		return ErrInvalidPeriod
	}
	return nil
}

// DREStatement is the income statement for one unit and period.
type DREStatement struct {
	UnitID string `json:"unit_id"`
	Period Period `json:"-"`

	ReceitaBruta         decimal.Decimal `json:"receita_bruta"`
	Deducoes             decimal.Decimal `json:"deducoes"`
	ReceitaLiquida       decimal.Decimal `json:"receita_liquida"`
	CustosServicos       decimal.Decimal `json:"custos_servicos"`
	LucroBruto           decimal.Decimal `json:"lucro_bruto"`
	DespesasOperacionais decimal.Decimal `json:"despesas_operacionais"`
	LucroOperacional     decimal.Decimal `json:"lucro_operacional"`
	ReceitasFinanceiras  decimal.Decimal `json:"receitas_financeiras"`
	DespesasFinanceiras  decimal.Decimal `json:"despesas_financeiras"`
	LucroAntesIR         decimal.Decimal `json:"lucro_antes_ir"`
	ProvisaoIR           decimal.Decimal `json:"provisao_ir"`
	LucroLiquido         decimal.Decimal `json:"lucro_liquido"`

	MargemBruta       decimal.Decimal `json:"margem_bruta"`
	MargemOperacional decimal.Decimal `json:"margem_operacional"`
	MargemLiquida     decimal.Decimal `json:"margem_liquida"`
}

// Lines returns the statement's line items in presentation order, keyed by
// the names used in exports and comparisons.
func (s *DREStatement) Lines() []DRELine {
	return []DRELine{
		{"receita_bruta", s.ReceitaBruta},
		{"deducoes", s.Deducoes},
		{"receita_liquida", s.ReceitaLiquida},
		{"custos_servicos", s.CustosServicos},
		{"lucro_bruto", s.LucroBruto},
		{"despesas_operacionais", s.DespesasOperacionais},
		{"lucro_operacional", s.LucroOperacional},
		{"receitas_financeiras", s.ReceitasFinanceiras},
		{"despesas_financeiras", s.DespesasFinanceiras},
		{"lucro_antes_ir", s.LucroAntesIR},
		{"provisao_ir", s.ProvisaoIR},
		{"lucro_liquido", s.LucroLiquido},
	}
}

// DRELine is one named line item of a statement.
type DRELine struct {
	Name  string
	Value decimal.Decimal
}

// LineDelta is the period-over-period movement of one line item.
type LineDelta struct {
	Current    decimal.Decimal `json:"current"`
	Previous   decimal.Decimal `json:"previous"`
	Absolute   decimal.Decimal `json:"absolute"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DREComparison holds two statements plus per-line deltas.
type DREComparison struct {
	Current  *DREStatement        `json:"current"`
	Previous *DREStatement        `json:"previous"`
	Deltas   map[string]LineDelta `json:"deltas"`
}
