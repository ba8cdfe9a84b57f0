package contracts

import "time"

// StatementTable maps a fiscal period ("2023", "TTM") to its line items
type StatementTable map[string]map[string]float64

// FinancialStatements holds the annual income statement, balance sheet and cash flow
type FinancialStatements struct {
	Symbol       string         `json:"symbol"`
	Financials   StatementTable `json:"financials"`
	BalanceSheet StatementTable `json:"balance_sheet"`
	CashFlow     StatementTable `json:"cashflow"`
	LastUpdated  time.Time      `json:"last_updated"`
}

// IsEmpty reports whether none of the three statements has a period
func (f *FinancialStatements) IsEmpty() bool {
	return len(f.Financials) == 0 && len(f.BalanceSheet) == 0 && len(f.CashFlow) == 0
}

// Clone deep-copies the tables so fixture data cannot be mutated by callers
func (t StatementTable) Clone() StatementTable {
	if t == nil {
		return nil
	}
	out := make(StatementTable, len(t))
	for period, items := range t {
		row := make(map[string]float64, len(items))
		for k, v := range items {
			row[k] = v
		}
		out[period] = row
	}
	return out
}
