package source

import (
	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// sampleStatements is served for every symbol in the fixture table
var sampleStatements = contracts.FinancialStatements{
	Financials: contracts.StatementTable{
		"2023": {"Revenue": 383285000000, "NetIncome": 96995000000},
		"2022": {"Revenue": 394328000000, "NetIncome": 99803000000},
		"2021": {"Revenue": 365817000000, "NetIncome": 94680000000},
	},
	BalanceSheet: contracts.StatementTable{
		"2023": {"TotalAssets": 352755000000, "TotalDebt": 123930000000},
		"2022": {"TotalAssets": 352583000000, "TotalDebt": 120069000000},
	},
	CashFlow: contracts.StatementTable{
		"2023": {"OperatingCashFlow": 110543000000, "FreeCashFlow": 84726000000},
		"2022": {"OperatingCashFlow": 122151000000, "FreeCashFlow": 111443000000},
	},
}

// Statements returns a copy of the sample statements for a fixture symbol
func (p *FixtureProvider) Statements(symbol string) (*contracts.FinancialStatements, bool) {
	if !p.Has(symbol) {
		return nil, false
	}
	return &contracts.FinancialStatements{
		Symbol:       contracts.NormalizeSymbol(symbol),
		Financials:   sampleStatements.Financials.Clone(),
		BalanceSheet: sampleStatements.BalanceSheet.Clone(),
		CashFlow:     sampleStatements.CashFlow.Clone(),
	}, true
}
