package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryTotal struct {
	Category string `json:"category" db:"category"`
	Total    int64  `json:"total" db:"total"`
}

// Revenue aggregates completed transactions.
type Revenue struct {
	Count int64 `db:"count"`
	Total int64 `db:"total"`
}

type ProfitLoss struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	Revenue            int64           `json:"revenue"`
	TransactionCount   int64           `json:"transaction_count"`
	Expenses           int64           `json:"expenses"`
	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`
	PayrollCost        decimal.Decimal `json:"payroll_cost"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	// Margin is net profit as a percentage of revenue, zero without revenue.
	Margin decimal.Decimal `json:"margin"`
}

var hundred = decimal.NewFromInt(100)

// NewProfitLoss derives net profit and margin from the three aggregates.
func NewProfitLoss(from, to time.Time, revenue Revenue, expenses []CategoryTotal, payroll decimal.Decimal) *ProfitLoss {
	var expenseTotal int64
	for _, c := range expenses {
		expenseTotal += c.Total
	}
	if expenses == nil {
		expenses = []CategoryTotal{}
	}

	net := decimal.NewFromInt(revenue.Total).
		Sub(decimal.NewFromInt(expenseTotal)).
		Sub(payroll)

	margin := decimal.Zero
	if revenue.Total > 0 {
		margin = net.Div(decimal.NewFromInt(revenue.Total)).Mul(hundred).Round(2)
	}

	return &ProfitLoss{
		From:               from,
		To:                 to,
		Revenue:            revenue.Total,
		TransactionCount:   revenue.Count,
		Expenses:           expenseTotal,
		ExpensesByCategory: expenses,
		PayrollCost:        payroll,
		NetProfit:          net,
		Margin:             margin,
	}
}
