package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Totals are the headline figures of the dashboard. Balance subtracts the
	// full face value of debts, not their outstanding remainder.
	Totals struct {
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
		Debt    decimal.Decimal `json:"debt"`
		Balance decimal.Decimal `json:"balance"`
	}

	// TrendPoint is one (year, month) bucket of the income-vs-expense series.
	TrendPoint struct {
		Year    int             `json:"year"`
		Month   int             `json:"month"` // 1-12
		Label   string          `json:"label"`
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	// CategoryTotal is an accumulated amount for one free-text category.
	CategoryTotal struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
	}

	// PriorityTotal is an accumulated amount for one priority bucket.
	PriorityTotal struct {
		Priority PriorityLevel   `json:"priority"`
		Total    decimal.Decimal `json:"total"`
	}
)

// PriorityOrder is the fixed display order of the priority buckets, most
// urgent first. Chart legends stay stable regardless of data sparsity.
var PriorityOrder = []PriorityLevel{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// ComputeTotals sums transaction values per type. Balance is exactly
// income - expense - debt.
func ComputeTotals(transactions []Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		switch tx.Type {
		case Income:
			t.Income = t.Income.Add(tx.Value)
		case Expense:
			t.Expense = t.Expense.Add(tx.Value)
		case Debt:
			t.Debt = t.Debt.Add(tx.Value)
		}
	}
	t.Balance = t.Income.Sub(t.Expense).Sub(t.Debt)
	return t
}

// ComputeMonthlyTrend groups income and expense by calendar month, sorted
// ascending by (year, month). Debts are liabilities, not cash flow events,
// and never enter either series. Transactions with unparsable dates are
// skipped.
func ComputeMonthlyTrend(transactions []Transaction) []TrendPoint {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*TrendPoint)

	for _, tx := range transactions {
		if tx.Type == Debt {
			continue
		}
		date, ok := ParseDate(tx.Date)
		if !ok {
			continue
		}
		k := key{date.Year(), date.Month()}
		p, exists := buckets[k]
		if !exists {
			p = &TrendPoint{
				Year:  k.year,
				Month: int(k.month),
				Label: date.Format("Jan 2006"),
			}
			buckets[k] = p
		}
		switch tx.Type {
		case Income:
			p.Income = p.Income.Add(tx.Value)
		case Expense:
			p.Expense = p.Expense.Add(tx.Value)
		}
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}

// ComputeCategoryTotals sums expense and debt values per category, folding
// blank categories into the default bucket. Output order is alphabetical so
// repeated computations over the same snapshot are identical.
func ComputeCategoryTotals(transactions []Transaction) []CategoryTotal {
	byCategory := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if !tx.IsObligation() {
			continue
		}
		cat := tx.CategoryOrDefault()
		byCategory[cat] = byCategory[cat].Add(tx.Value)
	}

	out := make([]CategoryTotal, 0, len(byCategory))
	for cat, total := range byCategory {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// ComputePriorityTotals sums expense and debt values across the four
// priority buckets. All four buckets are always present, in fixed order,
// even when zero. Missing priorities fold into MEDIUM.
func ComputePriorityTotals(transactions []Transaction) []PriorityTotal {
	sums := make(map[PriorityLevel]decimal.Decimal, len(PriorityOrder))
	for _, tx := range transactions {
		if !tx.IsObligation() {
			continue
		}
		p := tx.PriorityOrDefault()
		sums[p] = sums[p].Add(tx.Value)
	}

	out := make([]PriorityTotal, 0, len(PriorityOrder))
	for _, p := range PriorityOrder {
		out = append(out, PriorityTotal{Priority: p, Total: sums[p]})
	}
	return out
}
