package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DueStatus classifies an obligation against "today" at midnight.
type DueStatus string

const (
	StatusOverdue  DueStatus = "OVERDUE"
	StatusDueToday DueStatus = "DUE_TODAY"
	StatusUpcoming DueStatus = "UPCOMING"
)

// UpcomingItem pairs an outstanding obligation with its due-date status and
// the value still owed.
type UpcomingItem struct {
	Transaction Transaction     `json:"transaction"`
	Status      DueStatus       `json:"status"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// ComputeUpcoming lists outstanding obligations ranked by due date.
// Included: EXPENSE/DEBT with a parsable due date and remaining > 0
// (remaining defaults to 100 when unset). limit <= 0 returns the full list.
// Status is computed against now truncated to midnight.
func ComputeUpcoming(transactions []Transaction, now time.Time, limit int) []UpcomingItem {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	type candidate struct {
		item UpcomingItem
		due  time.Time
	}
	var candidates []candidate

	for _, tx := range transactions {
		if !tx.IsObligation() || tx.Obligation == nil || tx.Obligation.DueDate == "" {
			continue
		}
		progress := ComputePaymentProgress(tx)
		if progress.RemainingPercentage <= 0 {
			continue
		}
		due, ok := ParseDate(tx.Obligation.DueDate)
		if !ok {
			continue
		}
		due = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())

		status := StatusUpcoming
		switch {
		case due.Before(today):
			status = StatusOverdue
		case due.Equal(today):
			status = StatusDueToday
		}

		candidates = append(candidates, candidate{
			item: UpcomingItem{Transaction: tx, Status: status, Remaining: progress.RemainingValue},
			due:  due,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].due.Before(candidates[j].due)
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]UpcomingItem, len(candidates))
	for i, c := range candidates {
		out[i] = c.item
	}
	return out
}

// RecentTransactions returns the latest ledger entries of any type, sorted
// descending by registration date. Unparsable dates sort last. limit <= 0
// returns the full sorted list.
func RecentTransactions(transactions []Transaction, limit int) []Transaction {
	out := make([]Transaction, len(transactions))
	copy(out, transactions)

	sort.SliceStable(out, func(i, j int) bool {
		di, _ := ParseDate(out[i].Date)
		dj, _ := ParseDate(out[j].Date)
		return di.After(dj)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
