package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProfilePersonal ProfileType = "PERSONAL"
	ProfileBusiness ProfileType = "BUSINESS"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
	Debt    TransactionType = "DEBT"
)

const (
	FrequencyFixed     FrequencyType = "FIXED"
	FrequencyVariable  FrequencyType = "VARIABLE"
	FrequencyTemporary FrequencyType = "TEMPORARY"
)

const (
	PriorityLow      PriorityLevel = "LOW"
	PriorityMedium   PriorityLevel = "MEDIUM"
	PriorityHigh     PriorityLevel = "HIGH"
	PriorityCritical PriorityLevel = "CRITICAL"
)

// DefaultCategory is the bucket used when a transaction carries no category.
const DefaultCategory = "Geral"

// UnknownProfileLabel is shown when a transaction references a deleted profile.
const UnknownProfileLabel = "N/A"

type (
	ProfileType     string
	TransactionType string
	FrequencyType   string
	PriorityLevel   string

	// Profile is a personal or business entity transactions are attributed to.
	Profile struct {
		ID          string      `json:"id"`
		Name        string      `json:"name"`
		Type        ProfileType `json:"type"`
		BankAccount string      `json:"bankAccount"`
	}

	// IncomeDetails carries the attributes that only exist on INCOME transactions.
	IncomeDetails struct {
		FixedIncome bool `json:"isFixedIncome"`
	}

	// ObligationDetails carries the attributes that only exist on EXPENSE and
	// DEBT transactions. Optional numeric fields use pointers so absence is
	// distinguishable from zero.
	ObligationDetails struct {
		Frequency           FrequencyType    `json:"frequency,omitempty"`
		Priority            PriorityLevel    `json:"priority,omitempty"`
		DueDate             string           `json:"dueDate,omitempty"`
		RemainingPercentage *float64         `json:"remainingPercentage,omitempty"`
		AmountPaid          *decimal.Decimal `json:"amountPaid,omitempty"`
		Installments        *int             `json:"numberOfInstallments,omitempty"`
		InstallmentValue    *decimal.Decimal `json:"installmentValue,omitempty"`
	}

	// Transaction is a single ledger entry. Income-only and obligation-only
	// attributes live in sub-structs keyed by Type, so a priority on an
	// INCOME row is structurally inexpressible.
	Transaction struct {
		ID        string          `json:"id"`
		ProfileID string          `json:"profileId"`
		Type      TransactionType `json:"type"`
		Name      string          `json:"name"`
		Value     decimal.Decimal `json:"value"`
		Date      string          `json:"date"` // ISO calendar date, "registered on"
		Category  string          `json:"category,omitempty"`
		Notes     string          `json:"notes,omitempty"`

		Income     *IncomeDetails     `json:"income,omitempty"`
		Obligation *ObligationDetails `json:"obligation,omitempty"`
	}

	// Goal is a user-defined savings target, maintained independently of the
	// transaction ledger.
	Goal struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		TargetAmount  decimal.Decimal `json:"targetAmount"`
		CurrentAmount decimal.Decimal `json:"currentAmount"`
		Deadline      string          `json:"deadline"`
	}
)

var (
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidPercentage  = errors.New("remaining percentage out of range")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrMissingProfile     = errors.New("missing profile id")
	ErrInvalidProfileType = errors.New("invalid profile type")
)

const isoDate = "2006-01-02"

// ParseDate parses an ISO calendar date, tolerating full RFC 3339 timestamps.
// The second return value reports whether the input was parsable at all.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(isoDate, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	switch p.Type {
	case ProfilePersonal, ProfileBusiness:
	default:
		return ErrInvalidProfileType
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(t.ProfileID) == "" {
		return ErrMissingProfile
	}
	if !t.Value.IsPositive() {
		return ErrInvalidAmount
	}
	if _, ok := ParseDate(t.Date); !ok {
		return ErrInvalidDate
	}

	switch t.Type {
	case Income:
	case Expense, Debt:
		if t.Obligation != nil {
			if err := t.Obligation.validate(); err != nil {
				return err
			}
		}
	default:
		return ErrInvalidType
	}
	return nil
}

func (ob *ObligationDetails) validate() error {
	if ob.RemainingPercentage != nil {
		if p := *ob.RemainingPercentage; p < 0 || p > 100 {
			return ErrInvalidPercentage
		}
	}
	switch ob.Priority {
	case "", PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
	default:
		return ErrInvalidPriority
	}
	switch ob.Frequency {
	case "", FrequencyFixed, FrequencyVariable, FrequencyTemporary:
	default:
		return ErrInvalidFrequency
	}
	if ob.DueDate != "" {
		if _, ok := ParseDate(ob.DueDate); !ok {
			return ErrInvalidDate
		}
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// CategoryOrDefault returns the transaction category, folding blanks into
// the default bucket.
func (t Transaction) CategoryOrDefault() string {
	if c := strings.TrimSpace(t.Category); c != "" {
		return c
	}
	return DefaultCategory
}

// PriorityOrDefault returns the obligation priority, defaulting to MEDIUM
// when absent.
func (t Transaction) PriorityOrDefault() PriorityLevel {
	if t.Obligation != nil && t.Obligation.Priority != "" {
		return t.Obligation.Priority
	}
	return PriorityMedium
}

// IsObligation reports whether the transaction is an expense or a debt.
func (t Transaction) IsObligation() bool {
	return t.Type == Expense || t.Type == Debt
}

// ProfileDisplayName resolves a profile id against a profile snapshot.
// A dangling reference degrades to a placeholder label, never an error.
func ProfileDisplayName(profiles []Profile, id string) string {
	for _, p := range profiles {
		if p.ID == id {
			return p.Name
		}
	}
	return UnknownProfileLabel
}

// FilterByProfiles returns the transactions attributed to the given profile
// ids. A nil filter means no filtering.
func FilterByProfiles(transactions []Transaction, profileIDs []string) []Transaction {
	if profileIDs == nil {
		return transactions
	}
	allowed := make(map[string]struct{}, len(profileIDs))
	for _, id := range profileIDs {
		allowed[id] = struct{}{}
	}
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if _, ok := allowed[t.ProfileID]; ok {
			out = append(out, t)
		}
	}
	return out
}
