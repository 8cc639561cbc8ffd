package core

import (
	"errors"
	"testing"
)

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr error
	}{
		{
			name:    "valid personal profile",
			profile: Profile{ID: "p1", Name: "João Silva", Type: ProfilePersonal, BankAccount: "Nubank"},
		},
		{
			name:    "valid business profile",
			profile: Profile{ID: "p2", Name: "JS Soluções LTDA", Type: ProfileBusiness, BankAccount: "Inter PJ"},
		},
		{
			name:    "blank name",
			profile: Profile{ID: "p3", Name: "   ", Type: ProfilePersonal},
			wantErr: ErrEmptyName,
		},
		{
			name:    "unknown type",
			profile: Profile{ID: "p4", Name: "x", Type: "NGO"},
			wantErr: ErrInvalidProfileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.profile.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID: "t1", ProfileID: "p1", Type: Expense, Name: "Aluguel",
		Value: dec("2000"), Date: "2026-08-01",
		Obligation: &ObligationDetails{Priority: PriorityHigh, Frequency: FrequencyFixed},
	}

	tests := []struct {
		name    string
		mutate  func(tx Transaction) Transaction
		wantErr error
	}{
		{name: "valid", mutate: func(tx Transaction) Transaction { return tx }},
		{
			name:    "empty name",
			mutate:  func(tx Transaction) Transaction { tx.Name = ""; return tx },
			wantErr: ErrEmptyName,
		},
		{
			name:    "missing profile",
			mutate:  func(tx Transaction) Transaction { tx.ProfileID = ""; return tx },
			wantErr: ErrMissingProfile,
		},
		{
			name:    "zero value",
			mutate:  func(tx Transaction) Transaction { tx.Value = dec("0"); return tx },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "bad registration date",
			mutate:  func(tx Transaction) Transaction { tx.Date = "01/08/2026"; return tx },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "unknown type",
			mutate:  func(tx Transaction) Transaction { tx.Type = "TRANSFER"; return tx },
			wantErr: ErrInvalidType,
		},
		{
			name: "percentage above 100",
			mutate: func(tx Transaction) Transaction {
				tx.Obligation = &ObligationDetails{RemainingPercentage: floatPtr(120)}
				return tx
			},
			wantErr: ErrInvalidPercentage,
		},
		{
			name: "negative percentage",
			mutate: func(tx Transaction) Transaction {
				tx.Obligation = &ObligationDetails{RemainingPercentage: floatPtr(-1)}
				return tx
			},
			wantErr: ErrInvalidPercentage,
		},
		{
			name: "unknown priority",
			mutate: func(tx Transaction) Transaction {
				tx.Obligation = &ObligationDetails{Priority: "URGENT"}
				return tx
			},
			wantErr: ErrInvalidPriority,
		},
		{
			name: "unknown frequency",
			mutate: func(tx Transaction) Transaction {
				tx.Obligation = &ObligationDetails{Frequency: "SOMETIMES"}
				return tx
			},
			wantErr: ErrInvalidFrequency,
		},
		{
			name: "bad due date",
			mutate: func(tx Transaction) Transaction {
				tx.Obligation = &ObligationDetails{DueDate: "next week"}
				return tx
			},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mutate(valid).Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name    string
		goal    Goal
		wantErr error
	}{
		{name: "valid", goal: Goal{ID: "g1", Name: "Reserva", TargetAmount: dec("10000"), CurrentAmount: dec("0")}},
		{name: "blank name", goal: Goal{TargetAmount: dec("1")}, wantErr: ErrEmptyName},
		{name: "zero target", goal: Goal{Name: "x", TargetAmount: dec("0")}, wantErr: ErrInvalidAmount},
		{name: "negative current", goal: Goal{Name: "x", TargetAmount: dec("1"), CurrentAmount: dec("-1")}, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.goal.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2026-08-29", true},
		{"2026-08-29T10:30:00Z", true},
		{"", false},
		{"29/08/2026", false},
		{"soon", false},
	}

	for _, tt := range tests {
		if _, ok := ParseDate(tt.in); ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

func TestCategoryAndPriorityDefaults(t *testing.T) {
	tx := Transaction{Type: Expense}
	if got := tx.CategoryOrDefault(); got != DefaultCategory {
		t.Errorf("CategoryOrDefault() = %q, want %q", got, DefaultCategory)
	}
	if got := tx.PriorityOrDefault(); got != PriorityMedium {
		t.Errorf("PriorityOrDefault() = %q, want %q", got, PriorityMedium)
	}

	tx.Category = " Moradia "
	if got := tx.CategoryOrDefault(); got != "Moradia" {
		t.Errorf("CategoryOrDefault() = %q, want Moradia", got)
	}
	tx.Obligation = &ObligationDetails{Priority: PriorityCritical}
	if got := tx.PriorityOrDefault(); got != PriorityCritical {
		t.Errorf("PriorityOrDefault() = %q, want %q", got, PriorityCritical)
	}
}
