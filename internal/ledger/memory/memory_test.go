package memory

import (
	"context"
	"errors"
	"testing"

	"fincontrol/internal/core"
	"fincontrol/internal/ledger"
)

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	p, err := s.CreateProfile(ctx, core.Profile{Name: "João Silva", Type: core.ProfilePersonal})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.ID == "" {
		t.Fatal("CreateProfile did not assign an id")
	}

	tx, err := s.CreateTransaction(ctx, core.Transaction{
		ProfileID: p.ID, Type: core.Income, Name: "Salário", Value: d("5000"), Date: "2026-08-01",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	g, err := s.CreateGoal(ctx, core.Goal{Name: "Reserva", TargetAmount: d("10000")})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	profiles, _ := s.ListProfiles(ctx)
	transactions, _ := s.ListTransactions(ctx)
	goals, _ := s.ListGoals(ctx)
	if len(profiles) != 1 || len(transactions) != 1 || len(goals) != 1 {
		t.Fatalf("lists = %d/%d/%d, want 1/1/1", len(profiles), len(transactions), len(goals))
	}

	if err := s.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Errorf("DeleteTransaction: %v", err)
	}
	if err := s.DeleteGoal(ctx, g.ID); err != nil {
		t.Errorf("DeleteGoal: %v", err)
	}
	if err := s.DeleteProfile(ctx, p.ID); err != nil {
		t.Errorf("DeleteProfile: %v", err)
	}
	if err := s.DeleteProfile(ctx, p.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("deleting twice = %v, want ErrNotFound", err)
	}
}

func TestDeleteProfileKeepsTransactions(t *testing.T) {
	ctx := context.Background()
	s := New()

	p, _ := s.CreateProfile(ctx, core.Profile{Name: "x", Type: core.ProfilePersonal})
	s.CreateTransaction(ctx, core.Transaction{
		ProfileID: p.ID, Type: core.Expense, Name: "y", Value: d("10"), Date: "2026-08-01",
	})

	if err := s.DeleteProfile(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	transactions, _ := s.ListTransactions(ctx)
	if len(transactions) != 1 {
		t.Fatalf("transactions were cascaded away, want 1 got %d", len(transactions))
	}
	// The dangling reference resolves to the placeholder, not an error.
	if name := core.ProfileDisplayName(nil, transactions[0].ProfileID); name != core.UnknownProfileLabel {
		t.Errorf("dangling profile name = %q, want %q", name, core.UnknownProfileLabel)
	}
}

func TestNewSeeded(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	profiles, _ := s.ListProfiles(ctx)
	transactions, _ := s.ListTransactions(ctx)
	if len(profiles) != 2 {
		t.Errorf("seeded profiles = %d, want 2", len(profiles))
	}
	if len(transactions) != 8 {
		t.Errorf("seeded transactions = %d, want 8", len(transactions))
	}
	for _, tx := range transactions {
		if err := tx.Validate(); err != nil {
			t.Errorf("seed transaction %s is invalid: %v", tx.ID, err)
		}
	}
}

func TestFactoryReset(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()
	s.CreateGoal(ctx, core.Goal{Name: "Reserva", TargetAmount: d("1")})

	p, err := s.FactoryReset(ctx)
	if err != nil {
		t.Fatalf("FactoryReset: %v", err)
	}
	if p.Name != "Meu Perfil" {
		t.Errorf("default profile name = %q", p.Name)
	}

	profiles, _ := s.ListProfiles(ctx)
	transactions, _ := s.ListTransactions(ctx)
	goals, _ := s.ListGoals(ctx)
	if len(profiles) != 1 || len(transactions) != 0 || len(goals) != 0 {
		t.Errorf("after reset = %d/%d/%d, want 1/0/0", len(profiles), len(transactions), len(goals))
	}
}
