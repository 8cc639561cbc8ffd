package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fincontrol/internal/core"
	"fincontrol/internal/ledger"

	"github.com/shopspring/decimal"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	pct := 80.0
	paid := decimal.RequireFromString("3000")
	installments := 36
	installmentValue := decimal.RequireFromString("416.66")

	in := core.Transaction{
		ProfileID: "p1",
		Type:      core.Debt,
		Name:      "Empréstimo Carro",
		Value:     decimal.RequireFromString("15000"),
		Date:      "2026-06-30",
		Category:  "Transporte",
		Notes:     "financiamento",
		Obligation: &core.ObligationDetails{
			Frequency:           core.FrequencyFixed,
			Priority:            core.PriorityHigh,
			DueDate:             "2026-09-13",
			RemainingPercentage: &pct,
			AmountPaid:          &paid,
			Installments:        &installments,
			InstallmentValue:    &installmentValue,
		},
	}

	created, err := repo.CreateTransaction(ctx, in)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateTransaction did not assign an id")
	}

	list, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d transactions, want 1", len(list))
	}

	got := list[0]
	if got.Name != in.Name || got.Category != in.Category || got.Notes != in.Notes {
		t.Errorf("text fields did not survive: %+v", got)
	}
	if !got.Value.Equal(in.Value) {
		t.Errorf("value = %s, want %s", got.Value, in.Value)
	}
	ob := got.Obligation
	if ob == nil {
		t.Fatal("obligation details were dropped")
	}
	if ob.Priority != core.PriorityHigh || ob.Frequency != core.FrequencyFixed || ob.DueDate != "2026-09-13" {
		t.Errorf("obligation fields = %+v", ob)
	}
	if ob.RemainingPercentage == nil || *ob.RemainingPercentage != 80 {
		t.Errorf("remaining percentage = %v, want 80", ob.RemainingPercentage)
	}
	if ob.AmountPaid == nil || !ob.AmountPaid.Equal(paid) {
		t.Errorf("amount paid = %v, want %s", ob.AmountPaid, paid)
	}
	if ob.Installments == nil || *ob.Installments != 36 {
		t.Errorf("installments = %v, want 36", ob.Installments)
	}
	if ob.InstallmentValue == nil || !ob.InstallmentValue.Equal(installmentValue) {
		t.Errorf("installment value = %v, want %s", ob.InstallmentValue, installmentValue)
	}
}

func TestIncomeKeepsNoObligation(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	_, err := repo.CreateTransaction(ctx, core.Transaction{
		ProfileID: "p1", Type: core.Income, Name: "Salário",
		Value: decimal.RequireFromString("5000"), Date: "2026-08-01",
		Income: &core.IncomeDetails{FixedIncome: true},
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	list, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	got := list[0]
	if got.Obligation != nil {
		t.Errorf("income grew obligation details: %+v", got.Obligation)
	}
	if got.Income == nil || !got.Income.FixedIncome {
		t.Errorf("income details = %+v, want fixed income", got.Income)
	}
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	if err := repo.DeleteProfile(ctx, "nope"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("DeleteProfile = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteTransaction(ctx, "nope"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("DeleteTransaction = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteGoal(ctx, "nope"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("DeleteGoal = %v, want ErrNotFound", err)
	}
}

func TestFactoryReset(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	repo.CreateProfile(ctx, core.Profile{Name: "a", Type: core.ProfilePersonal})
	repo.CreateProfile(ctx, core.Profile{Name: "b", Type: core.ProfileBusiness})
	repo.CreateGoal(ctx, core.Goal{Name: "Reserva", TargetAmount: decimal.RequireFromString("10000")})

	p, err := repo.FactoryReset(ctx)
	if err != nil {
		t.Fatalf("FactoryReset: %v", err)
	}
	if p.Name != "Meu Perfil" {
		t.Errorf("default profile name = %q", p.Name)
	}

	profiles, _ := repo.ListProfiles(ctx)
	goals, _ := repo.ListGoals(ctx)
	if len(profiles) != 1 || len(goals) != 0 {
		t.Errorf("after reset profiles=%d goals=%d, want 1/0", len(profiles), len(goals))
	}
}
