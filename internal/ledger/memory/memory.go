// Package memory provides an in-memory ledger store, optionally seeded from
// JSON files on disk. It is the default backend for local development and
// tests.
package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fincontrol/internal/core"
	"fincontrol/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu           sync.RWMutex
	profiles     []core.Profile
	transactions []core.Transaction
	goals        []core.Goal
}

var _ ledger.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// NewSeeded returns a store pre-populated with a small demo ledger: two
// profiles, a mix of incomes, expenses and debts, and no goals.
func NewSeeded() *Store {
	s := &Store{}
	s.profiles, s.transactions = seedData(time.Now())
	return s
}

// NewFromFiles loads profiles.json, transactions.json and goals.json from
// dir when present, falling back to the seeded demo ledger otherwise.
func NewFromFiles(dir string) *Store {
	s := &Store{}

	loaded := false
	if readJSON(filepath.Join(dir, "profiles.json"), &s.profiles) {
		loaded = true
	}
	readJSON(filepath.Join(dir, "transactions.json"), &s.transactions)
	readJSON(filepath.Join(dir, "goals.json"), &s.goals)

	if !loaded {
		slog.Info("No seed files found, using demo ledger", "dir", dir)
		s.profiles, s.transactions = seedData(time.Now())
	}
	return s
}

func readJSON(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("Ignoring malformed seed file", "path", path, "error", err)
		return false
	}
	return true
}

func (s *Store) ListProfiles(ctx context.Context) ([]core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Profile, len(s.profiles))
	copy(out, s.profiles)
	return out, nil
}

func (s *Store) CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.profiles = append(s.profiles, p)
	return p, nil
}

func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.profiles {
		if p.ID == id {
			s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ListGoals(ctx context.Context) ([]core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Goal, len(s.goals))
	copy(out, s.goals)
	return out, nil
}

func (s *Store) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

// FactoryReset wipes everything and leaves a single clean default profile.
func (s *Store) FactoryReset(ctx context.Context) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := core.Profile{
		ID:          uuid.NewString(),
		Name:        "Meu Perfil",
		Type:        core.ProfilePersonal,
		BankAccount: "Carteira",
	}
	s.profiles = []core.Profile{p}
	s.transactions = nil
	s.goals = nil
	return p, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func isoDaysFrom(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format("2006-01-02")
}

func seedData(now time.Time) ([]core.Profile, []core.Transaction) {
	pct := func(v float64) *float64 { return &v }
	amt := func(s string) *decimal.Decimal { v := d(s); return &v }
	n := func(i int) *int { return &i }

	profiles := []core.Profile{
		{ID: "1", Name: "João Silva", Type: core.ProfilePersonal, BankAccount: "Nubank"},
		{ID: "2", Name: "JS Soluções LTDA", Type: core.ProfileBusiness, BankAccount: "Inter PJ"},
	}

	transactions := []core.Transaction{
		{
			ID: "t1", ProfileID: "1", Type: core.Income, Name: "Salário Mensal",
			Value: d("5000"), Date: isoDaysFrom(now, 0), Category: "Salário",
			Notes:  "Salário referente ao mês atual",
			Income: &core.IncomeDetails{FixedIncome: true},
		},
		{
			ID: "t2", ProfileID: "2", Type: core.Income, Name: "Projeto Consultoria TI",
			Value: d("8500"), Date: isoDaysFrom(now, -5), Category: "Vendas",
			Notes:  "Cliente ABC Corp",
			Income: &core.IncomeDetails{},
		},
		{
			ID: "t3", ProfileID: "1", Type: core.Income, Name: "Dividendos FIIs",
			Value: d("120.50"), Date: isoDaysFrom(now, -10), Category: "Investimentos",
			Notes:  "MXRF11",
			Income: &core.IncomeDetails{},
		},
		{
			ID: "t4", ProfileID: "2", Type: core.Expense, Name: "Aluguel Escritório",
			Value: d("2000"), Date: isoDaysFrom(now, 0), Category: "Moradia",
			Notes: "Vencimento dia 10",
			Obligation: &core.ObligationDetails{
				Frequency: core.FrequencyFixed, Priority: core.PriorityHigh,
				DueDate: isoDaysFrom(now, 5), RemainingPercentage: pct(100), AmountPaid: amt("0"),
			},
		},
		{
			ID: "t5", ProfileID: "1", Type: core.Expense, Name: "Supermercado Semanal",
			Value: d("450.75"), Date: isoDaysFrom(now, -2), Category: "Alimentação",
			Notes: "Compra do mês",
			Obligation: &core.ObligationDetails{
				Frequency: core.FrequencyVariable, Priority: core.PriorityMedium,
				RemainingPercentage: pct(0), AmountPaid: amt("450.75"),
			},
		},
		{
			ID: "t6", ProfileID: "2", Type: core.Expense, Name: "Licença Software CRM",
			Value: d("299.90"), Date: isoDaysFrom(now, 0), Category: "Software",
			Obligation: &core.ObligationDetails{
				Frequency: core.FrequencyFixed, Priority: core.PriorityCritical,
				RemainingPercentage: pct(100), AmountPaid: amt("0"),
			},
		},
		{
			ID: "t7", ProfileID: "1", Type: core.Debt, Name: "Empréstimo Carro",
			Value: d("15000"), Date: isoDaysFrom(now, -60), Category: "Transporte",
			Obligation: &core.ObligationDetails{
				Frequency: core.FrequencyFixed, Priority: core.PriorityHigh,
				DueDate:             isoDaysFrom(now, 15),
				RemainingPercentage: pct(80), AmountPaid: amt("3000"),
				Installments: n(36), InstallmentValue: amt("416.66"),
			},
		},
		{
			ID: "t8", ProfileID: "2", Type: core.Debt, Name: "Notebook Novo (Parcelado)",
			Value: d("4500"), Date: isoDaysFrom(now, -30), Category: "Equipamentos",
			Obligation: &core.ObligationDetails{
				Frequency: core.FrequencyTemporary, Priority: core.PriorityMedium,
				DueDate:             isoDaysFrom(now, 20),
				RemainingPercentage: pct(90), AmountPaid: amt("450"),
				Installments: n(10), InstallmentValue: amt("450"),
			},
		},
	}

	return profiles, transactions
}
