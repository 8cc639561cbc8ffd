// Package storage implements the ledger store on SQLite. Monetary values
// are stored as TEXT and parsed with shopspring/decimal so no precision is
// lost on the round trip.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fincontrol/internal/core"
	"fincontrol/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

var _ ledger.Store = (*Repository)(nil)

// Open connects to the SQLite database at path, runs pending migrations and
// returns a ready repository.
func Open(path string) (*Repository, error) {
	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) ListProfiles(ctx context.Context) ([]core.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, bank_account FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []core.Profile
	for rows.Next() {
		var p core.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.BankAccount); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, type, bank_account) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Type, p.BankAccount)
	if err != nil {
		return core.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

func (r *Repository) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profile_id, type, name, value, date, category, notes,
		       fixed_income, frequency, priority, due_date,
		       remaining_percentage, amount_paid, installments, installment_value
		FROM transactions ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	var (
		fixedIncome      sql.NullBool
		frequency        sql.NullString
		priority         sql.NullString
		dueDate          sql.NullString
		remainingPct     sql.NullFloat64
		amountPaid       sql.NullString
		installments     sql.NullInt64
		installmentValue sql.NullString
	)
	if t.Income != nil {
		fixedIncome = sql.NullBool{Bool: t.Income.FixedIncome, Valid: true}
	}
	if ob := t.Obligation; ob != nil {
		frequency = sql.NullString{String: string(ob.Frequency), Valid: ob.Frequency != ""}
		priority = sql.NullString{String: string(ob.Priority), Valid: ob.Priority != ""}
		dueDate = sql.NullString{String: ob.DueDate, Valid: ob.DueDate != ""}
		if ob.RemainingPercentage != nil {
			remainingPct = sql.NullFloat64{Float64: *ob.RemainingPercentage, Valid: true}
		}
		if ob.AmountPaid != nil {
			amountPaid = sql.NullString{String: ob.AmountPaid.String(), Valid: true}
		}
		if ob.Installments != nil {
			installments = sql.NullInt64{Int64: int64(*ob.Installments), Valid: true}
		}
		if ob.InstallmentValue != nil {
			installmentValue = sql.NullString{String: ob.InstallmentValue.String(), Valid: true}
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (
			id, profile_id, type, name, value, date, category, notes,
			fixed_income, frequency, priority, due_date,
			remaining_percentage, amount_paid, installments, installment_value
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProfileID, t.Type, t.Name, t.Value.String(), t.Date,
		t.Category, t.Notes,
		fixedIncome, frequency, priority, dueDate,
		remainingPct, amountPaid, installments, installmentValue)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_amount, current_amount, deadline FROM goals ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g               core.Goal
			target, current string
		)
		if err := rows.Scan(&g.ID, &g.Name, &target, &current, &g.Deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("parse goal target %q: %w", target, err)
		}
		if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
			return nil, fmt.Errorf("parse goal current %q: %w", current, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, name, target_amount, current_amount, deadline) VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), g.Deadline)
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	return g, nil
}

func (r *Repository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireAffected(res)
}

// FactoryReset wipes all tables inside a transaction and recreates the
// single default profile.
func (r *Repository) FactoryReset(ctx context.Context) (core.Profile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Profile{}, fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "goals", "profiles"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return core.Profile{}, fmt.Errorf("wipe %s: %w", table, err)
		}
	}

	p := core.Profile{
		ID:          uuid.NewString(),
		Name:        "Meu Perfil",
		Type:        core.ProfilePersonal,
		BankAccount: "Carteira",
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id, name, type, bank_account) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Type, p.BankAccount)
	if err != nil {
		return core.Profile{}, fmt.Errorf("insert default profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Profile{}, fmt.Errorf("commit reset: %w", err)
	}
	return p, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		t                core.Transaction
		value            string
		fixedIncome      sql.NullBool
		frequency        sql.NullString
		priority         sql.NullString
		dueDate          sql.NullString
		remainingPct     sql.NullFloat64
		amountPaid       sql.NullString
		installments     sql.NullInt64
		installmentValue sql.NullString
	)
	err := rows.Scan(
		&t.ID, &t.ProfileID, &t.Type, &t.Name, &value, &t.Date,
		&t.Category, &t.Notes,
		&fixedIncome, &frequency, &priority, &dueDate,
		&remainingPct, &amountPaid, &installments, &installmentValue)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	if t.Value, err = decimal.NewFromString(value); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction value %q: %w", value, err)
	}

	if fixedIncome.Valid {
		t.Income = &core.IncomeDetails{FixedIncome: fixedIncome.Bool}
	}

	if frequency.Valid || priority.Valid || dueDate.Valid ||
		remainingPct.Valid || amountPaid.Valid || installments.Valid || installmentValue.Valid {
		ob := &core.ObligationDetails{
			Frequency: core.FrequencyType(frequency.String),
			Priority:  core.PriorityLevel(priority.String),
			DueDate:   dueDate.String,
		}
		if remainingPct.Valid {
			v := remainingPct.Float64
			ob.RemainingPercentage = &v
		}
		if amountPaid.Valid {
			v, err := decimal.NewFromString(amountPaid.String)
			if err != nil {
				return core.Transaction{}, fmt.Errorf("parse amount paid %q: %w", amountPaid.String, err)
			}
			ob.AmountPaid = &v
		}
		if installments.Valid {
			n := int(installments.Int64)
			ob.Installments = &n
		}
		if installmentValue.Valid {
			v, err := decimal.NewFromString(installmentValue.String)
			if err != nil {
				return core.Transaction{}, fmt.Errorf("parse installment value %q: %w", installmentValue.String, err)
			}
			ob.InstallmentValue = &v
		}
		t.Obligation = ob
	}

	return t, nil
}
