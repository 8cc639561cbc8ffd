// Package services holds application services that sit between the HTTP
// layer and the store: AI report generation and legacy snapshot import.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fincontrol/internal/core"
	"fincontrol/internal/ledger"

	"golang.org/x/sync/errgroup"
)

// Advisor produces a narrative report over the ledger
type Advisor interface {
	AnalyzeFinances(ctx context.Context, transactions []core.Transaction, profiles []core.Profile) (string, error)
}

// Report is a generated narrative with its generation time
type Report struct {
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ReportProcessor loads the ledger and asks the advisor for a report. The
// last successful report is kept so callers can read it without paying for
// a new generation.
type ReportProcessor struct {
	store   ledger.Store
	advisor Advisor

	mu   sync.RWMutex
	last *Report
}

func NewReportProcessor(store ledger.Store, advisor Advisor) *ReportProcessor {
	return &ReportProcessor{
		store:   store,
		advisor: advisor,
	}
}

// Generate loads profiles and transactions concurrently, optionally narrows
// the ledger to the given profile ids, and produces a fresh report.
func (p *ReportProcessor) Generate(ctx context.Context, profileIDs []string) (Report, error) {
	var (
		profiles     []core.Profile
		transactions []core.Transaction
	)

	// Both collections must be fully loaded before anything is computed
	// over them.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = p.store.ListProfiles(gctx)
		if err != nil {
			return fmt.Errorf("load profiles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = p.store.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	transactions = core.FilterByProfiles(transactions, profileIDs)

	text, err := p.advisor.AnalyzeFinances(ctx, transactions, profiles)
	if err != nil {
		return Report{}, fmt.Errorf("analyze finances: %w", err)
	}

	report := Report{Text: text, GeneratedAt: time.Now()}

	p.mu.Lock()
	p.last = &report
	p.mu.Unlock()

	slog.InfoContext(ctx, "Generated financial report",
		"transactions", len(transactions),
		"profiles", len(profiles))

	return report, nil
}

// Last returns the most recent successful report, if any
func (p *ReportProcessor) Last() (Report, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return Report{}, false
	}
	return *p.last, true
}
