package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fincontrol/internal/core"
	"fincontrol/internal/ledger/memory"
	"fincontrol/internal/services"
)

type countingAdvisor struct {
	calls int
}

func (a *countingAdvisor) AnalyzeFinances(ctx context.Context, transactions []core.Transaction, profiles []core.Profile) (string, error) {
	a.calls++
	return "<p>ok</p>", nil
}

func TestRunStopsCleanOnCancel(t *testing.T) {
	advisor := &countingAdvisor{}
	processor := services.NewReportProcessor(memory.NewSeeded(), advisor)
	w := NewReportWorker(processor, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the startup refresh a moment to land, then shut down.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil on cancellation", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	if advisor.calls == 0 {
		t.Error("startup refresh never ran")
	}

	last, ok := processor.Last()
	if !ok || last.Text != "<p>ok</p>" {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestRunTreatsWrappedCancellationAsClean(t *testing.T) {
	// Shutdown errors may arrive wrapped by intermediate layers.
	wrapped := fmt.Errorf("consume ledger changes: %w", context.Canceled)

	processor := services.NewReportProcessor(memory.New(), &countingAdvisor{})
	w := NewReportWorker(processor, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Errorf("Run() = %v, want nil for pre-cancelled context", err)
	}

	if !cleanShutdown(wrapped) {
		t.Error("wrapped cancellation was not recognized")
	}
	if cleanShutdown(fmt.Errorf("broker gone")) {
		t.Error("unrelated error treated as clean shutdown")
	}
}
