// Package worker keeps the AI financial report fresh outside the request
// path: it regenerates on every ledger change message and on a timer as a
// safety net for missed messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fincontrol/internal/amqp"
	"fincontrol/internal/services"

	"golang.org/x/sync/errgroup"
)

type ReportWorker struct {
	processor *services.ReportProcessor
	client    *amqp.Client
	interval  time.Duration
}

func NewReportWorker(processor *services.ReportProcessor, client *amqp.Client, interval time.Duration) *ReportWorker {
	return &ReportWorker{
		processor: processor,
		client:    client,
		interval:  interval,
	}
}

// Run blocks until ctx is done. Without an AMQP client only the periodic
// refresh runs.
func (w *ReportWorker) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.runPeriodic(gctx)
	})

	if w.client != nil {
		g.Go(func() error {
			return w.client.ConsumeLedgerChanged(gctx, func(msg *amqp.LedgerChangedMessage) error {
				return w.handleChange(gctx, msg)
			})
		})
	}

	err := g.Wait()
	if cleanShutdown(err) {
		return nil
	}
	return err
}

// cleanShutdown reports whether err is a cancellation, possibly wrapped by
// an intermediate layer.
func cleanShutdown(err error) bool {
	return errors.Is(err, context.Canceled)
}

func (w *ReportWorker) runPeriodic(ctx context.Context) error {
	// Produce an initial report at startup so GET /api/report has
	// something to serve before the first change arrives.
	w.refresh(ctx, "startup")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.refresh(ctx, "interval")
		}
	}
}

func (w *ReportWorker) handleChange(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"entity", msg.Entity,
		"id", msg.ID,
		"action", msg.Action)

	if _, err := w.processor.Generate(ctx, nil); err != nil {
		return fmt.Errorf("regenerate report: %w", err)
	}
	return nil
}

func (w *ReportWorker) refresh(ctx context.Context, reason string) {
	if _, err := w.processor.Generate(ctx, nil); err != nil {
		slog.ErrorContext(ctx, "Periodic report refresh failed", "reason", reason, "error", err)
		return
	}
	slog.InfoContext(ctx, "Report refreshed", "reason", reason)
}
