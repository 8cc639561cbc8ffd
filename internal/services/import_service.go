package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"fincontrol/internal/core"
	"fincontrol/internal/ledger"
)

// LegacySnapshot is the JSON export format of older installations: a single
// document with the full ledger.
type LegacySnapshot struct {
	Profiles     []core.Profile     `json:"profiles"`
	Transactions []core.Transaction `json:"transactions"`
	Goals        []core.Goal        `json:"goals"`
}

// ImportResult counts what was imported per entity
type ImportResult struct {
	Profiles     int
	Transactions int
	Goals        int
	Skipped      bool
}

// ImportLegacySnapshot loads a snapshot file into the store. The import is
// a no-op when the store already holds profiles, so restarting the server
// never duplicates data.
func ImportLegacySnapshot(ctx context.Context, store ledger.Store, path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap LegacySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ImportResult{}, fmt.Errorf("parse snapshot: %w", err)
	}

	return importSnapshot(ctx, store, snap)
}

func importSnapshot(ctx context.Context, store ledger.Store, snap LegacySnapshot) (ImportResult, error) {
	existing, err := store.ListProfiles(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("check existing profiles: %w", err)
	}
	if len(existing) > 0 {
		slog.InfoContext(ctx, "Store already populated, skipping legacy import",
			"profiles", len(existing))
		return ImportResult{Skipped: true}, nil
	}

	var result ImportResult
	for _, p := range snap.Profiles {
		if err := p.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid legacy profile", "id", p.ID, "error", err)
			continue
		}
		if _, err := store.CreateProfile(ctx, p); err != nil {
			return result, fmt.Errorf("import profile %s: %w", p.ID, err)
		}
		result.Profiles++
	}
	for _, t := range snap.Transactions {
		if err := t.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid legacy transaction", "id", t.ID, "error", err)
			continue
		}
		if _, err := store.CreateTransaction(ctx, t); err != nil {
			return result, fmt.Errorf("import transaction %s: %w", t.ID, err)
		}
		result.Transactions++
	}
	for _, g := range snap.Goals {
		if err := g.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid legacy goal", "id", g.ID, "error", err)
			continue
		}
		if _, err := store.CreateGoal(ctx, g); err != nil {
			return result, fmt.Errorf("import goal %s: %w", g.ID, err)
		}
		result.Goals++
	}

	slog.InfoContext(ctx, "Imported legacy snapshot",
		"profiles", result.Profiles,
		"transactions", result.Transactions,
		"goals", result.Goals)

	return result, nil
}
