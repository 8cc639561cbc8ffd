package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fincontrol/internal/core"

	"golang.org/x/sync/errgroup"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// profileFilter reads the optional "profiles" query parameter: a comma
// separated id list. Absent means no filtering; present but empty means
// filter everything out.
func profileFilter(r *http.Request) []string {
	if !r.URL.Query().Has("profiles") {
		return nil
	}
	raw := r.URL.Query().Get("profiles")
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// limitParam reads a "limit" query parameter with a default. limit=0 is an
// explicit request for the full list.
func limitParam(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return n, nil
}

// loadLedger fetches profiles and transactions concurrently. Both must be
// fully loaded before any aggregate is computed over them.
func (s *Server) loadLedger(ctx context.Context) ([]core.Profile, []core.Transaction, error) {
	var (
		profiles     []core.Profile
		transactions []core.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = s.store.ListProfiles(gctx)
		if err != nil {
			return fmt.Errorf("load profiles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = s.store.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profiles, transactions, nil
}
