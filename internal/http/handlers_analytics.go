package http

import (
	"log/slog"
	"net/http"
	"time"

	"fincontrol/internal/core"
)

const defaultListLimit = 5

type dashboardResponse struct {
	Profiles       []core.Profile       `json:"profiles"`
	Totals         core.Totals          `json:"totals"`
	MonthlyTrend   []core.TrendPoint    `json:"monthlyTrend"`
	CategoryTotals []core.CategoryTotal `json:"categoryTotals"`
	PriorityTotals []core.PriorityTotal `json:"priorityTotals"`
	Upcoming       []core.UpcomingItem  `json:"upcoming"`
	Recent         []core.Transaction   `json:"recent"`
	Goals          []goalView           `json:"goals"`
}

type goalView struct {
	core.Goal
	Percentage float64 `json:"percentage"`
}

// handleDashboard recomputes the full dashboard from a fresh snapshot.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, transactions, err := s.loadLedger(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load ledger", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load ledger")
		return
	}
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load goals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load goals")
		return
	}

	transactions = core.FilterByProfiles(transactions, profileFilter(r))

	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView{Goal: g, Percentage: core.ComputeGoalPercentage(g)})
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Profiles:       profiles,
		Totals:         core.ComputeTotals(transactions),
		MonthlyTrend:   core.ComputeMonthlyTrend(transactions),
		CategoryTotals: core.ComputeCategoryTotals(transactions),
		PriorityTotals: core.ComputePriorityTotals(transactions),
		Upcoming:       core.ComputeUpcoming(transactions, time.Now(), defaultListLimit),
		Recent:         core.RecentTransactions(transactions, defaultListLimit),
		Goals:          views,
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	transactions, ok := s.filteredTransactions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, core.ComputeMonthlyTrend(transactions))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	transactions, ok := s.filteredTransactions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, core.ComputeCategoryTotals(transactions))
}

func (s *Server) handlePriorities(w http.ResponseWriter, r *http.Request) {
	transactions, ok := s.filteredTransactions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, core.ComputePriorityTotals(transactions))
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	transactions, ok := s.filteredTransactions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, core.ComputeUpcoming(transactions, time.Now(), limit))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	transactions, ok := s.filteredTransactions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, core.RecentTransactions(transactions, limit))
}

func (s *Server) handleTransactionProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	for _, t := range transactions {
		if t.ID != id {
			continue
		}
		if !t.IsObligation() {
			writeError(w, http.StatusBadRequest, "payment progress applies to expenses and debts only")
			return
		}
		writeJSON(w, http.StatusOK, core.ComputePaymentProgress(t))
		return
	}
	writeError(w, http.StatusNotFound, "transaction not found")
}

func (s *Server) filteredTransactions(w http.ResponseWriter, r *http.Request) ([]core.Transaction, bool) {
	ctx := r.Context()
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return nil, false
	}
	return core.FilterByProfiles(transactions, profileFilter(r)), true
}
