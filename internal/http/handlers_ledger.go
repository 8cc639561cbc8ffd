package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"fincontrol/internal/amqp"
	"fincontrol/internal/core"
	"fincontrol/internal/ledger"

	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list profiles", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p core.Profile
	if !decodeBody(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateProfile(r.Context(), p)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	s.publishChange(r.Context(), amqp.EntityProfile, created.ID, amqp.ActionCreated)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.store.DeleteProfile(r.Context(), id)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "profile not found")
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to delete profile", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete profile")
	default:
		s.publishChange(r.Context(), amqp.EntityProfile, id, amqp.ActionDeleted)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, ok := s.filteredTransactions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if !decodeBody(w, r, &t) {
		return
	}
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	s.publishChange(r.Context(), amqp.EntityTransaction, created.ID, amqp.ActionCreated)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.store.DeleteTransaction(r.Context(), id)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "transaction not found")
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
	default:
		s.publishChange(r.Context(), amqp.EntityTransaction, id, amqp.ActionDeleted)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list goals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView{Goal: g, Percentage: core.ComputeGoalPercentage(g)})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if !decodeBody(w, r, &g) {
		return
	}
	if err := g.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateGoal(r.Context(), g)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create goal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}

	s.publishChange(r.Context(), amqp.EntityGoal, created.ID, amqp.ActionCreated)
	writeJSON(w, http.StatusCreated, goalView{Goal: created, Percentage: core.ComputeGoalPercentage(created)})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.store.DeleteGoal(r.Context(), id)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "goal not found")
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to delete goal", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete goal")
	default:
		s.publishChange(r.Context(), amqp.EntityGoal, id, amqp.ActionDeleted)
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleGoalProjection runs the ad-hoc savings simulator over query
// parameters; nothing is read from or written to the store.
func (s *Server) handleGoalProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	target, err := decimal.NewFromString(q.Get("target"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target amount")
		return
	}
	saved := decimal.Zero
	if v := q.Get("saved"); v != "" {
		if saved, err = decimal.NewFromString(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid saved amount")
			return
		}
	}
	monthly, err := decimal.NewFromString(q.Get("monthly"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid monthly contribution")
		return
	}

	writeJSON(w, http.StatusOK, core.ComputeGoalProjection(target, saved, monthly))
}

type reportRequest struct {
	Profiles []string `json:"profiles"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	report, err := s.reports.Generate(r.Context(), req.Profiles)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to generate report", "error", err)
		writeError(w, http.StatusBadGateway, "failed to generate report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleLastReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.reports.Last()
	if !ok {
		writeError(w, http.StatusNotFound, "no report generated yet")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFactoryReset(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.FactoryReset(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to factory reset", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset")
		return
	}
	s.publishChange(r.Context(), amqp.EntityProfile, p.ID, amqp.ActionReset)
	writeJSON(w, http.StatusOK, p)
}
