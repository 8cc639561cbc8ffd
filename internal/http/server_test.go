package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fincontrol/internal/core"
	"fincontrol/internal/ledger/memory"
	"fincontrol/internal/services"
)

type fakeAdvisor struct{}

func (fakeAdvisor) AnalyzeFinances(ctx context.Context, transactions []core.Transaction, profiles []core.Profile) (string, error) {
	return "<p>tudo certo</p>", nil
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) PublishLedgerChanged(ctx context.Context, entity, id, action string) error {
	p.events = append(p.events, entity+":"+action)
	return nil
}

func newTestServer(t *testing.T) (*Server, *memory.Store, *recordingPublisher) {
	t.Helper()
	store := memory.NewSeeded()
	pub := &recordingPublisher{}
	reports := services.NewReportProcessor(store, fakeAdvisor{})
	return NewServer(":0", store, reports, pub), store, pub
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestDashboard(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decode[dashboardResponse](t, rec)
	if len(resp.PriorityTotals) != 4 {
		t.Errorf("priority buckets = %d, want exactly 4", len(resp.PriorityTotals))
	}
	wantOrder := []core.PriorityLevel{core.PriorityCritical, core.PriorityHigh, core.PriorityMedium, core.PriorityLow}
	for i, want := range wantOrder {
		if resp.PriorityTotals[i].Priority != want {
			t.Errorf("priority[%d] = %s, want %s", i, resp.PriorityTotals[i].Priority, want)
		}
	}
	if len(resp.Recent) == 0 || len(resp.Recent) > 5 {
		t.Errorf("recent has %d entries, want 1..5", len(resp.Recent))
	}
	// Debts never appear in the trend series.
	for _, p := range resp.MonthlyTrend {
		if p.Income.IsNegative() || p.Expense.IsNegative() {
			t.Errorf("trend point has negative values: %+v", p)
		}
	}
}

func TestDashboardProfileFilter(t *testing.T) {
	s, _, _ := newTestServer(t)

	all := decode[dashboardResponse](t, doRequest(t, s, http.MethodGet, "/api/dashboard", ""))
	one := decode[dashboardResponse](t, doRequest(t, s, http.MethodGet, "/api/dashboard?profiles=1", ""))

	if one.Totals.Income.GreaterThanOrEqual(all.Totals.Income) {
		t.Errorf("filtered income %s should be below unfiltered %s", one.Totals.Income, all.Totals.Income)
	}

	// profiles present but empty filters everything out.
	none := decode[dashboardResponse](t, doRequest(t, s, http.MethodGet, "/api/dashboard?profiles=", ""))
	if !none.Totals.Income.IsZero() || !none.Totals.Balance.IsZero() {
		t.Errorf("empty filter totals = %+v, want zeros", none.Totals)
	}
}

func TestUpcomingLimit(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/upcoming?limit=2", "")
	items := decode[[]core.UpcomingItem](t, rec)
	if len(items) > 2 {
		t.Errorf("got %d items, want at most 2", len(items))
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/upcoming?limit=nope", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestTransactionProgress(t *testing.T) {
	s, _, _ := newTestServer(t)

	// Seed transaction t7: 15000 at 80% remaining, 36 installments.
	rec := doRequest(t, s, http.MethodGet, "/api/transactions/t7/progress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	progress := decode[core.PaymentProgress](t, rec)
	if progress.RemainingPercentage != 80 {
		t.Errorf("remaining = %v, want 80", progress.RemainingPercentage)
	}
	if progress.InstallmentLabel != "7/36" {
		t.Errorf("installment label = %q, want 7/36", progress.InstallmentLabel)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/transactions/missing/progress", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}
	// t1 is an income; progress is undefined for it.
	if rec := doRequest(t, s, http.MethodGet, "/api/transactions/t1/progress", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("income progress status = %d, want 400", rec.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s, _, pub := newTestServer(t)

	body := `{"profileId":"1","type":"EXPENSE","name":"Internet","value":"120","date":"2026-08-10","category":"Moradia"}`
	rec := doRequest(t, s, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[core.Transaction](t, rec)
	if created.ID == "" {
		t.Error("created transaction has no id")
	}
	if len(pub.events) != 1 || pub.events[0] != "transaction:created" {
		t.Errorf("published events = %v", pub.events)
	}

	bad := `{"profileId":"1","type":"TRANSFER","name":"x","value":"1","date":"2026-08-10"}`
	if rec := doRequest(t, s, http.MethodPost, "/api/transactions", bad); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid type status = %d, want 400", rec.Code)
	}
}

func TestDeleteNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	if rec := doRequest(t, s, http.MethodDelete, "/api/transactions/ghost", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodDelete, "/api/goals/ghost", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGoalProjectionEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/goals/projection?target=10000&saved=2000&monthly=500", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	proj := decode[core.GoalProjection](t, rec)
	if proj.MonthsToGoal != 16 || !proj.Computable {
		t.Errorf("projection = %+v, want 16 months computable", proj)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/goals/projection?target=abc&monthly=500", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad target status = %d, want 400", rec.Code)
	}
}

func TestReportFlow(t *testing.T) {
	s, _, _ := newTestServer(t)

	if rec := doRequest(t, s, http.MethodGet, "/api/report", ""); rec.Code != http.StatusNotFound {
		t.Errorf("no report yet status = %d, want 404", rec.Code)
	}

	rec := doRequest(t, s, http.MethodPost, "/api/report", `{"profiles":["1"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body %s", rec.Code, rec.Body.String())
	}
	report := decode[services.Report](t, rec)
	if report.Text != "<p>tudo certo</p>" {
		t.Errorf("report text = %q", report.Text)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/report", ""); rec.Code != http.StatusOK {
		t.Errorf("cached report status = %d, want 200", rec.Code)
	}
}

func TestFactoryResetEndpoint(t *testing.T) {
	s, store, pub := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	p := decode[core.Profile](t, rec)
	if p.Name != "Meu Perfil" {
		t.Errorf("default profile = %+v", p)
	}

	transactions, _ := store.ListTransactions(context.Background())
	if len(transactions) != 0 {
		t.Errorf("transactions after reset = %d, want 0", len(transactions))
	}
	if len(pub.events) == 0 || pub.events[len(pub.events)-1] != "profile:reset" {
		t.Errorf("published events = %v", pub.events)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
