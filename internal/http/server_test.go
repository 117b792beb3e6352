package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dompetku/internal/advisor"
	"dompetku/internal/core"
	"dompetku/internal/snapshot"
	"dompetku/internal/store"
)

type fakeAdvisor struct {
	text  string
	err   error
	calls int
}

func (f *fakeAdvisor) Advise(context.Context, []core.Transaction, []core.Debt, []core.SavingsGoal) (string, error) {
	f.calls++
	return f.text, f.err
}

func newTestServer(t *testing.T, adv advisor.Advisor, opts Options) *Server {
	t.Helper()
	st := store.New(snapshot.State{}, nil, nil)
	s := NewServer(":0", st, adv, opts)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListTransactions(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(s, http.MethodPost, "/api/transactions",
		`{"date":"2026-08-28","amount":500000,"category":"Gaji","description":"gaji agustus","type":"income"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Error("expected assigned id")
	}

	rec = do(s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("unexpected list: %+v", listed)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown category", `{"date":"2026-08-28","amount":100,"category":"Nope","type":"expense"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"date":"2026-08-28","amount":0,"category":"Gaji","type":"income"}`, http.StatusUnprocessableEntity},
		{"missing date", `{"amount":100,"category":"Gaji","type":"income"}`, http.StatusUnprocessableEntity},
		{"bad type", `{"date":"2026-08-28","amount":100,"category":"Gaji","type":"transfer"}`, http.StatusUnprocessableEntity},
		{"invalid json", `{`, http.StatusBadRequest},
		{"trailing garbage", `{"date":"2026-08-28","amount":100,"category":"Gaji","type":"income"}{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateTransactionAcceptsDecimalStringAmount(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	tests := []struct {
		name   string
		amount string
		want   int64
	}{
		{"dot separator", `"12.34"`, 1234},
		{"comma separator", `"12,34"`, 1234},
		{"third decimal rounds half-up", `"12.346"`, 1235},
		{"integer cents unchanged", `1234`, 1234},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/api/transactions",
				`{"date":"2026-08-28","amount":`+tt.amount+`,"category":"Belanja","type":"expense"}`)
			if rec.Code != http.StatusCreated {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var created core.Transaction
			if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
				t.Fatalf("decode created: %v", err)
			}
			if created.Amount.Cents != tt.want {
				t.Errorf("amount = %d cents, want %d", created.Amount.Cents, tt.want)
			}
		})
	}

	rec := do(s, http.MethodPost, "/api/transactions",
		`{"date":"2026-08-28","amount":"abc","category":"Belanja","type":"expense"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric amount status = %d, want 400", rec.Code)
	}
}

func TestDecimalStringAmountsAcrossEntities(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(s, http.MethodPost, "/api/debts",
		`{"personName":"Sari","amount":"250,00","type":"payable"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("debt status = %d, body %s", rec.Code, rec.Body.String())
	}
	var debt core.Debt
	_ = json.Unmarshal(rec.Body.Bytes(), &debt)
	if debt.Amount.Cents != 25000 {
		t.Errorf("debt amount = %d cents, want 25000", debt.Amount.Cents)
	}

	rec = do(s, http.MethodPost, "/api/savings",
		`{"name":"Motor","targetAmount":"1500.50","icon":"🚗","color":"#EF4444"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("saving status = %d, body %s", rec.Code, rec.Body.String())
	}
	var goal savingsGoalResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &goal)
	if goal.TargetAmount.Cents != 150050 {
		t.Errorf("target = %d cents, want 150050", goal.TargetAmount.Cents)
	}

	if rec := do(s, http.MethodPut, "/api/savings/"+goal.ID+"/amount", `{"amount":"750,25"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d", rec.Code)
	}
	rec = do(s, http.MethodGet, "/api/savings", "")
	var listed []savingsGoalResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].CurrentAmount.Cents != 75025 {
		t.Errorf("expected current amount 75025, got %+v", listed)
	}
}

func TestDeleteTransactionIsIdempotent(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(s, http.MethodPost, "/api/transactions",
		`{"date":"2026-08-28","amount":100,"category":"Belanja","type":"expense"}`)
	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	if rec := do(s, http.MethodDelete, "/api/transactions/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(s, http.MethodDelete, "/api/transactions/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("second delete status = %d", rec.Code)
	}

	rec = do(s, http.MethodGet, "/api/transactions", "")
	var listed []core.Transaction
	_ = json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Errorf("expected empty list, got %d", len(listed))
	}
}

func TestDebtLifecycle(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(s, http.MethodPost, "/api/debts",
		`{"personName":"Budi","amount":25000,"type":"receivable","isPaid":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created core.Debt
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.IsPaid {
		t.Error("new debts must start unpaid even if the client claims otherwise")
	}

	if rec := do(s, http.MethodPost, "/api/debts/"+created.ID+"/toggle", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	rec = do(s, http.MethodGet, "/api/debts", "")
	var listed []core.Debt
	_ = json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 1 || !listed[0].IsPaid {
		t.Errorf("expected toggled debt, got %+v", listed)
	}

	if rec := do(s, http.MethodDelete, "/api/debts/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestSavingsProgressInPayload(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(s, http.MethodPost, "/api/savings",
		`{"name":"Liburan","targetAmount":100000,"currentAmount":99999,"icon":"✈️","color":"#3B82F6"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created savingsGoalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.CurrentAmount.Cents != 0 || created.Progress != 0 {
		t.Errorf("new goal must start at zero: %+v", created)
	}

	// Overshoot clamps to 100 in the payload.
	if rec := do(s, http.MethodPut, "/api/savings/"+created.ID+"/amount", `{"amount":150000}`); rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d", rec.Code)
	}
	rec = do(s, http.MethodGet, "/api/savings", "")
	var listed []savingsGoalResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].Progress != 100 {
		t.Errorf("expected clamped progress 100, got %+v", listed)
	}
}

func TestUpdateSavingAmountRejectsNegative(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(s, http.MethodPut, "/api/savings/whatever/amount", `{"amount":-5}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestSummaryAndDashboard(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	do(s, http.MethodPost, "/api/transactions", `{"date":"2026-08-28","amount":11000,"category":"Gaji","type":"income"}`)
	do(s, http.MethodPost, "/api/transactions", `{"date":"2026-08-28","amount":4000,"category":"Belanja","type":"expense"}`)
	do(s, http.MethodPost, "/api/savings", `{"name":"Dana darurat","targetAmount":100000,"icon":"💰","color":"#10B981"}`)

	rec := do(s, http.MethodGet, "/api/summary", "")
	var summary core.FinancialSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalIncome.Cents != 11000 || summary.TotalExpense.Cents != 4000 || summary.Balance.Cents != 7000 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	rec = do(s, http.MethodGet, "/api/dashboard", "")
	var dash dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if len(dash.DailySeries) != dailyWindowDays {
		t.Errorf("daily series length = %d, want %d", len(dash.DailySeries), dailyWindowDays)
	}
	if len(dash.ExpenseByCategory) != 1 || dash.ExpenseByCategory[0].Name != "Belanja" {
		t.Errorf("unexpected expense breakdown: %+v", dash.ExpenseByCategory)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(s, http.MethodGet, "/api/categories", "")
	var cats categoriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats.Expense) != len(core.ExpenseCategories) || len(cats.Income) != len(core.IncomeCategories) {
		t.Errorf("unexpected categories payload: %+v", cats)
	}
}

func TestAdviceCachesIdenticalSnapshots(t *testing.T) {
	adv := &fakeAdvisor{text: "Kurangi jajan kopi."}
	s := newTestServer(t, adv, Options{})

	rec := do(s, http.MethodPost, "/api/advice", "")
	var first adviceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode advice: %v", err)
	}
	if first.Cached || first.Advice != "Kurangi jajan kopi." {
		t.Errorf("unexpected first response: %+v", first)
	}

	rec = do(s, http.MethodPost, "/api/advice", "")
	var second adviceResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &second)
	if !second.Cached {
		t.Error("expected second identical request to hit the cache")
	}
	if adv.calls != 1 {
		t.Errorf("provider calls = %d, want 1", adv.calls)
	}

	// Mutating the data changes the prompt and bypasses the cache.
	do(s, http.MethodPost, "/api/transactions", `{"date":"2026-08-28","amount":100,"category":"Hiburan","type":"expense"}`)
	do(s, http.MethodPost, "/api/advice", "")
	if adv.calls != 2 {
		t.Errorf("provider calls after mutation = %d, want 2", adv.calls)
	}
}

func TestAdviceProviderFailureDegradesToFixedText(t *testing.T) {
	adv := &fakeAdvisor{err: errors.New("boom")}
	s := newTestServer(t, adv, Options{})

	rec := do(s, http.MethodPost, "/api/advice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp adviceResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Advice != advisor.ErrorMessage {
		t.Errorf("advice = %q, want fixed error text", resp.Advice)
	}

	// Failures are not cached; the next request retries the provider.
	do(s, http.MethodPost, "/api/advice", "")
	if adv.calls != 2 {
		t.Errorf("provider calls = %d, want 2", adv.calls)
	}
}

func TestGetAdviceBeforeAnyGeneration(t *testing.T) {
	s := newTestServer(t, &fakeAdvisor{text: "x"}, Options{})

	if rec := do(s, http.MethodGet, "/api/advice", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetAdviceReturnsLatest(t *testing.T) {
	adv := &fakeAdvisor{text: "Sisihkan dana darurat."}
	s := newTestServer(t, adv, Options{})

	do(s, http.MethodPost, "/api/advice", "")

	rec := do(s, http.MethodGet, "/api/advice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp adviceResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Advice != "Sisihkan dana darurat." || !resp.Cached {
		t.Errorf("unexpected response: %+v", resp)
	}
	if adv.calls != 1 {
		t.Errorf("GET must not contact the provider, calls = %d", adv.calls)
	}
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	s := newTestServer(t, nil, Options{RateLimitRPM: 2})

	body := `{"date":"2026-08-28","amount":100,"category":"Belanja","type":"expense"}`
	for i := 0; i < 2; i++ {
		if rec := do(s, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec := do(s, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Error("expected Retry-After header")
	}

	// Reads stay unthrottled.
	if rec := do(s, http.MethodGet, "/api/transactions", ""); rec.Code != http.StatusOK {
		t.Errorf("read status = %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	if rec := do(s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
	if rec := do(s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d", rec.Code)
	}
	rec := do(s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "uptime_seconds") {
		t.Error("expected uptime metric")
	}
}

func TestSecurityHeadersOnAPIResponses(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	rec := do(s, http.MethodGet, "/api/transactions", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	s := newTestServer(t, nil, Options{})

	first := do(s, http.MethodGet, "/api/transactions", "").Header().Get("X-Request-ID")
	if !strings.HasPrefix(first, "req_") {
		t.Fatalf("X-Request-ID = %q, want req_ prefix", first)
	}
	second := do(s, http.MethodGet, "/api/transactions", "").Header().Get("X-Request-ID")
	if second == first {
		t.Errorf("request IDs not unique: %q", second)
	}
}
