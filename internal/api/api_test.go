package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/feeledger/feeledger/internal/api"
	"github.com/feeledger/feeledger/internal/auth"
	"github.com/feeledger/feeledger/internal/models"
	"github.com/feeledger/feeledger/internal/storage/sqlite"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.SQLiteStore) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	ts := httptest.NewServer(api.New(store, jwtManager).Router())
	t.Cleanup(ts.Close)
	return ts, store
}

// call sends a JSON request and decodes the response envelope.
func call(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, env
}

func login(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	creds := map[string]string{
		"email":        "admin@school.test",
		"display_name": "Admin",
		"password":     "correct-horse",
	}
	if status, env := call(t, ts, http.MethodPost, "/api/v1/auth/register", "", creds); status != http.StatusCreated {
		t.Fatalf("register returned %d: %s", status, env.Error)
	}

	status, env := call(t, ts, http.MethodPost, "/api/v1/auth/login", "", creds)
	if status != http.StatusOK {
		t.Fatalf("login returned %d: %s", status, env.Error)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if out.Token == "" {
		t.Fatal("expected a token")
	}
	return out.Token
}

func createStudent(t *testing.T, ts *httptest.Server, token, name string) string {
	t.Helper()

	status, env := call(t, ts, http.MethodPost, "/api/v1/students", token, map[string]string{
		"name":  name,
		"grade": "3A",
	})
	if status != http.StatusCreated {
		t.Fatalf("create student returned %d: %s", status, env.Error)
	}
	var st models.Student
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("failed to decode student: %v", err)
	}
	return st.ID
}

func createExpectation(t *testing.T, ts *httptest.Server, token, studentID string, number int, amount, dueDate string) {
	t.Helper()

	status, env := call(t, ts, http.MethodPost, "/api/v1/fee-records", token, map[string]any{
		"student_id":         studentID,
		"installment_number": number,
		"amount":             amount,
		"due_date":           dueDate,
	})
	if status != http.StatusCreated {
		t.Fatalf("create expectation returned %d: %s", status, env.Error)
	}
}

func TestAuthRequired(t *testing.T) {
	ts, _ := newTestServer(t)

	status, _ := call(t, ts, http.MethodGet, "/api/v1/students", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", status)
	}

	status, _ = call(t, ts, http.MethodGet, "/api/v1/students", "not-a-token", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 with garbage token, got %d", status)
	}
}

func TestRegisterRejects(t *testing.T) {
	ts, _ := newTestServer(t)

	status, _ := call(t, ts, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "weak@school.test",
		"password": "short",
	})
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for weak password, got %d", status)
	}

	creds := map[string]string{"email": "dup@school.test", "password": "longenough"}
	if status, env := call(t, ts, http.MethodPost, "/api/v1/auth/register", "", creds); status != http.StatusCreated {
		t.Fatalf("register returned %d: %s", status, env.Error)
	}
	status, _ = call(t, ts, http.MethodPost, "/api/v1/auth/register", "", creds)
	if status != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", status)
	}
}

func TestPaymentFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	token := login(t, ts)
	studentID := createStudent(t, ts, token, "Ana Torres")
	createExpectation(t, ts, token, studentID, 1, "50000", "2026-09-01")
	createExpectation(t, ts, token, studentID, 2, "50000", "2026-10-01")

	pay := func(body map[string]any) (int, models.SubmissionResult) {
		t.Helper()
		status, env := call(t, ts, http.MethodPost, "/api/v1/payments", token, body)
		var result models.SubmissionResult
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &result); err != nil {
				t.Fatalf("failed to decode submission result: %v", err)
			}
		}
		return status, result
	}

	// Exact match is accepted and persisted.
	status, result := pay(map[string]any{
		"student_id":         studentID,
		"amount":             "50000",
		"installment_number": 1,
		"payment_method":     "cash",
	})
	if status != http.StatusCreated {
		t.Fatalf("exact payment returned %d", status)
	}
	if result.Status != models.SubmissionAccepted || result.Record == nil {
		t.Fatalf("expected accepted result with record, got %+v", result)
	}

	// Paying the same installment again is rejected.
	status, result = pay(map[string]any{
		"student_id":         studentID,
		"amount":             "50000",
		"installment_number": 1,
		"payment_method":     "cash",
	})
	if status != http.StatusConflict {
		t.Fatalf("double payment returned %d", status)
	}
	if result.Verdict == nil || result.Verdict.Outcome != models.OutcomeAlreadyPaid {
		t.Fatalf("expected already_paid verdict, got %+v", result.Verdict)
	}

	// A wrong amount escalates to pending_confirmation.
	mismatch := map[string]any{
		"student_id":         studentID,
		"amount":             "45000",
		"installment_number": 2,
		"payment_method":     "transfer",
	}
	status, result = pay(mismatch)
	if status != http.StatusAccepted {
		t.Fatalf("mismatch returned %d", status)
	}
	if result.Status != models.SubmissionPendingConfirmation {
		t.Fatalf("expected pending_confirmation, got %s", result.Status)
	}

	// Confirming the mismatch writes the given amount.
	mismatch["confirm_mismatch"] = true
	status, result = pay(mismatch)
	if status != http.StatusCreated {
		t.Fatalf("confirmed mismatch returned %d", status)
	}
	if result.Record == nil || result.Record.Amount != "45000" {
		t.Fatalf("expected confirmed amount 45000, got %+v", result.Record)
	}

	// The derived plan shows both installments paid.
	status, env := call(t, ts, http.MethodGet, fmt.Sprintf("/api/v1/students/%s/installments", studentID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("installments returned %d: %s", status, env.Error)
	}
	var plan []models.Installment
	if err := json.Unmarshal(env.Data, &plan); err != nil {
		t.Fatalf("failed to decode plan: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("expected 2 installments, got %d", len(plan))
	}
	for _, inst := range plan {
		if !inst.IsPaid {
			t.Errorf("installment %d should be paid", inst.Number)
		}
	}
}

func TestPaymentInputValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	token := login(t, ts)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing student", map[string]any{"amount": "100", "payment_method": "cash"}},
		{"bad amount", map[string]any{"student_id": "s1", "amount": "ten", "payment_method": "cash"}},
		{"zero amount", map[string]any{"student_id": "s1", "amount": "0", "payment_method": "cash"}},
		{"negative amount", map[string]any{"student_id": "s1", "amount": "-12000", "payment_method": "cash"}},
		{"negative free payment", map[string]any{"student_id": "s1", "amount": "-12000", "is_free_payment": true, "payment_method": "cash"}},
		{"bad method", map[string]any{"student_id": "s1", "amount": "100", "payment_method": "barter"}},
		{"bad date", map[string]any{"student_id": "s1", "amount": "100", "payment_method": "cash", "payment_date": "01/02/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, ts, http.MethodPost, "/api/v1/payments", token, tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", status)
			}
		})
	}
}

func TestNonPositiveFreePaymentNeverPersists(t *testing.T) {
	ts, _ := newTestServer(t)
	token := login(t, ts)
	studentID := createStudent(t, ts, token, "Sofía Méndez")

	// Free payments skip catalog validation entirely, so the sign check at
	// the edge is the only thing standing between a negative amount and a
	// paid ledger row.
	for _, amt := range []string{"-12000", "0"} {
		status, _ := call(t, ts, http.MethodPost, "/api/v1/payments", token, map[string]any{
			"student_id":      studentID,
			"amount":          amt,
			"is_free_payment": true,
			"payment_method":  "cash",
		})
		if status != http.StatusBadRequest {
			t.Errorf("amount %s: expected 400, got %d", amt, status)
		}
	}

	status, env := call(t, ts, http.MethodGet, fmt.Sprintf("/api/v1/students/%s/fee-records", studentID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("fee-records returned %d: %s", status, env.Error)
	}
	var records []models.FeeRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		t.Fatalf("failed to decode records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected an empty ledger, got %d records", len(records))
	}
}

func TestPaymentStoreError(t *testing.T) {
	ts, store := newTestServer(t)
	token := login(t, ts)
	studentID := createStudent(t, ts, token, "Iker Soto")

	// A dead store must surface as store_error, not as an accepted or
	// rejected submission.
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	status, env := call(t, ts, http.MethodPost, "/api/v1/payments", token, map[string]any{
		"student_id":      studentID,
		"amount":          "12000",
		"is_free_payment": true,
		"payment_method":  "cash",
	})
	if status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", status)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("failed to decode store_error body: %v", err)
	}
	if body.Status != "store_error" {
		t.Errorf("status = %q, want store_error", body.Status)
	}
	if env.Error == "" {
		t.Error("expected a retry hint in the error field")
	}
}

func TestDashboard(t *testing.T) {
	ts, _ := newTestServer(t)
	token := login(t, ts)
	studentID := createStudent(t, ts, token, "Luis Peña")
	createExpectation(t, ts, token, studentID, 1, "30000", "2026-09-01")
	createExpectation(t, ts, token, studentID, 2, "30000", "2099-12-01")

	status, _ := call(t, ts, http.MethodPost, "/api/v1/payments", token, map[string]any{
		"student_id":         studentID,
		"amount":             "30000",
		"installment_number": 1,
		"payment_method":     "cash",
	})
	if status != http.StatusCreated {
		t.Fatalf("payment returned %d", status)
	}

	statusCode, env := call(t, ts, http.MethodGet, "/api/v1/dashboard", token, nil)
	if statusCode != http.StatusOK {
		t.Fatalf("dashboard returned %d: %s", statusCode, env.Error)
	}
	var sum struct {
		Expected  string `json:"expected"`
		Collected string `json:"collected"`
		Counts    struct {
			Pending int `json:"pending"`
			Paid    int `json:"paid"`
		} `json:"counts"`
	}
	if err := json.Unmarshal(env.Data, &sum); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if sum.Collected != "30000" {
		t.Errorf("expected collected 30000, got %s", sum.Collected)
	}
	if sum.Expected != "30000" {
		t.Errorf("expected outstanding 30000, got %s", sum.Expected)
	}
	if sum.Counts.Paid != 1 || sum.Counts.Pending != 1 {
		t.Errorf("unexpected counts: %+v", sum.Counts)
	}
}
