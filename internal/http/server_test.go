package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tonyh/billdivide/internal/auth"
	"github.com/tonyh/billdivide/internal/service"
	"github.com/tonyh/billdivide/internal/storage/sqlite"
)

type testAPI struct {
	handler nethttp.Handler
	token   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.DeleteAllBills(context.Background()); err != nil {
		t.Fatalf("DeleteAllBills() error = %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store)
	billSvc := service.NewBillService(store, nil)
	api := &testAPI{handler: NewServer(billSvc, authSvc, store, jwtManager)}

	resp := api.do(t, "POST", "/api/auth/register", map[string]string{
		"email":       "demo@example.com",
		"displayName": "Demo",
		"password":    "correct horse",
	})
	if resp.Code != nethttp.StatusCreated {
		t.Fatalf("register status = %d, body %s", resp.Code, resp.Body.String())
	}
	var reg struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &reg); err != nil {
		t.Fatalf("decoding register response: %v", err)
	}
	api.token = reg.Token
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func createBillRequestBody(date string) map[string]any {
	return map[string]any{
		"title":      "Lunch",
		"date":       date,
		"taxPercent": "8",
		"tipPercent": 10,
		"people": []map[string]string{
			{"userId": "me", "name": "You"},
			{"userId": "alex", "name": "Alex"},
		},
		"items": []map[string]any{
			{"name": "Sandwiches", "price": "30", "participants": []string{"me", "alex"}},
		},
	}
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "GET", "/api/auth/me", nil)
	if resp.Code != nethttp.StatusOK {
		t.Fatalf("me status = %d, body %s", resp.Code, resp.Body.String())
	}
	var me struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &me); err != nil {
		t.Fatalf("decoding me response: %v", err)
	}
	if me.User.Email != "demo@example.com" {
		t.Errorf("me email = %q, want demo@example.com", me.User.Email)
	}

	resp = api.do(t, "POST", "/api/auth/login", map[string]string{
		"email":    "demo@example.com",
		"password": "wrong password",
	})
	if resp.Code != nethttp.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.Code)
	}
}

func TestRequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	for _, path := range []string{"/api/bills", "/api/dashboard", "/api/preferences"} {
		if resp := api.do(t, "GET", path, nil); resp.Code != nethttp.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, resp.Code)
		}
	}
}

func TestCreateAndGetBill(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "POST", "/api/bills", createBillRequestBody(tomorrow()))
	if resp.Code != nethttp.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Bill billResponse `json:"bill"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.Bill.Total != 35.40 {
		t.Errorf("total = %v, want 35.40 from lenient string/number inputs", created.Bill.Total)
	}
	if created.Bill.TotalFormatted != "$35.40" {
		t.Errorf("totalFormatted = %q, want $35.40", created.Bill.TotalFormatted)
	}

	resp = api.do(t, "GET", "/api/bills/"+created.Bill.ID, nil)
	if resp.Code != nethttp.StatusOK {
		t.Fatalf("get status = %d, body %s", resp.Code, resp.Body.String())
	}

	resp = api.do(t, "GET", "/api/bills/no-such-id", nil)
	if resp.Code != nethttp.StatusNotFound {
		t.Errorf("get unknown bill status = %d, want 404", resp.Code)
	}
}

func TestCreateBillValidation(t *testing.T) {
	api := newTestAPI(t)

	body := createBillRequestBody(tomorrow())
	body["items"] = []map[string]any{}
	resp := api.do(t, "POST", "/api/bills", body)
	if resp.Code != nethttp.StatusBadRequest {
		t.Errorf("create with no items status = %d, want 400", resp.Code)
	}
}

func TestSettleShareEndpoint(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "POST", "/api/bills", createBillRequestBody(tomorrow()))
	var created struct {
		Bill billResponse `json:"bill"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}

	resp = api.do(t, "POST", fmt.Sprintf("/api/bills/%s/settle", created.Bill.ID),
		map[string]string{"userId": "alex"})
	if resp.Code != nethttp.StatusOK {
		t.Fatalf("settle status = %d, body %s", resp.Code, resp.Body.String())
	}
	var settled struct {
		Bill billResponse `json:"bill"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &settled); err != nil {
		t.Fatalf("decoding settle response: %v", err)
	}
	alexShare := settled.Bill.Participants[1]
	if alexShare.Share != 0 {
		t.Errorf("settled share = %v, want 0", alexShare.Share)
	}
	if alexShare.OriginalShare != 17.70 {
		t.Errorf("originalShare = %v, want 17.70 preserved after settling", alexShare.OriginalShare)
	}

	// Unknown bill: silent no-op.
	resp = api.do(t, "POST", "/api/bills/no-such-id/settle", nil)
	if resp.Code != nethttp.StatusNoContent {
		t.Errorf("settle unknown bill status = %d, want 204", resp.Code)
	}
}

func TestSettleAllPastBillConflict(t *testing.T) {
	api := newTestAPI(t)

	past := createBillRequestBody(time.Now().AddDate(0, 0, -2).Format("2006-01-02"))
	resp := api.do(t, "POST", "/api/bills", past)
	var created struct {
		Bill billResponse `json:"bill"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}

	resp = api.do(t, "POST", fmt.Sprintf("/api/bills/%s/settle-all", created.Bill.ID), nil)
	if resp.Code != nethttp.StatusConflict {
		t.Errorf("settle-all past bill status = %d, want 409", resp.Code)
	}
	resp = api.do(t, "DELETE", "/api/bills/"+created.Bill.ID, nil)
	if resp.Code != nethttp.StatusConflict {
		t.Errorf("delete past bill status = %d, want 409", resp.Code)
	}
}

func TestPreferencesEndpoint(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, "PUT", "/api/preferences", map[string]any{
		"currency": "EUR", "theme": "dark", "notifications": false,
	})
	if resp.Code != nethttp.StatusOK {
		t.Fatalf("put preferences status = %d, body %s", resp.Code, resp.Body.String())
	}

	resp = api.do(t, "GET", "/api/preferences", nil)
	var prefs struct {
		Currency string `json:"currency"`
		Theme    string `json:"theme"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("decoding preferences: %v", err)
	}
	if prefs.Currency != "EUR" || prefs.Theme != "dark" {
		t.Errorf("preferences = %+v, want EUR/dark", prefs)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	api := newTestAPI(t)

	if resp := api.do(t, "POST", "/api/bills", createBillRequestBody(tomorrow())); resp.Code != nethttp.StatusCreated {
		t.Fatalf("create status = %d", resp.Code)
	}

	resp := api.do(t, "GET", "/api/dashboard", nil)
	if resp.Code != nethttp.StatusOK {
		t.Fatalf("dashboard status = %d, body %s", resp.Code, resp.Body.String())
	}
	var dash struct {
		Balances []balanceResponse `json:"balances"`
		Summary  summaryResponse   `json:"summary"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decoding dashboard: %v", err)
	}
	if len(dash.Balances) != 1 {
		t.Fatalf("len(balances) = %d, want 1", len(dash.Balances))
	}
	if dash.Summary.OwedToYou != 17.70 {
		t.Errorf("owedToYou = %v, want 17.70", dash.Summary.OwedToYou)
	}
	if dash.Balances[0].AmountFormatted != "$17.70" {
		t.Errorf("amountFormatted = %q, want $17.70", dash.Balances[0].AmountFormatted)
	}
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	resp := api.do(t, "GET", "/healthz", nil)
	if resp.Code != nethttp.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.Code)
	}
}
