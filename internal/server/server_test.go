package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mirotec-backend/internal/config"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	database.DB = testdb.Open(t)
	cfg := &config.Config{
		JWTSecret:   "test-secret-that-is-long-enough-for-hs256",
		CORSOrigins: "http://localhost:5173",
	}
	return NewApp(cfg)
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}

func registerOwner(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/auth/register-company", "", fiber.Map{
		"company_name": "Mirotec Wires",
		"gstin":        "24AAAFM9339E1ZE",
		"state":        "Gujarat",
		"owner_name":   "Ravi Patel",
		"owner_email":  "ravi@mirotec.test",
		"password":     "wire-drawing-1",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: %d %s", status, raw)
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(t, raw, &out)
	if out.Token == "" {
		t.Fatalf("register returned no token")
	}
	return out.Token
}

type itemView struct {
	ID          uint            `json:"id"`
	MaterialKey string          `json:"material_key"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockStatus string          `json:"stock_status"`
}

func inventoryByKey(t *testing.T, app *fiber.App, token string) map[string]itemView {
	t.Helper()
	status, raw := call(t, app, http.MethodGet, "/api/inventory", token, nil)
	if status != http.StatusOK {
		t.Fatalf("inventory: %d %s", status, raw)
	}
	var items []itemView
	decode(t, raw, &items)
	out := make(map[string]itemView, len(items))
	for _, it := range items {
		out[it.MaterialKey] = it
	}
	return out
}

func TestUnauthenticatedRequestIsRejected(t *testing.T) {
	app := newTestApp(t)
	status, _ := call(t, app, http.MethodGet, "/api/inventory", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	app := newTestApp(t)
	registerOwner(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ravi@mirotec.test", "password": "wire-drawing-1",
	})
	if status != http.StatusOK {
		t.Fatalf("login: %d %s", status, raw)
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, raw, &login)

	status, raw = call(t, app, http.MethodGet, "/api/auth/me", login.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("me: %d %s", status, raw)
	}

	status, _ = call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ravi@mirotec.test", "password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", status)
	}
}

func TestMachineStartShortageReturnsConflict(t *testing.T) {
	app := newTestApp(t)
	token := registerOwner(t, app)
	items := inventoryByKey(t, app, token)

	silver, copper := items["silver"], items["copper"]
	for _, u := range []struct {
		id  uint
		qty int64
	}{{silver.ID, 15}, {copper.ID, 1}} {
		status, raw := call(t, app, http.MethodPut, fmt.Sprintf("/api/inventory/%d/quantity", u.id), token,
			fiber.Map{"quantity": u.qty})
		if status != http.StatusOK {
			t.Fatalf("set quantity: %d %s", status, raw)
		}
	}

	status, raw := call(t, app, http.MethodPost, "/api/machines", token, fiber.Map{
		"name": "WD-01", "type": "wire_drawing", "status": "stopped",
	})
	if status != http.StatusCreated {
		t.Fatalf("create machine: %d %s", status, raw)
	}
	var m struct {
		ID uint `json:"id"`
	}
	decode(t, raw, &m)

	status, raw = call(t, app, http.MethodPut, fmt.Sprintf("/api/machines/%d/status", m.ID), token,
		fiber.Map{"status": "running"})
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d %s", status, raw)
	}
	var shortage struct {
		Error     string          `json:"error"`
		Material  string          `json:"material"`
		Required  decimal.Decimal `json:"required"`
		Available decimal.Decimal `json:"available"`
	}
	decode(t, raw, &shortage)
	if shortage.Material != "copper" || !shortage.Required.Equal(decimal.NewFromInt(3)) || !shortage.Available.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unexpected shortage body: %s", raw)
	}

	after := inventoryByKey(t, app, token)
	if !after["silver"].Quantity.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("silver should be untouched, got %s", after["silver"].Quantity)
	}
	if after["silver"].StockStatus != "low_stock" {
		t.Fatalf("silver 15 under min 20 should be low_stock, got %s", after["silver"].StockStatus)
	}
}

func TestPayrollReprocessAnswersFalse(t *testing.T) {
	app := newTestApp(t)
	token := registerOwner(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/employees", token, fiber.Map{
		"name": "Suresh Kumar", "role": "operator",
	})
	if status != http.StatusCreated {
		t.Fatalf("create employee: %d %s", status, raw)
	}

	for i, want := range []bool{true, false} {
		status, raw = call(t, app, http.MethodPost, "/api/payroll/2024-05/process", token, nil)
		if status != http.StatusOK {
			t.Fatalf("process #%d: %d %s", i+1, status, raw)
		}
		var out struct {
			Processed bool `json:"processed"`
		}
		decode(t, raw, &out)
		if out.Processed != want {
			t.Fatalf("process #%d: expected processed=%v, got %s", i+1, want, raw)
		}
	}

	status, raw = call(t, app, http.MethodGet, "/api/transactions?category=salary", token, nil)
	if status != http.StatusOK {
		t.Fatalf("transactions: %d %s", status, raw)
	}
	var entries []map[string]interface{}
	decode(t, raw, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected one salary entry, got %d: %s", len(entries), raw)
	}
}

func TestOperatorCannotReadFinance(t *testing.T) {
	app := newTestApp(t)
	token := registerOwner(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/users", token, fiber.Map{
		"name": "Line Operator", "email": "op@mirotec.test", "password": "operator-pass", "role": "operator",
	})
	if status != http.StatusCreated {
		t.Fatalf("create user: %d %s", status, raw)
	}
	status, raw = call(t, app, http.MethodGet, "/api/audit-logs?entity_type=user", token, nil)
	if status != http.StatusOK {
		t.Fatalf("audit logs: %d %s", status, raw)
	}
	var logs []map[string]interface{}
	decode(t, raw, &logs)
	if len(logs) != 1 || logs[0]["action"] != "create" {
		t.Fatalf("expected one user audit entry, got %s", raw)
	}
	status, raw = call(t, app, http.MethodPost, "/api/users", token, fiber.Map{
		"name": "Duplicate", "email": "op@mirotec.test", "password": "operator-pass", "role": "manager",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d %s", status, raw)
	}
	status, raw = call(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "op@mirotec.test", "password": "operator-pass",
	})
	if status != http.StatusOK {
		t.Fatalf("operator login: %d %s", status, raw)
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, raw, &login)

	if status, _ := call(t, app, http.MethodGet, "/api/finance/summary", login.Token, nil); status != http.StatusForbidden {
		t.Fatalf("finance summary: expected 403, got %d", status)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/machines", login.Token, nil); status != http.StatusOK {
		t.Fatalf("machines: expected 200, got %d", status)
	}
}

func TestValidationFailureListsFields(t *testing.T) {
	app := newTestApp(t)
	token := registerOwner(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/inventory", token, fiber.Map{
		"name": "Brass", "category": "scrap",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", status, raw)
	}
	var out struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, raw, &out)
	if out.Fields["MaterialKey"] != "required" {
		t.Fatalf("expected MaterialKey in fields, got %s", raw)
	}
}

func TestInvoicePaidFlowsIntoSummary(t *testing.T) {
	app := newTestApp(t)
	token := registerOwner(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/invoices", token, fiber.Map{
		"client_name":  "Surat Textiles",
		"client_state": "Gujarat",
		"gst_rate":     18,
		"line_items": []fiber.Map{
			{"product_key": "silver_zari", "hsn_code": "5605", "quantity": 10, "rate": 1000},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("create invoice: %d %s", status, raw)
	}
	var inv struct {
		ID         uint            `json:"id"`
		GrandTotal decimal.Decimal `json:"grand_total"`
	}
	decode(t, raw, &inv)
	if !inv.GrandTotal.Equal(decimal.NewFromInt(11800)) {
		t.Fatalf("grand total: expected 11800, got %s", inv.GrandTotal)
	}

	status, raw = call(t, app, http.MethodPut, fmt.Sprintf("/api/invoices/%d/status", inv.ID), token,
		fiber.Map{"status": "paid"})
	if status != http.StatusOK {
		t.Fatalf("mark paid: %d %s", status, raw)
	}

	status, raw = call(t, app, http.MethodGet, "/api/finance/summary", token, nil)
	if status != http.StatusOK {
		t.Fatalf("summary: %d %s", status, raw)
	}
	var sum struct {
		TotalRevenue decimal.Decimal `json:"total_revenue"`
	}
	decode(t, raw, &sum)
	if !sum.TotalRevenue.Equal(decimal.NewFromInt(11800)) {
		t.Fatalf("revenue: expected 11800, got %s", sum.TotalRevenue)
	}
}
