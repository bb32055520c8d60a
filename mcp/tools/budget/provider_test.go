package budget

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yabbi/ynab-mcp/internal/ynab"
)

// fakeYNAB serves a minimal in-memory budget under /budgets/b1 and counts
// write requests so tests can assert that rejected calls never hit the API.
type fakeYNAB struct {
	accounts     []ynab.Account
	payees       []ynab.Payee
	groups       []ynab.CategoryGroup
	transactions []ynab.Transaction

	createCalls int
	updateCalls int
	readCalls   int
	lastCreate  ynab.NewTransaction
}

func (f *fakeYNAB) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /budgets/b1/accounts", func(w http.ResponseWriter, r *http.Request) {
		f.readCalls++
		writeData(w, map[string]interface{}{"accounts": f.accounts})
	})
	mux.HandleFunc("GET /budgets/b1/payees", func(w http.ResponseWriter, r *http.Request) {
		f.readCalls++
		writeData(w, map[string]interface{}{"payees": f.payees})
	})
	mux.HandleFunc("GET /budgets/b1/categories", func(w http.ResponseWriter, r *http.Request) {
		f.readCalls++
		writeData(w, map[string]interface{}{"category_groups": f.groups})
	})
	mux.HandleFunc("GET /budgets/b1/transactions", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{"transactions": f.since(r)})
	})
	mux.HandleFunc("GET /budgets/b1/accounts/{id}/transactions", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{"transactions": f.since(r)})
	})
	mux.HandleFunc("POST /budgets/b1/transactions", func(w http.ResponseWriter, r *http.Request) {
		f.createCalls++
		var body struct {
			Transaction ynab.NewTransaction `json:"transaction"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.lastCreate = body.Transaction

		// The real API mints a payee for every payee_name it receives,
		// whether on the parent or on a split line.
		f.mintPayee(body.Transaction.PayeeName)
		for _, st := range body.Transaction.SubTransactions {
			f.mintPayee(st.PayeeName)
		}

		tx := ynab.Transaction{
			ID:        fmt.Sprintf("new-%d", f.createCalls),
			AccountID: body.Transaction.AccountID,
			Date:      body.Transaction.Date,
			Amount:    body.Transaction.Amount,
			Cleared:   body.Transaction.Cleared,
			Approved:  body.Transaction.Approved,
			PayeeName: body.Transaction.PayeeName,
		}
		writeData(w, map[string]interface{}{"transaction": tx})
	})
	mux.HandleFunc("PUT /budgets/b1/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.updateCalls++
		writeData(w, map[string]interface{}{"transaction": ynab.Transaction{ID: r.PathValue("id")}})
	})
	return mux
}

func (f *fakeYNAB) mintPayee(name *string) {
	if name == nil {
		return
	}
	for _, p := range f.payees {
		if p.Name == *name {
			return
		}
	}
	f.payees = append(f.payees, ynab.Payee{ID: fmt.Sprintf("p-minted-%d", len(f.payees)), Name: *name})
}

// since filters the fake's transactions by the since_date query parameter,
// mirroring how the real API bounds a listing.
func (f *fakeYNAB) since(r *http.Request) []ynab.Transaction {
	sinceDate := r.URL.Query().Get("since_date")
	if sinceDate == "" {
		return f.transactions
	}
	var out []ynab.Transaction
	for _, t := range f.transactions {
		if t.Date >= sinceDate {
			out = append(out, t)
		}
	}
	return out
}

func writeData(w http.ResponseWriter, data map[string]interface{}) {
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func newTestProvider(t *testing.T, fake *fakeYNAB) *Provider {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client := ynab.NewClient("test-token")
	client.BaseURL = server.URL
	client.BudgetID = "b1"
	return NewProvider(client)
}

func defaultFake() *fakeYNAB {
	return &fakeYNAB{
		accounts: []ynab.Account{
			{ID: "a1", Name: "Checking", Type: "checking", OnBudget: true, Balance: 150000, ClearedBalance: 150000},
		},
		payees: []ynab.Payee{
			{ID: "p1", Name: "Whole Foods"},
			{ID: "p2", Name: "Amazon"},
		},
		groups: []ynab.CategoryGroup{
			{ID: "g1", Name: "Everyday", Categories: []ynab.Category{
				{ID: "c1", Name: "Groceries", CategoryGroupID: "g1"},
				{ID: "c2", Name: "Dining Out", CategoryGroupID: "g1"},
			}},
		},
	}
}

func TestProviderName(t *testing.T) {
	p := NewProvider(ynab.NewClient(""))
	if p.Name() != "budget" {
		t.Errorf("expected provider name 'budget', got %q", p.Name())
	}
}

func TestProviderTools(t *testing.T) {
	p := NewProvider(ynab.NewClient(""))
	toolList := p.Tools()

	expected := []string{
		"get_budget_summary", "get_monthly_budget", "get_budget_months",
		"get_accounts", "get_account", "create_account", "reconcile_account",
		"get_categories", "get_category", "get_month_category",
		"set_category_budget", "update_category",
		"get_transactions", "get_transaction", "get_month_transactions",
		"create_transaction", "update_transaction", "delete_transaction",
		"get_scheduled_transactions", "create_scheduled_transaction",
		"get_payees", "get_payee", "update_payee",
		"search_tools",
	}
	if len(toolList) != len(expected) {
		t.Fatalf("expected %d tools, got %d", len(expected), len(toolList))
	}
	for i, name := range expected {
		if toolList[i].Name != name {
			t.Errorf("tool %d: expected %q, got %q", i, name, toolList[i].Name)
		}
	}
}

func TestHasTool(t *testing.T) {
	p := NewProvider(ynab.NewClient(""))
	if !p.HasTool("create_transaction") {
		t.Error("expected HasTool(create_transaction) to be true")
	}
	if p.HasTool("launch_rocket") {
		t.Error("expected HasTool(launch_rocket) to be false")
	}
}

func TestCallUnknownTool(t *testing.T) {
	p := NewProvider(ynab.NewClient(""))
	if _, err := p.Call("launch_rocket", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestCheckDependencies(t *testing.T) {
	if err := NewProvider(ynab.NewClient("")).CheckDependencies(); err == nil {
		t.Error("expected failure without an access token")
	}

	client := ynab.NewClient("test-token")
	if err := NewProvider(client).CheckDependencies(); err == nil {
		t.Error("expected failure without a resolved budget")
	}

	client.BudgetID = "b1"
	if err := NewProvider(client).CheckDependencies(); err != nil {
		t.Errorf("expected success with token and budget, got: %v", err)
	}
}

func TestCreateTransactionNewPayeeGate(t *testing.T) {
	fake := defaultFake()
	p := newTestProvider(t, fake)

	_, err := p.Call("create_transaction", map[string]interface{}{
		"amount": -12.50,
		"payee":  "Trader Joe's",
	})
	if err == nil {
		t.Fatal("expected rejection for an unknown payee without confirmation")
	}
	if !strings.Contains(err.Error(), "confirm_new_payee") {
		t.Errorf("error should point at confirm_new_payee, got: %v", err)
	}
	if fake.createCalls != 0 {
		t.Errorf("expected no create requests, got %d", fake.createCalls)
	}

	_, err = p.Call("create_transaction", map[string]interface{}{
		"amount":            -12.50,
		"payee":             "Trader Joe's",
		"confirm_new_payee": true,
	})
	if err != nil {
		t.Fatalf("confirmed creation failed: %v", err)
	}
	if fake.createCalls != 1 {
		t.Fatalf("expected 1 create request, got %d", fake.createCalls)
	}
	if fake.lastCreate.PayeeID != nil {
		t.Error("new payee must be sent by name, not ID")
	}
	if fake.lastCreate.PayeeName == nil || *fake.lastCreate.PayeeName != "Trader Joe's" {
		t.Errorf("expected payee_name 'Trader Joe's', got %v", fake.lastCreate.PayeeName)
	}
}

func TestCreateTransactionExistingPayeeByID(t *testing.T) {
	fake := defaultFake()
	p := newTestProvider(t, fake)

	_, err := p.Call("create_transaction", map[string]interface{}{
		"amount": -45.00,
		"payee":  "whole foods",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if fake.lastCreate.PayeeID == nil || *fake.lastCreate.PayeeID != "p1" {
		t.Errorf("expected payee_id p1, got %v", fake.lastCreate.PayeeID)
	}
	if fake.lastCreate.Amount != -45000 {
		t.Errorf("expected amount -45000 milliunits, got %d", fake.lastCreate.Amount)
	}
	if fake.lastCreate.ImportID == nil || !strings.HasPrefix(*fake.lastCreate.ImportID, "mcp:") {
		t.Errorf("expected an mcp: import_id, got %v", fake.lastCreate.ImportID)
	}
	if !fake.lastCreate.Approved {
		t.Error("created transactions should be approved")
	}
}

func TestCreateTransactionSplitSumMismatch(t *testing.T) {
	fake := defaultFake()
	p := newTestProvider(t, fake)

	_, err := p.Call("create_transaction", map[string]interface{}{
		"amount": -100.00,
		"payee":  "Whole Foods",
		"subtransactions": []interface{}{
			map[string]interface{}{"amount": -60.00},
			map[string]interface{}{"amount": -30.00},
		},
	})
	if err == nil {
		t.Fatal("expected rejection for a split that does not sum to the total")
	}
	if fake.createCalls != 0 {
		t.Errorf("mismatched split must not reach the API; got %d create requests", fake.createCalls)
	}
	if fake.readCalls != 0 {
		t.Errorf("mismatched split must be rejected before any lookup; got %d read requests", fake.readCalls)
	}
}

func TestCreateTransactionSplitNewPayeeRefreshesCache(t *testing.T) {
	fake := defaultFake()
	p := newTestProvider(t, fake)

	_, err := p.Call("create_transaction", map[string]interface{}{
		"amount": -100.00,
		"payee":  "Whole Foods",
		"subtransactions": []interface{}{
			map[string]interface{}{"amount": -60.00, "payee": "Trader Joe's"},
			map[string]interface{}{"amount": -40.00},
		},
		"confirm_new_payee": true,
	})
	if err != nil {
		t.Fatalf("split with confirmed new payee failed: %v", err)
	}

	// The split line created a payee, so the next lookup must see it.
	result, err := p.Call("get_payee", map[string]interface{}{"name": "Trader Joe's"})
	if err != nil {
		t.Fatalf("payee created on a split line should resolve immediately: %v", err)
	}
	if !strings.Contains(contentText(t, result), "Trader Joe's") {
		t.Errorf("unexpected payee detail: %s", contentText(t, result))
	}
}

func TestCreateTransactionNoOpenAccounts(t *testing.T) {
	fake := defaultFake()
	fake.accounts = []ynab.Account{
		{ID: "a1", Name: "Old Checking", Type: "checking", OnBudget: true, Closed: true},
	}
	p := newTestProvider(t, fake)

	_, err := p.Call("create_transaction", map[string]interface{}{
		"amount": -5.00,
		"payee":  "Whole Foods",
	})
	if err == nil {
		t.Fatal("expected an error with no open on-budget accounts")
	}
	if !strings.Contains(err.Error(), "no open on-budget accounts") {
		t.Errorf("error should say no accounts exist, got: %v", err)
	}
}

func TestCreateTransactionSplitSuccess(t *testing.T) {
	fake := defaultFake()
	p := newTestProvider(t, fake)

	_, err := p.Call("create_transaction", map[string]interface{}{
		"amount": -100.00,
		"payee":  "Whole Foods",
		"subtransactions": []interface{}{
			map[string]interface{}{"amount": -60.00, "category": "Groceries"},
			map[string]interface{}{"amount": -40.00, "category": "Dining"},
		},
	})
	if err != nil {
		t.Fatalf("valid split rejected: %v", err)
	}
	if fake.createCalls != 1 {
		t.Fatalf("expected 1 create request, got %d", fake.createCalls)
	}
	if len(fake.lastCreate.SubTransactions) != 2 {
		t.Fatalf("expected 2 subtransactions, got %d", len(fake.lastCreate.SubTransactions))
	}
	if fake.lastCreate.CategoryID != nil {
		t.Error("parent category must be omitted when splits are present")
	}
	if fake.lastCreate.SubTransactions[0].CategoryID == nil || *fake.lastCreate.SubTransactions[0].CategoryID != "c1" {
		t.Errorf("expected first split category c1, got %v", fake.lastCreate.SubTransactions[0].CategoryID)
	}
}

func TestGetTransactionsExpandingLookback(t *testing.T) {
	fake := defaultFake()
	now := time.Now()
	// 5 transactions inside 30 days, another 20 between 30 and 90 days out.
	for i := 0; i < 5; i++ {
		fake.transactions = append(fake.transactions, ynab.Transaction{
			ID:   fmt.Sprintf("recent-%d", i),
			Date: now.AddDate(0, 0, -(i + 1)).Format("2006-01-02"),
		})
	}
	for i := 0; i < 20; i++ {
		fake.transactions = append(fake.transactions, ynab.Transaction{
			ID:   fmt.Sprintf("older-%d", i),
			Date: now.AddDate(0, 0, -(40 + i)).Format("2006-01-02"),
		})
	}
	p := newTestProvider(t, fake)

	result, err := p.Call("get_transactions", map[string]interface{}{})
	if err != nil {
		t.Fatalf("get_transactions failed: %v", err)
	}

	text := contentText(t, result)
	if !strings.Contains(text, "(20, most recent first)") {
		t.Errorf("expected 20 transactions from the widened window, got:\n%s", text)
	}
	// The widened window found enough, so the default limit truncates the
	// oldest entries.
	if strings.Contains(text, "older-19") {
		t.Error("oldest transactions should be truncated by the limit")
	}

	lines := strings.Split(text, "\n")[1:]
	for i := 1; i < len(lines); i++ {
		prev := strings.Fields(lines[i-1])[0]
		cur := strings.Fields(lines[i])[0]
		if prev < cur {
			t.Fatalf("transactions out of order: %s before %s", prev, cur)
		}
	}
}

func TestGetTransactionsExplicitSinceDate(t *testing.T) {
	fake := defaultFake()
	fake.transactions = []ynab.Transaction{
		{ID: "t1", Date: "2026-08-01"},
		{ID: "t2", Date: "2026-05-01"},
	}
	p := newTestProvider(t, fake)

	result, err := p.Call("get_transactions", map[string]interface{}{
		"since_date": "2026-07-01",
	})
	if err != nil {
		t.Fatalf("get_transactions failed: %v", err)
	}
	text := contentText(t, result)
	if !strings.Contains(text, "(1, most recent first)") {
		t.Errorf("expected exactly 1 transaction after since_date, got:\n%s", text)
	}
}

func TestReconcileAccountNoAdjustmentNeeded(t *testing.T) {
	fake := defaultFake()
	fake.transactions = []ynab.Transaction{
		{ID: "t1", AccountID: "a1", Date: "2026-08-01", Cleared: "cleared"},
		{ID: "t2", AccountID: "a1", Date: "2026-08-02", Cleared: "cleared"},
		{ID: "t3", AccountID: "a1", Date: "2026-08-03", Cleared: "uncleared"},
	}
	p := newTestProvider(t, fake)

	result, err := p.Call("reconcile_account", map[string]interface{}{
		"account":        "checking",
		"target_balance": 150.00,
	})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if fake.updateCalls != 2 {
		t.Errorf("expected 2 transactions marked reconciled, got %d updates", fake.updateCalls)
	}
	if fake.createCalls != 0 {
		t.Errorf("matching balance must not create an adjustment, got %d creates", fake.createCalls)
	}
	text := contentText(t, result)
	if !strings.Contains(text, "Reconciled 2 cleared transaction(s)") {
		t.Errorf("unexpected summary:\n%s", text)
	}
}

func TestReconcileAccountCreatesAdjustment(t *testing.T) {
	fake := defaultFake()
	p := newTestProvider(t, fake)

	// Cleared balance is $150.00; reconciling to $160.00 needs a +$10.00
	// adjustment.
	result, err := p.Call("reconcile_account", map[string]interface{}{
		"account":        "checking",
		"target_balance": 160.00,
	})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if fake.createCalls != 1 {
		t.Fatalf("expected 1 adjustment transaction, got %d", fake.createCalls)
	}
	if fake.lastCreate.Amount != 10000 {
		t.Errorf("expected adjustment of 10000 milliunits, got %d", fake.lastCreate.Amount)
	}
	if fake.lastCreate.PayeeName == nil || *fake.lastCreate.PayeeName != "Reconciliation Balance Adjustment" {
		t.Errorf("unexpected adjustment payee: %v", fake.lastCreate.PayeeName)
	}
	if fake.lastCreate.Cleared != "reconciled" {
		t.Errorf("adjustment should be created reconciled, got %q", fake.lastCreate.Cleared)
	}
	text := contentText(t, result)
	if !strings.Contains(text, "$10.00 adjustment") {
		t.Errorf("unexpected summary:\n%s", text)
	}
}

func TestUpdateTransactionRequiresFields(t *testing.T) {
	fake := defaultFake()
	p := newTestProvider(t, fake)

	_, err := p.Call("update_transaction", map[string]interface{}{
		"transaction_id": "t1",
	})
	if err == nil {
		t.Fatal("expected rejection when no fields are supplied")
	}
	if fake.updateCalls != 0 {
		t.Errorf("empty update must not reach the API, got %d requests", fake.updateCalls)
	}
}

func TestUpdateTransactionInvalidCleared(t *testing.T) {
	fake := defaultFake()
	p := newTestProvider(t, fake)

	_, err := p.Call("update_transaction", map[string]interface{}{
		"transaction_id": "t1",
		"cleared":        "kind-of-cleared",
	})
	if err == nil {
		t.Fatal("expected rejection for an invalid cleared status")
	}
	if fake.updateCalls != 0 {
		t.Errorf("invalid update must not reach the API, got %d requests", fake.updateCalls)
	}
}

func TestSearchToolsByCategory(t *testing.T) {
	p := NewProvider(ynab.NewClient(""))

	result, err := p.Call("search_tools", map[string]interface{}{
		"category": "payee",
	})
	if err != nil {
		t.Fatalf("search_tools failed: %v", err)
	}
	text := contentText(t, result)
	for _, want := range []string{"get_payees", "get_payee", "update_payee"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %s in payee category results:\n%s", want, text)
		}
	}
	if strings.Contains(text, "get_accounts") {
		t.Errorf("account tools should not match the payee category:\n%s", text)
	}
}

func TestSearchToolsByKeyword(t *testing.T) {
	p := NewProvider(ynab.NewClient(""))

	result, err := p.Call("search_tools", map[string]interface{}{
		"keyword": "reconcile",
	})
	if err != nil {
		t.Fatalf("search_tools failed: %v", err)
	}
	text := contentText(t, result)
	if !strings.Contains(text, "reconcile_account") {
		t.Errorf("expected reconcile_account in results:\n%s", text)
	}
}

// contentText extracts the text payload from an MCP content response.
func contentText(t *testing.T, result interface{}) string {
	t.Helper()
	m, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("result is not a content map: %T", result)
	}
	content, ok := m["content"].([]map[string]interface{})
	if !ok || len(content) == 0 {
		t.Fatalf("result has no content: %v", m)
	}
	text, _ := content[0]["text"].(string)
	return text
}
