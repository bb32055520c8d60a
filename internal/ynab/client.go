package ynab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production YNAB API endpoint.
const DefaultBaseURL = "https://api.ynab.com/v1"

var (
	// ErrAuthentication indicates a rejected access token (HTTP 401).
	ErrAuthentication = errors.New("authentication failed: check YNAB_ACCESS_TOKEN")

	// ErrRateLimit indicates the remote request quota was exceeded (HTTP 429).
	ErrRateLimit = errors.New("rate limit exceeded: try again in a few minutes")

	// ErrNoBudget indicates the account has no budgets to operate on.
	ErrNoBudget = errors.New("no budgets found for this access token")
)

// APIError is any other non-success response, carrying the remote detail.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("YNAB API error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("YNAB API error (%d)", e.StatusCode)
}

// Client calls the YNAB API for a single budget. Resolve the budget with
// ResolveBudget before using budget-scoped methods.
type Client struct {
	BaseURL    string
	Token      string
	BudgetID   string
	HTTPClient *http.Client
}

// NewClient creates a client with the given bearer token.
func NewClient(token string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues one API request. body (if non-nil) is JSON-encoded; the response
// is decoded into out (if non-nil). Non-2xx responses are classified into
// ErrAuthentication, ErrRateLimit or *APIError.
func (c *Client) do(method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return ErrAuthentication
		case http.StatusTooManyRequests:
			return ErrRateLimit
		}
		var apiErr errorResponse
		detail := ""
		if json.Unmarshal(respBody, &apiErr) == nil {
			detail = apiErr.Error.Detail
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// budgetPath builds a budget-scoped endpoint path.
func (c *Client) budgetPath(suffix string) string {
	return "/budgets/" + c.BudgetID + suffix
}

// ResolveBudget fixes the budget this client operates on. An explicit ID
// wins; otherwise the first budget on the account is used.
func (c *Client) ResolveBudget(budgetID string) error {
	if budgetID != "" {
		c.BudgetID = budgetID
		return nil
	}

	budgets, err := c.Budgets()
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		return ErrNoBudget
	}
	c.BudgetID = budgets[0].ID
	return nil
}

// Budgets lists the budgets available to the token.
func (c *Client) Budgets() ([]Budget, error) {
	var resp budgetsResponse
	if err := c.do("GET", "/budgets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Budgets, nil
}

// --- Accounts ---

func (c *Client) Accounts() ([]Account, error) {
	var resp accountsResponse
	if err := c.do("GET", c.budgetPath("/accounts"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Accounts, nil
}

func (c *Client) CreateAccount(account SaveAccount) (*Account, error) {
	body := map[string]SaveAccount{"account": account}
	var resp accountResponse
	if err := c.do("POST", c.budgetPath("/accounts"), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Account, nil
}

// --- Categories ---

func (c *Client) CategoryGroups() ([]CategoryGroup, error) {
	var resp categoryGroupsResponse
	if err := c.do("GET", c.budgetPath("/categories"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.CategoryGroups, nil
}

// MonthCategory fetches one category with amounts for the given month
// ("current" or YYYY-MM-DD first-of-month).
func (c *Client) MonthCategory(month, categoryID string) (*Category, error) {
	var resp categoryResponse
	path := c.budgetPath("/months/" + url.PathEscape(month) + "/categories/" + categoryID)
	if err := c.do("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Category, nil
}

// SetMonthCategoryBudget updates the budgeted amount for a category/month.
func (c *Client) SetMonthCategoryBudget(month, categoryID string, budgeted int64) (*Category, error) {
	body := map[string]SaveMonthCategory{"category": {Budgeted: budgeted}}
	var resp categoryResponse
	path := c.budgetPath("/months/" + url.PathEscape(month) + "/categories/" + categoryID)
	if err := c.do("PATCH", path, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Category, nil
}

func (c *Client) UpdateCategory(categoryID string, fields SaveCategory) (*Category, error) {
	body := map[string]SaveCategory{"category": fields}
	var resp categoryResponse
	if err := c.do("PATCH", c.budgetPath("/categories/"+categoryID), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Category, nil
}

// --- Payees ---

func (c *Client) Payees() ([]Payee, error) {
	var resp payeesResponse
	if err := c.do("GET", c.budgetPath("/payees"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Payees, nil
}

func (c *Client) UpdatePayee(payeeID, name string) (*Payee, error) {
	body := map[string]SavePayee{"payee": {Name: name}}
	var resp payeeResponse
	if err := c.do("PATCH", c.budgetPath("/payees/"+payeeID), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Payee, nil
}

// --- Transactions ---

// Transactions lists budget transactions, optionally bounded by sinceDate
// (YYYY-MM-DD). The API returns them in ascending date order.
func (c *Client) Transactions(sinceDate string) ([]Transaction, error) {
	path := c.budgetPath("/transactions")
	if sinceDate != "" {
		path += "?since_date=" + url.QueryEscape(sinceDate)
	}
	var resp transactionsResponse
	if err := c.do("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Transactions, nil
}

// AccountTransactions lists transactions for one account.
func (c *Client) AccountTransactions(accountID, sinceDate string) ([]Transaction, error) {
	return c.nestedTransactions("/accounts/"+accountID, sinceDate)
}

// CategoryTransactions lists transactions for one category.
func (c *Client) CategoryTransactions(categoryID, sinceDate string) ([]Transaction, error) {
	return c.nestedTransactions("/categories/"+categoryID, sinceDate)
}

// PayeeTransactions lists transactions for one payee.
func (c *Client) PayeeTransactions(payeeID, sinceDate string) ([]Transaction, error) {
	return c.nestedTransactions("/payees/"+payeeID, sinceDate)
}

func (c *Client) nestedTransactions(prefix, sinceDate string) ([]Transaction, error) {
	path := c.budgetPath(prefix + "/transactions")
	if sinceDate != "" {
		path += "?since_date=" + url.QueryEscape(sinceDate)
	}
	var resp transactionsResponse
	if err := c.do("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Transactions, nil
}

// MonthTransactions lists transactions in one month, optionally filtered by
// type ("uncategorized" or "unapproved").
func (c *Client) MonthTransactions(month, txType string) ([]Transaction, error) {
	path := c.budgetPath("/months/" + url.PathEscape(month) + "/transactions")
	if txType != "" {
		path += "?type=" + url.QueryEscape(txType)
	}
	var resp transactionsResponse
	if err := c.do("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Transactions, nil
}

func (c *Client) Transaction(transactionID string) (*Transaction, error) {
	var resp transactionResponse
	if err := c.do("GET", c.budgetPath("/transactions/"+transactionID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Transaction, nil
}

func (c *Client) CreateTransaction(tx NewTransaction) (*Transaction, error) {
	body := map[string]NewTransaction{"transaction": tx}
	var resp transactionResponse
	if err := c.do("POST", c.budgetPath("/transactions"), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Transaction, nil
}

func (c *Client) UpdateTransaction(transactionID string, fields SaveTransaction) (*Transaction, error) {
	body := map[string]SaveTransaction{"transaction": fields}
	var resp transactionResponse
	if err := c.do("PUT", c.budgetPath("/transactions/"+transactionID), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Transaction, nil
}

func (c *Client) DeleteTransaction(transactionID string) (*Transaction, error) {
	var resp transactionResponse
	if err := c.do("DELETE", c.budgetPath("/transactions/"+transactionID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Transaction, nil
}

// --- Scheduled transactions ---

func (c *Client) ScheduledTransactions() ([]ScheduledTransaction, error) {
	var resp scheduledTransactionsResponse
	if err := c.do("GET", c.budgetPath("/scheduled_transactions"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.ScheduledTransactions, nil
}

func (c *Client) CreateScheduledTransaction(tx SaveScheduledTransaction) (*ScheduledTransaction, error) {
	body := map[string]SaveScheduledTransaction{"scheduled_transaction": tx}
	var resp scheduledTransactionResponse
	if err := c.do("POST", c.budgetPath("/scheduled_transactions"), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.ScheduledTransaction, nil
}

// --- Months ---

func (c *Client) Months() ([]MonthSummary, error) {
	var resp monthsResponse
	if err := c.do("GET", c.budgetPath("/months"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Months, nil
}

func (c *Client) Month(month string) (*MonthSummary, error) {
	var resp monthResponse
	if err := c.do("GET", c.budgetPath("/months/"+url.PathEscape(month)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.Month, nil
}
