package budget

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yabbi/ynab-mcp/internal/money"
	"github.com/yabbi/ynab-mcp/internal/ynab"
	"github.com/yabbi/ynab-mcp/mcp/tools"
)

const defaultTransactionLimit = 20

// lookbackDays are tried in order when no since_date is given, widening
// until enough transactions are found or the history is exhausted.
var lookbackDays = []int{30, 90, 180, 365}

// subSumTolerance is the maximum allowed drift, in major units, between a
// split total and its parent amount. Covers float noise, not real mismatches.
const subSumTolerance = 0.005

func (p *Provider) getTransactions(args map[string]interface{}) (interface{}, error) {
	limit := tools.GetInt(args, "limit", defaultTransactionLimit)
	if limit <= 0 {
		limit = defaultTransactionLimit
	}

	// Each filter narrows which endpoint we hit; the API only supports one
	// entity scope per request, so the first matching filter wins.
	fetch := func(sinceDate string) ([]ynab.Transaction, error) {
		return p.client.Transactions(sinceDate)
	}
	scope := "all accounts"
	if name := tools.GetString(args, "account"); name != "" {
		account, err := p.resolveAccountStrict(name)
		if err != nil {
			return nil, err
		}
		fetch = func(sinceDate string) ([]ynab.Transaction, error) {
			return p.client.AccountTransactions(account.ID, sinceDate)
		}
		scope = account.Name
	} else if name := tools.GetString(args, "category"); name != "" {
		category, err := p.resolveCategoryStrict(name)
		if err != nil {
			return nil, err
		}
		fetch = func(sinceDate string) ([]ynab.Transaction, error) {
			return p.client.CategoryTransactions(category.ID, sinceDate)
		}
		scope = category.Name
	} else if name := tools.GetString(args, "payee"); name != "" {
		payee, err := p.resolvePayeeStrict(name)
		if err != nil {
			return nil, err
		}
		fetch = func(sinceDate string) ([]ynab.Transaction, error) {
			return p.client.PayeeTransactions(payee.ID, sinceDate)
		}
		scope = payee.Name
	}

	var transactions []ynab.Transaction
	if since := tools.GetString(args, "since_date"); since != "" {
		date, err := money.ResolveDateToken(since)
		if err != nil {
			return nil, err
		}
		transactions, err = fetch(date)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		transactions, err = p.fetchWithLookback(fetch, limit)
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date > transactions[j].Date
	})
	if len(transactions) > limit {
		transactions = transactions[:limit]
	}

	if len(transactions) == 0 {
		return tools.TextContent(fmt.Sprintf("No transactions found for %s.", scope)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transactions for %s (%d, most recent first):\n", scope, len(transactions))
	for _, t := range transactions {
		fmt.Fprintf(&b, "%s\n", transactionLine(t))
	}
	return tools.TextContent(strings.TrimRight(b.String(), "\n")), nil
}

// fetchWithLookback widens the query window step by step so that a budget
// with years of history is not pulled in full just to show recent activity.
func (p *Provider) fetchWithLookback(fetch func(string) ([]ynab.Transaction, error), limit int) ([]ynab.Transaction, error) {
	now := time.Now()
	for _, days := range lookbackDays {
		since := now.AddDate(0, 0, -days).Format("2006-01-02")
		transactions, err := fetch(since)
		if err != nil {
			return nil, err
		}
		if len(transactions) >= limit {
			return transactions, nil
		}
	}
	return fetch("")
}

func (p *Provider) getTransaction(args map[string]interface{}) (interface{}, error) {
	id, err := tools.GetStringRequired(args, "transaction_id")
	if err != nil {
		return nil, err
	}

	transaction, err := p.client.Transaction(id)
	if err != nil {
		return nil, err
	}
	return tools.TextContent(formatTransaction(*transaction)), nil
}

func (p *Provider) getMonthTransactions(args map[string]interface{}) (interface{}, error) {
	month := tools.GetString(args, "month")
	if month == "" {
		month = "current"
	}
	month, err := money.MonthToken(month)
	if err != nil {
		return nil, err
	}

	txType := tools.GetString(args, "type")
	switch txType {
	case "", "uncategorized", "unapproved":
	default:
		return nil, fmt.Errorf("invalid type %q: use uncategorized or unapproved", txType)
	}

	transactions, err := p.client.MonthTransactions(month, txType)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return tools.TextContent(fmt.Sprintf("No transactions in %s.", month)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transactions in %s (%d):\n", month, len(transactions))
	for _, t := range transactions {
		fmt.Fprintf(&b, "%s\n", transactionLine(t))
	}
	return tools.TextContent(strings.TrimRight(b.String(), "\n")), nil
}

func (p *Provider) createTransaction(args map[string]interface{}) (interface{}, error) {
	amount, err := tools.GetNumberRequired(args, "amount")
	if err != nil {
		return nil, err
	}
	payeeQuery, err := tools.GetStringRequired(args, "payee")
	if err != nil {
		return nil, err
	}

	date := tools.GetString(args, "date")
	if date == "" {
		date = "today"
	}
	date, err = money.ResolveDateToken(date)
	if err != nil {
		return nil, err
	}

	cleared := tools.GetString(args, "cleared")
	if cleared != "" && !validCleared(cleared) {
		return nil, fmt.Errorf("invalid cleared status %q: use uncleared, cleared or reconciled", cleared)
	}

	// Split amounts are checked before any account, payee or category lookup:
	// a mismatched split must trigger no remote traffic at all.
	subs, hasSubs := args["subtransactions"].([]interface{})
	hasSubs = hasSubs && len(subs) > 0
	var subAmounts []float64
	if hasSubs {
		subAmounts, err = splitAmounts(subs, amount)
		if err != nil {
			return nil, err
		}
	}

	account, err := p.pickAccount(tools.GetString(args, "account"))
	if err != nil {
		return nil, err
	}

	confirmNew := tools.GetBool(args, "confirm_new_payee", false)
	payeeID, payeeName, err := p.resolvePayeeForWrite(payeeQuery, confirmNew)
	if err != nil {
		return nil, err
	}

	importID := "mcp:" + uuid.NewString()
	tx := ynab.NewTransaction{
		AccountID: account.ID,
		Date:      date,
		Amount:    money.ToMilliunits(amount),
		PayeeID:   payeeID,
		PayeeName: payeeName,
		Cleared:   cleared,
		Approved:  true,
		ImportID:  &importID,
	}
	if memo := tools.GetString(args, "memo"); memo != "" {
		tx.Memo = &memo
	}

	if hasSubs {
		subTxs, err := p.buildSubTransactions(subs, subAmounts, confirmNew)
		if err != nil {
			return nil, err
		}
		tx.SubTransactions = subTxs
	} else if name := tools.GetString(args, "category"); name != "" {
		category, err := p.resolveCategoryStrict(name)
		if err != nil {
			return nil, err
		}
		tx.CategoryID = &category.ID
	}

	created, err := p.client.CreateTransaction(tx)
	if err != nil {
		return nil, err
	}

	// The API mints a payee for every payee_name it saw, parent or split
	// line, so any of them staling the cache forces a refresh.
	newPayee := payeeName != nil
	for _, st := range tx.SubTransactions {
		if st.PayeeName != nil {
			newPayee = true
		}
	}
	if newPayee {
		if err := p.resolver.RefreshPayees(); err != nil {
			return nil, err
		}
	}

	return tools.TextContent(fmt.Sprintf("Created transaction.\n%s", formatTransaction(*created))), nil
}

// splitAmounts extracts and validates split line amounts: each line must
// carry one, and together they must sum to the parent amount within
// tolerance.
func splitAmounts(raw []interface{}, total float64) ([]float64, error) {
	amounts := make([]float64, len(raw))
	sum := 0.0
	for i, item := range raw {
		sub, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("subtransaction %d is not an object", i+1)
		}
		amount, err := tools.GetNumberRequired(sub, "amount")
		if err != nil {
			return nil, fmt.Errorf("subtransaction %d: %w", i+1, err)
		}
		amounts[i] = amount
		sum += amount
	}
	if math.Abs(sum-total) > subSumTolerance {
		return nil, fmt.Errorf("subtransaction amounts sum to %.2f but the transaction amount is %.2f", sum, total)
	}
	return amounts, nil
}

// buildSubTransactions resolves split line payees and categories. Amounts
// have already been validated by splitAmounts.
func (p *Provider) buildSubTransactions(raw []interface{}, amounts []float64, confirmNew bool) ([]ynab.SubTransaction, error) {
	var subTxs []ynab.SubTransaction
	for i, item := range raw {
		sub := item.(map[string]interface{})
		st := ynab.SubTransaction{Amount: money.ToMilliunits(amounts[i])}
		if name := tools.GetString(sub, "payee"); name != "" {
			payeeID, payeeName, err := p.resolvePayeeForWrite(name, confirmNew)
			if err != nil {
				return nil, fmt.Errorf("subtransaction %d: %w", i+1, err)
			}
			st.PayeeID = payeeID
			st.PayeeName = payeeName
		}
		if name := tools.GetString(sub, "category"); name != "" {
			category, err := p.resolveCategoryStrict(name)
			if err != nil {
				return nil, fmt.Errorf("subtransaction %d: %w", i+1, err)
			}
			st.CategoryID = &category.ID
		}
		if memo := tools.GetString(sub, "memo"); memo != "" {
			st.Memo = &memo
		}
		subTxs = append(subTxs, st)
	}
	return subTxs, nil
}

func (p *Provider) updateTransaction(args map[string]interface{}) (interface{}, error) {
	id, err := tools.GetStringRequired(args, "transaction_id")
	if err != nil {
		return nil, err
	}

	var fields ynab.SaveTransaction
	payeeChanged := false

	if amount, ok := args["amount"].(float64); ok {
		milli := money.ToMilliunits(amount)
		fields.Amount = &milli
	}
	if date := tools.GetString(args, "date"); date != "" {
		resolved, err := money.ResolveDateToken(date)
		if err != nil {
			return nil, err
		}
		fields.Date = &resolved
	}
	if memo := tools.GetString(args, "memo"); memo != "" {
		fields.Memo = &memo
	}
	if cleared := tools.GetString(args, "cleared"); cleared != "" {
		if !validCleared(cleared) {
			return nil, fmt.Errorf("invalid cleared status %q: use uncleared, cleared or reconciled", cleared)
		}
		fields.Cleared = &cleared
	}
	if name := tools.GetString(args, "category"); name != "" {
		category, err := p.resolveCategoryStrict(name)
		if err != nil {
			return nil, err
		}
		fields.CategoryID = &category.ID
	}
	if name := tools.GetString(args, "payee"); name != "" {
		confirmNew := tools.GetBool(args, "confirm_new_payee", false)
		payeeID, payeeName, err := p.resolvePayeeForWrite(name, confirmNew)
		if err != nil {
			return nil, err
		}
		fields.PayeeID = payeeID
		fields.PayeeName = payeeName
		payeeChanged = payeeName != nil
	}

	if fields == (ynab.SaveTransaction{}) {
		return nil, fmt.Errorf("nothing to update: provide at least one of amount, payee, category, date, memo or cleared")
	}

	updated, err := p.client.UpdateTransaction(id, fields)
	if err != nil {
		return nil, err
	}

	if payeeChanged {
		if err := p.resolver.RefreshPayees(); err != nil {
			return nil, err
		}
	}

	return tools.TextContent(fmt.Sprintf("Updated transaction.\n%s", formatTransaction(*updated))), nil
}

func (p *Provider) deleteTransaction(args map[string]interface{}) (interface{}, error) {
	id, err := tools.GetStringRequired(args, "transaction_id")
	if err != nil {
		return nil, err
	}

	deleted, err := p.client.DeleteTransaction(id)
	if err != nil {
		return nil, err
	}
	return tools.TextContent(fmt.Sprintf("Deleted transaction %s (%s).", deleted.ID, transactionLine(*deleted))), nil
}

// pickAccount resolves an account argument, falling back to the budget's
// single open on-budget account when none was given.
func (p *Provider) pickAccount(name string) (*ynab.Account, error) {
	if name != "" {
		return p.resolveAccountStrict(name)
	}
	return p.defaultAccount()
}

func validCleared(status string) bool {
	switch status {
	case "uncleared", "cleared", "reconciled":
		return true
	}
	return false
}
