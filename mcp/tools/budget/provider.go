// Package budget provides MCP tools for a YNAB budget: summaries, accounts,
// categories, transactions, scheduled transactions and payees.
//
// Every handler follows the same shape: normalize inputs, resolve names to
// IDs through the resolver, call the API, format the result as text.
package budget

import (
	"fmt"

	"github.com/yabbi/ynab-mcp/internal/resolver"
	"github.com/yabbi/ynab-mcp/internal/ynab"
	"github.com/yabbi/ynab-mcp/mcp/tools"
)

// Provider implements tools.ToolProvider for budget tools.
type Provider struct {
	client   *ynab.Client
	resolver *resolver.Resolver
}

// NewProvider creates a budget tools provider for the given client.
func NewProvider(client *ynab.Client) *Provider {
	return &Provider{
		client:   client,
		resolver: resolver.New(client),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "budget"
}

// CheckDependencies verifies the client has a budget to operate on.
func (p *Provider) CheckDependencies() error {
	if p.client.Token == "" {
		return fmt.Errorf("YNAB_ACCESS_TOKEN is not set")
	}
	if p.client.BudgetID == "" {
		return fmt.Errorf("no budget resolved; call ResolveBudget first")
	}
	return nil
}

// Tools returns all budget tools.
func (p *Provider) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "get_budget_summary",
			Description: "Get an overview of the current month's budget (income, budgeted, activity, to be budgeted, age of money) together with all open account balances.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}, nil),
		},
		{
			Name:        "get_monthly_budget",
			Description: "Get one month's budget totals: income, budgeted, activity and to-be-budgeted.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"month": tools.StringProperty("Month to fetch: 'current' or any date (YYYY-MM-DD, today, yesterday); the day component is ignored"),
				},
				nil,
			),
		},
		{
			Name:        "get_budget_months",
			Description: "List budget month summaries, most recent first (up to 24 months).",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}, nil),
		},
		{
			Name:        "get_accounts",
			Description: "List all open accounts with balances. Closed accounts are excluded.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}, nil),
		},
		{
			Name:        "get_account",
			Description: "Get one account's details by name (fuzzy matched): type, balance, cleared and uncleared balances.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"name": tools.StringProperty("Account name or part of it (e.g. 'checking')"),
				},
				[]string{"name"},
			),
		},
		{
			Name:        "create_account",
			Description: "Create a new account with a starting balance.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"name":    tools.StringProperty("Name for the new account"),
					"type":    tools.StringProperty("Account type: checking, savings, cash, creditCard, lineOfCredit, otherAsset, otherLiability, mortgage, autoLoan, studentLoan, personalLoan, medicalDebt or otherDebt"),
					"balance": tools.NumberProperty("Starting balance in dollars (negative for debt accounts)"),
				},
				[]string{"name", "type", "balance"},
			),
		},
		{
			Name:        "reconcile_account",
			Description: "Reconcile an account: marks every cleared transaction as reconciled, then, if a target balance is given and differs from the cleared balance, creates an adjustment transaction for the difference. Not atomic; a failure partway through reports how many transactions were reconciled.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"account":        tools.StringProperty("Account name or part of it"),
					"target_balance": tools.NumberProperty("Real-world balance in dollars to reconcile to (optional)"),
				},
				[]string{"account"},
			),
		},
		{
			Name:        "get_categories",
			Description: "List all visible budget categories grouped by category group, with current-month budgeted, activity and balance.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}, nil),
		},
		{
			Name:        "get_category",
			Description: "Get one category's details by name (fuzzy matched), including goal progress if a goal is set.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"name": tools.StringProperty("Category name or part of it (e.g. 'groceries')"),
				},
				[]string{"name"},
			),
		},
		{
			Name:        "get_month_category",
			Description: "Get one category's budgeted/activity/balance for a specific month.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"name":  tools.StringProperty("Category name or part of it"),
					"month": tools.StringProperty("Month: 'current' or any date; day component ignored"),
				},
				[]string{"name"},
			),
		},
		{
			Name:        "set_category_budget",
			Description: "Set the budgeted amount for a category in a given month.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"category": tools.StringProperty("Category name or part of it"),
					"month":    tools.StringProperty("Month: 'current' or any date; day component ignored"),
					"amount":   tools.NumberProperty("Budgeted amount in dollars"),
				},
				[]string{"category", "month", "amount"},
			),
		},
		{
			Name:        "update_category",
			Description: "Update a category's name, note or goal target. At least one field must be supplied.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"category":    tools.StringProperty("Category name or part of it"),
					"name":        tools.StringProperty("New category name (optional)"),
					"note":        tools.StringProperty("New category note (optional)"),
					"goal_target": tools.NumberProperty("New goal target in dollars (optional)"),
				},
				[]string{"category"},
			),
		},
		{
			Name:        "get_transactions",
			Description: "List transactions, most recent first, optionally filtered by account, category or payee name. Without since_date an expanding lookback (30/90/180/365 days, then all) is used to satisfy the limit.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"since_date": tools.StringProperty("Only transactions on or after this date (YYYY-MM-DD, today, yesterday...)"),
					"account":    tools.StringProperty("Filter by account name (fuzzy matched)"),
					"category":   tools.StringProperty("Filter by category name (fuzzy matched)"),
					"payee":      tools.StringProperty("Filter by payee name (fuzzy matched)"),
					"limit":      tools.IntProperty("Maximum number of transactions to return", 20),
				},
				nil,
			),
		},
		{
			Name:        "get_transaction",
			Description: "Get one transaction by its ID, including sub-transactions for splits.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"transaction_id": tools.StringProperty("The transaction ID"),
				},
				[]string{"transaction_id"},
			),
		},
		{
			Name:        "get_month_transactions",
			Description: "List transactions in a calendar month, optionally only uncategorized or unapproved ones.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"month": tools.StringProperty("Month: 'current' or any date; day component ignored"),
					"type":  tools.StringProperty("Filter: 'uncategorized' or 'unapproved' (optional)"),
				},
				nil,
			),
		},
		{
			Name:        "create_transaction",
			Description: "Create a transaction. Negative amounts are spending, positive amounts are income. Payee, category and account names are fuzzy matched; creating a brand-new payee requires confirm_new_payee=true. Sub-transaction amounts must sum to the total amount.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"amount":   tools.NumberProperty("Amount in dollars; negative for spending (e.g. -45.50), positive for income"),
					"payee":    tools.StringProperty("Payee name (e.g. 'Whole Foods')"),
					"category": tools.StringProperty("Category name (optional; ignored when subtransactions are given)"),
					"account":  tools.StringProperty("Account name (optional when only one open on-budget account exists)"),
					"date":     tools.StringProperty("Transaction date: today, yesterday, tomorrow or YYYY-MM-DD (default today)"),
					"memo":     tools.StringProperty("Memo text (optional)"),
					"cleared":  tools.StringProperty("Cleared status: uncleared, cleared or reconciled (default uncleared)"),
					"subtransactions": tools.ArrayProperty(
						"Split lines, each with amount (dollars) and optional payee/category/memo; amounts must sum to the total",
						tools.ObjectSchema(
							map[string]interface{}{
								"amount":   tools.NumberProperty("Split amount in dollars"),
								"payee":    tools.StringProperty("Split payee name (optional)"),
								"category": tools.StringProperty("Split category name (optional)"),
								"memo":     tools.StringProperty("Split memo (optional)"),
							},
							[]string{"amount"},
						),
					),
					"confirm_new_payee": tools.BoolProperty("Set true to allow creating a payee that does not exist yet"),
				},
				[]string{"amount", "payee"},
			),
		},
		{
			Name:        "update_transaction",
			Description: "Update fields of an existing transaction: amount, payee, category, date, memo or cleared status. At least one field must be supplied.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"transaction_id":    tools.StringProperty("The transaction ID"),
					"amount":            tools.NumberProperty("New amount in dollars (optional)"),
					"payee":             tools.StringProperty("New payee name, fuzzy matched (optional)"),
					"category":          tools.StringProperty("New category name, fuzzy matched (optional)"),
					"date":              tools.StringProperty("New date (optional)"),
					"memo":              tools.StringProperty("New memo (optional)"),
					"cleared":           tools.StringProperty("New cleared status: uncleared, cleared or reconciled (optional)"),
					"confirm_new_payee": tools.BoolProperty("Set true to allow a payee that does not exist yet"),
				},
				[]string{"transaction_id"},
			),
		},
		{
			Name:        "delete_transaction",
			Description: "Permanently delete a transaction by ID. WARNING: this cannot be undone; the transaction is removed immediately without further confirmation.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"transaction_id": tools.StringProperty("The transaction ID to delete"),
				},
				[]string{"transaction_id"},
			),
		},
		{
			Name:        "get_scheduled_transactions",
			Description: "List scheduled (recurring) transactions with frequency and next occurrence date.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}, nil),
		},
		{
			Name:        "create_scheduled_transaction",
			Description: "Create a scheduled (recurring) transaction. Creating a brand-new payee requires confirm_new_payee=true.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"amount":            tools.NumberProperty("Amount in dollars; negative for spending"),
					"payee":             tools.StringProperty("Payee name"),
					"frequency":         tools.StringProperty("Recurrence: daily, weekly, everyOtherWeek, twiceAMonth, every4Weeks, monthly, everyOtherMonth, every3Months, every4Months, twiceAYear, yearly or everyOtherYear"),
					"start_date":        tools.StringProperty("First occurrence date (must not be in the past)"),
					"account":           tools.StringProperty("Account name (optional when only one open on-budget account exists)"),
					"category":          tools.StringProperty("Category name (optional)"),
					"memo":              tools.StringProperty("Memo text (optional)"),
					"confirm_new_payee": tools.BoolProperty("Set true to allow creating a payee that does not exist yet"),
				},
				[]string{"amount", "payee", "frequency", "start_date"},
			),
		},
		{
			Name:        "get_payees",
			Description: "List all payees. Transfer payees are excluded from the listing.",
			InputSchema: tools.ObjectSchema(map[string]interface{}{}, nil),
		},
		{
			Name:        "get_payee",
			Description: "Get one payee's details by name (fuzzy matched).",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"name": tools.StringProperty("Payee name or part of it"),
				},
				[]string{"name"},
			),
		},
		{
			Name:        "update_payee",
			Description: "Rename a payee.",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"payee": tools.StringProperty("Current payee name or part of it"),
					"name":  tools.StringProperty("New payee name"),
				},
				[]string{"payee", "name"},
			),
		},
		{
			Name:        "search_tools",
			Description: "Search the budget tool catalog by keyword or category (budget, account, category, transaction, payee, scheduled).",
			InputSchema: tools.ObjectSchema(
				map[string]interface{}{
					"keyword":  tools.StringProperty("Keyword matched against tool names and descriptions"),
					"category": tools.StringProperty("Tool category: budget, account, category, transaction, payee or scheduled"),
				},
				nil,
			),
		},
	}
}

// HasTool checks if a tool name belongs to this provider.
func (p *Provider) HasTool(name string) bool {
	for _, tool := range p.Tools() {
		if tool.Name == name {
			return true
		}
	}
	return false
}

// Call executes a tool by name.
func (p *Provider) Call(name string, args map[string]interface{}) (interface{}, error) {
	switch name {
	case "get_budget_summary":
		return p.getBudgetSummary(args)
	case "get_monthly_budget":
		return p.getMonthlyBudget(args)
	case "get_budget_months":
		return p.getBudgetMonths(args)
	case "get_accounts":
		return p.getAccounts(args)
	case "get_account":
		return p.getAccount(args)
	case "create_account":
		return p.createAccount(args)
	case "reconcile_account":
		return p.reconcileAccount(args)
	case "get_categories":
		return p.getCategories(args)
	case "get_category":
		return p.getCategory(args)
	case "get_month_category":
		return p.getMonthCategory(args)
	case "set_category_budget":
		return p.setCategoryBudget(args)
	case "update_category":
		return p.updateCategory(args)
	case "get_transactions":
		return p.getTransactions(args)
	case "get_transaction":
		return p.getTransaction(args)
	case "get_month_transactions":
		return p.getMonthTransactions(args)
	case "create_transaction":
		return p.createTransaction(args)
	case "update_transaction":
		return p.updateTransaction(args)
	case "delete_transaction":
		return p.deleteTransaction(args)
	case "get_scheduled_transactions":
		return p.getScheduledTransactions(args)
	case "create_scheduled_transaction":
		return p.createScheduledTransaction(args)
	case "get_payees":
		return p.getPayees(args)
	case "get_payee":
		return p.getPayee(args)
	case "update_payee":
		return p.updatePayee(args)
	case "search_tools":
		return p.searchTools(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// resolveAccountStrict resolves an account name, turning ambiguity or
// absence into an actionable error.
func (p *Provider) resolveAccountStrict(name string) (*ynab.Account, error) {
	res, err := p.resolver.ResolveAccount(name)
	if err != nil {
		return nil, err
	}
	if res.Outcome != resolver.Found {
		return nil, fmt.Errorf("%s", res.Message)
	}
	return res.Account, nil
}

// resolveCategoryStrict resolves a category name, turning ambiguity or
// absence into an actionable error.
func (p *Provider) resolveCategoryStrict(name string) (*ynab.Category, error) {
	res, err := p.resolver.ResolveCategory(name)
	if err != nil {
		return nil, err
	}
	if res.Outcome != resolver.Found {
		return nil, fmt.Errorf("%s", res.Message)
	}
	return res.Category, nil
}

// resolvePayeeForWrite resolves a payee name for a write operation. An
// existing payee yields its ID. A brand-new name yields the name itself
// (so the API creates the payee) but only when the caller confirmed it;
// otherwise the confirmation gate rejects the write, which keeps typos from
// silently minting duplicate payees.
func (p *Provider) resolvePayeeForWrite(name string, confirmNew bool) (payeeID, payeeName *string, err error) {
	res, err := p.resolver.ResolvePayee(name)
	if err != nil {
		return nil, nil, err
	}

	switch res.Outcome {
	case resolver.Found:
		return &res.Payee.ID, nil, nil
	case resolver.Ambiguous:
		return nil, nil, fmt.Errorf("%s", res.Message)
	case resolver.NewCandidate:
		if !confirmNew {
			return nil, nil, fmt.Errorf("no payee matches %q. If you want to create a new payee with this name, set confirm_new_payee to true", name)
		}
		n := name
		return nil, &n, nil
	}
	return nil, nil, fmt.Errorf("unexpected resolution outcome for payee %q", name)
}

// defaultAccount picks the account for transaction creation when none was
// named: the single open on-budget account, if there is exactly one.
func (p *Provider) defaultAccount() (*ynab.Account, error) {
	accounts, err := p.client.Accounts()
	if err != nil {
		return nil, err
	}

	var open []ynab.Account
	for _, a := range accounts {
		if !a.Closed && a.OnBudget {
			open = append(open, a)
		}
	}
	switch len(open) {
	case 1:
		return &open[0], nil
	case 0:
		return nil, fmt.Errorf("the budget has no open on-budget accounts; create one first or name an account explicitly")
	}

	names := make([]string, len(open))
	for i, a := range open {
		names[i] = a.Name
	}
	return nil, fmt.Errorf("account is required when the budget has more than one open account. Accounts: %s", joinNames(names))
}
