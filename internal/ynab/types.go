// Package ynab is a thin client for the YNAB v1 HTTP API.
// Types mirror the remote schema; all monetary fields are milliunits.
package ynab

// Budget is a budget file summary.
type Budget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Account is a budget account.
type Account struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	OnBudget         bool   `json:"on_budget"`
	Closed           bool   `json:"closed"`
	Balance          int64  `json:"balance"`
	ClearedBalance   int64  `json:"cleared_balance"`
	UnclearedBalance int64  `json:"uncleared_balance"`
}

// AccountTypes enumerates the account types the API accepts on create.
var AccountTypes = []string{
	"checking", "savings", "cash", "creditCard", "lineOfCredit",
	"otherAsset", "otherLiability", "mortgage", "autoLoan", "studentLoan",
	"personalLoan", "medicalDebt", "otherDebt",
}

// CategoryGroup holds a group of categories.
type CategoryGroup struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Hidden     bool       `json:"hidden"`
	Categories []Category `json:"categories"`
}

// Category is a budget category, including goal fields when a goal is set.
type Category struct {
	ID                     string  `json:"id"`
	CategoryGroupID        string  `json:"category_group_id"`
	CategoryGroupName      string  `json:"category_group_name"`
	Name                   string  `json:"name"`
	Hidden                 bool    `json:"hidden"`
	Note                   *string `json:"note"`
	Budgeted               int64   `json:"budgeted"`
	Activity               int64   `json:"activity"`
	Balance                int64   `json:"balance"`
	GoalType               *string `json:"goal_type"`
	GoalCreationMonth      *string `json:"goal_creation_month"`
	GoalTarget             *int64  `json:"goal_target"`
	GoalTargetMonth        *string `json:"goal_target_month"`
	GoalPercentageComplete *int    `json:"goal_percentage_complete"`
	GoalMonthsToBudget     *int    `json:"goal_months_to_budget"`
	GoalUnderFunded        *int64  `json:"goal_under_funded"`
	GoalOverallFunded      *int64  `json:"goal_overall_funded"`
	GoalOverallLeft        *int64  `json:"goal_overall_left"`
}

// Payee is a transaction counterparty. TransferAccountID is set when the
// payee represents a transfer to another account.
type Payee struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	TransferAccountID *string `json:"transfer_account_id"`
}

// SubTransaction is one leg of a split transaction.
type SubTransaction struct {
	ID           string  `json:"id,omitempty"`
	Amount       int64   `json:"amount"`
	Memo         *string `json:"memo,omitempty"`
	PayeeID      *string `json:"payee_id,omitempty"`
	PayeeName    *string `json:"payee_name,omitempty"`
	CategoryID   *string `json:"category_id,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
}

// Transaction is a single dated transaction. Negative amounts are outflows.
type Transaction struct {
	ID              string           `json:"id"`
	Date            string           `json:"date"`
	Amount          int64            `json:"amount"`
	Memo            *string          `json:"memo"`
	Cleared         string           `json:"cleared"` // uncleared, cleared, reconciled
	Approved        bool             `json:"approved"`
	AccountID       string           `json:"account_id"`
	AccountName     string           `json:"account_name"`
	PayeeID         *string          `json:"payee_id"`
	PayeeName       *string          `json:"payee_name"`
	CategoryID      *string          `json:"category_id"`
	CategoryName    *string          `json:"category_name"`
	ImportID        *string          `json:"import_id"`
	SubTransactions []SubTransaction `json:"subtransactions"`
}

// ScheduledTransaction is a recurring transaction template.
type ScheduledTransaction struct {
	ID           string  `json:"id"`
	DateFirst    string  `json:"date_first"`
	DateNext     string  `json:"date_next"`
	Frequency    string  `json:"frequency"`
	Amount       int64   `json:"amount"`
	Memo         *string `json:"memo"`
	AccountID    string  `json:"account_id"`
	AccountName  string  `json:"account_name"`
	PayeeID      *string `json:"payee_id"`
	PayeeName    *string `json:"payee_name"`
	CategoryID   *string `json:"category_id"`
	CategoryName *string `json:"category_name"`
}

// Frequencies enumerates valid scheduled-transaction frequencies.
var Frequencies = []string{
	"daily", "weekly", "everyOtherWeek", "twiceAMonth", "every4Weeks",
	"monthly", "everyOtherMonth", "every3Months", "every4Months",
	"twiceAYear", "yearly", "everyOtherYear",
}

// MonthSummary is one calendar month of budget totals.
type MonthSummary struct {
	Month        string `json:"month"`
	Income       int64  `json:"income"`
	Budgeted     int64  `json:"budgeted"`
	Activity     int64  `json:"activity"`
	ToBeBudgeted int64  `json:"to_be_budgeted"`
	AgeOfMoney   *int   `json:"age_of_money"`
}

// --- Write payloads ---

// NewTransaction is the create-transaction request shape. PayeeName may be
// set instead of PayeeID to have the API create the payee implicitly.
type NewTransaction struct {
	AccountID       string           `json:"account_id"`
	Date            string           `json:"date"`
	Amount          int64            `json:"amount"`
	PayeeID         *string          `json:"payee_id,omitempty"`
	PayeeName       *string          `json:"payee_name,omitempty"`
	CategoryID      *string          `json:"category_id,omitempty"`
	Memo            *string          `json:"memo,omitempty"`
	Cleared         string           `json:"cleared,omitempty"`
	Approved        bool             `json:"approved"`
	ImportID        *string          `json:"import_id,omitempty"`
	SubTransactions []SubTransaction `json:"subtransactions,omitempty"`
}

// SaveTransaction is a partial transaction update; nil fields are untouched.
type SaveTransaction struct {
	AccountID  *string `json:"account_id,omitempty"`
	Date       *string `json:"date,omitempty"`
	Amount     *int64  `json:"amount,omitempty"`
	PayeeID    *string `json:"payee_id,omitempty"`
	PayeeName  *string `json:"payee_name,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	Memo       *string `json:"memo,omitempty"`
	Cleared    *string `json:"cleared,omitempty"`
}

// SaveAccount is the create-account request shape.
type SaveAccount struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance int64  `json:"balance"`
}

// SaveCategory is a partial category update.
type SaveCategory struct {
	Name       *string `json:"name,omitempty"`
	Note       *string `json:"note,omitempty"`
	GoalTarget *int64  `json:"goal_target,omitempty"`
}

// SaveMonthCategory updates a category's budgeted amount for one month.
type SaveMonthCategory struct {
	Budgeted int64 `json:"budgeted"`
}

// SavePayee renames a payee.
type SavePayee struct {
	Name string `json:"name"`
}

// SaveScheduledTransaction is the create-scheduled-transaction request shape.
type SaveScheduledTransaction struct {
	AccountID  string  `json:"account_id"`
	Date       string  `json:"date"`
	Amount     int64   `json:"amount"`
	Frequency  string  `json:"frequency"`
	PayeeID    *string `json:"payee_id,omitempty"`
	PayeeName  *string `json:"payee_name,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	Memo       *string `json:"memo,omitempty"`
}

// --- Response envelopes ---
// Every endpoint wraps its payload in a "data" object.

type budgetsResponse struct {
	Data struct {
		Budgets []Budget `json:"budgets"`
	} `json:"data"`
}

type accountsResponse struct {
	Data struct {
		Accounts []Account `json:"accounts"`
	} `json:"data"`
}

type accountResponse struct {
	Data struct {
		Account Account `json:"account"`
	} `json:"data"`
}

type categoryGroupsResponse struct {
	Data struct {
		CategoryGroups []CategoryGroup `json:"category_groups"`
	} `json:"data"`
}

type categoryResponse struct {
	Data struct {
		Category Category `json:"category"`
	} `json:"data"`
}

type payeesResponse struct {
	Data struct {
		Payees []Payee `json:"payees"`
	} `json:"data"`
}

type payeeResponse struct {
	Data struct {
		Payee Payee `json:"payee"`
	} `json:"data"`
}

type transactionsResponse struct {
	Data struct {
		Transactions []Transaction `json:"transactions"`
	} `json:"data"`
}

type transactionResponse struct {
	Data struct {
		Transaction Transaction `json:"transaction"`
	} `json:"data"`
}

type scheduledTransactionsResponse struct {
	Data struct {
		ScheduledTransactions []ScheduledTransaction `json:"scheduled_transactions"`
	} `json:"data"`
}

type scheduledTransactionResponse struct {
	Data struct {
		ScheduledTransaction ScheduledTransaction `json:"scheduled_transaction"`
	} `json:"data"`
}

type monthsResponse struct {
	Data struct {
		Months []MonthSummary `json:"months"`
	} `json:"data"`
}

type monthResponse struct {
	Data struct {
		Month MonthSummary `json:"month"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}
