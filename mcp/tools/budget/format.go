package budget

import (
	"fmt"
	"strings"

	"github.com/yabbi/ynab-mcp/internal/money"
	"github.com/yabbi/ynab-mcp/internal/ynab"
)

func joinNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func strOr(p *string, fallback string) string {
	if p != nil && *p != "" {
		return *p
	}
	return fallback
}

func accountLine(a ynab.Account) string {
	flags := ""
	if !a.OnBudget {
		flags = " [off-budget]"
	}
	return fmt.Sprintf("%s (%s): %s%s", a.Name, a.Type, money.FormatAmount(a.Balance), flags)
}

func formatAccount(a ynab.Account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Account: %s\n", a.Name)
	fmt.Fprintf(&b, "Type: %s\n", a.Type)
	fmt.Fprintf(&b, "On budget: %v\n", a.OnBudget)
	fmt.Fprintf(&b, "Balance: %s\n", money.FormatAmount(a.Balance))
	fmt.Fprintf(&b, "Cleared balance: %s\n", money.FormatAmount(a.ClearedBalance))
	fmt.Fprintf(&b, "Uncleared balance: %s\n", money.FormatAmount(a.UnclearedBalance))
	fmt.Fprintf(&b, "ID: %s", a.ID)
	return b.String()
}

func categoryLine(c ynab.Category) string {
	return fmt.Sprintf("%s: budgeted %s, activity %s, balance %s",
		c.Name,
		money.FormatAmount(c.Budgeted),
		money.FormatAmount(c.Activity),
		money.FormatAmount(c.Balance))
}

func formatCategory(c ynab.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s", c.Name)
	if c.CategoryGroupName != "" {
		fmt.Fprintf(&b, " (%s)", c.CategoryGroupName)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Budgeted: %s\n", money.FormatAmount(c.Budgeted))
	fmt.Fprintf(&b, "Activity: %s\n", money.FormatAmount(c.Activity))
	fmt.Fprintf(&b, "Balance: %s\n", money.FormatAmount(c.Balance))
	if c.Note != nil && *c.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", *c.Note)
	}
	if c.GoalType != nil && *c.GoalType != "" {
		fmt.Fprintf(&b, "Goal type: %s\n", *c.GoalType)
		if c.GoalTarget != nil {
			fmt.Fprintf(&b, "Goal target: %s\n", money.FormatAmount(*c.GoalTarget))
		}
		if c.GoalTargetMonth != nil && *c.GoalTargetMonth != "" {
			fmt.Fprintf(&b, "Goal target month: %s\n", *c.GoalTargetMonth)
		}
		if c.GoalPercentageComplete != nil {
			fmt.Fprintf(&b, "Goal progress: %d%%\n", *c.GoalPercentageComplete)
		}
		if c.GoalOverallFunded != nil {
			fmt.Fprintf(&b, "Goal funded: %s\n", money.FormatAmount(*c.GoalOverallFunded))
		}
		if c.GoalOverallLeft != nil {
			fmt.Fprintf(&b, "Goal left: %s\n", money.FormatAmount(*c.GoalOverallLeft))
		}
		if c.GoalUnderFunded != nil {
			fmt.Fprintf(&b, "Goal underfunded this month: %s\n", money.FormatAmount(*c.GoalUnderFunded))
		}
		if c.GoalMonthsToBudget != nil {
			fmt.Fprintf(&b, "Goal months to budget: %d\n", *c.GoalMonthsToBudget)
		}
	}
	fmt.Fprintf(&b, "ID: %s", c.ID)
	return b.String()
}

func transactionLine(t ynab.Transaction) string {
	payee := strOr(t.PayeeName, "(no payee)")
	category := strOr(t.CategoryName, "(uncategorized)")
	if len(t.SubTransactions) > 0 {
		category = "(split)"
	}
	line := fmt.Sprintf("%s  %s  %s — %s [%s]", t.Date, money.FormatAmount(t.Amount), payee, category, t.Cleared)
	if t.Memo != nil && *t.Memo != "" {
		line += "  // " + *t.Memo
	}
	return line
}

func formatTransaction(t ynab.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transaction %s\n", t.ID)
	fmt.Fprintf(&b, "Date: %s\n", t.Date)
	fmt.Fprintf(&b, "Amount: %s\n", money.FormatAmount(t.Amount))
	fmt.Fprintf(&b, "Account: %s\n", t.AccountName)
	fmt.Fprintf(&b, "Payee: %s\n", strOr(t.PayeeName, "(none)"))
	fmt.Fprintf(&b, "Category: %s\n", strOr(t.CategoryName, "(none)"))
	fmt.Fprintf(&b, "Status: %s", t.Cleared)
	if !t.Approved {
		b.WriteString(" (unapproved)")
	}
	b.WriteString("\n")
	if t.Memo != nil && *t.Memo != "" {
		fmt.Fprintf(&b, "Memo: %s\n", *t.Memo)
	}
	if len(t.SubTransactions) > 0 {
		fmt.Fprintf(&b, "Splits (%d):\n", len(t.SubTransactions))
		for _, sub := range t.SubTransactions {
			fmt.Fprintf(&b, "  %s  %s — %s", money.FormatAmount(sub.Amount),
				strOr(sub.PayeeName, strOr(t.PayeeName, "(none)")),
				strOr(sub.CategoryName, "(uncategorized)"))
			if sub.Memo != nil && *sub.Memo != "" {
				fmt.Fprintf(&b, "  // %s", *sub.Memo)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func scheduledLine(s ynab.ScheduledTransaction) string {
	payee := strOr(s.PayeeName, "(no payee)")
	category := strOr(s.CategoryName, "(uncategorized)")
	line := fmt.Sprintf("%s  %s  %s — %s (%s, next %s)",
		s.DateFirst, money.FormatAmount(s.Amount), payee, category, s.Frequency, s.DateNext)
	if s.Memo != nil && *s.Memo != "" {
		line += "  // " + *s.Memo
	}
	return line
}

func formatMonth(m ynab.MonthSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Month: %s\n", m.Month)
	fmt.Fprintf(&b, "Income: %s\n", money.FormatAmount(m.Income))
	fmt.Fprintf(&b, "Budgeted: %s\n", money.FormatAmount(m.Budgeted))
	fmt.Fprintf(&b, "Activity: %s\n", money.FormatAmount(m.Activity))
	fmt.Fprintf(&b, "To be budgeted: %s", money.FormatAmount(m.ToBeBudgeted))
	if m.AgeOfMoney != nil {
		fmt.Fprintf(&b, "\nAge of money: %d days", *m.AgeOfMoney)
	}
	return b.String()
}

func monthLine(m ynab.MonthSummary) string {
	return fmt.Sprintf("%s: income %s, budgeted %s, activity %s, to be budgeted %s",
		m.Month,
		money.FormatAmount(m.Income),
		money.FormatAmount(m.Budgeted),
		money.FormatAmount(m.Activity),
		money.FormatAmount(m.ToBeBudgeted))
}
