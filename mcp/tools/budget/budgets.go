package budget

import (
	"fmt"
	"strings"

	"github.com/yabbi/ynab-mcp/internal/money"
	"github.com/yabbi/ynab-mcp/mcp/tools"
)

// maxBudgetMonths caps the get_budget_months listing.
const maxBudgetMonths = 24

func (p *Provider) getBudgetSummary(args map[string]interface{}) (interface{}, error) {
	month, err := p.client.Month("current")
	if err != nil {
		return nil, err
	}

	accounts, err := p.client.Accounts()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(formatMonth(*month))
	b.WriteString("\n\nAccounts:\n")
	open := 0
	for _, a := range accounts {
		if a.Closed {
			continue
		}
		fmt.Fprintf(&b, "  %s\n", accountLine(a))
		open++
	}
	if open == 0 {
		b.WriteString("  (no open accounts)\n")
	}

	return tools.TextContent(strings.TrimRight(b.String(), "\n")), nil
}

func (p *Provider) getMonthlyBudget(args map[string]interface{}) (interface{}, error) {
	monthArg := tools.GetString(args, "month")
	if monthArg == "" {
		monthArg = "current"
	}
	month, err := money.MonthToken(monthArg)
	if err != nil {
		return nil, err
	}

	summary, err := p.client.Month(month)
	if err != nil {
		return nil, err
	}
	return tools.TextContent(formatMonth(*summary)), nil
}

func (p *Provider) getBudgetMonths(args map[string]interface{}) (interface{}, error) {
	months, err := p.client.Months()
	if err != nil {
		return nil, err
	}
	if len(months) == 0 {
		return tools.TextContent("No budget months found."), nil
	}

	// The API returns months oldest-first; show the most recent first.
	for i, j := 0, len(months)-1; i < j; i, j = i+1, j-1 {
		months[i], months[j] = months[j], months[i]
	}
	if len(months) > maxBudgetMonths {
		months = months[:maxBudgetMonths]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Budget months (%d):\n", len(months))
	for _, m := range months {
		fmt.Fprintf(&b, "  %s\n", monthLine(m))
	}
	return tools.TextContent(strings.TrimRight(b.String(), "\n")), nil
}
