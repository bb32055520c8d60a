package budget

import (
	"fmt"
	"strings"

	"github.com/yabbi/ynab-mcp/internal/money"
	"github.com/yabbi/ynab-mcp/internal/ynab"
	"github.com/yabbi/ynab-mcp/mcp/tools"
)

func (p *Provider) getScheduledTransactions(args map[string]interface{}) (interface{}, error) {
	scheduled, err := p.client.ScheduledTransactions()
	if err != nil {
		return nil, err
	}
	if len(scheduled) == 0 {
		return tools.TextContent("No scheduled transactions."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scheduled transactions (%d):\n", len(scheduled))
	for _, s := range scheduled {
		fmt.Fprintf(&b, "%s\n", scheduledLine(s))
	}
	return tools.TextContent(strings.TrimRight(b.String(), "\n")), nil
}

func (p *Provider) createScheduledTransaction(args map[string]interface{}) (interface{}, error) {
	amount, err := tools.GetNumberRequired(args, "amount")
	if err != nil {
		return nil, err
	}
	payeeQuery, err := tools.GetStringRequired(args, "payee")
	if err != nil {
		return nil, err
	}
	frequency, err := tools.GetStringRequired(args, "frequency")
	if err != nil {
		return nil, err
	}
	startDate, err := tools.GetStringRequired(args, "start_date")
	if err != nil {
		return nil, err
	}

	valid := false
	for _, f := range ynab.Frequencies {
		if f == frequency {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("invalid frequency %q. Valid frequencies: %s", frequency, strings.Join(ynab.Frequencies, ", "))
	}

	startDate, err = money.ResolveDateToken(startDate)
	if err != nil {
		return nil, err
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

	tx := ynab.SaveScheduledTransaction{
		AccountID: account.ID,
		Date:      startDate,
		Amount:    money.ToMilliunits(amount),
		Frequency: frequency,
		PayeeID:   payeeID,
		PayeeName: payeeName,
	}
	if name := tools.GetString(args, "category"); name != "" {
		category, err := p.resolveCategoryStrict(name)
		if err != nil {
			return nil, err
		}
		tx.CategoryID = &category.ID
	}
	if memo := tools.GetString(args, "memo"); memo != "" {
		tx.Memo = &memo
	}

	created, err := p.client.CreateScheduledTransaction(tx)
	if err != nil {
		return nil, err
	}

	if payeeName != nil {
		if err := p.resolver.RefreshPayees(); err != nil {
			return nil, err
		}
	}

	return tools.TextContent(fmt.Sprintf("Created scheduled transaction.\n%s", scheduledLine(*created))), nil
}
