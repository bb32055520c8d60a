package budget

import (
	"fmt"
	"strings"

	"github.com/yabbi/ynab-mcp/internal/money"
	"github.com/yabbi/ynab-mcp/internal/ynab"
	"github.com/yabbi/ynab-mcp/mcp/tools"
)

// reconciliationPayee is the payee name for synthetic adjustment
// transactions, matching the name the YNAB UI itself uses.
const reconciliationPayee = "Reconciliation Balance Adjustment"

func (p *Provider) getAccounts(args map[string]interface{}) (interface{}, error) {
	accounts, err := p.client.Accounts()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	count := 0
	for _, a := range accounts {
		if a.Closed {
			continue
		}
		fmt.Fprintf(&b, "%s\n", accountLine(a))
		count++
	}
	if count == 0 {
		return tools.TextContent("No open accounts."), nil
	}
	return tools.TextContent(fmt.Sprintf("Accounts (%d):\n%s", count, strings.TrimRight(b.String(), "\n"))), nil
}

func (p *Provider) getAccount(args map[string]interface{}) (interface{}, error) {
	name, err := tools.GetStringRequired(args, "name")
	if err != nil {
		return nil, err
	}

	account, err := p.resolveAccountStrict(name)
	if err != nil {
		return nil, err
	}
	return tools.TextContent(formatAccount(*account)), nil
}

func (p *Provider) createAccount(args map[string]interface{}) (interface{}, error) {
	name, err := tools.GetStringRequired(args, "name")
	if err != nil {
		return nil, err
	}
	accountType, err := tools.GetStringRequired(args, "type")
	if err != nil {
		return nil, err
	}
	balance, err := tools.GetNumberRequired(args, "balance")
	if err != nil {
		return nil, err
	}

	valid := false
	for _, t := range ynab.AccountTypes {
		if t == accountType {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("invalid account type %q. Valid types: %s", accountType, strings.Join(ynab.AccountTypes, ", "))
	}

	account, err := p.client.CreateAccount(ynab.SaveAccount{
		Name:    name,
		Type:    accountType,
		Balance: money.ToMilliunits(balance),
	})
	if err != nil {
		return nil, err
	}

	// Account creation mints a starting-balance payee.
	if err := p.resolver.RefreshPayees(); err != nil {
		return nil, err
	}

	return tools.TextContent(fmt.Sprintf("Created account.\n%s", formatAccount(*account))), nil
}

func (p *Provider) reconcileAccount(args map[string]interface{}) (interface{}, error) {
	name, err := tools.GetStringRequired(args, "account")
	if err != nil {
		return nil, err
	}

	account, err := p.resolveAccountStrict(name)
	if err != nil {
		return nil, err
	}

	transactions, err := p.client.AccountTransactions(account.ID, "")
	if err != nil {
		return nil, err
	}

	var toReconcile []ynab.Transaction
	for _, t := range transactions {
		if t.Cleared == "cleared" {
			toReconcile = append(toReconcile, t)
		}
	}

	// One update per transaction; the API has no batch primitive. Issued in
	// listing order, so a mid-loop failure leaves a well-defined prefix
	// reconciled.
	reconciled := 0
	status := "reconciled"
	for _, t := range toReconcile {
		if _, err := p.client.UpdateTransaction(t.ID, ynab.SaveTransaction{Cleared: &status}); err != nil {
			return nil, fmt.Errorf("reconciled %d of %d cleared transactions before a failure: %w", reconciled, len(toReconcile), err)
		}
		reconciled++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reconciled %d cleared transaction(s) on %s.", reconciled, account.Name)

	if _, ok := args["target_balance"].(float64); ok {
		target := money.ToMilliunits(args["target_balance"].(float64))
		diff := target - account.ClearedBalance
		if diff != 0 {
			date, _ := money.ResolveDateToken("today")
			payee := reconciliationPayee
			adjustment, err := p.client.CreateTransaction(ynab.NewTransaction{
				AccountID: account.ID,
				Date:      date,
				Amount:    diff,
				PayeeName: &payee,
				Cleared:   "reconciled",
				Approved:  true,
			})
			if err != nil {
				return nil, fmt.Errorf("reconciled %d transaction(s) but failed to create the adjustment: %w", reconciled, err)
			}
			fmt.Fprintf(&b, "\nCreated a %s adjustment transaction (id %s) to match the target balance of %s.",
				money.FormatAmount(diff), adjustment.ID, money.FormatAmount(target))

			// The adjustment payee may be new to this budget.
			if err := p.resolver.RefreshPayees(); err != nil {
				return nil, err
			}
		} else {
			fmt.Fprintf(&b, "\nCleared balance already matches the target of %s; no adjustment needed.", money.FormatAmount(target))
		}
	}

	return tools.TextContent(b.String()), nil
}
