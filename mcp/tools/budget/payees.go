package budget

import (
	"fmt"
	"strings"

	"github.com/yabbi/ynab-mcp/internal/resolver"
	"github.com/yabbi/ynab-mcp/internal/ynab"
	"github.com/yabbi/ynab-mcp/mcp/tools"
)

func (p *Provider) getPayees(args map[string]interface{}) (interface{}, error) {
	payees, err := p.resolver.Payees()
	if err != nil {
		return nil, err
	}

	// Transfer payees mirror accounts; listing them as spendable payees only
	// confuses matters.
	var names []string
	for _, payee := range payees {
		if payee.TransferAccountID != nil {
			continue
		}
		names = append(names, payee.Name)
	}
	if len(names) == 0 {
		return tools.TextContent("No payees."), nil
	}
	return tools.TextContent(fmt.Sprintf("Payees (%d):\n%s", len(names), strings.Join(names, "\n"))), nil
}

func (p *Provider) getPayee(args map[string]interface{}) (interface{}, error) {
	name, err := tools.GetStringRequired(args, "name")
	if err != nil {
		return nil, err
	}

	payee, err := p.resolvePayeeStrict(name)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Payee: %s\nID: %s", payee.Name, payee.ID)
	if payee.TransferAccountID != nil {
		fmt.Fprintf(&b, "\nTransfer payee for account %s", *payee.TransferAccountID)
	}
	return tools.TextContent(b.String()), nil
}

func (p *Provider) updatePayee(args map[string]interface{}) (interface{}, error) {
	query, err := tools.GetStringRequired(args, "payee")
	if err != nil {
		return nil, err
	}
	newName, err := tools.GetStringRequired(args, "name")
	if err != nil {
		return nil, err
	}

	payee, err := p.resolvePayeeStrict(query)
	if err != nil {
		return nil, err
	}

	updated, err := p.client.UpdatePayee(payee.ID, newName)
	if err != nil {
		return nil, err
	}

	if err := p.resolver.RefreshPayees(); err != nil {
		return nil, err
	}
	return tools.TextContent(fmt.Sprintf("Renamed payee %q to %q.", payee.Name, updated.Name)), nil
}

// resolvePayeeStrict resolves a payee name for read or rename operations,
// where the payee must already exist.
func (p *Provider) resolvePayeeStrict(name string) (*ynab.Payee, error) {
	res, err := p.resolver.ResolvePayee(name)
	if err != nil {
		return nil, err
	}
	if res.Outcome != resolver.Found {
		return nil, fmt.Errorf("%s", res.Message)
	}
	return res.Payee, nil
}
