package budget

import (
	"fmt"
	"strings"

	"github.com/yabbi/ynab-mcp/mcp/tools"
)

// toolCategory buckets a tool by the entity its name operates on.
func toolCategory(name string) string {
	switch {
	case strings.Contains(name, "scheduled"):
		return "scheduled"
	case strings.Contains(name, "account"):
		return "account"
	case strings.Contains(name, "category") || strings.Contains(name, "categories"):
		return "category"
	case strings.Contains(name, "transaction"):
		return "transaction"
	case strings.Contains(name, "payee"):
		return "payee"
	default:
		return "budget"
	}
}

func (p *Provider) searchTools(args map[string]interface{}) (interface{}, error) {
	keyword := strings.ToLower(tools.GetString(args, "keyword"))
	category := strings.ToLower(tools.GetString(args, "category"))

	var b strings.Builder
	count := 0
	for _, tool := range p.Tools() {
		if category != "" && toolCategory(tool.Name) != category {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(tool.Name), keyword) &&
			!strings.Contains(strings.ToLower(tool.Description), keyword) {
			continue
		}
		fmt.Fprintf(&b, "%s [%s]: %s\n", tool.Name, toolCategory(tool.Name), tool.Description)
		count++
	}

	if count == 0 {
		return tools.TextContent("No tools match. Categories: budget, account, category, transaction, payee, scheduled."), nil
	}
	return tools.TextContent(fmt.Sprintf("Matching tools (%d):\n%s", count, strings.TrimRight(b.String(), "\n"))), nil
}
