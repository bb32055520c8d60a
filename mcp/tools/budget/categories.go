package budget

import (
	"fmt"
	"strings"

	"github.com/yabbi/ynab-mcp/internal/money"
	"github.com/yabbi/ynab-mcp/internal/ynab"
	"github.com/yabbi/ynab-mcp/mcp/tools"
)

func (p *Provider) getCategories(args map[string]interface{}) (interface{}, error) {
	groups, err := p.client.CategoryGroups()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, g := range groups {
		if g.Hidden {
			continue
		}
		var lines []string
		for _, c := range g.Categories {
			if c.Hidden {
				continue
			}
			lines = append(lines, "  "+categoryLine(c))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n%s\n", g.Name, strings.Join(lines, "\n"))
	}
	if b.Len() == 0 {
		return tools.TextContent("No visible categories."), nil
	}
	return tools.TextContent(strings.TrimRight(b.String(), "\n")), nil
}

func (p *Provider) getCategory(args map[string]interface{}) (interface{}, error) {
	name, err := tools.GetStringRequired(args, "name")
	if err != nil {
		return nil, err
	}

	category, err := p.resolveCategoryStrict(name)
	if err != nil {
		return nil, err
	}
	return tools.TextContent(formatCategory(*category)), nil
}

func (p *Provider) getMonthCategory(args map[string]interface{}) (interface{}, error) {
	name, err := tools.GetStringRequired(args, "name")
	if err != nil {
		return nil, err
	}
	month := tools.GetString(args, "month")
	if month == "" {
		month = "current"
	}
	month, err = money.MonthToken(month)
	if err != nil {
		return nil, err
	}

	category, err := p.resolveCategoryStrict(name)
	if err != nil {
		return nil, err
	}

	monthCategory, err := p.client.MonthCategory(month, category.ID)
	if err != nil {
		return nil, err
	}
	return tools.TextContent(fmt.Sprintf("%s in %s:\n%s", monthCategory.Name, month, formatCategory(*monthCategory))), nil
}

func (p *Provider) setCategoryBudget(args map[string]interface{}) (interface{}, error) {
	name, err := tools.GetStringRequired(args, "category")
	if err != nil {
		return nil, err
	}
	month, err := tools.GetStringRequired(args, "month")
	if err != nil {
		return nil, err
	}
	amount, err := tools.GetNumberRequired(args, "amount")
	if err != nil {
		return nil, err
	}

	month, err = money.MonthToken(month)
	if err != nil {
		return nil, err
	}

	category, err := p.resolveCategoryStrict(name)
	if err != nil {
		return nil, err
	}

	updated, err := p.client.SetMonthCategoryBudget(month, category.ID, money.ToMilliunits(amount))
	if err != nil {
		return nil, err
	}
	return tools.TextContent(fmt.Sprintf("Set %s budget for %s to %s (balance now %s).",
		updated.Name, month, money.FormatAmount(updated.Budgeted), money.FormatAmount(updated.Balance))), nil
}

func (p *Provider) updateCategory(args map[string]interface{}) (interface{}, error) {
	name, err := tools.GetStringRequired(args, "category")
	if err != nil {
		return nil, err
	}

	var fields ynab.SaveCategory
	if newName := tools.GetString(args, "name"); newName != "" {
		fields.Name = &newName
	}
	if note := tools.GetString(args, "note"); note != "" {
		fields.Note = &note
	}
	if target, ok := args["goal_target"].(float64); ok {
		milli := money.ToMilliunits(target)
		fields.GoalTarget = &milli
	}
	if fields.Name == nil && fields.Note == nil && fields.GoalTarget == nil {
		return nil, fmt.Errorf("nothing to update: provide at least one of name, note or goal_target")
	}

	category, err := p.resolveCategoryStrict(name)
	if err != nil {
		return nil, err
	}

	updated, err := p.client.UpdateCategory(category.ID, fields)
	if err != nil {
		return nil, err
	}
	return tools.TextContent(fmt.Sprintf("Updated category.\n%s", formatCategory(*updated))), nil
}
