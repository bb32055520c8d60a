package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yabbi/ynab-mcp/internal/config"
	"github.com/yabbi/ynab-mcp/internal/ynab"
)

// doctorCheck is one diagnostic result.
type doctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // ok, warn, fail
	Message string `json:"message"`
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and connectivity to the YNAB API",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runDoctorChecks()

			if tryJSON(cmd, checks) {
				return nil
			}
			renderDoctorReport(checks)
			return nil
		},
	}
}

func runDoctorChecks() []doctorCheck {
	var checks []doctorCheck
	cfg := config.Load()

	if cfg.AccessToken == "" {
		checks = append(checks, doctorCheck{"Access token", "fail", "YNAB_ACCESS_TOKEN is not set"})
		return checks
	}
	checks = append(checks, doctorCheck{"Access token", "ok", "set"})

	client := ynab.NewClient(cfg.AccessToken)
	budgets, err := client.Budgets()
	if err != nil {
		checks = append(checks, doctorCheck{"API connectivity", "fail", err.Error()})
		return checks
	}
	checks = append(checks, doctorCheck{"API connectivity", "ok", fmt.Sprintf("%d budget(s) available", len(budgets))})

	if err := client.ResolveBudget(cfg.BudgetID); err != nil {
		checks = append(checks, doctorCheck{"Budget", "fail", err.Error()})
		return checks
	}
	if cfg.BudgetID == "" {
		checks = append(checks, doctorCheck{"Budget", "warn", fmt.Sprintf("YNAB_BUDGET_ID not set, using first budget (%s)", client.BudgetID)})
	} else {
		checks = append(checks, doctorCheck{"Budget", "ok", client.BudgetID})
	}

	accounts, err := client.Accounts()
	if err != nil {
		checks = append(checks, doctorCheck{"Accounts", "fail", err.Error()})
		return checks
	}
	open := 0
	for _, a := range accounts {
		if !a.Closed {
			open++
		}
	}
	checks = append(checks, doctorCheck{"Accounts", "ok", fmt.Sprintf("%d open account(s)", open)})

	return checks
}

func renderDoctorReport(checks []doctorCheck) {
	checkOK := lipgloss.NewStyle().Foreground(special).Bold(true).Render("✓")
	checkFail := lipgloss.NewStyle().Foreground(errorColor).Bold(true).Render("✗")
	checkWarn := lipgloss.NewStyle().Foreground(warning).Bold(true).Render("!")

	fmt.Println()
	fmt.Printf("  %s\n", titleStyle.Render("ynab-mcp Doctor"))
	fmt.Println()

	maxNameLen := 0
	for _, c := range checks {
		if len(c.Name) > maxNameLen {
			maxNameLen = len(c.Name)
		}
	}

	for _, check := range checks {
		var indicator string
		var msgStyle lipgloss.Style

		switch check.Status {
		case "ok":
			indicator = checkOK
			msgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		case "fail":
			indicator = checkFail
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		default:
			indicator = checkWarn
			msgStyle = lipgloss.NewStyle().Foreground(warning)
		}

		nameStr := lipgloss.NewStyle().
			Width(maxNameLen + 1).
			Foreground(lipgloss.Color("252")).
			Render(check.Name)

		fmt.Printf("    %s %s  %s\n", indicator, nameStr, msgStyle.Render(check.Message))
	}

	fmt.Println()
}
