package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yabbi/ynab-mcp/internal/ynab"
	"github.com/yabbi/ynab-mcp/mcp/tools/budget"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools this server exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The tool catalog is static; no credentials needed to list it.
			provider := budget.NewProvider(ynab.NewClient(""))
			toolList := provider.Tools()

			if tryJSON(cmd, toolList) {
				return nil
			}

			filter, _ := cmd.Flags().GetString("filter")
			headers := []string{"Tool", "Description"}
			var rows [][]string
			for _, tool := range toolList {
				if filter != "" && !strings.Contains(tool.Name, filter) {
					continue
				}
				rows = append(rows, []string{tool.Name, truncate(tool.Description, 70)})
			}

			if len(rows) == 0 {
				PrintWarning(fmt.Sprintf("No tools match '%s'", filter))
				return nil
			}

			fmt.Println()
			fmt.Printf("  %s\n", titleStyle.Render(fmt.Sprintf("Tools (%d)", len(rows))))
			RenderTable(headers, rows)
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("filter", "", "Only show tools whose name contains this string")

	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
