// Package cli wires the command-line interface: serving MCP over stdio plus
// a few inspection commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yabbi/ynab-mcp/internal/config"
	"github.com/yabbi/ynab-mcp/internal/logger"
	"github.com/yabbi/ynab-mcp/internal/ynab"
	"github.com/yabbi/ynab-mcp/mcp"
	"github.com/yabbi/ynab-mcp/mcp/tools/budget"
)

var cliVersion string

// NewRootCmd creates the root command with all subcommands. Running the
// root command with no subcommand serves MCP over stdio, which is how MCP
// clients launch the binary.
func NewRootCmd(version string) *cobra.Command {
	cliVersion = version
	mcp.Version = version

	rootCmd := &cobra.Command{
		Use:   "ynab-mcp",
		Short: "YNAB MCP server",
		Long: titleStyle.Render("ynab-mcp") + " " + lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(version) + "\n" +
			"  An MCP server exposing a YNAB budget as tools for AI assistants.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(logger.Config{LogDir: cfg.LogDir, Debug: cfg.Debug}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	client := ynab.NewClient(cfg.AccessToken)
	if err := client.ResolveBudget(cfg.BudgetID); err != nil {
		return fmt.Errorf("failed to resolve budget: %w", err)
	}
	logger.With("budget_id", client.BudgetID).Info("serving MCP over stdio")

	provider := budget.NewProvider(client)
	if err := provider.CheckDependencies(); err != nil {
		return fmt.Errorf("budget tools unavailable: %w", err)
	}
	server := mcp.NewServer(logger.WithComponent("mcp"), provider)
	return server.Run(os.Stdin, os.Stdout)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ynab-mcp %s\n", cliVersion)
		},
	}
}

// tryJSON returns true if --json was set and data was printed
func tryJSON(cmd *cobra.Command, v interface{}) bool {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	if !jsonFlag {
		return false
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return false
	}
	fmt.Println(string(out))
	return true
}
