package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the notion-mcp application
var rootCmd = &cobra.Command{
	Use:   "notion-mcp",
	Short: "MCP server that adds calendar events and list items to Notion",
	Long: `notion-mcp is a Model Context Protocol (MCP) server that lets AI assistants
create pages in two Notion databases:

  - add_calendar_event: adds an event to the calendar database
  - add_list_item: adds an item to the list database

Configuration is read from the environment, a .env file in the working
directory, or ~/.config/notion-mcp/config.toml.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "notion-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, start the server
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
