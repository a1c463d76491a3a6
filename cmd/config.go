package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/notion-mcp/internal/config"
	"github.com/teemow/notion-mcp/internal/logging"
)

func newConfigCmd() *cobra.Command {
	var (
		envFile    string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration notion-mcp would start with. The API token and
database IDs are masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{EnvFile: envFile, ConfigFile: configFile})
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	cmd.Flags().StringVar(&configFile, "config", "", "TOML config file (default ~/.config/notion-mcp/config.toml)")

	return cmd
}

func printConfig(w io.Writer, cfg *config.Config) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := []struct{ name, value string }{
		{config.EnvAPIToken, logging.SanitizeToken(cfg.APIToken)},
		{config.EnvCalendarDBID, logging.MaskID(cfg.CalendarDBID)},
		{config.EnvListDBID, logging.MaskID(cfg.ListDBID)},
		{config.EnvTitleProperty, cfg.TitleProperty},
		{config.EnvDateProperty, cfg.DateProperty},
		{config.EnvStatusProperty, valueOrUnset(cfg.StatusProperty)},
		{config.EnvPriorityProperty, valueOrUnset(cfg.PriorityProperty)},
		{config.EnvAPIBaseURL, cfg.APIBaseURL},
		{config.EnvAPIVersion, cfg.APIVersion},
		{config.EnvHTTPTimeout, cfg.HTTPTimeout.String()},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.name, row.value)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(tw, "\nwarning: %v\n", err)
	}
	return tw.Flush()
}

func valueOrUnset(v string) string {
	if v == "" {
		return "<unset>"
	}
	return v
}
