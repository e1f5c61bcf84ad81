// internal/commands/run.go
package toolbelt

import (
	"github.com/mwiater/toolbelt/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd starts the MCP server on stdio with every integration whose
// credentials are present.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve the available integrations as MCP tools over stdio",
	Long: `The 'run' command loads every integration whose environment variables are set
(or only those named with --integrations), registers their operations as MCP tools
named {integration}_{tool}, and serves them over stdin/stdout until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listOnly, _ := cmd.Flags().GetBool("list-integrations")
		if listOnly {
			return runListIntegrations(cmd.OutOrStdout(), *GetConfig())
		}
		return runServer(cmd.Context(), *GetConfig())
	},
}

func init() {
	runCmd.Flags().String("name", "", "MCP server name")
	runCmd.Flags().String("version", "", "MCP server version")
	runCmd.Flags().StringSlice("integrations", nil, "comma separated integrations to load (default: all available)")
	runCmd.Flags().Bool("list-integrations", false, "print the integrations and their credential status, then exit")
	runCmd.Flags().String("env-file", "", "dotenv file consulted for credentials missing from the environment")
	runCmd.Flags().Bool("expose-schemas", false, "publish each tool's input schema to MCP clients")
	runCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")

	_ = viper.BindPFlag(appconfig.KeyServerName, runCmd.Flags().Lookup("name"))
	_ = viper.BindPFlag(appconfig.KeyServerVersion, runCmd.Flags().Lookup("version"))
	_ = viper.BindPFlag(appconfig.KeyIntegrations, runCmd.Flags().Lookup("integrations"))
	_ = viper.BindPFlag(appconfig.KeyEnvFile, runCmd.Flags().Lookup("env-file"))
	_ = viper.BindPFlag(appconfig.KeyExposeSchemas, runCmd.Flags().Lookup("expose-schemas"))
	_ = viper.BindPFlag(appconfig.KeyMetricsAddr, runCmd.Flags().Lookup("metrics-addr"))

	rootCmd.AddCommand(runCmd)
}
