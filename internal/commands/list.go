// internal/commands/list.go
package toolbelt

import "github.com/spf13/cobra"

// listCmd represents the 'list' command group.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing integrations, tools and commands",
	Long:  `The 'list' command groups subcommands that list the integrations toolbelt knows about, the tools they expose, and the CLI itself.`,
}

// listIntegrationsCmd implements 'list integrations'.
var listIntegrationsCmd = &cobra.Command{
	Use:   "integrations",
	Short: "List integrations and whether their credentials are set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListIntegrations(cmd.OutOrStdout(), *GetConfig())
	},
}

// listToolsCmd implements 'list tools'.
var listToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the namespaced tools of the loadable integrations",
	Long:  `The 'tools' subcommand lists every {integration}_{tool} name that 'run' would register. With --all it lists the tools of every integration regardless of credentials.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return runListTools(cmd.Context(), cmd.OutOrStdout(), *GetConfig(), all)
	},
}

func init() {
	listToolsCmd.Flags().Bool("all", false, "list every integration's tools, ignoring credentials")

	listCmd.AddCommand(listIntegrationsCmd)
	listCmd.AddCommand(listToolsCmd)
	rootCmd.AddCommand(listCmd)
}
