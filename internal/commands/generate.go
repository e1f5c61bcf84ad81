// internal/commands/generate.go
package toolbelt

import (
	"fmt"

	"github.com/mwiater/toolbelt/internal/generator"
	"github.com/spf13/cobra"
)

// generateCmd implements 'generate', which writes an adapter package from an
// OpenAPI 3 document.
var generateCmd = &cobra.Command{
	Use:   "generate <specPath>",
	Short: "Generate an adapter package from an OpenAPI 3 document",
	Long: `The 'generate' command reads an OpenAPI 3 document (JSON or YAML) and writes a
package laid out like the built-in adapters: params structs, tool definitions, a
Funcs table, a client constructor and one file per operation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := generator.Options{SpecPath: args[0], Out: cmd.OutOrStdout()}
		opts.OutputDir, _ = flags.GetString("output")
		opts.PackageName, _ = flags.GetString("package-name")
		opts.BaseURL, _ = flags.GetString("base-url")
		opts.AuthType, _ = flags.GetString("auth-type")
		opts.ModulePath, _ = flags.GetString("module")
		opts.DryRun, _ = flags.GetBool("dry-run")
		opts.Strict, _ = flags.GetBool("strict")

		res, err := generator.Generate(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if opts.DryRun {
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Generated package %s in %s (%d operations)\n", res.Package, res.OutputDir, len(res.Operations))
		for _, f := range res.Files {
			fmt.Fprintf(out, "  %s\n", f)
		}
		fmt.Fprintf(out, "Credentials: %v\n", res.EnvKeys)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "output directory (default adapters/<package-name>)")
	generateCmd.Flags().StringP("package-name", "p", "", "Go package name for the generated code")
	generateCmd.Flags().String("base-url", "", "API base URL (default: first server in the document)")
	generateCmd.Flags().String("auth-type", generator.AuthAPIKey, "apikey, bearer, basic or oauth2")
	generateCmd.Flags().String("module", generator.DefaultModulePath, "module providing pkg/restclient and pkg/toolkit")
	generateCmd.Flags().Bool("dry-run", false, "print the inferred operations without writing files")
	generateCmd.Flags().Bool("strict", false, "fail when generated source does not pass gofmt")
	_ = generateCmd.MarkFlagRequired("package-name")

	rootCmd.AddCommand(generateCmd)
}
