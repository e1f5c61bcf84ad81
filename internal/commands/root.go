// internal/commands/root.go
package toolbelt

import (
	"errors"
	"fmt"
	"os"

	"github.com/mwiater/toolbelt/internal/appconfig"
	"github.com/mwiater/toolbelt/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "toolbelt",
	Short: "toolbelt exposes SaaS APIs as LLM tools and serves them over MCP",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		cfg, err := appconfig.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		if !loaded {
			cfg.ConfigPath = ""
		}
		currentConfig = &cfg

		if err := logging.Setup(cfg.LogFilePath(), cfg.Level()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	appconfig.Bind(viper.GetViper())

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default "+appconfig.DefaultConfigPath+" when present)")
	rootCmd.PersistentFlags().String("log-file", "", "append logs to this file as well as stderr")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")

	_ = viper.BindPFlag(appconfig.KeyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag(appconfig.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig points viper at the config file, if one was given.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return
	}
	viper.SetConfigFile(appconfig.DefaultConfigPath)
}

// ensureConfigLoaded reads the config file and reports whether one was found.
// Only an explicit --config must exist.
func ensureConfigLoaded() (bool, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing {
			return false, fmt.Errorf("failed to load config: %w", err)
		}
		if cfgFile != "" {
			return false, fmt.Errorf("no configuration file found at %q", cfgFile)
		}
		return false, nil
	}
	return true, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		cfg, _ := appconfig.FromViper(viper.GetViper())
		return &cfg
	}
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
