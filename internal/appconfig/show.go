package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the effective configuration summary.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	integrations := "all"
	if names := cfg.IntegrationNames(); len(names) > 0 {
		integrations = strings.Join(names, ", ")
	}
	logFile := cfg.LogFilePath()
	if logFile == "" {
		logFile = "(stderr only)"
	}
	metricsAddr := cfg.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = "(disabled)"
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Server Name:     %s\n", cfg.Name())
	fmt.Fprintf(out, "  Server Version:  %s\n", cfg.Version())
	fmt.Fprintf(out, "  Integrations:    %s\n", integrations)
	fmt.Fprintf(out, "  Env File:        %s\n", cfg.EnvFile)
	fmt.Fprintf(out, "  Log File:        %s\n", logFile)
	fmt.Fprintf(out, "  Log Level:       %s\n", cfg.Level())
	fmt.Fprintf(out, "  Metrics Addr:    %s\n", metricsAddr)
	fmt.Fprintf(out, "  Expose Schemas:  %v\n", cfg.ExposeSchemas)
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
}
