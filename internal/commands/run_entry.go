package toolbelt

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwiater/toolbelt/internal/appconfig"
	"github.com/mwiater/toolbelt/internal/integrations"
	"github.com/mwiater/toolbelt/internal/logging"
	"github.com/mwiater/toolbelt/internal/mcpserver"
	"github.com/mwiater/toolbelt/internal/metrics"
	"github.com/mwiater/toolbelt/pkg/restclient"
)

// serveStdio is swapped out in tests so runServer can be exercised without
// owning the process's stdin and stdout.
var serveStdio = mcpserver.ServeStdio

// loadRegistry builds the registry described by cfg.
func loadRegistry(ctx context.Context, cfg appconfig.Config) (*integrations.Registry, error) {
	return integrations.Load(ctx, integrations.LoadOptions{
		Only:          cfg.IntegrationNames(),
		EnvFile:       cfg.EnvFile,
		ClientOptions: []restclient.Option{restclient.WithTimeout(cfg.RequestTimeout())},
	})
}

func runServer(ctx context.Context, cfg appconfig.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.Logger()
	reg, err := loadRegistry(ctx, cfg)
	if err != nil {
		if errors.Is(err, integrations.ErrNoIntegrationsLoaded) {
			log.Error().Int("skipped", len(reg.Failures())).Msg("no integrations could be loaded; set the credentials listed above")
		}
		return err
	}

	rec := metrics.New()
	if addr := cfg.MetricsAddr; addr != "" {
		go func() {
			if err := rec.Serve(ctx, addr); err != nil {
				log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
			}
		}()
	}

	srv, _ := mcpserver.NewServer(cfg.Name(), cfg.Version(), reg, mcpserver.Options{
		ExposeSchemas: cfg.ExposeSchemas,
		Metrics:       rec,
	})
	log.Info().
		Str("name", cfg.Name()).
		Str("version", cfg.Version()).
		Strs("integrations", reg.Integrations()).
		Int("tools", len(reg.ToolNames())).
		Msg("starting MCP server")

	if err := serveStdio(ctx, srv); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.LogEvent("MCP server %s stopped", cfg.Name())
	return nil
}
