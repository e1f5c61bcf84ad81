package toolbelt

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mwiater/toolbelt/internal/appconfig"
	"github.com/mwiater/toolbelt/internal/integrations"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	toolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	available = color.New(color.FgGreen).SprintFunc()
	missing   = color.New(color.FgRed).SprintFunc()
)

// runListIntegrations prints every integration with its credential status.
func runListIntegrations(out io.Writer, cfg appconfig.Config) error {
	statuses, err := integrations.Statuses(integrations.LoadOptions{
		Only:    cfg.IntegrationNames(),
		EnvFile: cfg.EnvFile,
	})
	if err != nil {
		return err
	}

	width := 0
	for _, s := range statuses {
		if len(s.Descriptor.Name) > width {
			width = len(s.Descriptor.Name)
		}
	}

	ready := 0
	fmt.Fprintln(out, headerStyle.Render("Integrations:"))
	for _, s := range statuses {
		name := s.Descriptor.Name + strings.Repeat(" ", width-len(s.Descriptor.Name)+2)
		if s.Available() {
			ready++
			fmt.Fprintf(out, "  %s %s%d tools\n", available("✓"), name, len(s.Descriptor.Definitions))
			continue
		}
		keys := make([]string, 0, len(s.Missing))
		for _, k := range s.Missing {
			keys = append(keys, k.String())
		}
		fmt.Fprintf(out, "  %s %smissing %s\n", missing("✗"), name, strings.Join(keys, ", "))
	}
	fmt.Fprintf(out, "\n%d of %d available\n", ready, len(statuses))
	return nil
}

// runListTools prints namespaced tool names with their descriptions.
func runListTools(ctx context.Context, out io.Writer, cfg appconfig.Config, all bool) error {
	type row struct{ name, description string }
	var rows []row

	if all {
		for _, d := range integrations.Catalog() {
			for _, def := range d.Definitions {
				rows = append(rows, row{integrations.Namespace(d.Name, def.Name), def.Description})
			}
		}
	} else {
		reg, err := loadRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		for _, t := range reg.Tools() {
			rows = append(rows, row{t.Namespaced, t.Description})
		}
	}

	width := 0
	for _, r := range rows {
		if len(r.name) > width {
			width = len(r.name)
		}
	}
	fmt.Fprintln(out, headerStyle.Render("Tools:"))
	for _, r := range rows {
		fmt.Fprintf(out, "  %s%s%s\n", toolStyle.Render(r.name), strings.Repeat(" ", width-len(r.name)+2), r.description)
	}
	return nil
}
