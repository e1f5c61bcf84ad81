package integrations

import (
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

// Tool is one namespaced, invocable tool of a loaded integration.
type Tool struct {
	Integration string
	Name        string
	Namespaced  string
	Title       string
	Description string
	Definition  toolkit.Definition
	Call        toolkit.Func
}

// Namespace joins an integration and tool name into the public tool id.
func Namespace(integration, tool string) string {
	return integration + "_" + tool
}

// Registry holds the integrations that loaded. It is filled by Load and only
// read afterwards, so concurrent readers need no locking.
type Registry struct {
	order       []string
	managers    map[string]*toolkit.Manager
	descriptors map[string]Descriptor
	toolOrder   []string
	tools       map[string]Tool
	failures    []Failure
}

func newRegistry() *Registry {
	return &Registry{
		managers:    map[string]*toolkit.Manager{},
		descriptors: map[string]Descriptor{},
		tools:       map[string]Tool{},
	}
}

func (r *Registry) add(d Descriptor, m *toolkit.Manager) {
	r.order = append(r.order, d.Name)
	r.managers[d.Name] = m
	r.descriptors[d.Name] = d

	calls := d.Tools(m)
	descriptions := d.ToolDescriptions()
	for _, def := range m.Tools() {
		id := Namespace(d.Name, def.Name)
		r.toolOrder = append(r.toolOrder, id)
		r.tools[id] = Tool{
			Integration: d.Name,
			Name:        def.Name,
			Namespaced:  id,
			Title:       d.Title + ": " + def.Name,
			Description: descriptions[def.Name],
			Definition:  def,
			Call:        calls[def.Name],
		}
	}
}

// Len reports the number of loaded integrations.
func (r *Registry) Len() int { return len(r.order) }

// Integrations returns the loaded integration names in catalog order.
func (r *Registry) Integrations() []string {
	return append([]string(nil), r.order...)
}

// Manager returns the tool manager of a loaded integration.
func (r *Registry) Manager(integration string) (*toolkit.Manager, bool) {
	m, ok := r.managers[integration]
	return m, ok
}

// Descriptor returns the catalog entry of a loaded integration.
func (r *Registry) Descriptor(integration string) (Descriptor, bool) {
	d, ok := r.descriptors[integration]
	return d, ok
}

// Tools returns every namespaced tool, grouped by integration in load order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.toolOrder))
	for _, id := range r.toolOrder {
		out = append(out, r.tools[id])
	}
	return out
}

// ToolNames returns the namespaced tool ids.
func (r *Registry) ToolNames() []string {
	return append([]string(nil), r.toolOrder...)
}

// Tool looks up a namespaced tool id.
func (r *Registry) Tool(namespaced string) (Tool, bool) {
	t, ok := r.tools[namespaced]
	return t, ok
}

// Failures returns the integrations that were attempted and skipped.
func (r *Registry) Failures() []Failure {
	return append([]Failure(nil), r.failures...)
}
