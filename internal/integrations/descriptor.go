// internal/integrations/descriptor.go

// Package integrations knows which adapters exist, which environment variables
// each one needs, and how to build its tool manager. Load turns that catalog
// into a Registry of the integrations whose credentials are present.
package integrations

import (
	"context"
	"strings"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

// EnvKey is one credential variable. Alternates are tried in order when Name
// is unset; whichever is found is stored under Name.
type EnvKey struct {
	Name       string
	Alternates []string
	Optional   bool
}

// Names returns Name followed by its alternates.
func (k EnvKey) Names() []string {
	return append([]string{k.Name}, k.Alternates...)
}

func (k EnvKey) String() string {
	if len(k.Alternates) == 0 {
		return k.Name
	}
	return k.Name + " (or " + strings.Join(k.Alternates, ", ") + ")"
}

// Env holds resolved credential values keyed by canonical variable name.
type Env map[string]string

// Get returns the value stored under name, or "".
func (e Env) Get(name string) string { return e[name] }

// Factory builds a tool manager from resolved credentials.
type Factory func(env Env, opts ...restclient.Option) (*toolkit.Manager, error)

// Descriptor is one row of the catalog.
type Descriptor struct {
	Name        string
	Title       string
	EnvKeys     []EnvKey
	Definitions []toolkit.Definition
	New         Factory
}

// LookupFunc reports the value of an environment variable. It matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Resolve collects the descriptor's variables. Empty values count as missing.
// missing lists the required keys that could not be resolved.
func (d Descriptor) Resolve(lookup LookupFunc) (env Env, missing []EnvKey) {
	env = Env{}
	for _, key := range d.EnvKeys {
		found := false
		for _, name := range key.Names() {
			if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
				env[key.Name] = v
				found = true
				break
			}
		}
		if !found && !key.Optional {
			missing = append(missing, key)
		}
	}
	return env, missing
}

// RequiredKeys returns the keys that must be present for the integration to load.
func (d Descriptor) RequiredKeys() []EnvKey {
	out := make([]EnvKey, 0, len(d.EnvKeys))
	for _, k := range d.EnvKeys {
		if !k.Optional {
			out = append(out, k)
		}
	}
	return out
}

// Tools returns a callable per tool name. Each callable goes through
// m.Execute, so validation always runs before the adapter.
func (d Descriptor) Tools(m *toolkit.Manager) map[string]toolkit.Func {
	out := make(map[string]toolkit.Func, len(d.Definitions))
	for _, def := range d.Definitions {
		name := def.Name
		out[name] = func(ctx context.Context, params map[string]any) (any, error) {
			return m.Execute(ctx, name, params)
		}
	}
	return out
}

// ToolDescriptions returns the description per tool name. Its key set is
// always the key set of Tools.
func (d Descriptor) ToolDescriptions() map[string]string {
	out := make(map[string]string, len(d.Definitions))
	for _, def := range d.Definitions {
		out[def.Name] = def.Description
	}
	return out
}
