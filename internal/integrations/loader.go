// internal/integrations/loader.go
package integrations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mwiater/toolbelt/internal/logging"
	"github.com/mwiater/toolbelt/pkg/restclient"
)

var (
	// ErrIntegrationUnavailable marks a skipped integration. It is recorded in
	// Failures and never returned from Load.
	ErrIntegrationUnavailable = errors.New("integration unavailable")
	// ErrNoIntegrationsLoaded is returned when nothing could be loaded.
	ErrNoIntegrationsLoaded = errors.New("no integrations loaded")
)

// Failure explains why one integration was skipped.
type Failure struct {
	Integration string
	Missing     []EnvKey
	Err         error
}

func (f Failure) Error() string {
	if len(f.Missing) > 0 {
		names := make([]string, 0, len(f.Missing))
		for _, k := range f.Missing {
			names = append(names, k.String())
		}
		return fmt.Sprintf("%s: missing environment variables: %s", f.Integration, strings.Join(names, ", "))
	}
	return fmt.Sprintf("%s: %v", f.Integration, f.Err)
}

func (f Failure) Unwrap() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrIntegrationUnavailable
}

func (f Failure) Is(target error) bool { return target == ErrIntegrationUnavailable }

// LoadOptions controls Load.
type LoadOptions struct {
	// Catalog defaults to Catalog().
	Catalog []Descriptor
	// Only restricts loading to these names, in this order. Empty means all.
	Only []string
	// Lookup defaults to os.LookupEnv.
	Lookup LookupFunc
	// EnvFile is an optional dotenv file consulted after Lookup.
	EnvFile string
	// ClientOptions are passed to every adapter's REST client.
	ClientOptions []restclient.Option
}

// Load builds a Registry from every candidate integration whose required
// variables are all present. A candidate with any variable missing, or whose
// constructor fails, is logged and skipped. If nothing loads, the (empty)
// registry is returned together with ErrNoIntegrationsLoaded.
func Load(ctx context.Context, opts LoadOptions) (*Registry, error) {
	catalog := opts.catalog()
	lookup, err := opts.lookup()
	if err != nil {
		return nil, err
	}

	log := logging.Logger()
	reg := newRegistry()
	for _, d := range candidates(catalog, opts.Only) {
		if err := ctx.Err(); err != nil {
			return reg, err
		}
		env, missing := d.Resolve(lookup)
		if len(missing) > 0 {
			f := Failure{Integration: d.Name, Missing: missing}
			reg.failures = append(reg.failures, f)
			log.Warn().Str("integration", d.Name).Msg("skipping integration: " + f.Error())
			continue
		}
		m, err := d.New(env, opts.ClientOptions...)
		if err != nil {
			f := Failure{Integration: d.Name, Err: err}
			reg.failures = append(reg.failures, f)
			log.Error().Err(err).Str("integration", d.Name).Msg("failed to initialize integration")
			continue
		}
		reg.add(d, m)
		log.Info().Str("integration", d.Name).Int("tools", len(m.Names())).Msg("loaded integration")
	}

	if reg.Len() == 0 {
		return reg, ErrNoIntegrationsLoaded
	}
	return reg, nil
}

// Status is the credential state of one catalog entry.
type Status struct {
	Descriptor Descriptor
	Missing    []EnvKey
}

// Available reports whether every required variable is set.
func (s Status) Available() bool { return len(s.Missing) == 0 }

// Statuses resolves the credentials of every candidate without constructing
// any adapter.
func Statuses(opts LoadOptions) ([]Status, error) {
	lookup, err := opts.lookup()
	if err != nil {
		return nil, err
	}
	var out []Status
	for _, d := range candidates(opts.catalog(), opts.Only) {
		_, missing := d.Resolve(lookup)
		out = append(out, Status{Descriptor: d, Missing: missing})
	}
	return out, nil
}

func (opts LoadOptions) catalog() []Descriptor {
	if opts.Catalog == nil {
		return Catalog()
	}
	return opts.Catalog
}

func (opts LoadOptions) lookup() (LookupFunc, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if opts.EnvFile != "" {
		fileEnv, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("read env file %s: %w", opts.EnvFile, err)
		}
		lookup = withFallback(lookup, fileEnv)
	}
	return lookup, nil
}

func candidates(catalog []Descriptor, only []string) []Descriptor {
	if len(only) == 0 {
		return catalog
	}
	log := logging.Logger()
	out := make([]Descriptor, 0, len(only))
	seen := map[string]bool{}
	for _, raw := range only {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		d, ok := Find(catalog, name)
		if !ok {
			log.Warn().Str("integration", name).Msg("unknown integration requested; ignoring")
			continue
		}
		out = append(out, d)
	}
	return out
}

func withFallback(primary LookupFunc, fallback map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		v, ok := fallback[key]
		return v, ok
	}
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
