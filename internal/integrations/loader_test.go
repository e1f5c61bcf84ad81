package integrations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

func TestLoadStripeOnly(t *testing.T) {
	reg, err := Load(context.Background(), LoadOptions{
		Lookup: MapLookup(map[string]string{"STRIPE_SECRET_KEY": "sk_test_123"}),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"stripe"}, reg.Integrations())
	assert.Equal(t, []string{
		"stripe_createCustomer",
		"stripe_getCustomer",
		"stripe_listCustomers",
		"stripe_createPaymentIntent",
		"stripe_getPaymentIntent",
		"stripe_createInvoice",
		"stripe_getInvoice",
	}, reg.ToolNames())
	assert.Len(t, reg.Failures(), len(Catalog())-1)
}

func TestLoadNothingReportsEveryMissingVariable(t *testing.T) {
	reg, err := Load(context.Background(), LoadOptions{Lookup: MapLookup(nil)})
	require.ErrorIs(t, err, ErrNoIntegrationsLoaded)
	require.NotNil(t, reg)
	assert.Zero(t, reg.Len())

	failures := reg.Failures()
	require.Len(t, failures, len(Catalog()))
	var all []string
	for _, f := range failures {
		assert.True(t, errors.Is(f, ErrIntegrationUnavailable))
		all = append(all, f.Error())
	}
	joined := strings.Join(all, "\n")
	assert.Contains(t, joined, "GITHUB_TOKEN (or GITHUB_API_KEY)")
	assert.Contains(t, joined, "JIRA_BASE_URL, JIRA_EMAIL, JIRA_API_TOKEN")
	assert.NotContains(t, joined, "PAYPAL_ENVIRONMENT")
}

func TestLoadIsAllOrNothingPerIntegration(t *testing.T) {
	for _, d := range Catalog() {
		required := d.RequiredKeys()
		if len(required) < 2 {
			continue
		}
		t.Run(d.Name, func(t *testing.T) {
			env := map[string]string{}
			for _, k := range required[1:] {
				env[k.Name] = "value"
			}
			reg, err := Load(context.Background(), LoadOptions{
				Only:   []string{d.Name},
				Lookup: MapLookup(env),
			})
			require.ErrorIs(t, err, ErrNoIntegrationsLoaded)
			_, loaded := reg.Manager(d.Name)
			assert.False(t, loaded)
			for _, name := range reg.ToolNames() {
				assert.False(t, strings.HasPrefix(name, d.Name+"_"))
			}
			require.Len(t, reg.Failures(), 1)
			assert.Equal(t, []EnvKey{required[0]}, reg.Failures()[0].Missing)
		})
	}
}

func TestLoadUsesAlternateAndIgnoresEmpty(t *testing.T) {
	reg, err := Load(context.Background(), LoadOptions{
		Lookup: MapLookup(map[string]string{
			"GITHUB_TOKEN":     "",
			"GITHUB_API_KEY":   "ghp_alt",
			"VERCEL_API_TOKEN": "   ",
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"github"}, reg.Integrations())
}

func TestLoadOnlyKeepsRequestedOrderAndSkipsUnknown(t *testing.T) {
	env := MapLookup(map[string]string{
		"STRIPE_SECRET_KEY": "sk",
		"RESEND_API_KEY":    "re",
		"LINEAR_API_KEY":    "lin",
	})
	reg, err := Load(context.Background(), LoadOptions{Only: []string{"resend", "bogus", " Stripe "}, Lookup: env})
	require.NoError(t, err)
	assert.Equal(t, []string{"resend", "stripe"}, reg.Integrations())
}

func TestLoadConstructorFailureIsNotFatal(t *testing.T) {
	boom := errors.New("malformed credentials")
	catalog := []Descriptor{
		{
			Name:    "broken",
			EnvKeys: []EnvKey{{Name: "BROKEN_KEY"}},
			New: func(Env, ...restclient.Option) (*toolkit.Manager, error) {
				return nil, boom
			},
		},
	}
	catalog = append(catalog, Catalog()...)

	reg, err := Load(context.Background(), LoadOptions{
		Catalog: catalog,
		Lookup:  MapLookup(map[string]string{"BROKEN_KEY": "x", "NOTION_API_KEY": "secret"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"notion"}, reg.Integrations())

	var found bool
	for _, f := range reg.Failures() {
		if f.Integration == "broken" {
			found = true
			assert.ErrorIs(t, f, boom)
		}
	}
	assert.True(t, found)
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FIRECRAWL_API_KEY=fc-from-file\n"), 0o600))

	reg, err := Load(context.Background(), LoadOptions{Lookup: MapLookup(nil), EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"firecrawl"}, reg.Integrations())
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(context.Background(), LoadOptions{EnvFile: filepath.Join(t.TempDir(), "nope.env")})
	require.Error(t, err)
}

func TestStatusesReportsWithoutConstructing(t *testing.T) {
	statuses, err := Statuses(LoadOptions{
		Only:   []string{"twilio", "stripe"},
		Lookup: MapLookup(map[string]string{"STRIPE_SECRET_KEY": "sk", "TWILIO_ACCOUNT_SID": "AC1"}),
	})
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, "twilio", statuses[0].Descriptor.Name)
	assert.False(t, statuses[0].Available())
	assert.Equal(t, []EnvKey{{Name: "TWILIO_AUTH_TOKEN"}}, statuses[0].Missing)
	assert.True(t, statuses[1].Available())

	_, err = Statuses(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.Error(t, err)
}
