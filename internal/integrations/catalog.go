// internal/integrations/catalog.go
package integrations

import (
	"github.com/mwiater/toolbelt/adapters/firecrawl"
	"github.com/mwiater/toolbelt/adapters/github"
	"github.com/mwiater/toolbelt/adapters/jira"
	"github.com/mwiater/toolbelt/adapters/linear"
	"github.com/mwiater/toolbelt/adapters/mux"
	"github.com/mwiater/toolbelt/adapters/notion"
	"github.com/mwiater/toolbelt/adapters/paypal"
	"github.com/mwiater/toolbelt/adapters/resend"
	"github.com/mwiater/toolbelt/adapters/stripe"
	"github.com/mwiater/toolbelt/adapters/supabase"
	"github.com/mwiater/toolbelt/adapters/twilio"
	"github.com/mwiater/toolbelt/adapters/vercel"
	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

// Catalog returns every known integration in a stable order. The slice is new
// on each call.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:        "github",
			Title:       "GitHub",
			EnvKeys:     []EnvKey{{Name: "GITHUB_TOKEN", Alternates: []string{"GITHUB_API_KEY"}}},
			Definitions: github.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				return github.NewToolManager(github.New(env.Get("GITHUB_TOKEN"), opts...))
			},
		},
		{
			Name:        "linear",
			Title:       "Linear",
			EnvKeys:     []EnvKey{{Name: "LINEAR_API_KEY"}},
			Definitions: linear.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				return linear.NewToolManager(linear.New(env.Get("LINEAR_API_KEY"), opts...))
			},
		},
		{
			Name:        "notion",
			Title:       "Notion",
			EnvKeys:     []EnvKey{{Name: "NOTION_API_KEY"}},
			Definitions: notion.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				return notion.NewToolManager(notion.New(env.Get("NOTION_API_KEY"), opts...))
			},
		},
		{
			Name:        "stripe",
			Title:       "Stripe",
			EnvKeys:     []EnvKey{{Name: "STRIPE_SECRET_KEY"}},
			Definitions: stripe.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				return stripe.NewToolManager(stripe.New(env.Get("STRIPE_SECRET_KEY"), opts...))
			},
		},
		{
			Name:        "twilio",
			Title:       "Twilio",
			EnvKeys:     []EnvKey{{Name: "TWILIO_ACCOUNT_SID"}, {Name: "TWILIO_AUTH_TOKEN"}},
			Definitions: twilio.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				c, err := twilio.New(env.Get("TWILIO_ACCOUNT_SID"), env.Get("TWILIO_AUTH_TOKEN"), opts...)
				if err != nil {
					return nil, err
				}
				return twilio.NewToolManager(c)
			},
		},
		{
			Name:        "supabase",
			Title:       "Supabase",
			EnvKeys:     []EnvKey{{Name: "SUPABASE_URL"}, {Name: "SUPABASE_ANON_KEY"}},
			Definitions: supabase.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				c, err := supabase.New(env.Get("SUPABASE_URL"), env.Get("SUPABASE_ANON_KEY"), opts...)
				if err != nil {
					return nil, err
				}
				return supabase.NewToolManager(c)
			},
		},
		{
			Name:  "paypal",
			Title: "PayPal",
			EnvKeys: []EnvKey{
				{Name: "PAYPAL_CLIENT_ID"},
				{Name: "PAYPAL_CLIENT_SECRET"},
				{Name: "PAYPAL_ENVIRONMENT", Optional: true},
			},
			Definitions: paypal.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				c, err := paypal.New(paypal.Config{
					ClientID:     env.Get("PAYPAL_CLIENT_ID"),
					ClientSecret: env.Get("PAYPAL_CLIENT_SECRET"),
					Environment:  env.Get("PAYPAL_ENVIRONMENT"),
				}, opts...)
				if err != nil {
					return nil, err
				}
				return paypal.NewToolManager(c)
			},
		},
		{
			Name:        "resend",
			Title:       "Resend",
			EnvKeys:     []EnvKey{{Name: "RESEND_API_KEY"}},
			Definitions: resend.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				return resend.NewToolManager(resend.New(env.Get("RESEND_API_KEY"), opts...))
			},
		},
		{
			Name:        "vercel",
			Title:       "Vercel",
			EnvKeys:     []EnvKey{{Name: "VERCEL_TOKEN", Alternates: []string{"VERCEL_API_TOKEN"}}},
			Definitions: vercel.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				return vercel.NewToolManager(vercel.New(env.Get("VERCEL_TOKEN"), opts...))
			},
		},
		{
			Name:        "jira",
			Title:       "Jira",
			EnvKeys:     []EnvKey{{Name: "JIRA_BASE_URL"}, {Name: "JIRA_EMAIL"}, {Name: "JIRA_API_TOKEN"}},
			Definitions: jira.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				c, err := jira.New(env.Get("JIRA_BASE_URL"), env.Get("JIRA_EMAIL"), env.Get("JIRA_API_TOKEN"), opts...)
				if err != nil {
					return nil, err
				}
				return jira.NewToolManager(c)
			},
		},
		{
			Name:        "mux",
			Title:       "Mux",
			EnvKeys:     []EnvKey{{Name: "MUX_TOKEN_ID"}, {Name: "MUX_TOKEN_SECRET"}},
			Definitions: mux.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				c, err := mux.New(env.Get("MUX_TOKEN_ID"), env.Get("MUX_TOKEN_SECRET"), opts...)
				if err != nil {
					return nil, err
				}
				return mux.NewToolManager(c)
			},
		},
		{
			Name:        "firecrawl",
			Title:       "Firecrawl",
			EnvKeys:     []EnvKey{{Name: "FIRECRAWL_API_KEY"}},
			Definitions: firecrawl.Definitions,
			New: func(env Env, opts ...restclient.Option) (*toolkit.Manager, error) {
				return firecrawl.NewToolManager(firecrawl.New(env.Get("FIRECRAWL_API_KEY"), opts...))
			},
		},
	}
}

// Find returns the catalog entry with the given name.
func Find(catalog []Descriptor, name string) (Descriptor, bool) {
	for _, d := range catalog {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
