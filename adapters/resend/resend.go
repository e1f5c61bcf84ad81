// adapters/resend/resend.go

// Package resend sends transactional email through Resend.
package resend

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const DefaultBaseURL = "https://api.resend.com"

const (
	ToolSendEmail   = "sendEmail"
	ToolGetEmail    = "getEmail"
	ToolListDomains = "listDomains"
)

var stringList = toolkit.Items(toolkit.Prop("string", ""))

var Definitions = []toolkit.Definition{
	{
		Name:        ToolSendEmail,
		Description: "Send an email. At least one of html or text should be set.",
		Parameters: toolkit.Object(map[string]any{
			"from":    toolkit.Prop("string", "Sender, e.g. \"Acme <onboarding@acme.dev>\"", toolkit.MinLength(1)),
			"to":      toolkit.Prop("array", "Recipient addresses", stringList),
			"subject": toolkit.Prop("string", "Subject line", toolkit.MinLength(1)),
			"html":    toolkit.Prop("string", "HTML body"),
			"text":    toolkit.Prop("string", "Plain-text body"),
			"cc":      toolkit.Prop("array", "Cc addresses", stringList),
			"bcc":     toolkit.Prop("array", "Bcc addresses", stringList),
			"replyTo": toolkit.Prop("string", "Reply-To address"),
		}, "from", "to", "subject"),
	},
	{
		Name:        ToolGetEmail,
		Description: "Retrieve a sent email and its delivery status.",
		Parameters: toolkit.Object(map[string]any{
			"emailId": toolkit.Prop("string", "Email id returned by sendEmail", toolkit.MinLength(1)),
		}, "emailId"),
	},
	{
		Name:        ToolListDomains,
		Description: "List sending domains and their verification status.",
		Parameters:  toolkit.Object(map[string]any{}),
	},
}

type SendEmailParams struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	Cc      []string `json:"cc,omitempty"`
	Bcc     []string `json:"bcc,omitempty"`
	ReplyTo string   `json:"replyTo,omitempty"`
}

type GetEmailParams struct {
	EmailID string `json:"emailId"`
}

type ListDomainsParams struct{}

type SentEmail struct {
	ID string `json:"id"`
}

type Email struct {
	ID        string   `json:"id"`
	From      string   `json:"from"`
	To        []string `json:"to"`
	Subject   string   `json:"subject"`
	LastEvent *string  `json:"lastEvent,omitempty"`
	CreatedAt string   `json:"createdAt"`
}

type Domain struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Region    string `json:"region"`
	CreatedAt string `json:"createdAt"`
}

type apiEmail struct {
	ID        string   `json:"id"`
	From      string   `json:"from"`
	To        []string `json:"to"`
	Subject   string   `json:"subject"`
	LastEvent *string  `json:"last_event"`
	CreatedAt string   `json:"created_at"`
}

type apiDomain struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Region    string `json:"region"`
	CreatedAt string `json:"created_at"`
}

type Client struct {
	rest *restclient.Client
}

func New(apiKey string, opts ...restclient.Option) *Client {
	base := []restclient.Option{restclient.WithAuth(restclient.BearerToken(apiKey))}
	return &Client{rest: restclient.New(DefaultBaseURL, append(base, opts...)...)}
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolSendEmail:   toolkit.Bind(c.SendEmail),
		ToolGetEmail:    toolkit.Bind(c.GetEmail),
		ToolListDomains: toolkit.Bind(c.ListDomains),
	}
}

func (c *Client) SendEmail(ctx context.Context, p SendEmailParams) (*SentEmail, error) {
	if p.HTML == "" && p.Text == "" {
		return nil, errors.New("failed to send email: html or text body is required")
	}
	body := map[string]any{"from": p.From, "to": p.To, "subject": p.Subject}
	if p.HTML != "" {
		body["html"] = p.HTML
	}
	if p.Text != "" {
		body["text"] = p.Text
	}
	if len(p.Cc) > 0 {
		body["cc"] = p.Cc
	}
	if len(p.Bcc) > 0 {
		body["bcc"] = p.Bcc
	}
	if p.ReplyTo != "" {
		body["reply_to"] = p.ReplyTo
	}
	var resp SentEmail
	if err := c.rest.PostJSON(ctx, "/emails", body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to send email")
	}
	return &resp, nil
}

func (c *Client) GetEmail(ctx context.Context, p GetEmailParams) (*Email, error) {
	var resp apiEmail
	if err := c.rest.Get(ctx, "/emails/"+url.PathEscape(p.EmailID), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get email")
	}
	return &Email{
		ID:        resp.ID,
		From:      resp.From,
		To:        resp.To,
		Subject:   resp.Subject,
		LastEvent: resp.LastEvent,
		CreatedAt: resp.CreatedAt,
	}, nil
}

func (c *Client) ListDomains(ctx context.Context, _ ListDomainsParams) ([]Domain, error) {
	var resp struct {
		Data []apiDomain `json:"data"`
	}
	if err := c.rest.Get(ctx, "/domains", nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list domains")
	}
	out := make([]Domain, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, Domain(d))
	}
	return out, nil
}
