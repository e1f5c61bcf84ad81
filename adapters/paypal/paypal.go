// adapters/paypal/paypal.go

// Package paypal creates, reads, and captures PayPal checkout orders. Access
// tokens come from the OAuth2 client-credentials flow and are refreshed by the
// token source as they expire.
package paypal

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"
)

const (
	ToolCreateOrder  = "createOrder"
	ToolGetOrder     = "getOrder"
	ToolCaptureOrder = "captureOrder"
)

var Definitions = []toolkit.Definition{
	{
		Name:        ToolCreateOrder,
		Description: "Create a checkout order for a single amount and return the buyer approval link.",
		Parameters: toolkit.Object(map[string]any{
			"amount":      toolkit.Prop("string", "Decimal amount, e.g. \"19.99\"", toolkit.MinLength(1)),
			"currency":    toolkit.Prop("string", "Three-letter ISO currency code", toolkit.Default("USD")),
			"intent":      toolkit.Prop("string", "Capture now or authorize for later", toolkit.Enum("CAPTURE", "AUTHORIZE"), toolkit.Default("CAPTURE")),
			"description": toolkit.Prop("string", "Purchase description"),
			"referenceId": toolkit.Prop("string", "Your reference for the purchase unit"),
		}, "amount"),
	},
	{
		Name:        ToolGetOrder,
		Description: "Show order details.",
		Parameters: toolkit.Object(map[string]any{
			"orderId": toolkit.Prop("string", "Order id", toolkit.MinLength(1)),
		}, "orderId"),
	},
	{
		Name:        ToolCaptureOrder,
		Description: "Capture payment for an approved order.",
		Parameters: toolkit.Object(map[string]any{
			"orderId": toolkit.Prop("string", "Order id", toolkit.MinLength(1)),
		}, "orderId"),
	},
}

type CreateOrderParams struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Intent      string `json:"intent"`
	Description string `json:"description,omitempty"`
	ReferenceID string `json:"referenceId,omitempty"`
}

type OrderParams struct {
	OrderID string `json:"orderId"`
}

type Order struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	Intent     *string `json:"intent,omitempty"`
	Amount     *string `json:"amount,omitempty"`
	Currency   *string `json:"currency,omitempty"`
	ApproveURL *string `json:"approveUrl,omitempty"`
	PayerEmail *string `json:"payerEmail,omitempty"`
	CreateTime *string `json:"createTime,omitempty"`
}

type apiAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type apiOrder struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Intent        *string `json:"intent"`
	CreateTime    *string `json:"create_time"`
	PurchaseUnits []struct {
		Amount *apiAmount `json:"amount"`
	} `json:"purchase_units"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	Payer *struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

func (o apiOrder) toOrder() Order {
	out := Order{ID: o.ID, Status: o.Status, Intent: o.Intent, CreateTime: o.CreateTime}
	if len(o.PurchaseUnits) > 0 && o.PurchaseUnits[0].Amount != nil {
		amt := o.PurchaseUnits[0].Amount
		out.Amount = &amt.Value
		out.Currency = &amt.CurrencyCode
	}
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			href := l.Href
			out.ApproveURL = &href
			break
		}
	}
	if o.Payer != nil && o.Payer.EmailAddress != "" {
		out.PayerEmail = &o.Payer.EmailAddress
	}
	return out
}

// Config holds the app credentials. Environment is "sandbox" (default) or
// "live"; BaseURL, when set, wins over Environment.
type Config struct {
	ClientID     string
	ClientSecret string
	Environment  string
	BaseURL      string
}

func (c Config) baseURL() (string, error) {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/"), nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "sandbox":
		return SandboxBaseURL, nil
	case "live", "production":
		return LiveBaseURL, nil
	default:
		return "", errors.Errorf("paypal: unknown environment %q (want sandbox or live)", c.Environment)
	}
}

type Client struct {
	rest *restclient.Client
}

// New returns a Client whose http.Client injects a client-credentials token.
// No token is requested until the first call.
func New(cfg Config, opts ...restclient.Option) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("paypal: client id and secret are required")
	}
	base, err := cfg.baseURL()
	if err != nil {
		return nil, err
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	httpClient := cc.Client(context.Background())
	all := append([]restclient.Option{restclient.WithHTTPClient(httpClient)}, opts...)
	return &Client{rest: restclient.New(base, all...)}, nil
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolCreateOrder:  toolkit.Bind(c.CreateOrder),
		ToolGetOrder:     toolkit.Bind(c.GetOrder),
		ToolCaptureOrder: toolkit.Bind(c.CaptureOrder),
	}
}

func (c *Client) CreateOrder(ctx context.Context, p CreateOrderParams) (*Order, error) {
	unit := map[string]any{
		"amount": apiAmount{CurrencyCode: strings.ToUpper(p.Currency), Value: p.Amount},
	}
	if p.Description != "" {
		unit["description"] = p.Description
	}
	if p.ReferenceID != "" {
		unit["reference_id"] = p.ReferenceID
	}
	body := map[string]any{"intent": p.Intent, "purchase_units": []any{unit}}

	var resp apiOrder
	if err := c.rest.PostJSON(ctx, "/v2/checkout/orders", body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}
	order := resp.toOrder()
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, p OrderParams) (*Order, error) {
	var resp apiOrder
	if err := c.rest.Get(ctx, "/v2/checkout/orders/"+url.PathEscape(p.OrderID), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get order")
	}
	order := resp.toOrder()
	return &order, nil
}

func (c *Client) CaptureOrder(ctx context.Context, p OrderParams) (*Order, error) {
	var resp apiOrder
	if err := c.rest.PostJSON(ctx, "/v2/checkout/orders/"+url.PathEscape(p.OrderID)+"/capture", map[string]any{}, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to capture order")
	}
	order := resp.toOrder()
	return &order, nil
}
