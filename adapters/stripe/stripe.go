// adapters/stripe/stripe.go

// Package stripe wraps the Stripe REST API. Requests are form encoded, which is
// what Stripe expects; responses are JSON.
package stripe

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const DefaultBaseURL = "https://api.stripe.com/v1"

type Client struct {
	rest *restclient.Client
}

// New returns a Client using secretKey (sk_live_... or sk_test_...).
func New(secretKey string, opts ...restclient.Option) *Client {
	base := []restclient.Option{restclient.WithAuth(restclient.BearerToken(secretKey))}
	return &Client{rest: restclient.New(DefaultBaseURL, append(base, opts...)...)}
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolCreateCustomer:      toolkit.Bind(c.CreateCustomer),
		ToolGetCustomer:         toolkit.Bind(c.GetCustomer),
		ToolListCustomers:       toolkit.Bind(c.ListCustomers),
		ToolCreatePaymentIntent: toolkit.Bind(c.CreatePaymentIntent),
		ToolGetPaymentIntent:    toolkit.Bind(c.GetPaymentIntent),
		ToolCreateInvoice:       toolkit.Bind(c.CreateInvoice),
		ToolGetInvoice:          toolkit.Bind(c.GetInvoice),
	}
}

func (c *Client) CreateCustomer(ctx context.Context, p CreateCustomerParams) (*Customer, error) {
	form := url.Values{}
	setIf(form, "email", p.Email)
	setIf(form, "name", p.Name)
	setIf(form, "phone", p.Phone)
	setIf(form, "description", p.Description)
	setMetadata(form, p.Metadata)

	var resp apiCustomer
	if err := c.rest.PostForm(ctx, "/customers", form, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to create customer")
	}
	cust := toCustomer(resp)
	return &cust, nil
}

func (c *Client) GetCustomer(ctx context.Context, p GetCustomerParams) (*Customer, error) {
	var resp apiCustomer
	if err := c.rest.Get(ctx, "/customers/"+url.PathEscape(p.CustomerID), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get customer")
	}
	cust := toCustomer(resp)
	return &cust, nil
}

func (c *Client) ListCustomers(ctx context.Context, p ListCustomersParams) (*CustomerList, error) {
	q := url.Values{"limit": {strconv.Itoa(p.Limit)}}
	setIf(q, "email", p.Email)
	setIf(q, "starting_after", p.StartingAfter)

	var resp apiCustomerList
	if err := c.rest.Get(ctx, "/customers", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}
	out := &CustomerList{Customers: make([]Customer, 0, len(resp.Data)), HasMore: resp.HasMore}
	for _, cust := range resp.Data {
		out.Customers = append(out.Customers, toCustomer(cust))
	}
	return out, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, p CreatePaymentIntentParams) (*PaymentIntent, error) {
	form := url.Values{
		"amount":   {strconv.FormatInt(p.Amount, 10)},
		"currency": {p.Currency},
	}
	setIf(form, "customer", p.CustomerID)
	setIf(form, "description", p.Description)
	setIf(form, "receipt_email", p.ReceiptEmail)
	for _, t := range p.PaymentMethodTypes {
		form.Add("payment_method_types[]", t)
	}
	setMetadata(form, p.Metadata)

	var resp apiPaymentIntent
	if err := c.rest.PostForm(ctx, "/payment_intents", form, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to create payment intent")
	}
	pi := toPaymentIntent(resp)
	return &pi, nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, p GetPaymentIntentParams) (*PaymentIntent, error) {
	var resp apiPaymentIntent
	if err := c.rest.Get(ctx, "/payment_intents/"+url.PathEscape(p.PaymentIntentID), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get payment intent")
	}
	pi := toPaymentIntent(resp)
	return &pi, nil
}

func (c *Client) CreateInvoice(ctx context.Context, p CreateInvoiceParams) (*Invoice, error) {
	form := url.Values{
		"customer":          {p.CustomerID},
		"collection_method": {p.CollectionMethod},
		"auto_advance":      {strconv.FormatBool(p.AutoAdvance)},
	}
	setIf(form, "description", p.Description)
	if p.DaysUntilDue > 0 {
		form.Set("days_until_due", strconv.Itoa(p.DaysUntilDue))
	}
	setMetadata(form, p.Metadata)

	var resp apiInvoice
	if err := c.rest.PostForm(ctx, "/invoices", form, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to create invoice")
	}
	inv := toInvoice(resp)
	return &inv, nil
}

func (c *Client) GetInvoice(ctx context.Context, p GetInvoiceParams) (*Invoice, error) {
	var resp apiInvoice
	if err := c.rest.Get(ctx, "/invoices/"+url.PathEscape(p.InvoiceID), nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get invoice")
	}
	inv := toInvoice(resp)
	return &inv, nil
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setMetadata(v url.Values, md map[string]string) {
	for k, val := range md {
		v.Set("metadata["+k+"]", val)
	}
}
