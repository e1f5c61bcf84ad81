// adapters/twilio/twilio.go

// Package twilio sends and reads SMS messages through the Twilio REST API.
package twilio

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mwiater/toolbelt/pkg/restclient"
	"github.com/mwiater/toolbelt/pkg/toolkit"
)

const DefaultBaseURL = "https://api.twilio.com/2010-04-01"

const (
	ToolSendSms      = "sendSms"
	ToolListMessages = "listMessages"
	ToolGetMessage   = "getMessage"
)

var Definitions = []toolkit.Definition{
	{
		Name:        ToolSendSms,
		Description: "Send an SMS from a Twilio number.",
		Parameters: toolkit.Object(map[string]any{
			"to":   toolkit.Prop("string", "Destination number in E.164 format", toolkit.MinLength(1)),
			"from": toolkit.Prop("string", "Twilio number in E.164 format", toolkit.MinLength(1)),
			"body": toolkit.Prop("string", "Message text", toolkit.MinLength(1)),
		}, "to", "from", "body"),
	},
	{
		Name:        ToolListMessages,
		Description: "List recent messages on the account, optionally filtered by sender or recipient.",
		Parameters: toolkit.Object(map[string]any{
			"to":       toolkit.Prop("string", "Only messages sent to this number"),
			"from":     toolkit.Prop("string", "Only messages sent from this number"),
			"pageSize": toolkit.Prop("integer", "Number of messages", toolkit.Default(20), toolkit.Minimum(1), toolkit.Maximum(1000)),
		}),
	},
	{
		Name:        ToolGetMessage,
		Description: "Fetch a message by SID.",
		Parameters: toolkit.Object(map[string]any{
			"messageSid": toolkit.Prop("string", "Message SID (SM...)", toolkit.MinLength(1)),
		}, "messageSid"),
	},
}

type SendSmsParams struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

type ListMessagesParams struct {
	To       string `json:"to,omitempty"`
	From     string `json:"from,omitempty"`
	PageSize int    `json:"pageSize"`
}

type GetMessageParams struct {
	MessageSID string `json:"messageSid"`
}

type Message struct {
	SID          string  `json:"sid"`
	To           string  `json:"to"`
	From         string  `json:"from"`
	Body         string  `json:"body"`
	Status       string  `json:"status"`
	Direction    string  `json:"direction"`
	Price        *string `json:"price,omitempty"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
	DateCreated  string  `json:"dateCreated"`
	DateSent     *string `json:"dateSent,omitempty"`
}

type apiMessage struct {
	SID          string  `json:"sid"`
	To           string  `json:"to"`
	From         string  `json:"from"`
	Body         string  `json:"body"`
	Status       string  `json:"status"`
	Direction    string  `json:"direction"`
	Price        *string `json:"price"`
	ErrorMessage *string `json:"error_message"`
	DateCreated  string  `json:"date_created"`
	DateSent     *string `json:"date_sent"`
}

func (m apiMessage) toMessage() Message {
	return Message{
		SID:          m.SID,
		To:           m.To,
		From:         m.From,
		Body:         m.Body,
		Status:       m.Status,
		Direction:    m.Direction,
		Price:        m.Price,
		ErrorMessage: m.ErrorMessage,
		DateCreated:  m.DateCreated,
		DateSent:     m.DateSent,
	}
}

// Client is scoped to one account SID.
type Client struct {
	accountSID string
	rest       *restclient.Client
}

func New(accountSID, authToken string, opts ...restclient.Option) (*Client, error) {
	if accountSID == "" || authToken == "" {
		return nil, errors.New("twilio: account SID and auth token are required")
	}
	base := []restclient.Option{restclient.WithAuth(restclient.BasicAuth{Username: accountSID, Password: authToken})}
	return &Client{
		accountSID: accountSID,
		rest:       restclient.New(DefaultBaseURL, append(base, opts...)...),
	}, nil
}

func NewToolManager(h toolkit.Handler) (*toolkit.Manager, error) {
	return toolkit.NewManagerFromDefinitions(Definitions, h)
}

func (c *Client) Funcs() map[string]toolkit.Func {
	return map[string]toolkit.Func{
		ToolSendSms:      toolkit.Bind(c.SendSms),
		ToolListMessages: toolkit.Bind(c.ListMessages),
		ToolGetMessage:   toolkit.Bind(c.GetMessage),
	}
}

func (c *Client) messagesPath() string {
	return "/Accounts/" + url.PathEscape(c.accountSID) + "/Messages"
}

func (c *Client) SendSms(ctx context.Context, p SendSmsParams) (*Message, error) {
	form := url.Values{"To": {p.To}, "From": {p.From}, "Body": {p.Body}}
	var resp apiMessage
	if err := c.rest.PostForm(ctx, c.messagesPath()+".json", form, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to send SMS")
	}
	msg := resp.toMessage()
	return &msg, nil
}

func (c *Client) ListMessages(ctx context.Context, p ListMessagesParams) ([]Message, error) {
	q := url.Values{"PageSize": {strconv.Itoa(p.PageSize)}}
	if p.To != "" {
		q.Set("To", p.To)
	}
	if p.From != "" {
		q.Set("From", p.From)
	}
	var resp struct {
		Messages []apiMessage `json:"messages"`
	}
	if err := c.rest.Get(ctx, c.messagesPath()+".json", q, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}
	out := make([]Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		out = append(out, m.toMessage())
	}
	return out, nil
}

func (c *Client) GetMessage(ctx context.Context, p GetMessageParams) (*Message, error) {
	var resp apiMessage
	if err := c.rest.Get(ctx, c.messagesPath()+"/"+url.PathEscape(p.MessageSID)+".json", nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get message")
	}
	msg := resp.toMessage()
	return &msg, nil
}
