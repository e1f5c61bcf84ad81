package stripe

import "github.com/mwiater/toolbelt/pkg/toolkit"

const (
	ToolCreateCustomer      = "createCustomer"
	ToolGetCustomer         = "getCustomer"
	ToolListCustomers       = "listCustomers"
	ToolCreatePaymentIntent = "createPaymentIntent"
	ToolGetPaymentIntent    = "getPaymentIntent"
	ToolCreateInvoice       = "createInvoice"
	ToolGetInvoice          = "getInvoice"
)

var metadataProp = toolkit.Prop("object", "Arbitrary string key/value pairs stored on the object", toolkit.Values(toolkit.Prop("string", "")))

var Definitions = []toolkit.Definition{
	{
		Name:        ToolCreateCustomer,
		Description: "Create a Stripe customer.",
		Parameters: toolkit.Object(map[string]any{
			"email":       toolkit.Prop("string", "Customer email address"),
			"name":        toolkit.Prop("string", "Full name or business name"),
			"phone":       toolkit.Prop("string", "Phone number"),
			"description": toolkit.Prop("string", "Internal description"),
			"metadata":    metadataProp,
		}),
	},
	{
		Name:        ToolGetCustomer,
		Description: "Retrieve a customer by id.",
		Parameters: toolkit.Object(map[string]any{
			"customerId": toolkit.Prop("string", "Customer id (cus_...)", toolkit.MinLength(1)),
		}, "customerId"),
	},
	{
		Name:        ToolListCustomers,
		Description: "List customers, newest first, optionally filtered by email.",
		Parameters: toolkit.Object(map[string]any{
			"email":         toolkit.Prop("string", "Exact email to match"),
			"limit":         toolkit.Prop("integer", "Maximum number of customers", toolkit.Default(10), toolkit.Minimum(1), toolkit.Maximum(100)),
			"startingAfter": toolkit.Prop("string", "Cursor: customer id to start after"),
		}),
	},
	{
		Name:        ToolCreatePaymentIntent,
		Description: "Create a payment intent for an amount in the currency's smallest unit.",
		Parameters: toolkit.Object(map[string]any{
			"amount":             toolkit.Prop("integer", "Amount in minor units, e.g. cents", toolkit.Minimum(1)),
			"currency":           toolkit.Prop("string", "Three-letter ISO currency code", toolkit.Default("usd")),
			"customerId":         toolkit.Prop("string", "Customer to attach the payment to"),
			"description":        toolkit.Prop("string", "Description shown to the customer"),
			"receiptEmail":       toolkit.Prop("string", "Email address to send the receipt to"),
			"paymentMethodTypes": toolkit.Prop("array", "Allowed payment method types", toolkit.Items(toolkit.Prop("string", ""))),
			"metadata":           metadataProp,
		}, "amount"),
	},
	{
		Name:        ToolGetPaymentIntent,
		Description: "Retrieve a payment intent by id.",
		Parameters: toolkit.Object(map[string]any{
			"paymentIntentId": toolkit.Prop("string", "Payment intent id (pi_...)", toolkit.MinLength(1)),
		}, "paymentIntentId"),
	},
	{
		Name:        ToolCreateInvoice,
		Description: "Create a draft invoice for a customer.",
		Parameters: toolkit.Object(map[string]any{
			"customerId":       toolkit.Prop("string", "Customer to invoice", toolkit.MinLength(1)),
			"description":      toolkit.Prop("string", "Memo shown on the invoice"),
			"collectionMethod": toolkit.Prop("string", "How to collect payment", toolkit.Enum("charge_automatically", "send_invoice"), toolkit.Default("charge_automatically")),
			"daysUntilDue":     toolkit.Prop("integer", "Days until due; only for send_invoice", toolkit.Minimum(1)),
			"autoAdvance":      toolkit.Prop("boolean", "Let Stripe finalize the draft automatically", toolkit.Default(false)),
			"metadata":         metadataProp,
		}, "customerId"),
	},
	{
		Name:        ToolGetInvoice,
		Description: "Retrieve an invoice by id.",
		Parameters: toolkit.Object(map[string]any{
			"invoiceId": toolkit.Prop("string", "Invoice id (in_...)", toolkit.MinLength(1)),
		}, "invoiceId"),
	},
}
