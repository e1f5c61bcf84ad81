package stripe

type CreateCustomerParams struct {
	Email       string            `json:"email,omitempty"`
	Name        string            `json:"name,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type GetCustomerParams struct {
	CustomerID string `json:"customerId"`
}

type ListCustomersParams struct {
	Email         string `json:"email,omitempty"`
	Limit         int    `json:"limit"`
	StartingAfter string `json:"startingAfter,omitempty"`
}

type CreatePaymentIntentParams struct {
	Amount             int64             `json:"amount"`
	Currency           string            `json:"currency"`
	CustomerID         string            `json:"customerId,omitempty"`
	Description        string            `json:"description,omitempty"`
	ReceiptEmail       string            `json:"receiptEmail,omitempty"`
	PaymentMethodTypes []string          `json:"paymentMethodTypes,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

type GetPaymentIntentParams struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

type CreateInvoiceParams struct {
	CustomerID       string            `json:"customerId"`
	Description      string            `json:"description,omitempty"`
	CollectionMethod string            `json:"collectionMethod"`
	DaysUntilDue     int               `json:"daysUntilDue,omitempty"`
	AutoAdvance      bool              `json:"autoAdvance"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type GetInvoiceParams struct {
	InvoiceID string `json:"invoiceId"`
}

type Customer struct {
	ID          string            `json:"id"`
	Email       *string           `json:"email,omitempty"`
	Name        *string           `json:"name,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	Description *string           `json:"description,omitempty"`
	Created     int64             `json:"created"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type CustomerList struct {
	Customers []Customer `json:"customers"`
	HasMore   bool       `json:"hasMore"`
}

type PaymentIntent struct {
	ID           string  `json:"id"`
	Amount       int64   `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
	CustomerID   *string `json:"customerId,omitempty"`
	ClientSecret string  `json:"clientSecret"`
	Description  *string `json:"description,omitempty"`
	Created      int64   `json:"created"`
}

type Invoice struct {
	ID               string  `json:"id"`
	Number           *string `json:"number,omitempty"`
	CustomerID       string  `json:"customerId"`
	Status           string  `json:"status"`
	Currency         string  `json:"currency"`
	AmountDue        int64   `json:"amountDue"`
	AmountPaid       int64   `json:"amountPaid"`
	HostedInvoiceURL *string `json:"hostedInvoiceUrl,omitempty"`
	Created          int64   `json:"created"`
}

type apiCustomer struct {
	ID          string            `json:"id"`
	Email       *string           `json:"email"`
	Name        *string           `json:"name"`
	Phone       *string           `json:"phone"`
	Description *string           `json:"description"`
	Created     int64             `json:"created"`
	Metadata    map[string]string `json:"metadata"`
}

type apiCustomerList struct {
	Data    []apiCustomer `json:"data"`
	HasMore bool          `json:"has_more"`
}

type apiPaymentIntent struct {
	ID           string  `json:"id"`
	Amount       int64   `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
	Customer     *string `json:"customer"`
	ClientSecret string  `json:"client_secret"`
	Description  *string `json:"description"`
	Created      int64   `json:"created"`
}

type apiInvoice struct {
	ID               string  `json:"id"`
	Number           *string `json:"number"`
	Customer         string  `json:"customer"`
	Status           string  `json:"status"`
	Currency         string  `json:"currency"`
	AmountDue        int64   `json:"amount_due"`
	AmountPaid       int64   `json:"amount_paid"`
	HostedInvoiceURL *string `json:"hosted_invoice_url"`
	Created          int64   `json:"created"`
}

func toCustomer(in apiCustomer) Customer {
	return Customer{
		ID:          in.ID,
		Email:       in.Email,
		Name:        in.Name,
		Phone:       in.Phone,
		Description: in.Description,
		Created:     in.Created,
		Metadata:    in.Metadata,
	}
}

func toPaymentIntent(in apiPaymentIntent) PaymentIntent {
	return PaymentIntent{
		ID:           in.ID,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Status:       in.Status,
		CustomerID:   in.Customer,
		ClientSecret: in.ClientSecret,
		Description:  in.Description,
		Created:      in.Created,
	}
}

func toInvoice(in apiInvoice) Invoice {
	return Invoice{
		ID:               in.ID,
		Number:           in.Number,
		CustomerID:       in.Customer,
		Status:           in.Status,
		Currency:         in.Currency,
		AmountDue:        in.AmountDue,
		AmountPaid:       in.AmountPaid,
		HostedInvoiceURL: in.HostedInvoiceURL,
		Created:          in.Created,
	}
}
