package services

import (
	"context"
	"fmt"
	"os"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// CheckoutLineItem is one fee component on a checkout session.
type CheckoutLineItem struct {
	Name        string
	Description string
	TaxCode     string
	AmountCents int64
}

// CheckoutSessionRequest carries everything needed to open a payment session.
type CheckoutSessionRequest struct {
	CustomerEmail string
	LineItems     []CheckoutLineItem
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the provider-side session a renter is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// RefundRequest asks the provider to return money against a payment reference.
type RefundRequest struct {
	PaymentReference string
	AmountCents      int64
	Metadata         map[string]string
}

// PaymentProvider is the external payment processor consumed by the checkout,
// cancellation and dispute flows.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	CreateRefund(ctx context.Context, req RefundRequest) (string, error)
}

// StripeProvider implements PaymentProvider against the Stripe API.
type StripeProvider struct {
	client *client.API
}

func NewStripeProvider() (*StripeProvider, error) {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}

	api := &client.API{}
	api.Init(key, nil)
	return &StripeProvider{client: api}, nil
}

// CreateCheckoutSession opens a payment-mode checkout session with one line
// item per fee component and automatic tax calculation delegated to Stripe.
// An existing customer is reused by email so tax and receipts stay attached.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error) {
	customerID := p.findCustomerByEmail(ctx, req.CustomerEmail)

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:    stripe.String(item.Name),
			TaxCode: stripe.String(item.TaxCode),
		}
		if item.Description != "" {
			productData.Description = stripe.String(item.Description)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount:  stripe.Int64(item.AmountCents),
				ProductData: productData,
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:         stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:    lineItems,
		AutomaticTax: &stripe.CheckoutSessionAutomaticTaxParams{Enabled: stripe.Bool(true)},
		SuccessURL:   stripe.String(req.SuccessURL),
		CancelURL:    stripe.String(req.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	} else {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	session, err := p.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// CreateRefund issues a refund against a payment reference and returns the
// provider refund id.
func (p *StripeProvider) CreateRefund(ctx context.Context, req RefundRequest) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentReference),
		Amount:        stripe.Int64(req.AmountCents),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	refund, err := p.client.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create refund: %w", err)
	}

	return refund.ID, nil
}

// findCustomerByEmail returns the existing Stripe customer id for the email,
// or "" when there is none. Lookup failures fall back to a fresh customer.
func (p *StripeProvider) findCustomerByEmail(ctx context.Context, email string) string {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := p.client.Customers.List(params)
	if iter.Next() {
		return iter.Customer().ID
	}
	return ""
}
