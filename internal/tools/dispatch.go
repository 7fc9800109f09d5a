// Package tools maps a reasoning decision's named tool and raw arguments to a
// concrete domain operation. Arguments are decoded and normalized exactly
// once at this boundary into a closed set of request variants; unknown tool
// tags fail fast.
package tools

import (
	"context"
	"time"

	"rentalvoice_backend/internal/events"
	"rentalvoice_backend/internal/normalize"
	"rentalvoice_backend/internal/orders"
	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/platform/apperr"
	"rentalvoice_backend/platform/phone"
)

// Tool names accepted from the reasoning oracle.
const (
	ToolCheckAvailability = "check_availability"
	ToolQuote             = "quote"
	ToolCreateLead        = "create_lead"
	ToolBook              = "book"
)

// Request is the closed union of decoded tool invocations.
type Request interface {
	isToolRequest()
}

// AvailabilityRequest checks inventory for a date.
type AvailabilityRequest struct {
	Date  string
	Items []pricing.RequestedItem
}

// QuoteRequest prices a request for a date and postal code.
type QuoteRequest struct {
	Date  string
	Zip   string
	Items []pricing.RequestedItem
}

// LeadRequest captures caller contact details.
type LeadRequest struct {
	Name    string
	Phone   string
	Email   string
	QuoteID string
}

// BookRequest confirms a booking against a quote.
type BookRequest struct {
	QuoteID      string
	PaymentToken string
}

func (AvailabilityRequest) isToolRequest() {}
func (QuoteRequest) isToolRequest()        {}
func (LeadRequest) isToolRequest()         {}
func (BookRequest) isToolRequest()         {}

// AvailabilityResult is the check_availability response shape.
type AvailabilityResult struct {
	Available     bool               `json:"available"`
	Shortages     []pricing.Shortage `json:"shortages"`
	Substitutions []any              `json:"substitutions"`
}

// LeadResult is the create_lead response shape.
type LeadResult struct {
	LeadID string `json:"lead_id"`
}

// BookResult is the book response shape.
type BookResult struct {
	OrderID          string `json:"order_id"`
	PaymentTokenUsed string `json:"payment_token_used"`
}

// Dispatcher decodes and executes tool requests against a tenant's engine
// and the shared lead/order repository.
type Dispatcher struct {
	repo *orders.Repository
	bus  events.Bus
	loc  *time.Location
	now  func() time.Time
}

// NewDispatcher wires the dispatcher. loc is the reference time zone for
// relative date normalization.
func NewDispatcher(repo *orders.Repository, bus events.Bus, loc *time.Location) *Dispatcher {
	return &Dispatcher{repo: repo, bus: bus, loc: loc, now: time.Now}
}

// WithNow overrides the clock; used by tests for relative date resolution.
func (d *Dispatcher) WithNow(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

func stringArg(args map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := args[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Decode validates and normalizes raw oracle arguments into a Request.
// callerNumber backs the lead phone default when the oracle omitted one.
func (d *Dispatcher) Decode(eng *pricing.Engine, tool string, args map[string]any, callerNumber string) (Request, error) {
	if args == nil {
		args = map[string]any{}
	}

	switch tool {
	case ToolCheckAvailability:
		date := normalize.Date(stringArg(args, "date", "delivery_date"), d.now, d.loc)
		if date == "" {
			return nil, apperr.Validation("check_availability requires 'date'")
		}
		items, err := eng.ResolveItems(pricing.ParseItemRefs(args))
		if err != nil {
			return nil, err
		}
		return AvailabilityRequest{Date: date, Items: items}, nil

	case ToolQuote:
		date := normalize.Date(stringArg(args, "date", "delivery_date"), d.now, d.loc)
		if date == "" {
			return nil, apperr.Validation("quote requires 'date'")
		}
		zip := normalize.Zip(args)
		if zip == "" {
			return nil, apperr.Validation("quote requires a ZIP")
		}
		items, err := eng.ResolveItems(pricing.ParseItemRefs(args))
		if err != nil {
			return nil, err
		}
		return QuoteRequest{Date: date, Zip: zip, Items: items}, nil

	case ToolCreateLead:
		name := stringArg(args, "name")
		if name == "" {
			name = "Caller"
		}
		rawPhone := stringArg(args, "phone", "caller")
		if rawPhone == "" {
			rawPhone = callerNumber
		}
		return LeadRequest{
			Name:    name,
			Phone:   phone.NormalizeE164(rawPhone),
			Email:   stringArg(args, "email"),
			QuoteID: stringArg(args, "quote_id"),
		}, nil

	case ToolBook:
		token := stringArg(args, "payment_token")
		if token == "" {
			token = "demo"
		}
		return BookRequest{QuoteID: stringArg(args, "quote_id"), PaymentToken: token}, nil
	}

	return nil, apperr.Newf(apperr.KindValidation, "unknown tool %q", tool)
}

// Execute runs a decoded request and returns its result payload.
func (d *Dispatcher) Execute(ctx context.Context, eng *pricing.Engine, tenant string, req Request) (any, error) {
	switch r := req.(type) {
	case AvailabilityRequest:
		shortages, err := eng.CheckAvailability(r.Date, r.Items)
		if err != nil {
			return nil, err
		}
		return AvailabilityResult{
			Available:     len(shortages) == 0,
			Shortages:     shortages,
			Substitutions: []any{},
		}, nil

	case QuoteRequest:
		shortages, err := eng.CheckAvailability(r.Date, r.Items)
		if err != nil {
			return nil, err
		}
		priced, err := eng.Price(r.Date, r.Zip, r.Items)
		if err != nil {
			return nil, err
		}
		if len(shortages) > 0 {
			priced.Note = "Some items are short; consider substitutions."
		}
		return priced, nil

	case LeadRequest:
		lead := d.repo.CreateLead(r.Name, r.Phone, r.Email, r.QuoteID)
		if d.bus != nil {
			d.bus.Publish(ctx, events.LeadCreated{
				BaseEvent: events.NewBaseEvent(),
				Tenant:    tenant,
				LeadID:    lead.LeadID,
				Name:      lead.Name,
				Phone:     lead.Phone,
				Email:     lead.Email,
				QuoteID:   lead.QuoteID,
			})
		}
		return LeadResult{LeadID: lead.LeadID.String()}, nil

	case BookRequest:
		order := d.repo.CreateOrder(r.QuoteID)
		if d.bus != nil {
			d.bus.Publish(ctx, events.OrderBooked{
				BaseEvent: events.NewBaseEvent(),
				Tenant:    tenant,
				OrderID:   order.OrderID,
				QuoteID:   order.QuoteID,
			})
		}
		return BookResult{OrderID: order.OrderID.String(), PaymentTokenUsed: r.PaymentToken}, nil
	}

	return nil, apperr.Internal("unhandled tool request variant")
}

// Run decodes and executes in one step.
func (d *Dispatcher) Run(ctx context.Context, eng *pricing.Engine, tenant, tool string, args map[string]any, callerNumber string) (any, error) {
	req, err := d.Decode(eng, tool, args, callerNumber)
	if err != nil {
		return nil, err
	}
	return d.Execute(ctx, eng, tenant, req)
}

// FollowUpQuote re-runs the arguments of a successful availability check as a
// quote. Callers treat a failure here as non-fatal: the error is logged and
// the follow-up is simply omitted from the response.
func (d *Dispatcher) FollowUpQuote(ctx context.Context, eng *pricing.Engine, tenant string, args map[string]any, callerNumber string) (*pricing.PricedQuote, error) {
	result, err := d.Run(ctx, eng, tenant, ToolQuote, args, callerNumber)
	if err != nil {
		return nil, err
	}
	priced, ok := result.(*pricing.PricedQuote)
	if !ok {
		return nil, apperr.Internal("quote produced unexpected result type")
	}
	return priced, nil
}
