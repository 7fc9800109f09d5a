package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rentalvoice_backend/internal/orders"
	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/platform/apperr"
)

const testSettings = `business:
  name: Sunshine Party Rentals
  slug: sunshine_rentals
  service_area:
    - "900*"
    - "902*"
  warehouse_zip: "90012"
  min_order_subtotal: 100
  tax_rate: 0.1
pricing:
  weekend_multiplier: 1.2
  discounts:
    weekday_pct: 0.1
  setup_minutes_per_item: 3
  staff_hourly: 40
  delivery:
    base_fee: 20
    per_mile: 2
inventory:
  items:
    - id: chair_white_resin
      name: Resin Folding Chair (White)
      daily_price: 2.5
      qty: 100
  blocks:
    - date: "2026-09-01"
      id: chair_white_resin
      qty: 90
`

func newTestDispatcher(t *testing.T) (*Dispatcher, *pricing.Engine, *orders.Repository) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tenant.yaml")
	if err := os.WriteFile(path, []byte(testSettings), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	eng, err := pricing.NewEngine(path)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	repo := orders.NewRepository()
	d := NewDispatcher(repo, nil, time.UTC).WithNow(func() time.Time {
		// Monday 2026-08-31.
		return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	})
	return d, eng, repo
}

func TestDecode_AvailabilityNormalizesDateAndItems(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)

	req, err := d.Decode(eng, ToolCheckAvailability, map[string]any{
		"date": "next friday",
		"item": "white resin chairs",
		"qty":  float64(40),
	}, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	avail, ok := req.(AvailabilityRequest)
	if !ok {
		t.Fatalf("expected AvailabilityRequest, got %T", req)
	}
	if avail.Date != "2026-09-04" {
		t.Fatalf("expected normalized date 2026-09-04, got %q", avail.Date)
	}
	if len(avail.Items) != 1 || avail.Items[0].ID != "chair_white_resin" || avail.Items[0].Qty != 40 {
		t.Fatalf("unexpected items: %+v", avail.Items)
	}
}

func TestDecode_MissingDate(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)

	_, err := d.Decode(eng, ToolCheckAvailability, map[string]any{"item": "white resin chairs"}, "")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecode_QuoteMissingZip(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)

	_, err := d.Decode(eng, ToolQuote, map[string]any{
		"date": "2026-09-04",
		"item": "white resin chairs",
	}, "")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecode_LeadDefaults(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)

	req, err := d.Decode(eng, ToolCreateLead, map[string]any{}, "3105550100")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	lead, ok := req.(LeadRequest)
	if !ok {
		t.Fatalf("expected LeadRequest, got %T", req)
	}
	if lead.Name != "Caller" {
		t.Fatalf("expected default name, got %q", lead.Name)
	}
	if lead.Phone != "+13105550100" {
		t.Fatalf("expected caller number normalized, got %q", lead.Phone)
	}
}

func TestDecode_BookDefaultsPaymentToken(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)

	req, err := d.Decode(eng, ToolBook, map[string]any{"quote_id": "q-1"}, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	book, ok := req.(BookRequest)
	if !ok {
		t.Fatalf("expected BookRequest, got %T", req)
	}
	if book.PaymentToken != "demo" || book.QuoteID != "q-1" {
		t.Fatalf("unexpected request: %+v", book)
	}
}

func TestDecode_UnknownTool(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)

	_, err := d.Decode(eng, "send_fax", map[string]any{}, "")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown tool, got %v", err)
	}
}

func TestExecute_AvailabilityAndShortages(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)
	ctx := context.Background()

	out, err := d.Run(ctx, eng, "sunshine_rentals", ToolCheckAvailability, map[string]any{
		"date": "2026-09-04",
		"item": "white resin chairs",
		"qty":  float64(40),
	}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	result, ok := out.(AvailabilityResult)
	if !ok || !result.Available || len(result.Shortages) != 0 {
		t.Fatalf("expected available, got %+v", out)
	}

	// 90 of 100 chairs are blocked on 2026-09-01.
	out, err = d.Run(ctx, eng, "sunshine_rentals", ToolCheckAvailability, map[string]any{
		"date": "2026-09-01",
		"item": "white resin chairs",
		"qty":  float64(40),
	}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	result = out.(AvailabilityResult)
	if result.Available || len(result.Shortages) != 1 || result.Shortages[0].Available != 10 {
		t.Fatalf("expected shortage of chairs, got %+v", result)
	}
}

func TestExecute_QuoteCarriesShortageNote(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)

	out, err := d.Run(context.Background(), eng, "sunshine_rentals", ToolQuote, map[string]any{
		"date": "2026-09-01",
		"zip":  "90210",
		"item": "white resin chairs",
		"qty":  float64(40),
	}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	quote, ok := out.(*pricing.PricedQuote)
	if !ok {
		t.Fatalf("expected PricedQuote, got %T", out)
	}
	if quote.Note == "" {
		t.Fatal("expected a shortage note on the quote")
	}
	if quote.Subtotal != 100 {
		t.Fatalf("expected subtotal 100, got %v", quote.Subtotal)
	}
}

func TestExecute_LeadAndBookPersist(t *testing.T) {
	d, eng, repo := newTestDispatcher(t)
	ctx := context.Background()

	out, err := d.Run(ctx, eng, "sunshine_rentals", ToolCreateLead, map[string]any{
		"name":  "Maria",
		"phone": "310-555-0100",
	}, "")
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	lead := out.(LeadResult)
	if lead.LeadID == "" || repo.CountLeads() != 1 {
		t.Fatalf("expected stored lead, got %+v count=%d", lead, repo.CountLeads())
	}

	out, err = d.Run(ctx, eng, "sunshine_rentals", ToolBook, map[string]any{"quote_id": "q-1"}, "")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	book := out.(BookResult)
	if book.OrderID == "" || book.PaymentTokenUsed != "demo" || repo.CountOrders() != 1 {
		t.Fatalf("expected stored order, got %+v count=%d", book, repo.CountOrders())
	}
}

func TestFollowUpQuote(t *testing.T) {
	d, eng, _ := newTestDispatcher(t)

	quote, err := d.FollowUpQuote(context.Background(), eng, "sunshine_rentals", map[string]any{
		"date": "2026-09-04",
		"zip":  "90210",
		"item": "white resin chairs",
		"qty":  float64(40),
	}, "")
	if err != nil {
		t.Fatalf("follow-up quote: %v", err)
	}
	if quote.Total <= 0 {
		t.Fatalf("expected a priced follow-up, got %+v", quote)
	}
}
