package workflow

import (
	"testing"

	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/internal/session"
)

func boolPtr(b bool) *bool { return &b }

func newTestWorkflow() *Workflow {
	business := pricing.BusinessSettings{Name: "Sunshine Party Rentals"}
	settings := pricing.WorkflowSettings{
		Slots: []pricing.SlotDef{
			{Name: "name", Prompt: "Who am I speaking with?"},
			{Name: "event_date"},
			{Name: "phone", Required: boolPtr(false)},
		},
	}
	return New(business, settings)
}

func TestRequiredSlots_SkipsOptional(t *testing.T) {
	wf := newTestWorkflow()

	got := wf.RequiredSlots()
	if len(got) != 2 || got[0] != "name" || got[1] != "event_date" {
		t.Fatalf("unexpected required slots: %v", got)
	}
}

func TestNextUnfilled_DeclaredOrder(t *testing.T) {
	wf := newTestWorkflow()
	state := session.New("call-1", "")

	slot, ok := wf.NextUnfilled(state)
	if !ok || slot.Name != "name" {
		t.Fatalf("expected name first, got %+v ok=%v", slot, ok)
	}

	state.SetSlot("name", "Maria")
	slot, ok = wf.NextUnfilled(state)
	if !ok || slot.Name != "event_date" {
		t.Fatalf("expected event_date next, got %+v ok=%v", slot, ok)
	}

	// The optional phone slot never blocks completion.
	state.SetSlot("event_date", "2026-09-04")
	if _, ok := wf.NextUnfilled(state); ok {
		t.Fatal("expected all required slots filled")
	}
}

func TestPrompt_FallsBackToGeneric(t *testing.T) {
	wf := newTestWorkflow()

	if got := wf.Prompt(pricing.SlotDef{Name: "name", Prompt: "Who am I speaking with?"}); got != "Who am I speaking with?" {
		t.Fatalf("unexpected prompt: %q", got)
	}
	if got := wf.Prompt(pricing.SlotDef{Name: "event_date"}); got != "Could you tell me your event_date?" {
		t.Fatalf("unexpected fallback prompt: %q", got)
	}
}

func TestGreeting_DefaultUsesBusinessName(t *testing.T) {
	wf := newTestWorkflow()
	if got := wf.Greeting(); got != "Thanks for calling Sunshine Party Rentals! How can I help you today?" {
		t.Fatalf("unexpected greeting: %q", got)
	}

	custom := New(pricing.BusinessSettings{}, pricing.WorkflowSettings{OpeningGreeting: "Hi!"})
	if got := custom.Greeting(); got != "Hi!" {
		t.Fatalf("unexpected custom greeting: %q", got)
	}
}

func TestClosing_AddressesCaller(t *testing.T) {
	wf := New(pricing.BusinessSettings{}, pricing.WorkflowSettings{ClosingMessage: "We'll be in touch."})

	state := session.New("call-1", "")
	if got := wf.Closing(state); got != "We'll be in touch." {
		t.Fatalf("unexpected closing: %q", got)
	}

	state.SetSlot("name", "Maria")
	if got := wf.Closing(state); got != "Thanks Maria! We'll be in touch." {
		t.Fatalf("unexpected closing: %q", got)
	}
}
