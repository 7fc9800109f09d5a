package session

import (
	"strings"
	"testing"
)

func TestSetSlot_DropsBlankValues(t *testing.T) {
	state := New("call-1", "+13105550100")

	state.SetSlot("name", "Maria")
	state.SetSlot("name", "")
	state.SetSlot("name", "   ")

	if got := state.Slot("name"); got != "Maria" {
		t.Fatalf("expected blank commits dropped, got %q", got)
	}
}

func TestSetSlot_LastValueWins(t *testing.T) {
	state := New("call-1", "")

	state.SetSlot("zip", "90210")
	state.SetSlot("zip", "90013")

	if got := state.Slot("zip"); got != "90013" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestAllRequiredFilled(t *testing.T) {
	state := New("call-1", "")
	required := []string{"name", "event_date"}

	if state.AllRequiredFilled(required) {
		t.Fatal("expected unfilled slots to block completion")
	}
	state.SetSlot("name", "Maria")
	if state.AllRequiredFilled(required) {
		t.Fatal("expected one missing slot to block completion")
	}
	state.SetSlot("event_date", "2026-09-04")
	if !state.AllRequiredFilled(required) {
		t.Fatal("expected completion with all slots filled")
	}
}

func TestAddMessage_KeepsArrivalOrder(t *testing.T) {
	state := New("call-1", "")
	state.AddMessage("assistant", "hello")
	state.AddMessage("user", "hi")

	if len(state.Messages) != 2 || state.Messages[0].Role != "assistant" || state.Messages[1].Content != "hi" {
		t.Fatalf("unexpected transcript: %+v", state.Messages)
	}
}

func TestSummary_StableOrder(t *testing.T) {
	state := New("call-1", "")
	state.SetSlot("zip", "90210")
	state.SetSlot("name", "Maria")

	summary := state.Summary()
	if !strings.Contains(summary, "Name: Maria") || !strings.Contains(summary, "Zip: 90210") {
		t.Fatalf("unexpected summary: %q", summary)
	}
	if strings.Index(summary, "Name:") > strings.Index(summary, "Zip:") {
		t.Fatalf("expected keys sorted, got %q", summary)
	}
}

func TestSummary_Empty(t *testing.T) {
	state := New("call-1", "")
	if got := state.Summary(); got != "(no details collected yet)" {
		t.Fatalf("unexpected empty summary: %q", got)
	}
}
