// Package workflow models the tenant's slot-filling call script: a fixed,
// declared sequence of questions with per-slot prompts and a greeting and
// closing line.
package workflow

import (
	"fmt"

	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/internal/session"
)

// Workflow is the tenant's declared slot sequence. Prompting order is the
// declaration order and never reshuffles mid-call.
type Workflow struct {
	business pricing.BusinessSettings
	settings pricing.WorkflowSettings
}

// New builds a workflow from the tenant's settings.
func New(business pricing.BusinessSettings, settings pricing.WorkflowSettings) *Workflow {
	return &Workflow{business: business, settings: settings}
}

// RequiredSlots lists the names of required slots in declared order.
func (w *Workflow) RequiredSlots() []string {
	var names []string
	for _, slot := range w.settings.Slots {
		if slot.IsRequired() {
			names = append(names, slot.Name)
		}
	}
	return names
}

// NextUnfilled returns the first declared required slot the state has no
// value for.
func (w *Workflow) NextUnfilled(state *session.State) (pricing.SlotDef, bool) {
	for _, slot := range w.settings.Slots {
		if !slot.IsRequired() {
			continue
		}
		if state.Slot(slot.Name) == "" {
			return slot, true
		}
	}
	return pricing.SlotDef{}, false
}

// Prompt returns the question to ask for a slot, falling back to a generic
// one when the tenant declared none.
func (w *Workflow) Prompt(slot pricing.SlotDef) string {
	if slot.Prompt != "" {
		return slot.Prompt
	}
	return fmt.Sprintf("Could you tell me your %s?", slot.Name)
}

// Greeting is the assistant's first utterance of a call.
func (w *Workflow) Greeting() string {
	if w.settings.OpeningGreeting != "" {
		return w.settings.OpeningGreeting
	}
	return fmt.Sprintf("Thanks for calling %s! How can I help you today?", w.business.Name)
}

// Closing is spoken once every required slot is filled. It addresses the
// caller by the collected name when one exists.
func (w *Workflow) Closing(state *session.State) string {
	name := state.Slot("name")
	if w.settings.ClosingMessage != "" {
		if name != "" {
			return fmt.Sprintf("Thanks %s! %s", name, w.settings.ClosingMessage)
		}
		return w.settings.ClosingMessage
	}
	if name != "" {
		return fmt.Sprintf("Thanks %s, that's everything we need. Our team will follow up shortly.", name)
	}
	return "Thanks, that's everything we need. Our team will follow up shortly."
}
