package reason

import (
	"context"
	"strings"

	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/internal/session"
	"rentalvoice_backend/platform/apperr"
)

// VerbatimExtractor answers every slot with the trimmed utterance. It keeps
// the slot-filling dialog usable when no model API key is configured.
type VerbatimExtractor struct{}

func (VerbatimExtractor) Extract(_ context.Context, _ pricing.SlotDef, utterance string) (string, error) {
	return strings.TrimSpace(utterance), nil
}

// UnavailableOracle fails every reasoning request. Deployments without a
// model API key get the documented fallback-notification path instead of a
// nil dereference.
type UnavailableOracle struct{}

func (UnavailableOracle) Reason(context.Context, pricing.BusinessSettings, []session.Turn) (Thought, error) {
	return Thought{}, apperr.Unavailable("reasoning is not configured")
}

var (
	_ Extractor = VerbatimExtractor{}
	_ Oracle    = UnavailableOracle{}
)
