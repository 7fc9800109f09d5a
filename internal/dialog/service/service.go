// Package service orchestrates call turns: session lookup, slot extraction
// or oracle reasoning, tool dispatch, and the completion hook.
package service

import (
	"context"
	"fmt"
	"strings"

	"rentalvoice_backend/internal/dialog/workflow"
	"rentalvoice_backend/internal/email"
	"rentalvoice_backend/internal/events"
	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/internal/reason"
	"rentalvoice_backend/internal/session"
	"rentalvoice_backend/internal/tools"
	"rentalvoice_backend/platform/apperr"
	"rentalvoice_backend/platform/logger"
)

// TurnResult is what one call turn produced.
type TurnResult struct {
	Say           string
	Done          bool
	Slots         map[string]string
	Tool          string
	ToolResult    any
	ToolError     string
	FollowUpQuote *pricing.PricedQuote
}

// Service drives the dialog for every active call.
type Service struct {
	store      session.Store
	extractor  reason.Extractor
	oracle     reason.Oracle
	dispatcher *tools.Dispatcher
	sender     email.Sender
	bus        events.Bus
	log        *logger.Logger
	notifyTo   string
}

// New wires the dialog service. notifyTo is the business inbox for lead
// summaries; blank disables summary mail.
func New(store session.Store, extractor reason.Extractor, oracle reason.Oracle, dispatcher *tools.Dispatcher, sender email.Sender, bus events.Bus, log *logger.Logger, notifyTo string) *Service {
	return &Service{
		store:      store,
		extractor:  extractor,
		oracle:     oracle,
		dispatcher: dispatcher,
		sender:     sender,
		bus:        bus,
		log:        log,
		notifyTo:   notifyTo,
	}
}

func (s *Service) getOrCreate(ctx context.Context, callID, callerNumber string) (*session.State, error) {
	state, err := s.store.Get(ctx, callID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load session", err)
	}
	if state == nil {
		state = session.New(callID, callerNumber)
	}
	return state, nil
}

// TakeTurn advances the deterministic slot-filling dialog by one caller
// utterance and returns what the assistant should say next.
func (s *Service) TakeTurn(ctx context.Context, eng *pricing.Engine, tenant, callID, callerNumber, utterance string) (*TurnResult, error) {
	state, err := s.getOrCreate(ctx, callID, callerNumber)
	if err != nil {
		return nil, err
	}
	wf := workflow.New(eng.Business(), eng.Workflow())

	// First contact: greet, collect nothing yet.
	if len(state.Messages) == 0 && strings.TrimSpace(utterance) == "" {
		say := wf.Greeting()
		if slot, ok := wf.NextUnfilled(state); ok {
			say = say + " " + wf.Prompt(slot)
		}
		return s.reply(ctx, tenant, state, wf, say, &TurnResult{})
	}

	if strings.TrimSpace(utterance) != "" {
		state.AddMessage("user", utterance)
		if slot, ok := wf.NextUnfilled(state); ok {
			value, extErr := s.extractor.Extract(ctx, slot, utterance)
			if extErr != nil {
				// Extraction failure counts as "no value"; the slot is re-asked.
				s.log.Warn("slot extraction failed", "call_id", callID, "slot", slot.Name, "error", extErr)
				value = ""
			}
			state.SetSlot(slot.Name, value)
		}
	}

	result := &TurnResult{}
	var say string
	if slot, ok := wf.NextUnfilled(state); ok {
		say = wf.Prompt(slot)
	} else {
		say = wf.Closing(state)
		result.Done = true
		s.complete(ctx, tenant, state)
	}
	return s.reply(ctx, tenant, state, wf, say, result)
}

// ReasonTurn advances the oracle-driven dialog by one utterance. Tool
// failures are reported inside the turn; oracle failures abort it after a
// best-effort notification, leaving the session intact.
func (s *Service) ReasonTurn(ctx context.Context, eng *pricing.Engine, tenant, callID, callerNumber, utterance string) (*TurnResult, error) {
	state, err := s.getOrCreate(ctx, callID, callerNumber)
	if err != nil {
		return nil, err
	}
	wf := workflow.New(eng.Business(), eng.Workflow())

	if len(state.Messages) == 0 && strings.TrimSpace(utterance) == "" {
		return s.reply(ctx, tenant, state, wf, wf.Greeting(), &TurnResult{})
	}
	if strings.TrimSpace(utterance) != "" {
		state.AddMessage("user", utterance)
	}

	thought, err := s.oracle.Reason(ctx, eng.Business(), state.Messages)
	if err != nil {
		s.reasoningFallback(ctx, tenant, state, err)
		if putErr := s.store.Put(ctx, state); putErr != nil {
			s.log.Error("persist session after oracle failure", "call_id", callID, "error", putErr)
		}
		return nil, err
	}

	result := &TurnResult{Tool: thought.Tool}
	if thought.Tool != "" {
		toolOut, toolErr := s.dispatcher.Run(ctx, eng, tenant, thought.Tool, thought.Args, state.CallerNumber)
		s.log.ToolEvent(tenant, thought.Tool, toolErr)
		if toolErr != nil {
			result.ToolError = toolErr.Error()
		} else {
			result.ToolResult = toolOut
			if avail, ok := toolOut.(tools.AvailabilityResult); ok && avail.Available {
				quote, qErr := s.dispatcher.FollowUpQuote(ctx, eng, tenant, thought.Args, state.CallerNumber)
				if qErr != nil {
					s.log.Warn("follow-up quote failed", "tenant", tenant, "error", qErr)
				} else {
					result.FollowUpQuote = quote
				}
			}
		}
	}

	return s.reply(ctx, tenant, state, wf, thought.Say, result)
}

// Think runs the oracle over an ad-hoc transcript without touching sessions.
func (s *Service) Think(ctx context.Context, eng *pricing.Engine, turns []session.Turn) (reason.Thought, error) {
	return s.oracle.Reason(ctx, eng.Business(), turns)
}

// ThinkAndAct runs the oracle and immediately executes any tool it named.
func (s *Service) ThinkAndAct(ctx context.Context, eng *pricing.Engine, tenant string, turns []session.Turn, callerNumber string) (reason.Thought, *TurnResult, error) {
	thought, err := s.oracle.Reason(ctx, eng.Business(), turns)
	if err != nil {
		return reason.Thought{}, nil, err
	}

	result := &TurnResult{Say: thought.Say, Tool: thought.Tool}
	if thought.Tool != "" {
		toolOut, toolErr := s.dispatcher.Run(ctx, eng, tenant, thought.Tool, thought.Args, callerNumber)
		s.log.ToolEvent(tenant, thought.Tool, toolErr)
		if toolErr != nil {
			result.ToolError = toolErr.Error()
		} else {
			result.ToolResult = toolOut
			if avail, ok := toolOut.(tools.AvailabilityResult); ok && avail.Available {
				quote, qErr := s.dispatcher.FollowUpQuote(ctx, eng, tenant, thought.Args, callerNumber)
				if qErr != nil {
					s.log.Warn("follow-up quote failed", "tenant", tenant, "error", qErr)
				} else {
					result.FollowUpQuote = quote
				}
			}
		}
	}
	return thought, result, nil
}

// Session returns the current state for a call.
func (s *Service) Session(ctx context.Context, callID string) (*session.State, error) {
	state, err := s.store.Get(ctx, callID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load session", err)
	}
	if state == nil {
		return nil, apperr.NotFound(fmt.Sprintf("no session for call %q", callID))
	}
	return state, nil
}

// EndCall tears down the session. When slots were collected but completion
// never fired, a final summary notification goes out first so the partial
// lead is not lost.
func (s *Service) EndCall(ctx context.Context, tenant, callID string) error {
	state, err := s.store.Get(ctx, callID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "load session", err)
	}
	if state != nil && !state.Completed && len(state.Slots) > 0 {
		s.notify(ctx, fmt.Sprintf("Call %s ended before completion", callID),
			fmt.Sprintf("Tenant: %s\nCaller: %s\n\n%s", tenant, state.CallerNumber, state.Summary()))
	}
	if err := s.store.Delete(ctx, callID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete session", err)
	}
	return nil
}

// reply appends the assistant turn, persists the session and assembles the
// turn result.
func (s *Service) reply(ctx context.Context, tenant string, state *session.State, wf *workflow.Workflow, say string, result *TurnResult) (*TurnResult, error) {
	state.Say = say
	state.AddMessage("assistant", say)
	if err := s.store.Put(ctx, state); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "persist session", err)
	}

	result.Say = say
	result.Slots = state.Slots
	s.log.TurnEvent(state.CallID, tenant, stateLabel(result.Done), len(state.Slots))
	return result, nil
}

func stateLabel(done bool) string {
	if done {
		return "completed"
	}
	return "collecting"
}

// complete fires the completion hook. The Completed flag makes it
// exactly-once per call even when the closing turn repeats.
func (s *Service) complete(ctx context.Context, tenant string, state *session.State) {
	if state.Completed {
		return
	}
	state.Completed = true

	if s.bus != nil {
		s.bus.Publish(ctx, events.CallCompleted{
			BaseEvent:    events.NewBaseEvent(),
			Tenant:       tenant,
			CallID:       state.CallID,
			CallerNumber: state.CallerNumber,
			Slots:        state.Slots,
		})
	}
	s.notify(ctx, fmt.Sprintf("New lead from call %s", state.CallID),
		fmt.Sprintf("Tenant: %s\nCaller: %s\n\n%s", tenant, state.CallerNumber, state.Summary()))
}

func (s *Service) reasoningFallback(ctx context.Context, tenant string, state *session.State, cause error) {
	if s.bus != nil {
		s.bus.Publish(ctx, events.ReasoningFailed{
			BaseEvent:    events.NewBaseEvent(),
			Tenant:       tenant,
			CallID:       state.CallID,
			CallerNumber: state.CallerNumber,
			Slots:        state.Slots,
			Reason:       cause.Error(),
		})
	}
	s.notify(ctx, fmt.Sprintf("Call %s needs manual follow-up", state.CallID),
		fmt.Sprintf("Tenant: %s\nCaller: %s\nReason: %v\n\nCollected so far:\n%s",
			tenant, state.CallerNumber, cause, state.Summary()))
}

// notify sends a best-effort mail to the business inbox.
func (s *Service) notify(ctx context.Context, subject, body string) {
	if s.notifyTo == "" {
		return
	}
	err := s.sender.Send(ctx, s.notifyTo, subject, body)
	s.log.EmailEvent(s.notifyTo, subject, err)
}
