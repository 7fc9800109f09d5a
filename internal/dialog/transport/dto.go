// Package transport defines request and response DTOs for dialog endpoints.
package transport

import (
	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/internal/session"
)

// TurnRequest is one caller utterance for a call.
type TurnRequest struct {
	CallerNumber string `json:"caller_number"`
	Utterance    string `json:"utterance"`
	// Mode picks the dialog variant: "slots" (default) walks the declared
	// slot sequence, "reason" delegates each turn to the oracle.
	Mode  string `json:"mode" validate:"omitempty,oneof=slots reason"`
	Speak bool   `json:"speak"`
}

// TurnResponse is what the assistant says next, plus any tool output.
type TurnResponse struct {
	CallID        string              `json:"call_id"`
	Say           string              `json:"say"`
	Done          bool                `json:"done"`
	Slots         map[string]string   `json:"slots"`
	Tool          string              `json:"tool,omitempty"`
	ToolResult    any                 `json:"tool_result,omitempty"`
	ToolError     string              `json:"tool_error,omitempty"`
	FollowUpQuote *pricing.PricedQuote `json:"followup_quote,omitempty"`
	AudioPath     string              `json:"audio_path,omitempty"`
}

// SessionResponse is a snapshot of a call's state.
type SessionResponse struct {
	CallID       string            `json:"call_id"`
	CallerNumber string            `json:"caller_number"`
	Slots        map[string]string `json:"slots"`
	Messages     []session.Turn    `json:"messages"`
	Completed    bool              `json:"completed"`
}

// ReasonRequest carries an ad-hoc transcript for a stateless reasoning call.
type ReasonRequest struct {
	Messages     []session.Turn `json:"messages" validate:"required,min=1"`
	CallerNumber string         `json:"caller_number"`
}

// ReasonResponse is the oracle's decision.
type ReasonResponse struct {
	Say  string         `json:"say"`
	Tool string         `json:"tool,omitempty"`
	Args map[string]any `json:"args,omitempty"`
}

// ReasonAndActResponse is the decision plus its executed tool output.
type ReasonAndActResponse struct {
	Say           string              `json:"say"`
	Tool          string              `json:"tool,omitempty"`
	Args          map[string]any      `json:"args,omitempty"`
	ToolResult    any                 `json:"tool_result,omitempty"`
	ToolError     string              `json:"tool_error,omitempty"`
	FollowUpQuote *pricing.PricedQuote `json:"followup_quote,omitempty"`
}

// SpeechRequest asks for an utterance to be synthesized.
type SpeechRequest struct {
	Text string `json:"text" validate:"required"`
}

// SpeechResponse points at the cached audio file.
type SpeechResponse struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}
