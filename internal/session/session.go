// Package session holds per-call conversational state: collected slot values
// and the running transcript. Exactly one State exists per active call id.
package session

import (
	"fmt"
	"sort"
	"strings"
)

// Turn is one transcript entry.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// State is the conversational state for a single call. It is created on first
// contact, mutated throughout the call, and torn down when the call ends.
type State struct {
	CallID       string            `json:"call_id"`
	CallerNumber string            `json:"caller_number"`
	Slots        map[string]string `json:"slots"`
	Messages     []Turn            `json:"messages"`
	Say          string            `json:"say,omitempty"`
	StepIndex    int               `json:"step_index"`
	// Completed guards the on-completion hook: it fires exactly once per call.
	Completed bool `json:"completed"`
}

// New creates an empty session for a call.
func New(callID, callerNumber string) *State {
	return &State{
		CallID:       callID,
		CallerNumber: callerNumber,
		Slots:        make(map[string]string),
	}
}

// AddMessage appends a user or assistant turn in arrival order.
func (s *State) AddMessage(role, content string) {
	s.Messages = append(s.Messages, Turn{Role: role, Content: content})
}

// SetSlot records an extracted value. Empty or whitespace-only values are
// silently dropped; a later commit for the same key overwrites the earlier
// one (last value wins, never merged).
func (s *State) SetSlot(key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if s.Slots == nil {
		s.Slots = make(map[string]string)
	}
	s.Slots[key] = value
}

// Slot returns the collected value for a key, if any.
func (s *State) Slot(key string) string {
	return s.Slots[key]
}

// AllRequiredFilled reports whether every listed slot holds a non-blank value.
func (s *State) AllRequiredFilled(required []string) bool {
	for _, key := range required {
		if strings.TrimSpace(s.Slots[key]) == "" {
			return false
		}
	}
	return true
}

// Summary renders the collected details for notifications, in stable key order.
func (s *State) Summary() string {
	if len(s.Slots) == 0 {
		return "(no details collected yet)"
	}
	keys := make([]string, 0, len(s.Slots))
	for k := range s.Slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", titleCase(k), s.Slots[k])
	}
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
