// Package reason wraps the external language model behind two narrow
// contracts: a reasoning oracle that turns conversation context into a
// {say, tool, args} decision, and a per-slot value extractor. Both are
// blocking external I/O calls; neither retries on its own.
package reason

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"rentalvoice_backend/internal/pricing"
	"rentalvoice_backend/internal/session"
	"rentalvoice_backend/platform/apperr"
)

// Thought is the oracle's structured decision for one turn.
type Thought struct {
	Say  string         `json:"say"`
	Tool string         `json:"tool,omitempty"`
	Args map[string]any `json:"args,omitempty"`
}

// Oracle converts conversation context into a Thought.
type Oracle interface {
	Reason(ctx context.Context, business pricing.BusinessSettings, turns []session.Turn) (Thought, error)
}

// GeminiOracle implements Oracle on the Gemini API with a strict JSON
// response schema.
type GeminiOracle struct {
	client *genai.Client
	model  string
}

// NewGeminiOracle creates a client for the given API key and model.
func NewGeminiOracle(ctx context.Context, apiKey, model string) (*GeminiOracle, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("reason: create genai client: %w", err)
	}
	return &GeminiOracle{client: client, model: model}, nil
}

var thoughtSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"say":  {Type: genai.TypeString},
		"tool": {Type: genai.TypeString},
		"args": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"date":     {Type: genai.TypeString},
				"zip":      {Type: genai.TypeString},
				"item":     {Type: genai.TypeString},
				"quantity": {Type: genai.TypeInteger},
				"name":     {Type: genai.TypeString},
				"phone":    {Type: genai.TypeString},
				"email":    {Type: genai.TypeString},
				"quote_id": {Type: genai.TypeString},
			},
		},
	},
	Required: []string{"say"},
}

func systemPrompt(business pricing.BusinessSettings) string {
	return fmt.Sprintf(
		"You are the brain of a phone sales agent for an event-rental business. "+
			"Business: %s; Hours: %s; Service area prefixes: %v. "+
			"Return STRICT JSON: {say: string, tool?: string, args?: object}. "+
			"Tools: quote, check_availability, create_lead, book. Be concise.",
		business.Name, business.Hours, business.ServiceArea,
	)
}

// Reason asks the model for the next thing to say and an optional tool call.
// Failures come back as unavailable errors; the dialog layer decides the
// fallback path.
func (o *GeminiOracle) Reason(ctx context.Context, business pricing.BusinessSettings, turns []session.Turn) (Thought, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		role := genai.Role(genai.RoleUser)
		if turn.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}

	resp, err := o.client.Models.GenerateContent(ctx, o.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(business), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   300,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    thoughtSchema,
	})
	if err != nil {
		return Thought{}, apperr.Wrap(apperr.KindUnavailable, "reasoning failed", err)
	}

	var thought Thought
	if err := json.Unmarshal([]byte(resp.Text()), &thought); err != nil {
		return Thought{}, apperr.Wrap(apperr.KindUnavailable, "reasoning returned malformed decision", err)
	}
	thought.Tool = strings.TrimSpace(thought.Tool)
	return thought, nil
}
