package reason

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"rentalvoice_backend/internal/pricing"
)

// Extractor pulls a single slot value out of an utterance. An empty result
// with a nil error means "not present"; errors are absorbed by the dialog
// layer and treated the same way.
type Extractor interface {
	Extract(ctx context.Context, slot pricing.SlotDef, utterance string) (string, error)
}

// GeminiExtractor implements Extractor with a minimal zero-temperature
// completion per slot.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates an extractor for the given API key and model.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("reason: create genai client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// Extract returns the slot value found in the utterance, or "" when the model
// reports none.
func (e *GeminiExtractor) Extract(ctx context.Context, slot pricing.SlotDef, utterance string) (string, error) {
	if strings.TrimSpace(utterance) == "" {
		return "", nil
	}

	system := fmt.Sprintf(
		"You are a precise information extractor. "+
			"Given a caller's message, extract %s. "+
			"If it is not present, respond with the single word 'None'. "+
			"Return ONLY the extracted %s string, without explanations or punctuation.",
		slot.Description, slot.Name,
	)

	resp, err := e.client.Models.GenerateContent(ctx, e.model,
		genai.Text(utterance),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0),
			MaxOutputTokens:   25,
		})
	if err != nil {
		return "", fmt.Errorf("reason: extract %s: %w", slot.Name, err)
	}

	result := strings.TrimSpace(resp.Text())
	if result == "" || strings.EqualFold(result, "none") {
		return "", nil
	}
	return result, nil
}
