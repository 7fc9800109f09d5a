// Package speech turns assistant replies into audio. Synthesis is an
// external model call behind a narrow interface; the Cache keeps one file
// per distinct utterance so repeated prompts never hit the model twice.
package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"google.golang.org/genai"
)

// Synthesizer renders text to audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// GeminiSynthesizer implements Synthesizer on the Gemini TTS models.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSynthesizer creates a synthesizer for the given API key and model.
func NewGeminiSynthesizer(ctx context.Context, apiKey, model string) (*GeminiSynthesizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("speech: create genai client: %w", err)
	}
	return &GeminiSynthesizer{client: client, model: model, voice: "Kore"}, nil
}

// Synthesize renders one utterance and returns the raw audio bytes.
func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("speech: synthesize: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("speech: response carried no audio")
}

// Cache wraps a Synthesizer with a content-addressed file cache. The hash of
// the utterance text is the cache key, so identical replies map to one file.
type Cache struct {
	synth Synthesizer
	dir   string
}

// NewCache creates the audio directory if needed.
func NewCache(synth Synthesizer, dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("speech: create audio dir: %w", err)
	}
	return &Cache{synth: synth, dir: dir}, nil
}

// Speak returns the path of the audio file for text, synthesizing it on a
// cache miss. The returned hash identifies the utterance.
func (c *Cache) Speak(ctx context.Context, text string) (path string, hash string, err error) {
	sum := sha256.Sum256([]byte(text))
	hash = hex.EncodeToString(sum[:])
	path = filepath.Join(c.dir, hash+".wav")

	if _, statErr := os.Stat(path); statErr == nil {
		return path, hash, nil
	}

	audio, err := c.synth.Synthesize(ctx, text)
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", "", fmt.Errorf("speech: write audio file: %w", err)
	}
	return path, hash, nil
}
