package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jdkato/prose/v2"
	"google.golang.org/genai"
)

// EntityRecognizer finds person names in free text, in order of appearance.
type EntityRecognizer interface {
	Persons(ctx context.Context, text string) ([]string, error)
}

// ProseRecognizer uses prose's bundled averaged-perceptron NER model. The
// zero value decodes the model on every call; Pipeline.Recognizer shares
// the one loaded by Load.
type ProseRecognizer struct {
	model *prose.Model
}

func (r ProseRecognizer) Persons(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := []prose.DocOpt{prose.WithSegmentation(false)}
	if r.model != nil {
		opts = append(opts, prose.UsingModel(r.model))
	}
	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to run entity extraction: %w", err)
	}
	var persons []string
	for _, ent := range doc.Entities() {
		if ent.Label == "PERSON" {
			persons = append(persons, ent.Text)
		}
	}
	return persons, nil
}

const personPrompt = `List every person name that appears in the text below, in order of first appearance.
Copy each name exactly as written. Return only a JSON array of strings, for example ["Jane Doe"].
If there are none, return [].

Text:
%s`

// GeminiRecognizer asks a Gemini model for PERSON spans.
type GeminiRecognizer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiRecognizer creates a recognizer backed by the Gemini API.
func NewGeminiRecognizer(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiRecognizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiRecognizer{client: client, model: model, timeout: timeout}, nil
}

func (g *GeminiRecognizer) Persons(ctx context.Context, text string) ([]string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(fmt.Sprintf(personPrompt, text)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini entity request failed: %w", err)
	}
	return parsePersons(resp.Text())
}

func parsePersons(raw string) ([]string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return nil, nil
	}
	var persons []string
	if err := json.Unmarshal([]byte(clean), &persons); err != nil {
		return nil, fmt.Errorf("failed to parse entity response: %w", err)
	}
	return persons, nil
}
