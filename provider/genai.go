package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/tbxark/medassist/action"
	"google.golang.org/genai"
)

// ContentGenerator is the part of *genai.Models used by GenAIProvider.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIProvider asks a Gemini model for R as a JSON document.
type GenAIProvider[P action.Request, R any] struct {
	models ContentGenerator
	model  string
	task   Task
	opts   options
	schema string
}

func NewGenAIProvider[P action.Request, R any](models ContentGenerator, modelName string, task Task, opts ...Option) (*GenAIProvider[P, R], error) {
	if models == nil {
		return nil, fmt.Errorf("GenAI models client is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("GenAI model name is required")
	}
	schemaBytes, err := json.Marshal(jsonschema.Reflect(new(R)))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s result schema: %w", task.Kind, err)
	}
	return &GenAIProvider[P, R]{
		models: models,
		model:  modelName,
		task:   task,
		opts:   newOptions(opts...),
		schema: string(schemaBytes),
	}, nil
}

func (p *GenAIProvider[P, R]) Call(ctx context.Context, payload P) (*R, error) {
	system, user, err := renderPrompt(p.task, p.opts, payload)
	if err != nil {
		return nil, err
	}
	system += "\n\nRespond with a single JSON object matching this JSON schema:\n" + p.schema

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("empty GenAI response")
	}
	text := stripJSONFence(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("empty GenAI response")
	}
	var result R
	if err := sonic.UnmarshalString(text, &result); err != nil {
		return nil, decodeLoose(p.task.Kind, text, fmt.Errorf("parse GenAI response failed: %w", err))
	}
	return &result, nil
}

func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// NewGenAIRouter wires every generative kind to a Gemini model and claims to
// the local simulation.
func NewGenAIRouter(models ContentGenerator, modelName string, claimsDelay time.Duration, opts []Option, routerOpts ...RouterOption) (*Router, error) {
	r := NewRouter(routerOpts...)
	var err error
	if r.Coding, err = NewGenAIProvider[action.CodingPayload, action.CodingResult](models, modelName, defaultTasks[action.KindCoding], opts...); err != nil {
		return nil, err
	}
	if r.Advisory, err = NewGenAIProvider[action.AdvisoryPayload, action.AdvisoryResult](models, modelName, defaultTasks[action.KindAdvisory], opts...); err != nil {
		return nil, err
	}
	if r.Suggestions, err = NewGenAIProvider[action.SuggestionsPayload, action.SuggestionsResult](models, modelName, defaultTasks[action.KindSuggestions], opts...); err != nil {
		return nil, err
	}
	if r.EHR, err = NewGenAIProvider[action.EHRPayload, action.EHRResult](models, modelName, defaultTasks[action.KindEHR], opts...); err != nil {
		return nil, err
	}
	r.Claims = SimulatedClaims{Delay: claimsDelay}
	return r, nil
}
