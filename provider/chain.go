package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/structured"
)

// ChainProvider asks an eino tool-calling chat model for R through a forced tool call.
type ChainProvider[P action.Request, R any] struct {
	task  Task
	chain *structured.Chain[P, R]
}

func NewChainProvider[P action.Request, R any](chatModel model.ToolCallingChatModel, task Task, opts ...Option) (*ChainProvider[P, R], error) {
	o := newOptions(opts...)
	build := func(ctx context.Context, payload P) ([]*schema.Message, error) {
		system, user, err := renderPrompt(task, o, payload)
		if err != nil {
			return nil, err
		}
		system += fmt.Sprintf("\n\nCall the '%s' tool with the result.", task.ToolName)
		return []*schema.Message{
			schema.SystemMessage(system),
			schema.UserMessage(user),
		}, nil
	}
	chain, err := structured.NewChain[P, R](chatModel, build, task.ToolName, task.ToolDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s chain: %w", task.Kind, err)
	}
	return &ChainProvider[P, R]{task: task, chain: chain}, nil
}

func (p *ChainProvider[P, R]) Call(ctx context.Context, payload P) (*R, error) {
	result, err := p.chain.Invoke(ctx, payload)
	if err != nil {
		err = fmt.Errorf("LLM call failed: %w", err)
		var argErr *structured.ArgumentsError
		if errors.As(err, &argErr) {
			return nil, decodeLoose(p.task.Kind, argErr.Arguments, err)
		}
		return nil, err
	}
	return result, nil
}

// NewChainRouter wires every generative kind to chatModel and claims to the
// local simulation.
func NewChainRouter(chatModel model.ToolCallingChatModel, claimsDelay time.Duration, opts []Option, routerOpts ...RouterOption) (*Router, error) {
	r := NewRouter(routerOpts...)
	var err error
	if r.Coding, err = NewChainProvider[action.CodingPayload, action.CodingResult](chatModel, defaultTasks[action.KindCoding], opts...); err != nil {
		return nil, err
	}
	if r.Advisory, err = NewChainProvider[action.AdvisoryPayload, action.AdvisoryResult](chatModel, defaultTasks[action.KindAdvisory], opts...); err != nil {
		return nil, err
	}
	if r.Suggestions, err = NewChainProvider[action.SuggestionsPayload, action.SuggestionsResult](chatModel, defaultTasks[action.KindSuggestions], opts...); err != nil {
		return nil, err
	}
	if r.EHR, err = NewChainProvider[action.EHRPayload, action.EHRResult](chatModel, defaultTasks[action.KindEHR], opts...); err != nil {
		return nil, err
	}
	r.Claims = SimulatedClaims{Delay: claimsDelay}
	return r, nil
}
