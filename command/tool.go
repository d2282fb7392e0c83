package command

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/structured"
)

const (
	parseIntentToolName        = "parse_action_intent"
	parseIntentToolDescription = "Analyze the physician's input and determine which AI action or surface command is requested."
)

type parseIntentOutput struct {
	Intent string `json:"intent" jsonschema:"required,enum=coding,enum=advisory,enum=suggestions,enum=claims,enum=ehr,enum=close,enum=show,enum=help,enum=quit,enum=none,description=The requested action or command"`
}

// ToolParser asks a chat model to classify free text that LocalParser did
// not recognise.
type ToolParser struct {
	chain *structured.Chain[string, parseIntentOutput]
}

func NewToolParser(chatModel model.ToolCallingChatModel) (*ToolParser, error) {
	chain, err := structured.NewChain[string, parseIntentOutput](
		chatModel,
		buildParseIntentPrompt,
		parseIntentToolName,
		parseIntentToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolParser{chain: chain}, nil
}

func (p *ToolParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	result, err := p.chain.Invoke(ctx, input)
	if err != nil {
		return Command{Verb: None}, err
	}
	if result == nil || result.Intent == "" {
		return Command{Verb: None}, fmt.Errorf("empty intent returned by %s", parseIntentToolName)
	}
	switch intent := result.Intent; intent {
	case string(Close), string(Show), string(Help), string(Quit):
		return Command{Verb: Verb(intent)}, nil
	case string(None):
		return Command{Verb: None}, ErrNoMatch
	default:
		kind, err := action.ParseKind(intent)
		if err != nil {
			return Command{Verb: None}, err
		}
		return Command{Verb: Dispatch, Kind: kind}, nil
	}
}

func buildParseIntentPrompt(ctx context.Context, input string) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You route a physician's requests in a clinical documentation assistant.

Choose the single intent that matches the input:
- coding: suggest ICD-10 codes for the encounter.
- advisory: give a clinical advisory or second opinion.
- suggestions: suggest a treatment plan.
- claims: analyse the insurance claim.
- ehr: draft an EHR or SOAP note.
- close: dismiss the current result.
- show: show the current result or clinical data.
- help: list what the assistant can do.
- quit: leave the session.
- none: anything else, including clinical data the physician is dictating.

Call the '%s' tool with the result.`, parseIntentToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(input),
	}, nil
}
