package structured

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

// Chain asks a tool-calling chat model for a TOutput by forcing a single
// tool whose parameters are the TOutput schema.
type Chain[TInput, TOutput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.ToolCallingChatModel
	ToolInfo      *schema.ToolInfo
}

func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		ToolInfo:      toolInfo,
	}, nil
}

func (s *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	response, err := s.ChatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{s.ToolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, s.ToolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}
	return decodeToolCall[TOutput](response, s.ToolInfo.Name)
}

// ArgumentsError reports tool call arguments that did not decode into the
// output type. Arguments holds the raw JSON text.
type ArgumentsError struct {
	Arguments string
	Err       error
}

func (e *ArgumentsError) Error() string {
	return fmt.Sprintf("parse ToolCall arguments failed: %v", e.Err)
}

func (e *ArgumentsError) Unwrap() error {
	return e.Err
}

func decodeToolCall[TOutput any](msg *schema.Message, toolName string) (*TOutput, error) {
	if msg == nil {
		return nil, fmt.Errorf("empty model response")
	}
	for _, call := range msg.ToolCalls {
		if call.Function.Name != "" && call.Function.Name != toolName {
			continue
		}
		var result TOutput
		if err := sonic.UnmarshalString(call.Function.Arguments, &result); err != nil {
			return nil, &ArgumentsError{Arguments: call.Function.Arguments, Err: err}
		}
		return &result, nil
	}
	return nil, fmt.Errorf("no %s ToolCall found in model response: %s", toolName, msg.Content)
}

func (s *Chain[TInput, TOutput]) GetToolInfo() *schema.ToolInfo {
	return s.ToolInfo
}
