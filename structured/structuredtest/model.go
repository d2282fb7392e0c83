// Package structuredtest provides an in-memory tool-calling chat model for tests.
package structuredtest

import (
	"context"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type Reply func(ctx context.Context, input []*schema.Message, opts *model.Options) (*schema.Message, error)

// Model answers Generate calls with Reply and records every call.
type Model struct {
	Reply Reply

	mu    sync.Mutex
	calls []Call
}

type Call struct {
	Messages []*schema.Message
	Options  *model.Options
}

var _ model.ToolCallingChatModel = (*Model)(nil)

func New(reply Reply) *Model {
	return &Model{Reply: reply}
}

// Returning replies with a forced tool call carrying args as JSON.
func Returning(toolName string, args any) *Model {
	return New(func(ctx context.Context, input []*schema.Message, opts *model.Options) (*schema.Message, error) {
		return ToolCallMessage(toolName, args)
	})
}

func ToolCallMessage(toolName string, args any) (*schema.Message, error) {
	raw, err := sonic.MarshalString(args)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage("", []schema.ToolCall{{
		ID:       "call_1",
		Function: schema.FunctionCall{Name: toolName, Arguments: raw},
	}}), nil
}

func (m *Model) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	o := model.GetCommonOptions(&model.Options{}, opts...)
	m.mu.Lock()
	m.calls = append(m.calls, Call{Messages: input, Options: o})
	m.mu.Unlock()
	return m.Reply(ctx, input, o)
}

func (m *Model) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *Model) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func (m *Model) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
