package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/medassist/clinical"
	"github.com/tbxark/medassist/config"
	"github.com/tbxark/medassist/lifecycle"
	"github.com/tbxark/medassist/notify"
	"github.com/tbxark/medassist/provider"
	"github.com/tbxark/medassist/types"
	"google.golang.org/genai"
)

func newChatModel(ctx context.Context, cfg config.OpenAIConfig) (model.ToolCallingChatModel, error) {
	apiKey := cfg.ResolvedAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is not set (set openai.api_key or $%s)", cfg.APIKeyEnv)
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create openai chat model: %w", err)
	}
	return cm, nil
}

func newInvoker(ctx context.Context, cfg config.Config) (provider.Invoker, error) {
	opts := []provider.Option{provider.WithLang(cfg.Provider.Lang)}
	routerOpts := []provider.RouterOption{
		provider.WithTimeout(cfg.Provider.Timeout),
		provider.WithLogger(slog.Default()),
	}
	switch cfg.Provider.Backend {
	case config.BackendGemini:
		apiKey := cfg.Gemini.ResolvedAPIKey()
		if apiKey == "" {
			return nil, fmt.Errorf("gemini api key is not set (set gemini.api_key or $%s)", cfg.Gemini.APIKeyEnv)
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create GenAI client: %w", err)
		}
		return provider.NewGenAIRouter(client.Models, cfg.Gemini.Model, cfg.Claims.Delay, opts, routerOpts...)
	default:
		cm, err := newChatModel(ctx, cfg.OpenAI)
		if err != nil {
			return nil, err
		}
		return provider.NewChainRouter(cm, cfg.Claims.Delay, opts, routerOpts...)
	}
}

func newStore(cfg config.Config) (*clinical.Store, error) {
	if cfg.Context.File == "" {
		return clinical.NewMemoryStore(), nil
	}
	loaded, err := clinical.LoadFile(cfg.Context.File)
	if err != nil {
		return nil, err
	}
	return clinical.NewMemoryStore(clinical.WithInitial(func(context.Context) types.ClinicalContext {
		return loaded
	})), nil
}

func newMachine(ctx context.Context, opts *rootOptions, store *clinical.Store, sink notify.Sink) (*lifecycle.Machine, error) {
	invoker, err := opts.newInvoker(ctx, opts.cfg)
	if err != nil {
		return nil, &exitError{Code: exitCommandError, Message: "configure provider", Err: err}
	}
	return lifecycle.New(store, invoker,
		lifecycle.WithNotifier(sink),
		lifecycle.WithLogger(slog.Default()),
	), nil
}
