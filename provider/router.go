package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/tbxark/medassist/action"
)

var _ Invoker = (*Router)(nil)

// Router sends each payload variant to the provider for its kind.
type Router struct {
	Coding      Provider[action.CodingPayload, action.CodingResult]
	Advisory    Provider[action.AdvisoryPayload, action.AdvisoryResult]
	Suggestions Provider[action.SuggestionsPayload, action.SuggestionsResult]
	Claims      Provider[action.ClaimsPayload, action.ClaimsResult]
	EHR         Provider[action.EHRPayload, action.EHRResult]

	timeout time.Duration
	logger  *slog.Logger
}

type RouterOption func(*Router)

// WithTimeout bounds every provider call. Zero means no bound.
func WithTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		r.timeout = d
	}
}

func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

func NewRouter(opts ...RouterOption) *Router {
	r := &Router{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Router) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Invoke calls the provider for req once. Errors come back as *Failure.
func (r *Router) Invoke(ctx context.Context, req action.Request) (action.Result, error) {
	if req == nil {
		return nil, errors.New("nil action request")
	}
	kind := req.Kind()
	ctx = callbacks.EnsureRunInfo(ctx, string(kind), "Provider")
	ctx = callbacks.OnStart(ctx, req)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	r.log().Debug("Invoking provider", "kind", kind)
	result, err := r.route(ctx, req)
	var shapeErr *UnexpectedShapeError
	if errors.As(err, &shapeErr) {
		r.log().Warn("Provider result did not match its schema, showing it as returned", "kind", kind, "error", shapeErr.Err)
		result, err = shapeErr.Result, nil
	}
	if err != nil {
		failure := &Failure{Kind: kind, Err: err}
		callbacks.OnError(ctx, failure)
		r.log().Warn("Provider call failed", "kind", kind, "elapsed", time.Since(start), "error", err)
		return nil, failure
	}
	callbacks.OnEnd(ctx, result)
	r.log().Debug("Provider call resolved", "kind", kind, "elapsed", time.Since(start))
	return result, nil
}

func (r *Router) route(ctx context.Context, req action.Request) (action.Result, error) {
	switch p := req.(type) {
	case action.CodingPayload:
		return call(ctx, r.Coding, p)
	case action.AdvisoryPayload:
		return call(ctx, r.Advisory, p)
	case action.SuggestionsPayload:
		return call(ctx, r.Suggestions, p)
	case action.ClaimsPayload:
		return call(ctx, r.Claims, p)
	case action.EHRPayload:
		return call(ctx, r.EHR, p)
	}
	return nil, fmt.Errorf("%w: %T", action.ErrUnknownKind, req)
}

func call[P any, R action.Result](ctx context.Context, p Provider[P, R], payload P) (action.Result, error) {
	if p == nil {
		return nil, ErrNoProvider
	}
	out, err := p.Call(ctx, payload)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("provider returned an empty result")
	}
	return *out, nil
}
