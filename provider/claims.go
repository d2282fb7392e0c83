package provider

import (
	"context"
	"time"

	"github.com/tbxark/medassist/action"
)

const DefaultClaimsDelay = 1500 * time.Millisecond

const simulatedClaimsAnalysis = "Claim review complete. Documentation supports medical necessity for the listed services. " +
	"No coding conflicts detected. Verify payer-specific prior authorization requirements before submission."

// SimulatedClaims stands in for a claims engine. It answers with a fixed
// analysis after Delay and ignores the payload.
type SimulatedClaims struct {
	Delay time.Duration
}

func (s SimulatedClaims) Call(ctx context.Context, _ action.ClaimsPayload) (*action.ClaimsResult, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return &action.ClaimsResult{ClaimsAnalysis: simulatedClaimsAnalysis}, nil
}
