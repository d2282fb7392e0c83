package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/structured/structuredtest"
)

func TestLocalParser(t *testing.T) {
	p := NewLocalParser()
	tests := []struct {
		input string
		want  Command
	}{
		{"coding", Command{Verb: Dispatch, Kind: action.KindCoding}},
		{"Run ICD coding please", Command{Verb: Dispatch, Kind: action.KindCoding}},
		{"codng", Command{Verb: Dispatch, Kind: action.KindCoding}},
		{"advice?", Command{Verb: Dispatch, Kind: action.KindAdvisory}},
		{"suggest treatment", Command{Verb: Dispatch, Kind: action.KindSuggestions}},
		{"claims", Command{Verb: Dispatch, Kind: action.KindClaims}},
		{"draft a SOAP note", Command{Verb: Dispatch, Kind: action.KindEHR}},
		{"EHR", Command{Verb: Dispatch, Kind: action.KindEHR}},
		{"close", Command{Verb: Close}},
		{"clse", Command{Verb: Close}},
		{"show", Command{Verb: Show}},
		{"?", Command{Verb: Help}},
		{"exit", Command{Verb: Quit}},
		{"set chiefComplaint Chest pain  on exertion", Command{Verb: Set, Path: "/chiefComplaint", Value: "Chest pain  on exertion"}},
		{"set /medications", Command{Verb: Set, Path: "/medications", Value: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.ParseCommand(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalParserNoMatch(t *testing.T) {
	p := NewLocalParser()
	for _, input := range []string{"", "   ", "hello there", "set", "ehx"} {
		got, err := p.ParseCommand(context.Background(), input)
		assert.ErrorIs(t, err, ErrNoMatch, input)
		assert.Equal(t, None, got.Verb, input)
	}
}

func TestToolParser(t *testing.T) {
	fake := structuredtest.Returning(parseIntentToolName, parseIntentOutput{Intent: "suggestions"})
	p, err := NewToolParser(fake)
	require.NoError(t, err)

	got, err := p.ParseCommand(context.Background(), "what should we do for his blood pressure")
	require.NoError(t, err)
	assert.Equal(t, Command{Verb: Dispatch, Kind: action.KindSuggestions}, got)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "what should we do for his blood pressure", calls[0].Messages[1].Content)
}

func TestToolParserNone(t *testing.T) {
	p, err := NewToolParser(structuredtest.Returning(parseIntentToolName, parseIntentOutput{Intent: "none"}))
	require.NoError(t, err)
	_, err = p.ParseCommand(context.Background(), "patient also reports nausea")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestFallbackParser(t *testing.T) {
	fake := structuredtest.Returning(parseIntentToolName, parseIntentOutput{Intent: "close"})
	tool, err := NewToolParser(fake)
	require.NoError(t, err)
	p := NewFallbackParser(NewLocalParser(), tool)

	got, err := p.ParseCommand(context.Background(), "claims")
	require.NoError(t, err)
	assert.Equal(t, action.KindClaims, got.Kind)
	assert.Empty(t, fake.Calls())

	got, err = p.ParseCommand(context.Background(), "that's enough for now")
	require.NoError(t, err)
	assert.Equal(t, Close, got.Verb)
	assert.Len(t, fake.Calls(), 1)
}
