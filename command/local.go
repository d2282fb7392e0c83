package command

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/tbxark/medassist/action"
)

// LocalParser matches keywords without calling a model. Words of four or
// more runes also match keywords one edit away.
type LocalParser struct {
	KindKeywords  map[action.Kind][]string
	VerbKeywords  map[Verb][]string
	SetKeyword    string
	MinFuzzyRunes int
}

func NewLocalParser() *LocalParser {
	return &LocalParser{
		KindKeywords: map[action.Kind][]string{
			action.KindCoding:      {"coding", "code", "codes", "icd"},
			action.KindAdvisory:    {"advisory", "advice", "advise"},
			action.KindSuggestions: {"suggestions", "suggest", "treatment"},
			action.KindClaims:      {"claims", "claim", "billing"},
			action.KindEHR:         {"ehr", "soap", "draft", "note"},
		},
		VerbKeywords: map[Verb][]string{
			Close: {"close", "dismiss"},
			Show:  {"show", "state", "status"},
			Help:  {"help", "?"},
			Quit:  {"quit", "exit", "bye"},
		},
		SetKeyword:    "set",
		MinFuzzyRunes: 4,
	}
}

var verbOrder = []Verb{Close, Show, Help, Quit}

func (p *LocalParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Command{Verb: None}, ErrNoMatch
	}
	fields := strings.Fields(trimmed)
	first := strings.ToLower(fields[0])

	if first == p.SetKeyword {
		return p.parseSet(trimmed, fields)
	}

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := cleanWord(f); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		if v, ok := p.matchVerb(first, false); ok {
			return Command{Verb: v}, nil
		}
		return Command{Verb: None}, ErrNoMatch
	}

	if v, ok := p.matchVerb(words[0], false); ok {
		return Command{Verb: v}, nil
	}
	if k, ok := p.matchKind(words, false); ok {
		return Command{Verb: Dispatch, Kind: k}, nil
	}
	if v, ok := p.matchVerb(words[0], true); ok {
		return Command{Verb: v}, nil
	}
	if k, ok := p.matchKind(words, true); ok {
		return Command{Verb: Dispatch, Kind: k}, nil
	}
	return Command{Verb: None}, ErrNoMatch
}

// parseSet reads "set <pointer> <value>"; the value keeps its original case
// and inner spacing.
func (p *LocalParser) parseSet(trimmed string, fields []string) (Command, error) {
	if len(fields) < 2 {
		return Command{Verb: None}, ErrNoMatch
	}
	path := fields[1]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	rest := strings.TrimSpace(trimmed[len(fields[0]):])
	value := strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
	return Command{Verb: Set, Path: path, Value: value}, nil
}

func (p *LocalParser) matchVerb(word string, fuzzy bool) (Verb, bool) {
	for _, v := range verbOrder {
		for _, keyword := range p.VerbKeywords[v] {
			if p.matches(word, keyword, fuzzy) {
				return v, true
			}
		}
	}
	return "", false
}

func (p *LocalParser) matchKind(words []string, fuzzy bool) (action.Kind, bool) {
	for _, w := range words {
		for _, k := range action.Kinds() {
			for _, keyword := range p.KindKeywords[k] {
				if p.matches(w, keyword, fuzzy) {
					return k, true
				}
			}
		}
	}
	return "", false
}

func (p *LocalParser) matches(word, keyword string, fuzzy bool) bool {
	if !fuzzy {
		return word == keyword
	}
	if utf8.RuneCountInString(word) < p.MinFuzzyRunes || utf8.RuneCountInString(keyword) < p.MinFuzzyRunes {
		return false
	}
	return levenshtein.ComputeDistance(word, keyword) <= 1
}

func cleanWord(s string) string {
	s = strings.ToLower(s)
	if s == "?" {
		return s
	}
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// FallbackParser returns the first successful parse among its parsers.
type FallbackParser struct {
	parsers []Parser
}

func NewFallbackParser(parsers ...Parser) *FallbackParser {
	return &FallbackParser{parsers: parsers}
}

func (p *FallbackParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	lastErr := ErrNoMatch
	for _, parser := range p.parsers {
		cmd, err := parser.ParseCommand(ctx, input)
		if err == nil {
			return cmd, nil
		}
		lastErr = err
	}
	return Command{Verb: None}, lastErr
}
