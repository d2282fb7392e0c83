package provider

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/types"
)

// Task describes how one action kind is asked of a generative model.
// SystemPromptTemplate may contain a single "%s" placeholder for the language.
type Task struct {
	Kind                 action.Kind
	ToolName             string
	ToolDescription      string
	SystemPromptTemplate string
}

const defaultLang = "English"

const codingSystemPromptTemplate = `You are a certified medical coder assisting a physician.
Review the clinical data and suggest the most specific ICD-10-CM codes supported by the documentation.
- List each code followed by its short title, most relevant first.
- Explain briefly how the documented findings support the codes.
- Never invent findings that are not documented; fields marked "None" or "Not specified" were left empty.
Write in %s.`

const advisorySystemPromptTemplate = `You are a senior physician giving a colleague a short clinical advisory.
Based on the clinical data, point out red flags, differential diagnoses worth excluding and any interaction concerns with current medications.
Keep it concise and practical. Fields marked "None" or "Not specified" were left empty.
Write in %s.`

const suggestionsSystemPromptTemplate = `You are a clinical decision support assistant.
Suggest treatment plan items for the documented presentation, cite the guidelines or evidence that support them and summarise risks and benefits.
Each suggestion must be a single actionable item. Fields marked "None" or "Not specified" were left empty.
Write in %s.`

const ehrSystemPromptTemplate = `You are a medical scribe drafting an electronic health record entry.
Write a SOAP note from the clinical data: subjective history, objective findings including vitals, assessment and plan.
Only use documented information. Fields marked "None" or "Not specified" were left empty.
Write in %s.`

var defaultTasks = map[action.Kind]Task{
	action.KindCoding: {
		Kind:                 action.KindCoding,
		ToolName:             "suggest_icd_codes",
		ToolDescription:      "Return ICD-10 code suggestions and the coding rationale for the encounter.",
		SystemPromptTemplate: codingSystemPromptTemplate,
	},
	action.KindAdvisory: {
		Kind:                 action.KindAdvisory,
		ToolName:             "clinical_advisory",
		ToolDescription:      "Return a concise clinical advisory for the physician.",
		SystemPromptTemplate: advisorySystemPromptTemplate,
	},
	action.KindSuggestions: {
		Kind:                 action.KindSuggestions,
		ToolName:             "suggest_treatment_plan",
		ToolDescription:      "Return treatment plan suggestions with supporting evidence and risks and benefits.",
		SystemPromptTemplate: suggestionsSystemPromptTemplate,
	},
	action.KindEHR: {
		Kind:                 action.KindEHR,
		ToolName:             "draft_ehr_note",
		ToolDescription:      "Return a SOAP-structured draft EHR note.",
		SystemPromptTemplate: ehrSystemPromptTemplate,
	},
}

// DefaultTask returns the built-in task for a generative action kind.
func DefaultTask(kind action.Kind) (Task, bool) {
	t, ok := defaultTasks[kind]
	return t, ok
}

type options struct {
	lang          string
	systemPrompts map[action.Kind]string
}

type Option func(*options)

// WithLang sets the language used by the default system prompt templates.
func WithLang(lang string) Option {
	return func(o *options) {
		o.lang = lang
	}
}

// WithSystemPrompt replaces the system prompt for one action kind.
func WithSystemPrompt(kind action.Kind, prompt string) Option {
	return func(o *options) {
		if o.systemPrompts == nil {
			o.systemPrompts = map[action.Kind]string{}
		}
		o.systemPrompts[kind] = prompt
	}
}

func newOptions(opts ...Option) options {
	o := options{lang: defaultLang}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.lang == "" {
		o.lang = defaultLang
	}
	return o
}

func (o options) systemPrompt(task Task) string {
	if p := o.systemPrompts[task.Kind]; p != "" {
		return p
	}
	tpl := task.SystemPromptTemplate
	if strings.Contains(tpl, "%s") {
		return fmt.Sprintf(tpl, o.lang)
	}
	return tpl
}

// renderPrompt returns the system and user messages for one payload.
func renderPrompt(task Task, o options, payload action.Request) (string, string, error) {
	payloadJSON, err := sonic.MarshalString(payload)
	if err != nil {
		return "", "", fmt.Errorf("marshal payload: %w", err)
	}
	user := types.FormatPrompt(types.PromptInput{
		Action:      payload.Kind().DisplayName(),
		Fields:      payload.Fields(),
		PayloadJSON: payloadJSON,
	})
	return o.systemPrompt(task), user, nil
}
