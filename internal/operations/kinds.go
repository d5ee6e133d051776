package operations

import (
	"fmt"
	"strings"

	"github.com/startupstack/startupstack/internal/llm"
)

// Kind identifies one of the fixed AI-generation operation types.
type Kind string

const (
	KindBusinessNames   Kind = "generateBusinessNames"
	KindEmailTemplates  Kind = "generateEmailTemplates"
	KindLogo            Kind = "generateLogo"
	KindPitchDeck       Kind = "generatePitchDeck"
	KindMarketAnalysis  Kind = "analyzeMarket"
	KindContentCalendar Kind = "generateContentCalendar"
	KindLegalDocs       Kind = "generateLegalDocs"
	KindFinancials      Kind = "generateFinancials"
)

// Optional parameters recognized by every kind's prompt template.
const (
	paramKeywordsMore      = "keywordsMore"
	paramAdditionalContext = "additionalContext"
)

// kindSpec declares everything the dispatcher needs for one operation kind:
// its required parameters, the system role, the per-kind generation tuning,
// and the user-prompt builder.
type kindSpec struct {
	required []string
	system   string
	tuning   llm.GenParams
	prompt   func(p map[string]string) string
}

var kinds = map[Kind]kindSpec{
	KindBusinessNames: {
		required: []string{"industry", "keywords"},
		system:   "You are a creative business naming expert.",
		tuning:   llm.GenParams{Temperature: 0.9, MaxTokens: 300},
		prompt: func(p map[string]string) string {
			return joinClauses(
				fmt.Sprintf("Generate 5 creative and unique business names for a %s startup. Consider these keywords: %s.", p["industry"], p["keywords"]),
				optional("Additional keywords/concepts to consider: ", p[paramKeywordsMore]),
				optional("Additional context: ", p[paramAdditionalContext]),
				"Format the response as a numbered list.",
			)
		},
	},
	KindEmailTemplates: {
		required: []string{"purpose", "business", "sequence"},
		system:   "You are a professional email writing expert.",
		tuning:   llm.GenParams{Temperature: 0.5, MaxTokens: 600},
		prompt: func(p map[string]string) string {
			lead := fmt.Sprintf("Write a professional email template for %s.", p["purpose"])
			if p["purpose"] == "" {
				lead = fmt.Sprintf("Write a professional email %s for %s.", p["sequence"], p["business"])
			}
			return joinClauses(
				lead,
				optional("Additional specifications: ", p[paramKeywordsMore]),
				optional("Additional context: ", p[paramAdditionalContext]),
				"Include subject line and body.",
			)
		},
	},
	KindLogo: {
		required: []string{"style", "industry"},
		system:   "You are a logo design expert.",
		tuning:   llm.GenParams{Temperature: 0.7, MaxTokens: 500},
		prompt: func(p map[string]string) string {
			return joinClauses(
				fmt.Sprintf("Describe a professional logo design concept for a %s company with a %s style.", p["industry"], p["style"]),
				optional("Additional design elements to consider: ", p[paramKeywordsMore]),
				optional("Additional context: ", p[paramAdditionalContext]),
				"Include colors, shapes, and typography recommendations.",
			)
		},
	},
	KindPitchDeck: {
		required: []string{"type", "industry"},
		system:   "You are a pitch deck creation expert.",
		tuning:   llm.GenParams{Temperature: 0.6, MaxTokens: 800},
		prompt: func(p map[string]string) string {
			return joinClauses(
				fmt.Sprintf("Outline a compelling %s pitch deck structure for a %s startup.", p["type"], p["industry"]),
				optional("Additional specifications: ", p[paramKeywordsMore]),
				optional("Additional context: ", p[paramAdditionalContext]),
				"Include key sections and content recommendations.",
			)
		},
	},
	KindMarketAnalysis: {
		required: []string{"industry", "region"},
		system:   "You are a market analysis expert.",
		tuning:   llm.GenParams{Temperature: 0.3, MaxTokens: 700},
		prompt: func(p map[string]string) string {
			return joinClauses(
				fmt.Sprintf("Provide a brief market analysis for the %s industry in the %s region.", p["industry"], p["region"]),
				optional("Additional factors to consider: ", p[paramKeywordsMore]),
				optional("Additional context: ", p[paramAdditionalContext]),
				"Include key trends, opportunities, and challenges.",
			)
		},
	},
	KindContentCalendar: {
		required: []string{"business", "audience"},
		system:   "You are a content marketing expert.",
		tuning:   llm.GenParams{Temperature: 0.6, MaxTokens: 800},
		prompt: func(p map[string]string) string {
			return joinClauses(
				fmt.Sprintf("Create a 30-day content calendar for %s targeting %s.", p["business"], p["audience"]),
				optional("Additional content ideas: ", p[paramKeywordsMore]),
				optional("Additional context: ", p[paramAdditionalContext]),
				"Include content types, topics, and posting frequency.",
			)
		},
	},
	KindLegalDocs: {
		required: []string{"business", "docType"},
		system:   "You are a legal document expert.",
		tuning:   llm.GenParams{Temperature: 0.3, MaxTokens: 1000},
		prompt: func(p map[string]string) string {
			return joinClauses(
				fmt.Sprintf("Provide a template for a %s for %s.", p["docType"], p["business"]),
				optional("Additional clauses/sections to include: ", p[paramKeywordsMore]),
				optional("Additional context: ", p[paramAdditionalContext]),
				"Include key sections and standard language.",
			)
		},
	},
	KindFinancials: {
		required: []string{"business", "timeframe"},
		system:   "You are a financial forecasting expert.",
		tuning:   llm.GenParams{Temperature: 0.4, MaxTokens: 800},
		prompt: func(p map[string]string) string {
			return joinClauses(
				fmt.Sprintf("Create a financial projection for %s over the next %s.", p["business"], p["timeframe"]),
				optional("Additional financial factors to consider: ", p[paramKeywordsMore]),
				optional("Additional context: ", p[paramAdditionalContext]),
				"Include revenue streams, expenses, and growth assumptions.",
			)
		},
	},
}

// kindOrder fixes the listing order used in the unsupported-operation
// response.
var kindOrder = []Kind{
	KindBusinessNames,
	KindEmailTemplates,
	KindLogo,
	KindPitchDeck,
	KindMarketAnalysis,
	KindContentCalendar,
	KindLegalDocs,
	KindFinancials,
}

// Kinds returns all supported operation kinds in a fixed order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// KindNames returns the supported kind names as strings.
func KindNames() []string {
	names := make([]string, len(kindOrder))
	for i, k := range kindOrder {
		names[i] = string(k)
	}
	return names
}

// RequiredParams returns the required parameter names for a kind, or false
// when the kind is unknown.
func RequiredParams(k Kind) ([]string, bool) {
	spec, ok := kinds[k]
	if !ok {
		return nil, false
	}
	out := make([]string, len(spec.required))
	copy(out, spec.required)
	return out, true
}

// missingParams returns required parameters absent from params, in the
// declared order.
func (s kindSpec) missingParams(params map[string]string) []string {
	var missing []string
	for _, name := range s.required {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// buildPrompts returns the system/user prompt pair for one call.
func (s kindSpec) buildPrompts(params map[string]string) (systemPrompt, userPrompt string) {
	return s.system, s.prompt(params)
}

func optional(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

func joinClauses(clauses ...string) string {
	parts := clauses[:0:0]
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
