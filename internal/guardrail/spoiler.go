package guardrail

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aria-team/dialogd/internal/ner"
	"github.com/aria-team/dialogd/internal/session"
)

const spoilerRefusal = "I'd love to talk about the show, but that answer would have given away a plot development. I keep things spoiler-free: I can discuss the premise, the cast, the setting, or anything shown in trailers. What would you like to know?"

// Sensitive phrases that trigger an unconditional refusal wherever they
// appear in the response.
var sensitivePhrases = []string{
	"secret identity",
	"big reveal",
	"plot twist",
	"the killer is",
	"turns out to be",
	"shocking death",
	"post-credits scene",
	"true villain",
}

// Spoiler keywords are only dangerous next to a recognized named entity —
// "the finale airs Sunday" is fine, "Tony dies in the finale" is not.
var spoilerKeywords = []string{
	"dies", "died", "dead", "killed", "kills", "murdered",
	"twist", "finale", "ending", "ends",
	"betrays", "betrayed", "reveal", "revealed",
	"survives", "survived", "resurrected",
}

// SpoilerPolicy is the two-stage spoiler check.
type SpoilerPolicy struct {
	recognizer ner.Recognizer
	logger     *slog.Logger
}

func NewSpoilerPolicy(recognizer ner.Recognizer, logger *slog.Logger) *SpoilerPolicy {
	return &SpoilerPolicy{recognizer: recognizer, logger: logger}
}

// Apply refuses on any sensitive phrase, then on the co-occurrence of a
// spoiler keyword with at least one recognized person/organization/location
// entity. Keyword alone passes; entity alone passes.
func (p *SpoilerPolicy) Apply(ctx context.Context, st *session.State, response string) Verdict {
	lower := strings.ToLower(response)
	for _, phrase := range sensitivePhrases {
		if strings.Contains(lower, phrase) {
			p.logger.Info("spoiler guardrail sensitive phrase", "connection", st.ConnectionID, "phrase", phrase)
			return rewrite(spoilerRefusal, "sensitive phrase: "+phrase)
		}
	}

	keyword := firstSpoilerKeyword(response)
	if keyword == "" {
		return pass(response)
	}

	entities, err := p.recognizer.Entities(ctx, response)
	if err != nil {
		// Best effort: without entities the co-occurrence heuristic cannot
		// fire, and a keyword alone is not sufficient.
		p.logger.Warn("spoiler entity recognition failed", "error", err)
		return pass(response)
	}
	named := ner.FilterLabels(entities, ner.LabelPerson, ner.LabelOrg, ner.LabelLoc)
	if len(named) == 0 {
		return pass(response)
	}

	p.logger.Info("spoiler guardrail keyword with named entity",
		"connection", st.ConnectionID, "keyword", keyword, "entity", named[0].Text)
	return rewrite(spoilerRefusal, "spoiler keyword: "+keyword)
}

// firstSpoilerKeyword does a token-level scan: tokens are maximal letter
// runs, compared case-insensitively.
func firstSpoilerKeyword(response string) string {
	tokens := strings.FieldsFunc(strings.ToLower(response), func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
	for _, token := range tokens {
		for _, keyword := range spoilerKeywords {
			if token == keyword {
				return keyword
			}
		}
	}
	return ""
}
