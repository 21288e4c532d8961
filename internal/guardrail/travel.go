package guardrail

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aria-team/dialogd/internal/advisory"
	"github.com/aria-team/dialogd/internal/ner"
	"github.com/aria-team/dialogd/internal/session"
)

const travelRefusal = "I'm sorry, but I can't share that — part of my draft answer contained travel information I know to be inaccurate. I only provide routes, distances, and destination facts I can verify. Could you rephrase your question or ask about a specific route?"

// Origin spellings that count as the United States for advisory purposes.
var usOrigins = []string{"united states", "united states of america", "usa", "us", "u.s.", "u.s.a.", "america"}

// TravelPolicy rejects responses carrying known-false travel claims and
// appends official advisories for US-origin trips.
type TravelPolicy struct {
	recognizer ner.Recognizer
	logger     *slog.Logger
}

func NewTravelPolicy(recognizer ner.Recognizer, logger *slog.Logger) *TravelPolicy {
	return &TravelPolicy{recognizer: recognizer, logger: logger}
}

// Apply scans the generated response against the false-claim table. Any hit
// replaces the entire response — no partial redaction. Clean responses may
// gain a trailing advisory block.
func (p *TravelPolicy) Apply(ctx context.Context, st *session.State, response string) Verdict {
	lower := strings.ToLower(response)
	for _, claim := range falseTravelClaims {
		if strings.Contains(lower, claim) {
			p.logger.Info("travel guardrail false claim", "connection", st.ConnectionID, "claim", claim)
			return rewrite(travelRefusal, "false claim: "+claim)
		}
	}

	if block := p.advisoryBlock(ctx, st, response); block != "" {
		return pass(response + block)
	}
	return pass(response)
}

// advisoryBlock returns the advisory text to append, or "". It applies only
// when the recorded origin is the United States and a destination can be
// resolved — from the session, or best-effort from the trailing geopolitical
// entity of the generated response. The inference path is not fact-checked;
// a failed lookup appends nothing.
func (p *TravelPolicy) advisoryBlock(ctx context.Context, st *session.State, response string) string {
	if !isUSOrigin(st.Origin) {
		return ""
	}

	destination := st.Destination
	if destination == "" || isUSOrigin(destination) {
		destination = p.inferDestination(ctx, response)
	}
	if destination == "" {
		return ""
	}

	record, ok := advisory.Lookup(destination)
	if !ok {
		return ""
	}
	p.logger.Info("appending travel advisory", "connection", st.ConnectionID, "country", record.Country, "level", int(record.Level))
	return record.Block()
}

func (p *TravelPolicy) inferDestination(ctx context.Context, response string) string {
	entities, err := p.recognizer.Entities(ctx, response)
	if err != nil {
		p.logger.Warn("destination inference failed", "error", err)
		return ""
	}
	places := ner.FilterLabels(entities, ner.LabelGPE)
	if len(places) == 0 {
		return ""
	}
	return places[len(places)-1].Text
}

func isUSOrigin(origin string) bool {
	norm := strings.ToLower(strings.TrimSpace(origin))
	for _, spelling := range usOrigins {
		if norm == spelling {
			return true
		}
	}
	return false
}
