// Package extractor pulls structured facts out of raw user utterances and
// merges them into session state. Extraction is deterministic: an ordered
// directive table runs first, then the recipe-intent check, then the
// closed-vocabulary scan. The ordering matters — the intent check sees facts
// added by directives in the same utterance but not vocabulary matches.
package extractor

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/aria-team/dialogd/internal/ner"
	"github.com/aria-team/dialogd/internal/session"
)

type directive struct {
	pattern *regexp.Regexp
	apply   func(st *session.State, match []string)
}

// The directive table. Order is load-bearing: member registration must run
// after the plain add-directives so a malformed member line can still
// contribute restriction/preference facts on a later turn.
var directives = []directive{
	{
		pattern: regexp.MustCompile(`(?i)add dietary restriction:\s*(.+)`),
		apply: func(st *session.State, match []string) {
			st.Restrictions.Add(match[1])
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)add preference:\s*(.+)`),
		apply: func(st *session.State, match []string) {
			st.Preferences.Add(match[1])
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)add taste preference:\s*(.+)`),
		apply: func(st *session.State, match []string) {
			likes, dislikes := parseTaste(match[1])
			st.SetTaste(likes, dislikes)
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)add member:\s*name=(\w+),\s*age=(\d+),\s*weight=(\d+),\s*calories=(\d+),\s*medications=([\w\s,]+),\s*illnesses=([\w\s,]+),\s*treatments=([\w\s,]+)`),
		apply: func(st *session.State, match []string) {
			age, _ := strconv.Atoi(match[2])
			weight, _ := strconv.Atoi(match[3])
			calories, _ := strconv.Atoi(match[4])
			st.UpsertMember(session.Member{
				Name:        strings.TrimSpace(match[1]),
				Age:         age,
				Weight:      weight,
				Calories:    calories,
				Medications: splitList(match[5]),
				Illnesses:   splitList(match[6]),
				Treatments:  splitList(match[7]),
			})
		},
	},
}

var recipeIntentPattern = regexp.MustCompile(`(?i)\b(I want to cook|give me a recipe|provide a recipe|recipe for|curry|stew|roast|biryani)\b`)

var likesPattern = regexp.MustCompile(`(?i)likes\s+([^;]+)`)
var dislikesPattern = regexp.MustCompile(`(?i)dislikes\s+([^;]+)`)

// UpdateMealFacts applies one utterance to the meal-planning fact bag.
func UpdateMealFacts(st *session.State, text string) {
	for _, d := range directives {
		if match := d.pattern.FindStringSubmatch(text); match != nil {
			d.apply(st, match)
		}
	}

	// The intent flag is recomputed on every utterance: a recipe request
	// without at least one restriction or preference on record must not
	// trigger validation, and a non-matching utterance clears any earlier
	// flag. The clearing is intentional and matched by tests.
	if recipeIntentPattern.MatchString(text) {
		st.RecipeRequested = st.Restrictions.Len() > 0 || st.Preferences.Len() > 0
	} else {
		st.RecipeRequested = false
	}

	scanVocabulary(st, text)
}

func parseTaste(raw string) (likes, dislikes []string) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil, nil
	}
	if m := likesPattern.FindStringSubmatch(raw); m != nil {
		likes = splitList(m[1])
	}
	if m := dislikesPattern.FindStringSubmatch(raw); m != nil {
		dislikes = splitList(m[1])
	}
	return likes, dislikes
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// TravelExtractor fixes origin and destination from utterances via the
// entity-recognition collaborator.
type TravelExtractor struct {
	recognizer ner.Recognizer
	logger     *slog.Logger
}

func NewTravelExtractor(recognizer ner.Recognizer, logger *slog.Logger) *TravelExtractor {
	return &TravelExtractor{recognizer: recognizer, logger: logger}
}

// UpdateTravelFacts scans the utterance for geopolitical entities. The first
// location-bearing utterance in a session fixes origin and destination for
// good: later mentions never overwrite a set location. A single entity fills
// both slots when the destination is still open.
func (t *TravelExtractor) UpdateTravelFacts(ctx context.Context, st *session.State, text string) {
	if st.Origin != "" && st.Destination != "" {
		return
	}

	entities, err := t.recognizer.Entities(ctx, text)
	if err != nil {
		t.logger.Warn("entity recognition failed", "error", err)
		return
	}

	var places []string
	for _, e := range ner.FilterLabels(entities, ner.LabelGPE) {
		place := strings.ToLower(strings.TrimSpace(e.Text))
		if place == "" {
			continue
		}
		duplicate := false
		for _, seen := range places {
			if seen == place {
				duplicate = true
				break
			}
		}
		if !duplicate {
			places = append(places, place)
		}
	}
	if len(places) == 0 {
		return
	}

	if st.Origin == "" {
		st.Origin = places[0]
	}
	if st.Destination == "" {
		if len(places) > 1 {
			st.Destination = places[1]
		} else {
			st.Destination = places[0]
		}
	}
}
