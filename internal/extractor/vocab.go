package extractor

import (
	"regexp"

	"github.com/aria-team/dialogd/internal/session"
)

// Closed vocabularies for the natural-language scan. These lists are part of
// the observable behavior: whole-word, case-insensitive matches append to the
// fact bag, duplicates skipped. Do not reorder or "clean up" without treating
// it as a behavior change.
var knownCuisines = []string{
	"european", "arabian", "indian", "american", "italian", "chinese", "mexican", "japanese", "thai",
}

var knownRestrictions = []string{
	"vegetarian", "vegan", "omnivore", "pescatarian", "keto",
	"dairy", "sodium", "gluten", "sugar",
	"kosher", "halal",
	"shellfish", "eggs", "tree nuts", "peanuts", "soy", "sesame",
}

var knownMedications = []string{
	"statins", "insulin", "metformin", "lisinopril", "amoxicillin",
}

var wordPatterns = buildWordPatterns()

func buildWordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, list := range [][]string{knownCuisines, knownRestrictions, knownMedications} {
		for _, term := range list {
			patterns[term] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		}
	}
	return patterns
}

// scanVocabulary appends whole-word vocabulary matches to the fact bag.
// Cuisines land in preferences; restriction terms and medications both land
// in restrictions, mirroring how the prompt consumes them.
func scanVocabulary(st *session.State, text string) {
	for _, cuisine := range knownCuisines {
		if wordPatterns[cuisine].MatchString(text) {
			st.Preferences.Add(cuisine)
		}
	}
	for _, restriction := range knownRestrictions {
		if wordPatterns[restriction].MatchString(text) {
			st.Restrictions.Add(restriction)
		}
	}
	for _, medication := range knownMedications {
		if wordPatterns[medication].MatchString(text) {
			st.Restrictions.Add(medication)
		}
	}
}
