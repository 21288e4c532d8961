// Package prompt assembles the single text payload sent to the generation
// endpoint: scenario preamble, accumulated facts, transcript, trailing cue.
// String assembly only — no business logic lives here.
package prompt

import (
	"fmt"
	"strings"

	"github.com/aria-team/dialogd/internal/geo"
	"github.com/aria-team/dialogd/internal/session"
)

// BuildMeal renders the meal-planning prompt. Fact lines are always present,
// even when empty, so the generator sees the full schema every turn.
func BuildMeal(st *session.State) string {
	var b strings.Builder
	b.WriteString(MealPreamble)
	b.WriteString("\n")

	members := st.Members()
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	fmt.Fprintf(&b, "Members for Meal: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Consider the user's taste preferences: Likes - %s Dislikes - %s.\n",
		strings.Join(st.Likes, ", "), strings.Join(st.Dislikes, ", "))
	fmt.Fprintf(&b, "User Preferences: %s\n", st.Preferences.Join(", "))
	fmt.Fprintf(&b, "Dietary Restrictions: %s\n", st.Restrictions.Join(", "))

	for _, m := range members {
		fmt.Fprintf(&b, "- Name: %s, Age: %d, Weight: %d kg, Calorie Requirement: %d kcal/day, Medications: %s, Illnesses: %s, Treatments: %s\n",
			m.Name, m.Age, m.Weight, m.Calories,
			orNone(m.Medications), orNone(m.Illnesses), orNone(m.Treatments))
	}

	writeTranscriptAndCue(&b, st)
	return b.String()
}

// BuildTravel renders the travel prompt. Route may be nil when geocoding or
// routing failed; the prompt then simply carries no route facts.
func BuildTravel(st *session.State, route *geo.Route) string {
	var b strings.Builder
	b.WriteString(TravelPreamble)
	b.WriteString("\n")

	if st.Origin != "" {
		fmt.Fprintf(&b, "Current Location: %s\n", st.Origin)
	}
	if st.Destination != "" {
		fmt.Fprintf(&b, "Destination: %s\n", st.Destination)
	}
	if route != nil {
		fmt.Fprintf(&b, "Computed route: %.1f km, approximately %.0f minutes by road.\n", route.DistanceKM, route.DurationMin)
	}

	writeTranscriptAndCue(&b, st)
	return b.String()
}

// BuildSpoiler renders the spoiler-avoidance prompt: preamble, transcript, cue.
func BuildSpoiler(st *session.State) string {
	var b strings.Builder
	b.WriteString(SpoilerPreamble)
	b.WriteString("\n")
	writeTranscriptAndCue(&b, st)
	return b.String()
}

func writeTranscriptAndCue(b *strings.Builder, st *session.State) {
	b.WriteString("\n")
	for _, turn := range st.Transcript {
		role := turn.Role
		if len(role) > 0 {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		fmt.Fprintf(b, "%s: %s\n", role, turn.Content)
	}
	b.WriteString("Assistant:")
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
