package guardrail

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/aria-team/dialogd/internal/session"
)

// The 13 major allergens tracked at the restriction level. A restriction
// from this list that literally appears among listed ingredients is a
// violation.
var allergens = []string{
	"milk", "eggs", "fish", "crustacean shellfish",
	"tree nuts", "peanuts", "wheat", "soybeans",
	"sesame", "mustard", "sulfur dioxide", "lupin", "celery",
}

var meatWords = []string{"meat", "chicken", "beef", "mutton", "fish", "pork", "lamb"}

var dangerousIngredients = []string{"raw eggs", "uncooked meat", "undercooked chicken", "unpasteurized milk"}

var cookingVerbs = []string{"cook", "bake", "fry", "simmer", "boil", "grill"}

var nonFoodKeywords = []string{"plastic", "utensils", "containers", "non-food", "chemicals"}

// Each section is the text between its label and the first line break.
var (
	ingredientsPattern = regexp.MustCompile(`(?is)Ingredients?:\s*(.*?)\n`)
	preparationPattern = regexp.MustCompile(`(?is)Preparation(?: Steps)?:\s*(.*?)\n`)
	groceryPattern     = regexp.MustCompile(`(?is)Grocery List?:\s*(.*?)\n`)
	servingsPattern    = regexp.MustCompile(`suggest a recipe for (\d+) people`)
)

const mealClarification = "I'm here to help you with delicious recipes! However, to ensure I provide a recipe that's perfect for you, could you please share your dietary preferences or any restrictions you might have? This way, I can tailor the recipe to your needs safely."

const mealNonFoodApology = "Hmm, it seems like the recipe includes some non-food items. Let me fix that for you. Could you please provide more details or adjust your preferences?"

// MealPolicy validates recipe responses against the session's dietary facts.
type MealPolicy struct {
	logger *slog.Logger
}

func NewMealPolicy(logger *slog.Logger) *MealPolicy {
	return &MealPolicy{logger: logger}
}

// Apply checks the generated response. Validation only runs when the session
// has a live recipe request; everything else passes untouched.
func (p *MealPolicy) Apply(st *session.State, response string) Verdict {
	if !st.RecipeRequested {
		return pass(response)
	}

	if st.Restrictions.Len() == 0 && st.Preferences.Len() == 0 {
		p.logger.Info("recipe requested without any dietary facts, asking for clarification", "connection", st.ConnectionID)
		return rewrite(mealClarification, "missing dietary facts")
	}

	ingredients := extractItems(ingredientsPattern, response)
	preparation := extractText(preparationPattern, response)
	groceries := extractItems(groceryPattern, response)

	violations := checkViolations(st, ingredients, preparation, groceries)
	if len(violations) > 0 {
		p.logger.Info("meal guardrail violations", "connection", st.ConnectionID, "rules", violations)
		refusal := fmt.Sprintf("I cannot recommend if it violates or does not comply with the dietary restrictions and preferences. I also cannot recommend unless I am completely sure of all your restrictions and preferences. %s. Could you please adjust your preferences or provide more details?",
			strings.Join(violations, ", "))
		return rewrite(refusal, violations...)
	}

	// Independent second check over the whole response, with its own
	// substitution.
	if containsNonFoodItems(response) {
		p.logger.Info("meal guardrail non-food items", "connection", st.ConnectionID)
		return rewrite(mealNonFoodApology, "non-food items")
	}

	return pass(response)
}

func checkViolations(st *session.State, ingredients []string, preparation string, groceries []string) []string {
	var violations []string

	for _, restriction := range st.Restrictions.Values() {
		if isAllergen(restriction) && containsItem(ingredients, restriction) {
			violations = append(violations, restriction+" allergy")
		} else if restriction == "vegetarian" || restriction == "vegan" {
			for _, meat := range meatWords {
				if containsItem(ingredients, meat) {
					violations = append(violations, restriction+" restriction (meat)")
					break
				}
			}
		}
	}

	if strings.Contains(preparation, "overly spicy") {
		violations = append(violations, "preparation too spicy")
	}

	if m := servingsPattern.FindStringSubmatch(preparation); m != nil {
		if people, err := strconv.Atoi(m[1]); err == nil && people > 10 {
			violations = append(violations, "suggested recipe for too many people (wasteful)")
		}
	}

	if strings.Contains(preparation, "non-food items") {
		violations = append(violations, "non-food items suggested (unsafe)")
	}

	for _, item := range groceries {
		if strings.Contains(item, "expensive") {
			violations = append(violations, "grocery list too expensive")
		}
		if strings.Contains(item, "difficult to find") || strings.Contains(item, "hard to find") {
			violations = append(violations, "grocery list items too complex/difficult to find")
		}
	}

	for _, dangerous := range dangerousIngredients {
		if containsItem(ingredients, dangerous) {
			violations = append(violations, "dangerous ingredient detected: "+dangerous)
		}
	}

	hasCookingStep := false
	for _, verb := range cookingVerbs {
		if strings.Contains(preparation, verb) {
			hasCookingStep = true
			break
		}
	}
	if !hasCookingStep {
		violations = append(violations, "missing cooking instructions")
	}

	return violations
}

func containsNonFoodItems(response string) bool {
	lower := strings.ToLower(response)
	for _, keyword := range nonFoodKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func isAllergen(restriction string) bool {
	for _, a := range allergens {
		if a == restriction {
			return true
		}
	}
	return false
}

func containsItem(items []string, needle string) bool {
	for _, item := range items {
		if item == needle {
			return true
		}
	}
	return false
}

// extractItems pulls the labelled section and splits it into normalized
// lower-case items.
func extractItems(pattern *regexp.Regexp, response string) []string {
	m := pattern.FindStringSubmatch(response)
	if m == nil {
		return nil
	}
	var items []string
	for _, raw := range strings.Split(m[1], ",") {
		item := strings.ToLower(strings.TrimSpace(raw))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func extractText(pattern *regexp.Regexp, response string) string {
	m := pattern.FindStringSubmatch(response)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// ExtractGroceries exposes the grocery-list section parse; the meal scenario
// scans every stored assistant reply with it to grow the grocery plan.
func ExtractGroceries(response string) []string {
	return extractItems(groceryPattern, response)
}
