package guardrail

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aria-team/dialogd/internal/ner"
	"github.com/aria-team/dialogd/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRecognizer struct {
	entities []ner.Entity
	err      error
}

func (f *fakeRecognizer) Entities(_ context.Context, _ string) ([]ner.Entity, error) {
	return f.entities, f.err
}

func mealState(t *testing.T) *session.State {
	t.Helper()
	st := session.New(discardLogger())
	st.Reset()
	return st
}

const safeRecipe = "Here you go!\nIngredients: rice, lentils, cumin\nPreparation Steps: simmer the lentils with cumin, then serve over rice.\nGrocery List: rice, lentils, cumin\n"

func TestMeal_SkippedWithoutRecipeRequest(t *testing.T) {
	st := mealState(t)
	st.Restrictions.Add("peanuts")

	response := "Ingredients: peanuts, rice\nPreparation: no cooking at all\n"
	v := NewMealPolicy(discardLogger()).Apply(st, response)

	if v.Action != Pass || v.Text != response {
		t.Errorf("expected pass-through without recipe request, got %+v", v)
	}
}

func TestMeal_ClarificationWhenNoFacts(t *testing.T) {
	st := mealState(t)
	st.RecipeRequested = true

	v := NewMealPolicy(discardLogger()).Apply(st, safeRecipe)

	if v.Action != Rewrite {
		t.Fatal("expected rewrite when no dietary facts exist")
	}
	if !strings.Contains(v.Text, "dietary preferences or any restrictions") {
		t.Errorf("expected clarification request, got %q", v.Text)
	}
}

func TestMeal_AllergenViolation(t *testing.T) {
	st := mealState(t)
	st.Restrictions.Add("peanuts")
	st.RecipeRequested = true

	response := "Ingredients: peanuts, rice\nPreparation Steps: cook the rice and stir in peanuts.\nGrocery List: peanuts, rice\n"
	v := NewMealPolicy(discardLogger()).Apply(st, response)

	if v.Action != Rewrite {
		t.Fatal("expected refusal for allergen in ingredients")
	}
	if !strings.Contains(v.Text, "peanuts allergy") {
		t.Errorf("expected refusal to mention peanuts allergy, got %q", v.Text)
	}
	if v.Text == response {
		t.Error("original text must not be returned")
	}
}

func TestMeal_VegetarianMeatViolation(t *testing.T) {
	st := mealState(t)
	st.Restrictions.Add("vegetarian")
	st.RecipeRequested = true

	response := "Ingredients: chicken, rice\nPreparation Steps: grill the chicken.\nGrocery List: chicken, rice\n"
	v := NewMealPolicy(discardLogger()).Apply(st, response)

	if v.Action != Rewrite || !strings.Contains(v.Text, "vegetarian restriction (meat)") {
		t.Errorf("expected vegetarian meat refusal, got %+v", v)
	}
}

func TestMeal_PreparationViolations(t *testing.T) {
	st := mealState(t)
	st.Restrictions.Add("gluten")
	st.RecipeRequested = true

	tests := []struct {
		name     string
		response string
		rule     string
	}{
		{
			"overly spicy",
			"Ingredients: rice\nPreparation: cook it overly spicy for kick.\nGrocery List: rice\n",
			"preparation too spicy",
		},
		{
			"too many people",
			"Ingredients: rice\nPreparation: cook well. suggest a recipe for 12 people today.\nGrocery List: rice\n",
			"suggested recipe for too many people (wasteful)",
		},
		{
			"non-food in preparation",
			"Ingredients: rice\nPreparation: cook with non-food items for garnish.\nGrocery List: rice\n",
			"non-food items suggested (unsafe)",
		},
		{
			"missing cooking instructions",
			"Ingredients: rice\nPreparation: arrange nicely on a plate.\nGrocery List: rice\n",
			"missing cooking instructions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewMealPolicy(discardLogger()).Apply(st, tt.response)
			if v.Action != Rewrite {
				t.Fatalf("expected rewrite, got pass: %q", v.Text)
			}
			if !strings.Contains(v.Text, tt.rule) {
				t.Errorf("expected rule %q in refusal, got %q", tt.rule, v.Text)
			}
		})
	}
}

func TestMeal_GroceryViolations(t *testing.T) {
	st := mealState(t)
	st.Preferences.Add("italian")
	st.RecipeRequested = true

	response := "Ingredients: rice\nPreparation: boil the rice.\nGrocery List: expensive saffron, truffles hard to find\n"
	v := NewMealPolicy(discardLogger()).Apply(st, response)

	if v.Action != Rewrite {
		t.Fatal("expected rewrite for grocery violations")
	}
	for _, rule := range []string{"grocery list too expensive", "grocery list items too complex/difficult to find"} {
		if !strings.Contains(v.Text, rule) {
			t.Errorf("expected rule %q, got %q", rule, v.Text)
		}
	}
}

func TestMeal_DangerousIngredient(t *testing.T) {
	st := mealState(t)
	st.Preferences.Add("american")
	st.RecipeRequested = true

	response := "Ingredients: flour, raw eggs\nPreparation: bake at 180C.\nGrocery List: flour\n"
	v := NewMealPolicy(discardLogger()).Apply(st, response)

	if v.Action != Rewrite || !strings.Contains(v.Text, "dangerous ingredient detected: raw eggs") {
		t.Errorf("expected dangerous ingredient refusal, got %+v", v)
	}
}

func TestMeal_NonFoodSecondCheck(t *testing.T) {
	st := mealState(t)
	st.Preferences.Add("italian")
	st.RecipeRequested = true

	// Sections are clean; "plastic" appears in the surrounding text only.
	response := "Ingredients: rice, basil\nPreparation Steps: simmer gently.\nGrocery List: rice, basil\nServe in plastic cups for the picnic.\n"
	v := NewMealPolicy(discardLogger()).Apply(st, response)

	if v.Action != Rewrite {
		t.Fatal("expected rewrite from the non-food scan")
	}
	if !strings.Contains(v.Text, "non-food items") {
		t.Errorf("expected non-food apology, got %q", v.Text)
	}
}

func TestMeal_CleanRecipePasses(t *testing.T) {
	st := mealState(t)
	st.Restrictions.Add("peanuts")
	st.RecipeRequested = true

	v := NewMealPolicy(discardLogger()).Apply(st, safeRecipe)

	if v.Action != Pass || v.Text != safeRecipe {
		t.Errorf("expected clean recipe to pass untouched, got %+v", v)
	}
}

func TestExtractGroceries(t *testing.T) {
	items := ExtractGroceries("Ingredients: rice\nGrocery List: Rice, Brown Lentils , cumin\nEnjoy!\n")
	want := []string{"rice", "brown lentils", "cumin"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %v", len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d: expected %q, got %q", i, want[i], items[i])
		}
	}
}
