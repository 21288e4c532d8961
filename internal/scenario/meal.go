package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aria-team/dialogd/internal/events"
	"github.com/aria-team/dialogd/internal/extractor"
	"github.com/aria-team/dialogd/internal/generation"
	"github.com/aria-team/dialogd/internal/guardrail"
	"github.com/aria-team/dialogd/internal/prompt"
	"github.com/aria-team/dialogd/internal/session"
)

const mealTryAgain = "Sorry, I encountered an error processing your request. Please try again."

// MealPlanner is the recipe and meal-planning assistant.
type MealPlanner struct {
	logger *slog.Logger
	pub    *events.Publisher

	generator *generation.Client
	policy    *guardrail.MealPolicy
	state     *session.State
	opened    bool
}

func NewMealPlanner(logger *slog.Logger, pub *events.Publisher) *MealPlanner {
	return &MealPlanner{logger: logger, pub: pub}
}

// OpenConnection validates credentials and builds the generation client.
// Reopening an already-open connection is a no-op.
func (m *MealPlanner) OpenConnection(creds Credentials) error {
	if m.opened {
		m.logger.Info("meal planner connection already established, skipping re-initialization")
		return nil
	}
	if creds.APIKey == "" || creds.Endpoint == "" {
		return fmt.Errorf("%w: api key and endpoint required", ErrMissingCredentials)
	}

	m.generator = generation.NewClient(creds.Endpoint, creds.APIKey)
	m.policy = guardrail.NewMealPolicy(m.logger)
	m.state = session.New(m.logger)
	m.opened = true
	m.logger.Info("meal planner connection opened")
	return nil
}

// CloseConnection clears all session data and deauthenticates.
func (m *MealPlanner) CloseConnection() error {
	if m.state != nil {
		m.state.Clear()
	}
	m.generator = nil
	m.opened = false
	m.logger.Info("meal planner connection closed and session data cleared")
	return nil
}

func (m *MealPlanner) Version() string { return Version }

func (m *MealPlanner) StartSession() error {
	if !m.opened {
		return ErrNoActiveScenario
	}
	m.state.Reset()
	return nil
}

// Respond runs one meal-planning turn.
func (m *MealPlanner) Respond(ctx context.Context, text string) Result {
	if !m.opened {
		return Result{Success: false, Response: "No active connection. Please open a connection first."}
	}

	extractor.UpdateMealFacts(m.state, text)
	m.state.AppendTurn("user", text)

	raw, err := m.generator.Generate(ctx, prompt.BuildMeal(m.state))
	switch {
	case errors.Is(err, generation.ErrTransport):
		// Degrade to a locally generated placeholder rather than failing
		// the turn.
		m.logger.Warn("generation transport failure, using placeholder recipe", "error", err)
		fallback := "Sorry, I'm currently unable to fetch nutritional information. Here's a recipe based on your request:\n\n" + placeholderRecipe(text)
		m.state.AppendTurn("assistant", fallback)
		m.updateGroceryPlan(fallback)
		m.publishTurn(true, false)
		return Result{Success: true, Response: fallback}
	case err != nil:
		// Malformed responses and any other generation failure get the same
		// treatment: the turn fails and the apology lands in the transcript.
		m.logger.Warn("generation failed", "error", err)
		m.state.AppendTurn("assistant", mealTryAgain)
		m.publishTurn(false, false)
		return Result{Success: false, Response: mealTryAgain}
	}

	verdict := m.policy.Apply(m.state, raw)
	if verdict.Action == guardrail.Rewrite {
		m.pub.Publish(events.SubjectGuardrailViolation, events.ViolationEvent{
			ConnectionID: m.state.ConnectionID.String(),
			Scenario:     "meal_planner",
			Rules:        verdict.Rules,
		})
	}

	if strings.HasPrefix(verdict.Text, "Sorry") {
		m.publishTurn(false, verdict.Action == guardrail.Rewrite)
		return Result{Success: false, Response: verdict.Text}
	}

	// The substitute, not the rejected output, is what the transcript keeps
	// and what the grocery plan is scanned from.
	m.state.AppendTurn("assistant", verdict.Text)
	m.updateGroceryPlan(verdict.Text)
	m.publishTurn(true, verdict.Action == guardrail.Rewrite)
	return Result{Success: true, Response: verdict.Text}
}

// GroceryPlan exposes the accumulated grocery items for inspection.
func (m *MealPlanner) GroceryPlan() []string {
	if m.state == nil {
		return nil
	}
	return m.state.GroceryPlan.Values()
}

// State exposes the live session state for inspection in tests and the API.
func (m *MealPlanner) State() *session.State { return m.state }

func (m *MealPlanner) updateGroceryPlan(response string) {
	for _, item := range guardrail.ExtractGroceries(response) {
		m.state.GroceryPlan.Add(item)
	}
}

func (m *MealPlanner) publishTurn(success, substituted bool) {
	m.pub.Publish(events.SubjectTurnCompleted, events.TurnEvent{
		ConnectionID: m.state.ConnectionID.String(),
		Scenario:     "meal_planner",
		Success:      success,
		Substituted:  substituted,
	})
}

func placeholderRecipe(request string) string {
	return fmt.Sprintf("Here's a simple recipe based on your request for '%s':\n\n**Ingredients:**\n- 1 cup ingredient A\n- 2 tbsp ingredient B\n\n**Preparation Steps:**\n1. Step one.\n2. Step two.", request)
}
