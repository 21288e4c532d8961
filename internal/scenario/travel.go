package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aria-team/dialogd/internal/events"
	"github.com/aria-team/dialogd/internal/extractor"
	"github.com/aria-team/dialogd/internal/generation"
	"github.com/aria-team/dialogd/internal/geo"
	"github.com/aria-team/dialogd/internal/guardrail"
	"github.com/aria-team/dialogd/internal/ner"
	"github.com/aria-team/dialogd/internal/prompt"
	"github.com/aria-team/dialogd/internal/session"
)

const travelUnavailable = "Sorry, I'm unable to reach the travel services right now. Please try again in a moment."

// TravelRouter is the travel-routing assistant. Within one turn the three
// external calls run sequentially: geocode origin, geocode destination,
// compute route, then generate.
type TravelRouter struct {
	logger *slog.Logger
	pub    *events.Publisher

	generator  *generation.Client
	geocoder   *geo.Geocoder
	roadRouter *geo.Router
	extractor  *extractor.TravelExtractor
	policy     *guardrail.TravelPolicy
	state      *session.State
	opened     bool
}

func NewTravelRouter(logger *slog.Logger, pub *events.Publisher) *TravelRouter {
	return &TravelRouter{logger: logger, pub: pub}
}

func (t *TravelRouter) OpenConnection(creds Credentials) error {
	if t.opened {
		t.logger.Info("travel router connection already established, skipping re-initialization")
		return nil
	}
	if creds.APIKey == "" || creds.Endpoint == "" {
		return fmt.Errorf("%w: api key and endpoint required", ErrMissingCredentials)
	}

	recognizer := ner.NewClient(creds.NERURL)
	t.generator = generation.NewClient(creds.Endpoint, creds.APIKey)
	t.geocoder = geo.NewGeocoder(creds.GeocodeURL)
	t.roadRouter = geo.NewRouter(creds.RouteURL)
	t.extractor = extractor.NewTravelExtractor(recognizer, t.logger)
	t.policy = guardrail.NewTravelPolicy(recognizer, t.logger)
	t.state = session.New(t.logger)
	t.opened = true
	t.logger.Info("travel router connection opened")
	return nil
}

func (t *TravelRouter) CloseConnection() error {
	if t.state != nil {
		t.state.Clear()
	}
	t.generator = nil
	t.opened = false
	t.logger.Info("travel router connection closed and session data cleared")
	return nil
}

func (t *TravelRouter) Version() string { return Version }

func (t *TravelRouter) StartSession() error {
	if !t.opened {
		return ErrNoActiveScenario
	}
	t.state.Reset()
	return nil
}

// Respond runs one travel turn. Geocoding or routing failures only drop the
// route facts from the prompt; a generation transport failure fails the turn
// with a fixed apology — no fabricated travel content.
func (t *TravelRouter) Respond(ctx context.Context, text string) Result {
	if !t.opened {
		return Result{Success: false, Response: "No active connection. Please open a connection first."}
	}

	t.extractor.UpdateTravelFacts(ctx, t.state, text)
	t.state.AppendTurn("user", text)

	route := t.computeRoute(ctx)

	raw, err := t.generator.Generate(ctx, prompt.BuildTravel(t.state, route))
	if err != nil {
		t.logger.Warn("generation failed", "error", err)
		t.state.AppendTurn("assistant", travelUnavailable)
		t.publishTurn(false, false)
		return Result{Success: false, Response: travelUnavailable}
	}

	verdict := t.policy.Apply(ctx, t.state, raw)
	if verdict.Action == guardrail.Rewrite {
		t.pub.Publish(events.SubjectGuardrailViolation, events.ViolationEvent{
			ConnectionID: t.state.ConnectionID.String(),
			Scenario:     "travel_router",
			Rules:        verdict.Rules,
		})
	}

	t.state.AppendTurn("assistant", verdict.Text)
	t.publishTurn(true, verdict.Action == guardrail.Rewrite)
	return Result{Success: true, Response: verdict.Text}
}

// State exposes the live session state for inspection in tests and the API.
func (t *TravelRouter) State() *session.State { return t.state }

func (t *TravelRouter) computeRoute(ctx context.Context) *geo.Route {
	if t.state.Origin == "" || t.state.Destination == "" || t.state.Origin == t.state.Destination {
		return nil
	}

	from, err := t.geocoder.Lookup(ctx, t.state.Origin)
	if err != nil {
		t.logger.Warn("geocode origin failed", "place", t.state.Origin, "error", err)
		return nil
	}
	to, err := t.geocoder.Lookup(ctx, t.state.Destination)
	if err != nil {
		t.logger.Warn("geocode destination failed", "place", t.state.Destination, "error", err)
		return nil
	}
	route, err := t.roadRouter.Route(ctx, from, to)
	if err != nil {
		t.logger.Warn("routing failed", "error", err)
		return nil
	}
	return &route
}

func (t *TravelRouter) publishTurn(success, substituted bool) {
	t.pub.Publish(events.SubjectTurnCompleted, events.TurnEvent{
		ConnectionID: t.state.ConnectionID.String(),
		Scenario:     "travel_router",
		Success:      success,
		Substituted:  substituted,
	})
}
