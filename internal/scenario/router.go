package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aria-team/dialogd/internal/events"
)

const noActiveScenarioResponse = "No active scenario. Please open a connection first."

// Router dispatches lifecycle calls to at most one live scenario instance.
// It is caller-owned: construct one at process start and pass it around —
// there is no process-wide singleton. The active-instance slot is plain
// mutable state; the host must guarantee a single caller thread.
type Router struct {
	logger *slog.Logger
	pub    *events.Publisher

	active     Scenario
	activeName string
}

func NewRouter(logger *slog.Logger, pub *events.Publisher) *Router {
	return &Router{logger: logger, pub: pub}
}

// canonicalName maps the accepted selector spellings (including the legacy
// ones) onto the canonical scenario keys.
func canonicalName(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "meal_planner":
		return "meal_planner", true
	case "travel_router", "path_finders":
		return "travel_router", true
	case "spoiler_guard", "movie_spoilers":
		return "spoiler_guard", true
	default:
		return "", false
	}
}

func (r *Router) build(name string) Scenario {
	switch name {
	case "meal_planner":
		return NewMealPlanner(r.logger, r.pub)
	case "travel_router":
		return NewTravelRouter(r.logger, r.pub)
	default:
		return NewSpoilerGuard(r.logger, r.pub)
	}
}

// Open selects and lazily constructs the scenario named in the credentials.
// Opening the already-active scenario reuses the live instance; a different
// name destroys the old instance first. An unknown name fails without
// touching the active instance.
func (r *Router) Open(creds Credentials) error {
	if creds.Scenario == "" {
		return fmt.Errorf("%w: scenario selector missing", ErrMissingCredentials)
	}

	name, ok := canonicalName(creds.Scenario)
	if !ok {
		r.logger.Error("unknown scenario requested", "scenario", creds.Scenario)
		return fmt.Errorf("%w: %q", ErrUnknownScenario, creds.Scenario)
	}

	if r.active != nil && r.activeName == name {
		r.logger.Info("scenario already active, reusing connection", "scenario", name)
		return nil
	}

	if r.active != nil {
		if err := r.active.CloseConnection(); err != nil {
			r.logger.Warn("closing previous scenario failed", "scenario", r.activeName, "error", err)
		}
		r.active = nil
		r.activeName = ""
	}

	instance := r.build(name)
	if err := instance.OpenConnection(creds); err != nil {
		return fmt.Errorf("open scenario %s: %w", name, err)
	}

	r.active = instance
	r.activeName = name
	r.logger.Info("scenario connection opened", "scenario", name)
	return nil
}

// Close forwards to the active instance and clears the slot. Closing with no
// active scenario is a reported failure, not a no-op.
func (r *Router) Close() error {
	if r.active == nil {
		return ErrNoActiveScenario
	}
	err := r.active.CloseConnection()
	r.active = nil
	r.activeName = ""
	return err
}

func (r *Router) Version() string { return Version }

// ActiveScenario reports the canonical name of the live scenario, if any.
func (r *Router) ActiveScenario() (string, bool) {
	return r.activeName, r.active != nil
}

func (r *Router) StartSession() error {
	if r.active == nil {
		return ErrNoActiveScenario
	}
	return r.active.StartSession()
}

func (r *Router) Respond(ctx context.Context, text string) Result {
	if r.active == nil {
		return Result{Success: false, Response: noActiveScenarioResponse}
	}
	return r.active.Respond(ctx, text)
}
