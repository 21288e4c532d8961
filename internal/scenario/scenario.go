// Package scenario holds the three assistant implementations and the router
// that dispatches to exactly one of them. Each scenario owns its session
// state and runs the same turn pipeline: extract facts, build prompt, call
// the generator, apply guardrails, fold the outcome into the transcript.
package scenario

import (
	"context"
	"errors"
)

// Version reported by every scenario and by the router.
const Version = "1.0"

var (
	// ErrMissingCredentials means OpenConnection was called without the
	// required keys. Nothing is created or mutated.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrUnknownScenario means the router cannot map the requested name.
	ErrUnknownScenario = errors.New("unknown scenario")
	// ErrNoActiveScenario means a lifecycle call arrived with no scenario open.
	ErrNoActiveScenario = errors.New("no active scenario")
)

// Credentials carries everything a scenario needs to reach its
// collaborators. Recognized keys per the caller contract: API key, endpoint
// base URL, scenario selector name, plus collaborator base URLs.
type Credentials struct {
	APIKey     string `json:"api_key"`
	Endpoint   string `json:"endpoint"`
	Scenario   string `json:"scenario"`
	GeocodeURL string `json:"geocode_url,omitempty"`
	RouteURL   string `json:"route_url,omitempty"`
	NERURL     string `json:"ner_url,omitempty"`
}

// Result is one turn's caller-visible outcome. A guardrail substitution is
// still Success=true; only transport/parse failures (and "Sorry" responses
// in the meal scenario) report false.
type Result struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// Scenario is the per-assistant lifecycle contract the router forwards to.
type Scenario interface {
	OpenConnection(creds Credentials) error
	CloseConnection() error
	Version() string
	StartSession() error
	Respond(ctx context.Context, text string) Result
}
