package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aria-team/dialogd/internal/events"
	"github.com/aria-team/dialogd/internal/generation"
	"github.com/aria-team/dialogd/internal/guardrail"
	"github.com/aria-team/dialogd/internal/ner"
	"github.com/aria-team/dialogd/internal/prompt"
	"github.com/aria-team/dialogd/internal/session"
)

const spoilerUnavailable = "Sorry, I'm unable to answer right now. Please try again in a moment."

// SpoilerGuard is the spoiler-free show-discussion assistant.
type SpoilerGuard struct {
	logger *slog.Logger
	pub    *events.Publisher

	generator *generation.Client
	policy    *guardrail.SpoilerPolicy
	state     *session.State
	opened    bool
}

func NewSpoilerGuard(logger *slog.Logger, pub *events.Publisher) *SpoilerGuard {
	return &SpoilerGuard{logger: logger, pub: pub}
}

func (s *SpoilerGuard) OpenConnection(creds Credentials) error {
	if s.opened {
		s.logger.Info("spoiler guard connection already established, skipping re-initialization")
		return nil
	}
	if creds.APIKey == "" || creds.Endpoint == "" {
		return fmt.Errorf("%w: api key and endpoint required", ErrMissingCredentials)
	}

	s.generator = generation.NewClient(creds.Endpoint, creds.APIKey)
	s.policy = guardrail.NewSpoilerPolicy(ner.NewClient(creds.NERURL), s.logger)
	s.state = session.New(s.logger)
	s.opened = true
	s.logger.Info("spoiler guard connection opened")
	return nil
}

func (s *SpoilerGuard) CloseConnection() error {
	if s.state != nil {
		s.state.Clear()
	}
	s.generator = nil
	s.opened = false
	s.logger.Info("spoiler guard connection closed and session data cleared")
	return nil
}

func (s *SpoilerGuard) Version() string { return Version }

func (s *SpoilerGuard) StartSession() error {
	if !s.opened {
		return ErrNoActiveScenario
	}
	s.state.Reset()
	return nil
}

// Respond runs one spoiler-safe turn. Transport failures surface a fixed
// apology; no content is fabricated.
func (s *SpoilerGuard) Respond(ctx context.Context, text string) Result {
	if !s.opened {
		return Result{Success: false, Response: "No active connection. Please open a connection first."}
	}

	s.state.AppendTurn("user", text)

	raw, err := s.generator.Generate(ctx, prompt.BuildSpoiler(s.state))
	if err != nil {
		s.logger.Warn("generation failed", "error", err)
		s.state.AppendTurn("assistant", spoilerUnavailable)
		s.publishTurn(false, false)
		return Result{Success: false, Response: spoilerUnavailable}
	}

	verdict := s.policy.Apply(ctx, s.state, raw)
	if verdict.Action == guardrail.Rewrite {
		s.pub.Publish(events.SubjectGuardrailViolation, events.ViolationEvent{
			ConnectionID: s.state.ConnectionID.String(),
			Scenario:     "spoiler_guard",
			Rules:        verdict.Rules,
		})
	}

	s.state.AppendTurn("assistant", verdict.Text)
	s.publishTurn(true, verdict.Action == guardrail.Rewrite)
	return Result{Success: true, Response: verdict.Text}
}

// State exposes the live session state for inspection in tests and the API.
func (s *SpoilerGuard) State() *session.State { return s.state }

func (s *SpoilerGuard) publishTurn(success, substituted bool) {
	s.pub.Publish(events.SubjectTurnCompleted, events.TurnEvent{
		ConnectionID: s.state.ConnectionID.String(),
		Scenario:     "spoiler_guard",
		Success:      success,
		Substituted:  substituted,
	})
}
