package session

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Turn is one entry in the conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Member is a meal-planning participant. Keyed by name, case-insensitive;
// a repeat registration with the same name replaces the record in place.
type Member struct {
	Name        string
	Age         int
	Weight      int
	Calories    int
	Medications []string
	Illnesses   []string
	Treatments  []string
}

// State is the per-connection fact bag plus transcript. It is owned by
// exactly one scenario instance and accessed from a single caller thread.
type State struct {
	ConnectionID uuid.UUID

	Restrictions *StringSet
	Preferences  *StringSet
	Likes        []string
	Dislikes     []string
	GroceryPlan  *StringSet

	RecipeRequested       bool
	AwaitingClarification bool
	Started               bool

	// Origin and Destination are empty until a location-bearing utterance
	// fixes them. Once set they survive for the rest of the session.
	Origin      string
	Destination string

	Transcript []Turn

	members     map[string]*Member
	memberOrder []string

	logger *slog.Logger
}

func New(logger *slog.Logger) *State {
	return &State{
		ConnectionID: uuid.New(),
		Restrictions: NewStringSet(),
		Preferences:  NewStringSet(),
		GroceryPlan:  NewStringSet(),
		members:      make(map[string]*Member),
		logger:       logger,
	}
}

// AppendTurn records one transcript entry. The transcript is append-only.
func (s *State) AppendTurn(role, content string) {
	s.Transcript = append(s.Transcript, Turn{Role: role, Content: content})
}

// Reset starts a session. A second call on an already-started session is a
// no-op that only logs: accumulated facts and transcript are preserved.
func (s *State) Reset() {
	if s.Started {
		s.logger.Info("session already started, not resetting", "connection", s.ConnectionID)
		return
	}
	s.clearFacts()
	s.Started = true
	s.logger.Info("session started", "connection", s.ConnectionID)
}

// Clear wipes all facts and the transcript and marks the session not started.
// Used on connection close.
func (s *State) Clear() {
	s.clearFacts()
	s.Started = false
}

func (s *State) clearFacts() {
	s.Restrictions.Clear()
	s.Preferences.Clear()
	s.GroceryPlan.Clear()
	s.Likes = nil
	s.Dislikes = nil
	s.RecipeRequested = false
	s.AwaitingClarification = false
	s.Origin = ""
	s.Destination = ""
	s.Transcript = nil
	s.members = make(map[string]*Member)
	s.memberOrder = nil
}

// SetTaste replaces the like/dislike lists wholesale. A taste directive
// overwrites rather than merges.
func (s *State) SetTaste(likes, dislikes []string) {
	s.Likes = likes
	s.Dislikes = dislikes
}

// UpsertMember adds the member or, if a member with the same name exists
// (case-insensitive), replaces that record in place.
func (s *State) UpsertMember(m Member) {
	key := strings.ToLower(strings.TrimSpace(m.Name))
	if key == "" {
		return
	}
	if _, ok := s.members[key]; !ok {
		s.memberOrder = append(s.memberOrder, key)
	}
	copied := m
	s.members[key] = &copied
}

// Members returns member records in first-mention order.
func (s *State) Members() []Member {
	out := make([]Member, 0, len(s.memberOrder))
	for _, key := range s.memberOrder {
		out = append(out, *s.members[key])
	}
	return out
}

// Snapshot returns a deep copy of the current state for inspection. Mutating
// the snapshot does not affect the live session.
func (s *State) Snapshot() State {
	snap := State{
		ConnectionID:          s.ConnectionID,
		Restrictions:          s.Restrictions.clone(),
		Preferences:           s.Preferences.clone(),
		GroceryPlan:           s.GroceryPlan.clone(),
		Likes:                 append([]string(nil), s.Likes...),
		Dislikes:              append([]string(nil), s.Dislikes...),
		RecipeRequested:       s.RecipeRequested,
		AwaitingClarification: s.AwaitingClarification,
		Started:               s.Started,
		Origin:                s.Origin,
		Destination:           s.Destination,
		Transcript:            append([]Turn(nil), s.Transcript...),
		members:               make(map[string]*Member, len(s.members)),
		memberOrder:           append([]string(nil), s.memberOrder...),
		logger:                s.logger,
	}
	for key, m := range s.members {
		copied := *m
		snap.members[key] = &copied
	}
	return snap
}
