package guardrail

import (
	"context"
	"errors"
	"testing"

	"github.com/aria-team/dialogd/internal/ner"
	"github.com/aria-team/dialogd/internal/session"
)

func spoilerState(t *testing.T) *session.State {
	t.Helper()
	st := session.New(discardLogger())
	st.Reset()
	return st
}

func TestSpoiler_SensitivePhraseAlwaysRefuses(t *testing.T) {
	st := spoilerState(t)
	p := NewSpoilerPolicy(&fakeRecognizer{}, discardLogger())

	v := p.Apply(context.Background(), st, "Her secret identity is central to season two.")

	if v.Action != Rewrite || v.Text != spoilerRefusal {
		t.Errorf("expected fixed spoiler refusal, got %+v", v)
	}
}

func TestSpoiler_KeywordWithPersonEntityRefuses(t *testing.T) {
	st := spoilerState(t)
	p := NewSpoilerPolicy(&fakeRecognizer{entities: []ner.Entity{
		{Text: "Tony Stark", Label: "PERSON"},
	}}, discardLogger())

	v := p.Apply(context.Background(), st, "Tony Stark dies at the end of the battle.")

	if v.Action != Rewrite || v.Text != spoilerRefusal {
		t.Errorf("expected co-occurrence refusal, got %+v", v)
	}
}

func TestSpoiler_KeywordWithoutEntityPasses(t *testing.T) {
	st := spoilerState(t)
	p := NewSpoilerPolicy(&fakeRecognizer{entities: nil}, discardLogger())

	response := "The finale airs on Sunday night."
	v := p.Apply(context.Background(), st, response)

	if v.Action != Pass || v.Text != response {
		t.Errorf("expected keyword-only response to pass unchanged, got %+v", v)
	}
}

func TestSpoiler_EntityWithoutKeywordPasses(t *testing.T) {
	st := spoilerState(t)
	// Recognizer would return entities, but without a keyword it is never
	// consulted.
	p := NewSpoilerPolicy(&fakeRecognizer{entities: []ner.Entity{
		{Text: "Tony Stark", Label: "PERSON"},
	}}, discardLogger())

	response := "Tony Stark is the lead character, played with great charm."
	v := p.Apply(context.Background(), st, response)

	if v.Action != Pass || v.Text != response {
		t.Errorf("expected entity-only response to pass, got %+v", v)
	}
}

func TestSpoiler_KeywordMatchIsTokenLevel(t *testing.T) {
	st := spoilerState(t)
	p := NewSpoilerPolicy(&fakeRecognizer{entities: []ner.Entity{
		{Text: "Marvel", Label: "ORG"},
	}}, discardLogger())

	// "studies" contains "dies" but is not the token "dies".
	response := "Marvel studies audience reactions before each premiere."
	v := p.Apply(context.Background(), st, response)

	if v.Action != Pass {
		t.Errorf("expected substring inside a longer token to pass, got %+v", v)
	}
}

func TestSpoiler_NonNamedLabelsDoNotCount(t *testing.T) {
	st := spoilerState(t)
	p := NewSpoilerPolicy(&fakeRecognizer{entities: []ner.Entity{
		{Text: "Sunday", Label: "DATE"},
	}}, discardLogger())

	response := "The ending will be discussed everywhere."
	v := p.Apply(context.Background(), st, response)

	if v.Action != Pass {
		t.Errorf("expected pass when no person/org/location entity, got %+v", v)
	}
}

func TestSpoiler_RecognizerFailurePassesThrough(t *testing.T) {
	st := spoilerState(t)
	p := NewSpoilerPolicy(&fakeRecognizer{err: errors.New("ner down")}, discardLogger())

	response := "Someone dies, apparently."
	v := p.Apply(context.Background(), st, response)

	if v.Action != Pass {
		t.Errorf("expected pass on recognizer failure, got %+v", v)
	}
}
