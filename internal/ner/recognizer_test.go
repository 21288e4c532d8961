package ner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestEntities_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entities" {
			t.Errorf("expected /entities, got %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["text"] != "I live in Boston" {
			t.Errorf("unexpected text %q", req["text"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"entities": []Entity{{Text: "Boston", Label: "GPE"}},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	entities, err := c.Entities(context.Background(), "I live in Boston")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entities) != 1 || entities[0].Text != "Boston" || entities[0].Label != "GPE" {
		t.Errorf("unexpected entities %v", entities)
	}
}

func TestEntities_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	if _, err := c.Entities(context.Background(), "text"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestFilterLabels(t *testing.T) {
	entities := []Entity{
		{Text: "Paris", Label: "GPE"},
		{Text: "Monday", Label: "DATE"},
		{Text: "Tony Stark", Label: "PERSON"},
	}

	got := FilterLabels(entities, LabelGPE, LabelPerson)
	want := []Entity{{Text: "Paris", Label: "GPE"}, {Text: "Tony Stark", Label: "PERSON"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if out := FilterLabels(entities, LabelLoc); out != nil {
		t.Errorf("expected nil for no matches, got %v", out)
	}
}
