package scenario

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aria-team/dialogd/internal/ner"
)

// nerServer fakes the entity-recognition collaborator with a fixed answer.
func nerServer(t *testing.T, entities []ner.Entity) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"entities": entities})
	}))
}

// geoServer fakes both the geocoding and routing collaborators on one mux.
func geoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"42.0","lon":"-71.0"}]`))
	})
	mux.HandleFunc("/route/v1/driving/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":1581000,"duration":54000}]}`))
	})
	return httptest.NewServer(mux)
}

func openTravelRouter(t *testing.T, gen, geo, nerURL string) *TravelRouter {
	t.Helper()
	tr := NewTravelRouter(discardLogger(), nil)
	err := tr.OpenConnection(Credentials{
		APIKey:     "k",
		Endpoint:   gen,
		GeocodeURL: geo,
		RouteURL:   geo,
		NERURL:     nerURL,
	})
	if err != nil {
		t.Fatalf("open connection: %v", err)
	}
	if err := tr.StartSession(); err != nil {
		t.Fatalf("start session: %v", err)
	}
	return tr
}

func TestTravelRouter_RouteFactsReachPrompt(t *testing.T) {
	var sawPrompt string
	gen := genServer(t, func(prompt string) string {
		sawPrompt = prompt
		return "The drive takes about 15 hours."
	})
	defer gen.Close()
	geoSrv := geoServer(t)
	defer geoSrv.Close()
	nerSrv := nerServer(t, []ner.Entity{
		{Text: "Boston", Label: "GPE"},
		{Text: "Chicago", Label: "GPE"},
	})
	defer nerSrv.Close()

	tr := openTravelRouter(t, gen.URL, geoSrv.URL, nerSrv.URL)
	res := tr.Respond(context.Background(), "How do I get from Boston to Chicago?")

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if tr.State().Origin != "boston" || tr.State().Destination != "chicago" {
		t.Errorf("expected locations extracted, got %q->%q", tr.State().Origin, tr.State().Destination)
	}
	if !strings.Contains(sawPrompt, "Current Location: boston") {
		t.Errorf("expected origin in prompt:\n%s", sawPrompt)
	}
	if !strings.Contains(sawPrompt, "Computed route: 1581.0 km") {
		t.Errorf("expected route facts in prompt:\n%s", sawPrompt)
	}
}

func TestTravelRouter_FalseClaimRefused(t *testing.T) {
	gen := staticGenServer(t, "Definitely visit the Statue of Liberty in Chicago while there!")
	defer gen.Close()
	geoSrv := geoServer(t)
	defer geoSrv.Close()
	nerSrv := nerServer(t, nil)
	defer nerSrv.Close()

	tr := openTravelRouter(t, gen.URL, geoSrv.URL, nerSrv.URL)
	res := tr.Respond(context.Background(), "what should I see?")

	if !res.Success {
		t.Fatalf("a policy violation is a completed turn: %+v", res)
	}
	if strings.Contains(res.Response, "Statue of Liberty") {
		t.Errorf("expected full replacement, got %q", res.Response)
	}
	if !strings.Contains(res.Response, "travel information I know to be inaccurate") {
		t.Errorf("expected the fixed refusal, got %q", res.Response)
	}
}

func TestTravelRouter_AdvisoryAppendedForUSOrigin(t *testing.T) {
	gen := staticGenServer(t, "France is a wonderful destination in spring.")
	defer gen.Close()
	geoSrv := geoServer(t)
	defer geoSrv.Close()
	nerSrv := nerServer(t, []ner.Entity{
		{Text: "United States", Label: "GPE"},
		{Text: "France", Label: "GPE"},
	})
	defer nerSrv.Close()

	tr := openTravelRouter(t, gen.URL, geoSrv.URL, nerSrv.URL)
	res := tr.Respond(context.Background(), "I'm in the United States and want to visit France")

	if !strings.Contains(res.Response, "Travel Advisory for France") {
		t.Errorf("expected advisory appended, got %q", res.Response)
	}
}

func TestTravelRouter_GeoFailureStillAnswers(t *testing.T) {
	var sawPrompt string
	gen := genServer(t, func(prompt string) string {
		sawPrompt = prompt
		return "Both are lovely cities."
	})
	defer gen.Close()
	brokenGeo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer brokenGeo.Close()
	nerSrv := nerServer(t, []ner.Entity{
		{Text: "Boston", Label: "GPE"},
		{Text: "Chicago", Label: "GPE"},
	})
	defer nerSrv.Close()

	tr := openTravelRouter(t, gen.URL, brokenGeo.URL, nerSrv.URL)
	res := tr.Respond(context.Background(), "from Boston to Chicago")

	if !res.Success {
		t.Fatalf("geo failure must only drop route facts: %+v", res)
	}
	if strings.Contains(sawPrompt, "Computed route:") {
		t.Error("expected no route facts when geocoding fails")
	}
}

func TestTravelRouter_TransportFailureIsHonest(t *testing.T) {
	gen := staticGenServer(t, "unused")
	gen.Close() // refuse connections
	geoSrv := geoServer(t)
	defer geoSrv.Close()
	nerSrv := nerServer(t, nil)
	defer nerSrv.Close()

	tr := openTravelRouter(t, gen.URL, geoSrv.URL, nerSrv.URL)
	res := tr.Respond(context.Background(), "plan my trip")

	if res.Success {
		t.Fatal("travel scenario must not fabricate content on transport failure")
	}
	if !strings.HasPrefix(res.Response, "Sorry") {
		t.Errorf("expected fixed apology, got %q", res.Response)
	}
}
