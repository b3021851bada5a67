package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLever_Fetch(t *testing.T) {
	payload := `[
		{
			"id": "abc",
			"text": "SOC Analyst I",
			"descriptionPlain": "Work   the night shift.",
			"categories": {"location": "Pune", "allLocations": ["Pune", "Remote"]},
			"hostedUrl": "https://jobs.lever.co/acme/abc"
		},
		{
			"id": "def",
			"text": "Security Intern",
			"categories": {"location": "Delhi"},
			"hostedUrl": "https://jobs.lever.co/acme/def"
		}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") != "json" {
			t.Errorf("mode = %q, want json", r.URL.Query().Get("mode"))
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	cands, err := NewLever("acme", redirectClient(srv)).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	if cands[0].Snippet != "Pune, Remote Work the night shift." {
		t.Errorf("Snippet = %q", cands[0].Snippet)
	}
	if cands[1].Snippet != "Delhi" {
		t.Errorf("Snippet = %q", cands[1].Snippet)
	}
	if cands[1].RawLink != "https://jobs.lever.co/acme/def" {
		t.Errorf("RawLink = %q", cands[1].RawLink)
	}
}

func TestLever_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewLever("acme", redirectClient(srv)).Fetch(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
