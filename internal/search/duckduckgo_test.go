package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func ddgFixture() map[string]any {
	return map[string]any{
		"Heading":      "Go",
		"AbstractText": "Statically typed language",
		"AbstractURL":  "https://go.dev",
		"Results": []map[string]any{
			{"Text": "Official site - golang.org", "FirstURL": "https://golang.org"},
			{"Text": "Missing URL entry", "FirstURL": ""},
		},
		"RelatedTopics": []map[string]any{
			{
				"Name": "Programming languages",
				"Topics": []map[string]any{
					{"Text": "Nested - never reached", "FirstURL": "https://example.com/nested"},
				},
			},
			{"Text": "Go (programming language) - Wikipedia article", "FirstURL": "https://en.wikipedia.org/wiki/Go"},
			{"Text": "PlainTopic", "FirstURL": "https://example.com/plain"},
		},
	}
}

func TestDuckDuckGo_Search_MergesInstantAnswerSections(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ddgFixture())
	}))
	defer srv.Close()

	d := &DuckDuckGo{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := d.Search(context.Background(), Options{Query: "golang"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if query.Get("format") != "json" || query.Get("q") != "golang" {
		t.Fatalf("query params: %v", query)
	}
	if query.Get("kl") != "us-en" {
		t.Fatalf("kl param: got %q", query.Get("kl"))
	}

	// Abstract first, then Results, then flattened RelatedTopics with the
	// category entry skipped.
	if len(got) != 4 {
		t.Fatalf("expected 4 merged results, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://go.dev" || got[0].Title != "Go" || got[0].Description != "Statically typed language" {
		t.Fatalf("abstract result: %+v", got[0])
	}
	if got[1].URL != "https://golang.org" || got[1].Title != "Official site" || got[1].Description != "golang.org" {
		t.Fatalf("results entry: %+v", got[1])
	}
	if got[2].URL != "https://en.wikipedia.org/wiki/Go" || got[2].Title != "Go (programming language)" || got[2].Description != "Wikipedia article" {
		t.Fatalf("related topic: %+v", got[2])
	}
	if got[3].Title != "PlainTopic" || got[3].Description != "PlainTopic" {
		t.Fatalf("separator-free topic should use full text twice: %+v", got[3])
	}
}

func TestDuckDuckGo_Search_TruncatesToRequestedCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ddgFixture())
	}))
	defer srv.Close()

	d := &DuckDuckGo{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := d.Search(context.Background(), Options{Query: "golang", NumResults: 2})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].URL != "https://go.dev" || got[1].URL != "https://golang.org" {
		t.Fatalf("truncation changed ordering: %+v", got)
	}
}

func TestDuckDuckGo_Search_SkipsAbstractWithoutURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fix := ddgFixture()
		fix["AbstractURL"] = ""
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fix)
	}))
	defer srv.Close()

	d := &DuckDuckGo{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := d.Search(context.Background(), Options{Query: "golang"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results without abstract, got %d", len(got))
	}
	if got[0].URL != "https://golang.org" {
		t.Fatalf("first result should come from Results: %+v", got[0])
	}
}
