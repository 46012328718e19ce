package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestSearchAPI_Search_SendsBearerToken(t *testing.T) {
	var (
		auth  string
		query url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]any{
				{"title": "One", "link": "https://example.com/1", "snippet": "first"},
				{"title": "No link", "link": "", "snippet": "dropped"},
			},
		})
	}))
	defer srv.Close()

	s := &SearchAPI{APIKey: "tok", BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := s.Search(context.Background(), Options{Query: "golang", NumResults: 3, TBS: "qdr:d"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if auth != "Bearer tok" {
		t.Fatalf("authorization header: got %q", auth)
	}
	if query.Get("engine") != "google" {
		t.Fatalf("engine param: got %q", query.Get("engine"))
	}
	if query.Get("q") != "golang" || query.Get("num") != "3" {
		t.Fatalf("query params: %v", query)
	}
	if query.Get("tbs") != "qdr:d" {
		t.Fatalf("tbs param: got %q", query.Get("tbs"))
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 valid result, got %d", len(got))
	}
	if got[0].URL != "https://example.com/1" || got[0].Description != "first" {
		t.Fatalf("unexpected result: %+v", got[0])
	}
}

func TestSearchAPI_Search_RequiresAPIKey(t *testing.T) {
	s := &SearchAPI{}
	_, err := s.Search(context.Background(), Options{Query: "golang"})
	var se *Error
	if !errors.As(err, &se) || se.Kind != KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
