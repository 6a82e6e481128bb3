package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFacts_Hit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/city/Paris" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/city/Paris")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		json.NewEncoder(w).Encode(CityFacts{Name: "Paris", Facts: "City of Light"})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	cf, err := c.Facts(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Facts() failed: %v", err)
	}
	if cf.Facts != "City of Light" {
		t.Errorf("Facts = %q, want %q", cf.Facts, "City of Light")
	}
}

func TestFacts_MissIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CityFacts{Name: "Atlantis", Facts: ""})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	cf, err := c.Facts(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("Facts() failed: %v", err)
	}
	if cf.Facts != "" {
		t.Errorf("Facts = %q, want empty", cf.Facts)
	}
}

func TestFacts_PathEscapesName(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(CityFacts{})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if _, err := c.Facts(context.Background(), "San José / Centro"); err != nil {
		t.Fatalf("Facts() failed: %v", err)
	}
	if gotPath != "/city/San%20Jos%C3%A9%20%2F%20Centro" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestGenerate_UsesGeminiRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/city/gemini/Oslo" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/city/gemini/Oslo")
		}
		json.NewEncoder(w).Encode(CityFacts{Name: "Oslo", Facts: "1. Capital of Norway"})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	cf, err := c.Generate(context.Background(), "Oslo")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if cf.Facts != "1. Capital of Norway" {
		t.Errorf("Facts = %q", cf.Facts)
	}
}

func TestSave_PostsNameAndFacts(t *testing.T) {
	var got CityFacts
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/city" {
			t.Errorf("request = %s %s, want POST /city", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	if err := c.Save(context.Background(), "Oslo", "Capital of Norway"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if got.Name != "Oslo" || got.Facts != "Capital of Norway" {
		t.Errorf("posted body = %+v", got)
	}
}

func TestAPIError_DetailExtracted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Failed to fetch city facts from Gemini API"})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Generate(context.Background(), "Oslo")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", apiErr.Status)
	}
	if apiErr.Detail != "Failed to fetch city facts from Gemini API" {
		t.Errorf("Detail = %q", apiErr.Detail)
	}
}

func TestAPIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Facts(context.Background(), "Oslo")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Detail != "" {
		t.Errorf("got %+v, want status 502 with empty detail", apiErr)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	c := New(srv.URL, 5*time.Second)
	if !c.Ping(context.Background()) {
		t.Error("Ping() = false for a responding server")
	}

	srv.Close()
	if c.Ping(context.Background()) {
		t.Error("Ping() = true for a closed server")
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL, 50*time.Millisecond)
	start := time.Now()
	_, err := c.Facts(context.Background(), "Oslo")
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call took %v, timeout not enforced", elapsed)
	}
}
