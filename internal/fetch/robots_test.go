package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRobotsGate_BlocksDisallowedPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /pages/\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>ok</title></head></html>`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f, err := New(Config{
		Timeout:       5 * time.Second,
		RespectRobots: true,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	ctx := context.Background()

	if doc := f.Page(ctx, ts.URL+"/", "/pages/faq"); doc != nil {
		t.Error("expected disallowed path to be absent")
	}
	if doc := f.Page(ctx, ts.URL+"/", "/"); doc == nil {
		t.Error("expected allowed path to be fetched")
	}
}

func TestRobotsGate_FailsOpenWithoutRobotsTxt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>ok</title></head></html>`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f, err := New(Config{
		Timeout:       5 * time.Second,
		RespectRobots: true,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	if doc := f.Page(context.Background(), ts.URL+"/", "/"); doc == nil {
		t.Error("expected fetch to proceed when robots.txt is missing")
	}
}
