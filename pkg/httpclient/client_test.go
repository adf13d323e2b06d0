package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Get(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("hello"))
	}))
	defer ts.Close()

	c, err := New(Config{Timeout: 5 * time.Second, MaxRedirects: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Release()

	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	resp, err := c.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestClient_RedirectLimit(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ts.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer ts.Close()

	c, _ := New(Config{Timeout: 5 * time.Second, MaxRedirects: 2})

	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	_, err := c.Do(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "redirects") {
		t.Errorf("expected redirect limit error, got %v", err)
	}
}

func TestClient_NoRedirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusMovedPermanently)
	}))
	defer ts.Close()

	c, _ := New(Config{Timeout: 5 * time.Second, MaxRedirects: -1})

	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	resp, err := c.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMovedPermanently {
		t.Errorf("expected 301 without following, got %d", resp.StatusCode)
	}
}

func TestClient_NilContext(t *testing.T) {
	c, _ := New(Config{})
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	//nolint:staticcheck // exercising the nil guard on purpose
	if _, err := c.Do(nil, req); err == nil {
		t.Error("expected error for nil context")
	}
}
