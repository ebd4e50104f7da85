package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"streamscribe/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Output directory", dir)
	if !result.Passed {
		t.Fatalf("expected writable temp dir to pass, got %q", result.Detail)
	}

	missing := CheckDirectoryAccess("Output directory", filepath.Join(dir, "missing"))
	if missing.Passed {
		t.Fatal("expected missing directory to fail")
	}
}

func TestCheckWhisperEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	result := CheckWhisperEndpoint(context.Background(), server.URL)
	if !result.Passed {
		t.Fatalf("expected reachable endpoint to pass, got %q", result.Detail)
	}

	if CheckWhisperEndpoint(context.Background(), "").Passed {
		t.Fatal("expected empty endpoint to fail")
	}
	if CheckWhisperEndpoint(context.Background(), "not a url").Passed {
		t.Fatal("expected malformed endpoint to fail")
	}
}

func TestRunAllReportsEachCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithWhisperEndpoint(server.URL))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected four results, got %d", len(results))
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("check %s failed: %s", result.Name, result.Detail)
		}
	}
}
