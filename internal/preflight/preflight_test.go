package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFootageAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos/search" || r.URL.Query().Get("per_page") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Header.Get("Authorization") {
		case "good-key":
			w.WriteHeader(http.StatusOK)
		case "busy-key":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		base   string
		key    string
		passed bool
	}{
		{"ok", srv.URL, "good-key", true},
		{"rate limited", srv.URL + "/", "busy-key", true},
		{"bad key", srv.URL, "bad-key", false},
		{"missing url", "", "good-key", false},
		{"missing key", srv.URL, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckFootageAPI(context.Background(), tt.base, tt.key, srv.Client())
			if result.Passed != tt.passed {
				t.Fatalf("Passed = %v (%s), want %v", result.Passed, result.Detail, tt.passed)
			}
		})
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, "overlay"); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_OverlayConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Composition.FFmpegBinary = "ffmpeg"
	cfg.Synthesis.Binary = "tts"
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg, "overlay")
	for _, r := range results {
		if r.Name == "Footage API" {
			t.Fatal("overlay renders should not contact the footage API")
		}
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_FlagsMissingBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Composition.FFmpegBinary = "clearly-not-present-ffmpeg"
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	failed := Failed(RunAll(context.Background(), cfg, "overlay"))
	found := false
	for _, r := range failed {
		if r.Name == "FFmpeg" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected FFmpeg failure, got %+v", failed)
	}
}

func TestRunAll_FootageChecksAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.StorageDir = ""
	cfg.Footage.BaseURL = srv.URL
	cfg.Footage.APIKey = "test"

	found := false
	for _, r := range RunAll(context.Background(), &cfg, "footage") {
		if r.Name == "Footage API" {
			found = true
			if !r.Passed {
				t.Errorf("Footage API check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected Footage API check in results")
	}
}
