package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/testsupport"
)

func TestClassify(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	r := New(cfg)
	tests := []struct {
		ref  string
		want Kind
	}{
		{"local://voice.wav", KindLocal},
		{"LOCAL://voice.wav", KindLocal},
		{"/storage/audio/voice.wav", KindLocal},
		{"https://cdn.example.com/a.wav", KindRemote},
		{"http://cdn.example.com/a.wav", KindRemote},
		{"file:///tmp/a.wav", KindFile},
		{"/tmp/a.wav", KindFile},
	}
	for _, tt := range tests {
		if got := r.Classify(tt.ref); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.ref, got, tt.want)
		}
	}
}

func TestLocalPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	r := New(cfg)
	tests := []struct {
		ref  string
		want string
	}{
		{"local://voice.wav", filepath.Join(cfg.Paths.StorageDir, "voice.wav")},
		{"local://jobs/7/voice.wav", filepath.Join(cfg.Paths.StorageDir, "jobs", "7", "voice.wav")},
		{"/storage/voice.wav", filepath.Join(cfg.Paths.StorageDir, "voice.wav")},
		{"local://../../etc/passwd", filepath.Join(cfg.Paths.StorageDir, "etc", "passwd")},
	}
	for _, tt := range tests {
		got, err := r.LocalPath(tt.ref)
		if err != nil {
			t.Fatalf("LocalPath(%q): %v", tt.ref, err)
		}
		if got != tt.want {
			t.Errorf("LocalPath(%q) = %s, want %s", tt.ref, got, tt.want)
		}
	}
	if _, err := r.LocalPath("local://"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
}

func TestCustomPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Pipeline.LocalStoragePrefix = "store:"
	r := New(cfg)
	got, err := r.LocalPath("store:a.wav")
	if err != nil {
		t.Fatalf("LocalPath: %v", err)
	}
	if got != filepath.Join(cfg.Paths.StorageDir, "a.wav") {
		t.Fatalf("got %s", got)
	}
}

func TestResolveLocalAndFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	r := New(cfg)
	stored := testsupport.WriteFile(t, filepath.Join(cfg.Paths.StorageDir, "voice.wav"), []byte("RIFF"))

	for _, ref := range []string{"local://voice.wav", "/storage/voice.wav", "file://" + stored, stored} {
		got, err := r.Resolve(context.Background(), ref, "")
		if err != nil {
			t.Fatalf("Resolve(%q): %v", ref, err)
		}
		if got != stored {
			t.Errorf("Resolve(%q) = %s, want %s", ref, got, stored)
		}
	}

	if _, err := r.Resolve(context.Background(), "local://missing.wav", ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), "  ", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), cfg.Paths.StorageDir, ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for directory, got %v", err)
	}
}

func TestResolveRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "missing.wav") {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, "broken.wav") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("remote-bytes"))
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t)
	r := New(cfg, WithHTTPClient(srv.Client()))
	dest := t.TempDir()

	data, err := r.ReadAll(context.Background(), srv.URL+"/audio/voice.wav", dest)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "remote-bytes" {
		t.Fatalf("data = %q", data)
	}
	entries, _ := os.ReadDir(dest)
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), "voice.wav") {
		t.Fatalf("unexpected dest contents: %v", entries)
	}

	if _, err := r.Resolve(context.Background(), srv.URL+"/missing.wav", dest); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), srv.URL+"/broken.wav", dest); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), srv.URL+"/voice.wav", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation without dest, got %v", err)
	}
}

func TestFetchName(t *testing.T) {
	if name := fetchName("https://x.test/"); !strings.HasSuffix(name, "-asset") {
		t.Fatalf("fetchName root = %s", name)
	}
	if name := fetchName("https://x.test/a/b.mp4?sig=1"); !strings.HasSuffix(name, "-b.mp4") {
		t.Fatalf("fetchName = %s", name)
	}
}
