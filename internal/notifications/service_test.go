package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRenderCompleted(context.Background(), notifications.Render{Title: "Example"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop for nil config, got %v", err)
	}
}

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func captureServer(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		got.title = r.Header.Get("Title")
		got.tags = r.Header.Get("Tags")
		got.priority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		got.body = string(body)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "render completed",
			send: func(s notifications.Service) error {
				return s.NotifyRenderCompleted(context.Background(), notifications.Render{
					Title:        "Ocean Mysteries",
					Mode:         "footage",
					OutputPath:   "/videos/ocean-mysteries.mp4",
					AudioSeconds: 62.4,
					Elapsed:      95 * time.Second,
				})
			},
			expectTitle:   "vidpipe - Render Complete",
			expectMessage: "🎬 Rendered: Ocean Mysteries (62s narration, 1m35s)\nFile: /videos/ocean-mysteries.mp4",
			expectTags:    "vidpipe,render,completed,footage",
		},
		{
			name: "render completed with placeholders",
			send: func(s notifications.Service) error {
				return s.NotifyRenderCompleted(context.Background(), notifications.Render{
					Title:        "Deep Sea",
					AudioSeconds: 10,
					Placeholders: 2,
				})
			},
			expectTitle:   "vidpipe - Render Complete (with gaps)",
			expectMessage: "🎬 Rendered: Deep Sea (10s narration)\n2 section(s) used placeholder silence",
			expectTags:    "vidpipe,render,completed",
		},
		{
			name: "render failed",
			send: func(s notifications.Service) error {
				return s.NotifyRenderFailed(context.Background(), "Deep Sea", "download", errors.New("all 4 clips failed"))
			},
			expectTitle:    "vidpipe - Render Failed",
			expectMessage:  "❌ Render failed: Deep Sea during download\nall 4 clips failed",
			expectTags:     "vidpipe,render,error",
			expectPriority: "high",
		},
		{
			name:           "test",
			send:           func(s notifications.Service) error { return s.TestNotification(context.Background()) },
			expectTitle:    "vidpipe - Test",
			expectMessage:  "🧪 Notification system test",
			expectTags:     "vidpipe,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, got := captureServer(t, http.StatusOK)
			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL

			if err := tc.send(notifications.NewService(&cfg)); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}
			if got.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, got.title)
			}
			if got.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, got.body)
			}
			if got.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, got.tags)
			}
			if got.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, got.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsOutcomeToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call for suppressed outcome: %s", r.Header.Get("Title"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.OnSuccess = false
	cfg.Notifications.OnFailure = false

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRenderCompleted(context.Background(), notifications.Render{Title: "x"}); err != nil {
		t.Fatalf("suppressed success: %v", err)
	}
	if err := svc.NotifyRenderFailed(context.Background(), "x", "speech", errors.New("boom")); err != nil {
		t.Fatalf("suppressed failure: %v", err)
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	server, _ := captureServer(t, http.StatusForbidden)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	if err := notifications.NewService(&cfg).TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
