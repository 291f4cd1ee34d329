package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
)

const userAgent = "vidpipe/0.1.0"

// Render describes a finished render for notification purposes.
type Render struct {
	Title        string
	Mode         string
	OutputPath   string
	AudioSeconds float64
	Placeholders int
	Elapsed      time.Duration
}

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyRenderCompleted(ctx context.Context, render Render) error
	NotifyRenderFailed(ctx context.Context, title, stage string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	return NewServiceWithClient(cfg, nil)
}

// NewServiceWithClient is NewService with a caller-supplied HTTP client.
func NewServiceWithClient(cfg *config.Config, client *http.Client) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	if client == nil {
		timeout := cfg.NotifyTimeout()
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &ntfyService{
		endpoint:  topic,
		client:    client,
		onSuccess: cfg.Notifications.OnSuccess,
		onFailure: cfg.Notifications.OnFailure,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	onSuccess bool
	onFailure bool
}

func (n *ntfyService) NotifyRenderCompleted(ctx context.Context, render Render) error {
	if !n.onSuccess {
		return nil
	}
	title := strings.TrimSpace(render.Title)
	if title == "" {
		title = "untitled"
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "🎬 Rendered: %s (%.0fs narration", title, render.AudioSeconds)
	if render.Elapsed > 0 {
		fmt.Fprintf(&builder, ", %s", render.Elapsed.Round(time.Second))
	}
	builder.WriteString(")")
	if render.Placeholders > 0 {
		fmt.Fprintf(&builder, "\n%d section(s) used placeholder silence", render.Placeholders)
	}
	if path := strings.TrimSpace(render.OutputPath); path != "" {
		fmt.Fprintf(&builder, "\nFile: %s", path)
	}

	tags := []string{"vidpipe", "render", "completed"}
	if mode := strings.TrimSpace(render.Mode); mode != "" {
		tags = append(tags, mode)
	}
	data := payload{
		title:   "vidpipe - Render Complete",
		message: builder.String(),
		tags:    tags,
	}
	if render.Placeholders > 0 {
		data.title = "vidpipe - Render Complete (with gaps)"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRenderFailed(ctx context.Context, title, stage string, err error) error {
	if !n.onFailure {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Render failed")
	if title = strings.TrimSpace(title); title != "" {
		builder.WriteString(": ")
		builder.WriteString(title)
	}
	if stage = strings.TrimSpace(stage); stage != "" {
		builder.WriteString(" during ")
		builder.WriteString(stage)
	}
	builder.WriteString("\n")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown error")
	}

	data := payload{
		title:    "vidpipe - Render Failed",
		message:  builder.String(),
		tags:     []string{"vidpipe", "render", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "vidpipe - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"vidpipe", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRenderCompleted(context.Context, Render) error              { return nil }
func (noopService) NotifyRenderFailed(context.Context, string, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
