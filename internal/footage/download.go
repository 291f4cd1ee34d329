package footage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

const defaultDownloadTimeout = 2 * time.Minute

// Download is a clip saved to local disk.
type Download struct {
	Clip  Clip
	Path  string
	Bytes int64
	// ProbedDuration is zero when no prober is configured or probing failed.
	ProbedDuration float64
}

// DownloadError describes a clip that could not be fetched.
type DownloadError struct {
	ClipID int64
	URL    string
	Err    error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download clip %d: %v", e.ClipID, e.Err)
}

// Unwrap exposes both the download marker and the underlying cause.
func (e *DownloadError) Unwrap() []error {
	return []error{services.ErrDownload, e.Err}
}

// Prober measures a media file's duration.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Downloader fetches clips concurrently.
type Downloader struct {
	http    *http.Client
	prober  Prober
	timeout time.Duration
	logger  *slog.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		if client != nil {
			d.http = client
		}
	}
}

// WithProber enables duration probing of downloaded files.
func WithProber(prober Prober) DownloaderOption {
	return func(d *Downloader) {
		d.prober = prober
	}
}

// WithDownloadTimeout bounds each clip download.
func WithDownloadTimeout(timeout time.Duration) DownloaderOption {
	return func(d *Downloader) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithDownloadLogger sets the logger.
func WithDownloadLogger(logger *slog.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.logger = logging.NewComponentLogger(logger, "footage-download")
	}
}

// NewDownloader constructs a Downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		http:    &http.Client{},
		timeout: defaultDownloadTimeout,
		logger:  logging.NewComponentLogger(nil, "footage-download"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadAll fetches every clip into dir in parallel. A failed clip does
// not cancel its siblings: successes are returned in clip order and each
// failure is reported as a *DownloadError.
func (d *Downloader) DownloadAll(ctx context.Context, clips []Clip, dir string) ([]Download, []error) {
	if len(clips) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, []error{services.Wrap(services.ErrDownload, "footage", "download", "create clip dir", err)}
	}

	downloads := make([]*Download, len(clips))
	failures := make([]error, len(clips))
	var group errgroup.Group
	for i, clip := range clips {
		group.Go(func() error {
			download, err := d.download(ctx, clip, dir)
			if err != nil {
				failures[i] = &DownloadError{ClipID: clip.ID, URL: clip.URL, Err: err}
				return nil
			}
			downloads[i] = download
			return nil
		})
	}
	_ = group.Wait()

	var (
		ok   []Download
		errs []error
	)
	logger := logging.WithContext(ctx, d.logger)
	for i := range clips {
		if failures[i] != nil {
			logging.WarnWithContext(logger, "clip download failed", "clip_download_failed",
				logging.Int64("clip_id", clips[i].ID),
				logging.Error(failures[i]),
				logging.String(logging.FieldImpact, "clip excluded from the video"),
			)
			errs = append(errs, failures[i])
			continue
		}
		ok = append(ok, *downloads[i])
	}
	logger.Info("clips downloaded",
		logging.Int("downloaded", len(ok)),
		logging.Int("failed", len(errs)),
	)
	return ok, errs
}

func (d *Downloader) download(ctx context.Context, clip Clip, dir string) (*Download, error) {
	link := strings.TrimSpace(clip.URL)
	if link == "" {
		return nil, errors.New("clip has no download url")
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	path := filepath.Join(dir, fmt.Sprintf("clip-%d.mp4", clip.ID))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	written, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if written == 0 {
		_ = os.Remove(path)
		return nil, errors.New("empty response body")
	}

	download := &Download{Clip: clip, Path: path, Bytes: written}
	if d.prober != nil {
		seconds, err := d.prober.Duration(ctx, path)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, d.logger), "clip probe failed", "clip_probe_failed",
				logging.Int64("clip_id", clip.ID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "using the duration reported by the footage API"),
			)
		} else {
			download.ProbedDuration = seconds
			download.Clip.Duration = seconds
		}
	}
	return download, nil
}

// Clips returns the clips of downloads, preserving order.
func Clips(downloads []Download) []Clip {
	clips := make([]Clip, 0, len(downloads))
	for _, d := range downloads {
		clips = append(clips, d.Clip)
	}
	return clips
}
