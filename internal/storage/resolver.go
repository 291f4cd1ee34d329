package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/textutil"
)

// StoragePathPrefix is the path-style alias for the storage marker.
const StoragePathPrefix = "/storage/"

// Kind classifies a reference.
type Kind string

const (
	KindLocal  Kind = "local"
	KindFile   Kind = "file"
	KindRemote Kind = "remote"
)

// Resolver maps references onto files.
type Resolver struct {
	storageDir string
	prefix     string
	client     *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the client used for remote fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logging.NewComponentLogger(logger, "storage")
	}
}

// New builds a resolver from configuration.
func New(cfg *config.Config, opts ...Option) *Resolver {
	prefix := strings.TrimSpace(cfg.Pipeline.LocalStoragePrefix)
	if prefix == "" {
		prefix = "local://"
	}
	timeout := time.Duration(cfg.Pipeline.FetchTimeout) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	r := &Resolver{
		storageDir: cfg.Paths.StorageDir,
		prefix:     prefix,
		client:     &http.Client{},
		timeout:    timeout,
		logger:     logging.NewComponentLogger(nil, "storage"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify reports what kind of reference ref is.
func (r *Resolver) Classify(ref string) Kind {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, strings.ToLower(r.prefix)), strings.HasPrefix(ref, StoragePathPrefix):
		return KindLocal
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindRemote
	default:
		return KindFile
	}
}

// LocalPath maps a storage-marker reference to a path under the storage
// dir. Paths escaping the storage dir are rejected.
func (r *Resolver) LocalPath(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	var rel string
	switch {
	case strings.HasPrefix(strings.ToLower(ref), strings.ToLower(r.prefix)):
		rel = ref[len(r.prefix):]
	case strings.HasPrefix(ref, StoragePathPrefix):
		rel = strings.TrimPrefix(ref, StoragePathPrefix)
	default:
		return "", services.Wrap(services.ErrValidation, "storage", "resolve", fmt.Sprintf("%q is not a storage reference", ref), nil)
	}
	if strings.TrimSpace(r.storageDir) == "" {
		return "", services.Wrap(services.ErrConfiguration, "storage", "resolve", "paths.storage_dir is not set", nil)
	}
	clean := path.Clean("/" + strings.TrimLeft(rel, "/"))
	if clean == "/" {
		return "", services.Wrap(services.ErrValidation, "storage", "resolve", fmt.Sprintf("%q names no file", ref), nil)
	}
	return filepath.Join(r.storageDir, filepath.FromSlash(clean)), nil
}

// Resolve returns a readable local path for ref. Remote references are
// downloaded into destDir.
func (r *Resolver) Resolve(ctx context.Context, ref, destDir string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", services.Wrap(services.ErrValidation, "storage", "resolve", "empty reference", nil)
	}
	var local string
	switch r.Classify(ref) {
	case KindRemote:
		return r.fetch(ctx, ref, destDir)
	case KindLocal:
		p, err := r.LocalPath(ref)
		if err != nil {
			return "", err
		}
		local = p
	default:
		local = ref
		if strings.HasPrefix(strings.ToLower(ref), "file://") {
			u, err := url.Parse(ref)
			if err != nil {
				return "", services.Wrap(services.ErrValidation, "storage", "resolve", ref, err)
			}
			local = u.Path
		}
	}
	info, err := os.Stat(local)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "storage", "resolve", local, err)
		}
		return "", services.Wrap(services.ErrExternalTool, "storage", "resolve", local, err)
	}
	if info.IsDir() {
		return "", services.Wrap(services.ErrValidation, "storage", "resolve", fmt.Sprintf("%s is a directory", local), nil)
	}
	return local, nil
}

// ReadAll resolves ref and returns its contents.
func (r *Resolver) ReadAll(ctx context.Context, ref, destDir string) ([]byte, error) {
	p, err := r.Resolve(ctx, ref, destDir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "storage", "read", p, err)
	}
	return data, nil
}

func (r *Resolver) fetch(ctx context.Context, ref, destDir string) (string, error) {
	if strings.TrimSpace(destDir) == "" {
		return "", services.Wrap(services.ErrValidation, "storage", "fetch", "destination dir required for remote reference", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "storage", "fetch", ref, err)
	}
	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrTimeout, "storage", "fetch", ref, ctx.Err())
		}
		return "", services.Wrap(services.ErrExternalTool, "storage", "fetch", ref, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", services.Wrap(services.ErrNotFound, "storage", "fetch", fmt.Sprintf("%s: status %d", ref, resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrExternalTool, "storage", "fetch", fmt.Sprintf("%s: status %d", ref, resp.StatusCode), nil)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "storage", "fetch", "create destination", err)
	}
	target := filepath.Join(destDir, fetchName(ref))
	out, err := os.Create(target)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "storage", "fetch", target, err)
	}
	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(target)
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrTimeout, "storage", "fetch", ref, ctx.Err())
		}
		return "", services.Wrap(services.ErrExternalTool, "storage", "fetch", ref, errors.Join(copyErr, closeErr))
	}
	logging.WithContext(ctx, r.logger).Debug("fetched remote asset",
		logging.String("url", ref),
		logging.String("path", target),
		logging.Int64("bytes", written),
		logging.Duration("elapsed", time.Since(start)),
	)
	return target, nil
}

func fetchName(ref string) string {
	base := ""
	if u, err := url.Parse(ref); err == nil {
		base = path.Base(u.Path)
	}
	base = textutil.SanitizeFileName(base)
	if base == "" || base == "." || base == "-" {
		base = "asset"
	}
	return "fetch-" + uuid.NewString()[:8] + "-" + base
}
