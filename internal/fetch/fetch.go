// Package fetch downloads queued PYQ papers into the local cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/asteroid-belt/gatewise/internal/hash"
	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/pkg/version"
)

var (
	// ErrNoSource means no candidate URL was allowed for the paper.
	ErrNoSource = errors.New("no allowed source")
	// ErrChecksumMismatch means the downloaded body did not match the published checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnknownPaper means a queued id has no catalog entry.
	ErrUnknownPaper = errors.New("paper not in catalog")
)

// DefaultTimeout bounds a single paper request.
const DefaultTimeout = 2 * time.Minute

// Queue is the part of the PYQ store the downloader drives.
type Queue interface {
	Queue() []string
	Item(id string) (models.PyqItem, bool)
	UpdateDownloadProgress(id string, percent int)
	MarkAsCached(id string)
	RemoveFromDownloadQueue(id string)
}

// Config configures a Downloader.
type Config struct {
	CacheDir string
	// AllowedSources are origins mirrors may be fetched from. The official
	// paper URL is always tried.
	AllowedSources []string
	// RequestsPerSecond paces requests. Zero or less disables pacing.
	RequestsPerSecond float64
	HTTPClient        *http.Client
	// OnProgress, if set, is called with every percentage reported to the queue.
	OnProgress func(id string, percent int)
}

// Result is the outcome for one queued paper.
type Result struct {
	ID     string
	Path   string
	Source models.PyqSource
	URL    string
	Err    error
}

// Downloader drains a download queue into the cache directory.
type Downloader struct {
	client     *http.Client
	limiter    *rate.Limiter
	cacheDir   string
	allowed    map[string]struct{}
	onProgress func(id string, percent int)

	mu           sync.Mutex
	requestCount int
	bytesWritten int64
}

// New creates a Downloader and makes sure the cache directory exists.
func New(cfg Config) (*Downloader, error) {
	if cfg.CacheDir == "" {
		return nil, errors.New("cache directory is required")
	}
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedSources))
	for _, src := range cfg.AllowedSources {
		if o := origin(src); o != "" {
			allowed[o] = struct{}{}
		}
	}

	return &Downloader{
		client:     client,
		limiter:    rate.NewLimiter(limit, 1),
		cacheDir:   cfg.CacheDir,
		allowed:    allowed,
		onProgress: cfg.OnProgress,
	}, nil
}

// PaperPath returns where the paper with id is cached.
func PaperPath(cacheDir, id string) string {
	return filepath.Join(cacheDir, fileName(id))
}

// Run downloads every queued paper in queue order. Each paper is tried from
// its official URL, then from each allowed mirror. A paper leaves the queue
// once it is cached or every candidate has failed. When ctx is cancelled the
// remaining papers stay queued.
func (d *Downloader) Run(ctx context.Context, q Queue) []Result {
	var results []Result
	for _, id := range q.Queue() {
		if ctx.Err() != nil {
			break
		}
		res := d.download(ctx, q, id)
		if ctx.Err() == nil || res.Err == nil {
			q.RemoveFromDownloadQueue(id)
		}
		results = append(results, res)
	}
	return results
}

func (d *Downloader) download(ctx context.Context, q Queue, id string) Result {
	res := Result{ID: id}

	item, ok := q.Item(id)
	if !ok {
		res.Err = fmt.Errorf("%s: %w", id, ErrUnknownPaper)
		return res
	}

	cands := d.candidates(item)
	if len(cands) == 0 {
		res.Err = fmt.Errorf("%s: %w", id, ErrNoSource)
		return res
	}

	dest := PaperPath(d.cacheDir, id)
	var errs []error
	for _, c := range cands {
		err := d.fetch(ctx, q, id, c.url, dest, item.Checksum)
		if err == nil {
			q.MarkAsCached(id)
			res.Path, res.Source, res.URL = dest, c.source, c.url
			return res
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	res.Err = fmt.Errorf("%s: %w", id, errors.Join(errs...))
	return res
}

type candidate struct {
	url    string
	source models.PyqSource
}

func (d *Downloader) candidates(item models.PyqItem) []candidate {
	var out []candidate
	if item.OfficialPaperURL != "" {
		out = append(out, candidate{url: item.OfficialPaperURL, source: models.SourceOfficial})
	}
	for _, m := range item.Mirrors {
		if m.Paper == "" || !d.isAllowed(m.Paper) {
			continue
		}
		out = append(out, candidate{url: m.Paper, source: models.SourceMirror})
	}
	return out
}

func (d *Downloader) isAllowed(rawURL string) bool {
	_, ok := d.allowed[origin(rawURL)]
	return ok
}

func (d *Downloader) fetch(ctx context.Context, q Queue, id, rawURL, dest, checksum string) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "gatewise/"+version.Version)

	d.mu.Lock()
	d.requestCount++
	d.mu.Unlock()

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(d.cacheDir, fileName(id)+"-*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	report := func(pct int) {
		q.UpdateDownloadProgress(id, pct)
		if d.onProgress != nil {
			d.onProgress(id, pct)
		}
	}
	digest := hash.NewDigest()
	pw := &progressWriter{total: resp.ContentLength, report: report, last: -1}

	n, err := io.Copy(io.MultiWriter(tmp, digest, pw), resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}

	if checksum != "" && !hash.Matches(checksum, digest.Sum()) {
		return fmt.Errorf("%s: %w", rawURL, ErrChecksumMismatch)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("move paper into cache: %w", err)
	}

	d.mu.Lock()
	d.bytesWritten += n
	d.mu.Unlock()

	report(100)
	return nil
}

// Stats returns the number of requests made and bytes cached so far.
func (d *Downloader) Stats() (requests int, bytes int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requestCount, d.bytesWritten
}

type progressWriter struct {
	total   int64
	written int64
	last    int
	report  func(int)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.total <= 0 {
		return len(b), nil
	}
	// 100 is reported only once the paper is in place.
	pct := int(p.written * 100 / p.total)
	if pct > 99 {
		pct = 99
	}
	if pct != p.last {
		p.last = pct
		p.report(pct)
	}
	return len(b), nil
}

// origin reduces a URL to scheme://host[:port], lower-cased.
func origin(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

func fileName(id string) string {
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return hash.TruncatedSHA256(id) + ".pdf"
		}
	}
	return id + ".pdf"
}
