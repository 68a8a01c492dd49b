// Package download fetches batches of files in parallel, verifying
// hashes and reporting live progress.
package download

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
)

// Item is one file to fetch.
type Item struct {
	URL   string
	Path  string // local destination path
	SHA1  string // expected hash, empty to skip verification
	Size  int64  // expected size in bytes
	Label string // display name; defaults to the file name
}

func (it Item) label() string {
	if it.Label != "" {
		return it.Label
	}
	return filepath.Base(it.Path)
}

// Progress is a point-in-time snapshot of a running batch.
type Progress struct {
	TotalBytes      int64
	DownloadedBytes int64
	TotalItems      int
	CompletedItems  int
	FailedItems     int
	CurrentItem     string
	Speed           float64 // bytes per second
}

// Result sums up a finished batch.
type Result struct {
	Completed int
	Failed    int
	Errors    []error
}

// Manager fetches items over a fixed worker pool with a retrying HTTP
// client. One Manager can run multiple batches; each Download call
// keeps its own counters.
type Manager struct {
	client  *http.Client
	workers int
}

// NewManager creates a manager with the given pool size.
func NewManager(workers int) *Manager {
	if workers <= 0 {
		workers = 4
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = time.Second
	rc.RetryWaitMax = 10 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = 5 * time.Minute
	rc.HTTPClient.Transport = &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Manager{client: rc.StandardClient(), workers: workers}
}

// batch carries the live counters for one Download call.
type batch struct {
	totalBytes int64
	totalItems int

	fetchedBytes atomic.Int64
	completed    atomic.Int64
	failed       atomic.Int64
	current      atomic.Value // string
}

func (b *batch) snapshot() Progress {
	p := Progress{
		TotalBytes:      b.totalBytes,
		TotalItems:      b.totalItems,
		DownloadedBytes: b.fetchedBytes.Load(),
		CompletedItems:  int(b.completed.Load()),
		FailedItems:     int(b.failed.Load()),
	}
	if s, ok := b.current.Load().(string); ok {
		p.CurrentItem = s
	}
	return p
}

// Download fetches every item and reports the outcome. Snapshots go to
// progressChan when it is non-nil; sends never block, and the reporter
// is fully stopped before Download returns, so the caller may close
// the channel afterwards. Files already on disk with a matching hash
// count as completed without a refetch.
func (m *Manager) Download(ctx context.Context, items []Item, progressChan chan<- Progress) (*Result, error) {
	if len(items) == 0 {
		return &Result{}, nil
	}

	b := &batch{totalItems: len(items)}
	for _, it := range items {
		b.totalBytes += it.Size
	}

	var (
		errMu sync.Mutex
		errs  []error
	)

	queue := make(chan Item)
	var workers sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for it := range queue {
				b.current.Store(it.label())
				if err := m.fetch(ctx, it, b); err != nil {
					b.failed.Add(1)
					errMu.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", it.label(), err))
					errMu.Unlock()
					continue
				}
				b.completed.Add(1)
			}
		}()
	}

	stop := make(chan struct{})
	reporterDone := make(chan struct{})
	if progressChan == nil {
		close(reporterDone)
	} else {
		go func() {
			defer close(reporterDone)
			b.report(ctx, progressChan, stop)
		}()
	}

	// Items still queued when the context dies are abandoned; whatever
	// is in flight fails with the context error.
feed:
	for _, it := range items {
		select {
		case queue <- it:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)

	workers.Wait()
	close(stop)
	<-reporterDone

	return &Result{
		Completed: int(b.completed.Load()),
		Failed:    int(b.failed.Load()),
		Errors:    errs,
	}, nil
}

// report pushes a snapshot every 100ms. Sends drop when the consumer
// is behind so a slow reader never stalls the pool.
func (b *batch) report(ctx context.Context, out chan<- Progress, stop <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	lastBytes := int64(0)
	lastAt := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			p := b.snapshot()
			now := time.Now()
			if dt := now.Sub(lastAt).Seconds(); dt > 0 {
				p.Speed = float64(p.DownloadedBytes-lastBytes) / dt
				lastBytes = p.DownloadedBytes
				lastAt = now
			}
			select {
			case out <- p:
			default:
			}
		}
	}
}

// meterReader counts bytes as they stream in.
type meterReader struct {
	r io.Reader
	n *atomic.Int64
}

func (mr meterReader) Read(p []byte) (int, error) {
	n, err := mr.r.Read(p)
	mr.n.Add(int64(n))
	return n, err
}

// fetch gets one item onto disk. The write goes to a .part file that
// is renamed into place only after the hash checks out.
func (m *Manager) fetch(ctx context.Context, it Item, b *batch) error {
	if it.SHA1 != "" && fileMatches(it.Path, it.SHA1) {
		b.fetchedBytes.Add(it.Size)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(it.Path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, it.URL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	part := it.Path + ".part"
	out, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	hasher := sha1.New()
	if _, err := io.Copy(io.MultiWriter(out, hasher), meterReader{resp.Body, &b.fetchedBytes}); err != nil {
		out.Close()
		os.Remove(part)
		return fmt.Errorf("writing: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(part)
		return fmt.Errorf("closing file: %w", err)
	}

	if it.SHA1 != "" {
		if got := hex.EncodeToString(hasher.Sum(nil)); got != it.SHA1 {
			os.Remove(part)
			return fmt.Errorf("hash mismatch: expected %s, got %s", it.SHA1, got)
		}
	}

	if err := os.Rename(part, it.Path); err != nil {
		os.Remove(part)
		return fmt.Errorf("moving into place: %w", err)
	}
	return nil
}

// fileMatches reports whether path already holds content with the
// given SHA1.
func fileMatches(path, sha string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	return hex.EncodeToString(h.Sum(nil)) == sha
}

// FormatSpeed renders a transfer rate for display.
func FormatSpeed(bytesPerSec float64) string {
	return humanize.Bytes(uint64(bytesPerSec)) + "/s"
}
