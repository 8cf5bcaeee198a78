package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"golang.org/x/time/rate"
)

// maxBodySize batas ukuran body yang dibaca per fetch.
const maxBodySize = 5 << 20 // 5 MB

var (
	// ErrNotFound berarti 404: miss definitif, jangan retry.
	ErrNotFound = errors.New("paste not found")

	// ErrUnavailable berarti retry sudah habis; caller harus skip, bukan abort.
	ErrUnavailable = errors.New("source unavailable")
)

// Fetcher jalankan HTTP GET dengan pacing, identitas acak, dan retry.
// Bukan goroutine-safe; engine memakainya single-stream.
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	agents     []string
	maxRetries int
	delay      time.Duration
	randSource *rand.Rand
}

// NewFetcher bikin fetcher dari config. client nil = default client dengan
// timeout dari config.
func NewFetcher(client *http.Client, cfg Config) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Fetcher{
		client: client,
		// pacing setara fixed delay setelah tiap fetch sukses
		limiter:    rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		agents:     cfg.UserAgents,
		maxRetries: cfg.MaxRetries,
		delay:      cfg.RequestDelay,
		randSource: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Fetcher) randomAgent() string {
	if len(f.agents) == 0 {
		return "Mozilla/5.0 (compatible; leakwatch/1.0)"
	}
	return f.agents[f.randSource.Intn(len(f.agents))]
}

// Fetch ambil konten url. 200 → body; 404 → ErrNotFound tanpa retry;
// 429 → tunggu penalti lalu retry; error lain retry dengan backoff dobel
// sampai batas, lalu ErrUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var body string

	op := func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", f.randomAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			if err != nil {
				return err
			}
			body = string(b)
			return nil
		case http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case http.StatusTooManyRequests:
			log.Printf("rate limited on %s, waiting...", url)
			select {
			case <-time.After(3 * f.delay):
			case <-ctx.Done():
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("rate limited: %s", url)
		default:
			log.Printf("status %d for %s", resp.StatusCode, url)
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 2 * f.delay
	expo.Multiplier = 2
	expo.RandomizationFactor = 0
	expo.MaxElapsedTime = 0

	if err := backoff.Retry(op, backoff.WithMaxRetries(expo, uint64(f.maxRetries))); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}
