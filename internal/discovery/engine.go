package discovery

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/bryanwahyu/leakwatch/internal/domain/findings"
)

// Engine menjalankan satu discovery run. State visited-URL dan
// processed-author hidup di instance, jadi WAJIB satu instance baru per
// scan, jangan dishare antar run.
type Engine struct {
	cfg      Config
	fetcher  *Fetcher
	detector *Detector
	mirror   DiscoveryStrategy

	discovered       map[string]struct{}
	processedAuthors map[string]struct{}
	skips            []Skip
	urlsScanned      int
}

// Option untuk kustomisasi engine saat konstruksi.
type Option func(*Engine)

// WithHTTPClient ganti HTTP client default (dipakai test dan proxy).
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.fetcher = NewFetcher(c, e.cfg) }
}

// WithMirror pasang strategy discovery untuk sumber mirror/alternatif.
func WithMirror(s DiscoveryStrategy) Option {
	return func(e *Engine) { e.mirror = s }
}

// NewEngine bikin engine baru dengan state kosong.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.withDefaults()
	det, err := NewDetector(cfg.PIIFieldPatterns, cfg.PIIKeywords)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:              cfg,
		fetcher:          NewFetcher(nil, cfg),
		detector:         det,
		discovered:       make(map[string]struct{}),
		processedAuthors: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Skip mencatat unit kerja yang dilewati (non-fatal).
type Skip struct {
	URL    string
	Stage  string // fetch | search | frontier
	Reason string
}

// RunOptions parameter satu full discovery run.
type RunOptions struct {
	SeedURLs       []string
	EnableClearnet bool
	EnableMirrors  bool
	CrawlAuthors   bool
	Keywords       []string
}

// Report hasil agregat satu run.
type Report struct {
	Items       []*findings.Finding
	TotalFound  int
	URLsScanned int
	ScanTime    time.Time
	Skipped     []Skip
}

// RunFullDiscovery proses seed URL + hasil keyword discovery + mirror,
// analisis tiap URL lewat pipeline paste analyzer, ekspansi author bila
// diminta, lalu urutkan hasil by relevance score (desc, stable).
// Clearnet disabled atau nol URL = hasil kosong yang valid, bukan error.
func (e *Engine) RunFullDiscovery(ctx context.Context, opts RunOptions) Report {
	report := Report{ScanTime: time.Now().UTC()}

	if !opts.EnableClearnet {
		log.Printf("clearnet discovery disabled, nothing to do")
		return report
	}

	urls := append([]string(nil), opts.SeedURLs...)
	if len(opts.Keywords) > 0 {
		urls = append(urls, e.SearchByKeywords(ctx, opts.Keywords, e.cfg.KeywordSearchLimit)...)
	}
	if opts.EnableMirrors && e.mirror != nil {
		mirrorURLs, err := e.mirror.Discover(ctx, opts.Keywords, e.cfg.KeywordSearchLimit)
		if err != nil {
			log.Printf("mirror discovery failed: %v", err)
		} else {
			urls = append(urls, mirrorURLs...)
		}
	}
	if len(urls) == 0 {
		log.Printf("no URLs to scan")
		return report
	}

	var results []*findings.Finding
	for _, u := range urls {
		// checkpoint pembatalan di granularitas URL
		if ctx.Err() != nil {
			break
		}
		if _, seen := e.discovered[u]; seen {
			continue
		}
		e.discovered[u] = struct{}{}

		res := e.AnalyzePaste(ctx, u)
		switch res.Outcome {
		case OutcomeFailed:
			e.recordSkip(u, "fetch", res.Reason)
			continue
		case OutcomeExcluded:
			continue
		}

		f := res.Finding
		results = append(results, f)

		if opts.CrawlAuthors && f.Author != findings.UnknownAuthor {
			results = append(results, e.ExpandAuthor(ctx, f.Author, sourceBaseURL(f.URL))...)
		}
	}

	// stable: skor sama → urutan discovery dipertahankan
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	report.Items = results
	report.TotalFound = len(results)
	report.URLsScanned = e.urlsScanned
	report.Skipped = e.skips
	return report
}

func (e *Engine) recordSkip(url, stage, reason string) {
	e.skips = append(e.skips, Skip{URL: url, Stage: stage, Reason: reason})
}
