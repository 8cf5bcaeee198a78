package discovery

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DiscoveryStrategy sumber URL kandidat alternatif (mirror, aggregator).
type DiscoveryStrategy interface {
	Discover(ctx context.Context, keywords []string, limit int) ([]string, error)
}

// SearchByKeywords cari URL paste kandidat di semua source yang
// dikonfigurasi. Limit dibagi rata per keyword dengan floor 10 supaya
// keyword list panjang tetap dapat jatah masuk akal. Hasil dedup
// cross-keyword, urutan penemuan dipertahankan.
func (e *Engine) SearchByKeywords(ctx context.Context, keywords []string, limit int) []string {
	if len(keywords) == 0 {
		return nil
	}
	subLimit := limit / len(keywords)
	if subLimit < 10 {
		subLimit = 10
	}

	seen := make(map[string]struct{})
	var out []string
	for i, kw := range keywords {
		if ctx.Err() != nil {
			break
		}
		// jeda antar keyword biar sopan ke situs sumber
		if i > 0 {
			select {
			case <-time.After(e.cfg.KeywordDelay):
			case <-ctx.Done():
				return out
			}
		}
		for _, src := range e.cfg.Sources {
			urls := e.searchSite(ctx, src, kw, subLimit)
			if len(urls) == 0 {
				urls = e.archiveFallback(ctx, src, kw, subLimit)
			}
			for _, u := range urls {
				if _, dup := seen[u]; dup {
					continue
				}
				seen[u] = struct{}{}
				out = append(out, u)
				if len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

// searchSite query endpoint pencarian sebuah source, balikan link paste.
func (e *Engine) searchSite(ctx context.Context, baseURL, keyword string, limit int) []string {
	searchURL := baseURL + "/search?q=" + url.QueryEscape(keyword)
	body, err := e.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		e.recordSkip(searchURL, "search", err.Error())
		return nil
	}
	return e.pasteLinks(body, baseURL, limit)
}

// archiveFallback scan halaman arsip publik source kalau search kosong
// atau tidak tersedia. Jalur best-effort yang lebih lambat: listing arsip
// tidak terfilter keyword, jadi tiap kandidat di-fetch dan hanya yang
// kontennya memuat keyword yang lolos. Jumlah kandidat yang diperiksa
// dibatasi ArchiveScanLimit.
func (e *Engine) archiveFallback(ctx context.Context, baseURL, keyword string, limit int) []string {
	archiveURL := baseURL + "/archive"
	body, err := e.fetcher.Fetch(ctx, archiveURL)
	if err != nil {
		e.recordSkip(archiveURL, "search", err.Error())
		return nil
	}
	log.Printf("fallback ke archive scan untuk %s", baseURL)

	needle := strings.ToLower(keyword)
	var matches []string
	for _, u := range e.pasteLinks(body, baseURL, e.cfg.ArchiveScanLimit) {
		if ctx.Err() != nil {
			break
		}
		content, err := e.fetcher.Fetch(ctx, rawContentURL(u))
		if err != nil {
			e.recordSkip(u, "search", err.Error())
			continue
		}
		if strings.Contains(strings.ToLower(content), needle) {
			matches = append(matches, u)
			if len(matches) >= limit {
				break
			}
		}
	}
	return matches
}

func (e *Engine) pasteLinks(body, baseURL string, limit int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if pasteLinkPattern.MatchString(href) {
			links = append(links, baseURL+href)
		}
		return len(links) < limit
	})
	return links
}

// MirrorDiscovery implementasi DiscoveryStrategy untuk source mirror.
// Share dedup set parent supaya konten yang kejangkau dua rute tetap
// dianalisis sekali.
type MirrorDiscovery struct {
	engine  *Engine
	parent  *Engine
	sources []string
}

// NewMirrorDiscovery bangun strategy mirror. Source mirror umumnya bisa
// diakses clearnet; proxy SOCKS5 hanya dipakai kalau socksAddr diisi.
func NewMirrorDiscovery(cfg Config, socksAddr string, parent *Engine) (*MirrorDiscovery, error) {
	var client *http.Client
	if socksAddr != "" {
		c, err := ProxiedClient(socksAddr, cfg.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		client = c
	}
	mirrorCfg := cfg
	mirrorCfg.Sources = cfg.MirrorSources
	eng := &Engine{
		cfg:              mirrorCfg,
		fetcher:          NewFetcher(client, mirrorCfg),
		detector:         parent.detector,
		discovered:       parent.discovered,
		processedAuthors: parent.processedAuthors,
	}
	return &MirrorDiscovery{engine: eng, parent: parent, sources: cfg.MirrorSources}, nil
}

// Discover cari URL kandidat di source mirror.
func (m *MirrorDiscovery) Discover(ctx context.Context, keywords []string, limit int) ([]string, error) {
	if len(m.sources) == 0 {
		return nil, nil
	}
	urls := m.engine.SearchByKeywords(ctx, keywords, limit)
	// skip jalur mirror ikut ledger run utama
	m.parent.skips = append(m.parent.skips, m.engine.skips...)
	m.engine.skips = nil
	return urls, nil
}
