package discovery

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bryanwahyu/leakwatch/internal/domain/findings"
)

// ID paste pastebin-style: delapan alfanumerik persis setelah slash.
var pasteLinkPattern = regexp.MustCompile(`^/[A-Za-z0-9]{8}$`)

// ExpandAuthor crawl halaman profil author dan analisis paste lain
// miliknya. Author "unknown" atau yang sudah diproses jadi no-op tanpa
// network call sama sekali. Author ditandai processed SEBELUM fetch
// supaya kegagalan tidak memicu retry di run yang sama.
func (e *Engine) ExpandAuthor(ctx context.Context, author, baseURL string) []*findings.Finding {
	if author == "" || author == findings.UnknownAuthor || baseURL == "" {
		return nil
	}
	if _, done := e.processedAuthors[author]; done {
		return nil
	}
	e.processedAuthors[author] = struct{}{}

	profileURL := baseURL + "/u/" + author
	body, err := e.fetcher.Fetch(ctx, profileURL)
	if err != nil {
		e.recordSkip(profileURL, "frontier", err.Error())
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		e.recordSkip(profileURL, "frontier", err.Error())
		return nil
	}

	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if pasteLinkPattern.MatchString(href) {
			links = append(links, baseURL+href)
		}
		return len(links) < e.cfg.AuthorCrawlLimit
	})

	log.Printf("author %s: %d paste link ditemukan", author, len(links))

	var results []*findings.Finding
	for _, u := range links {
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
		case OutcomeIncluded:
			results = append(results, res.Finding)
		}
	}
	return results
}
