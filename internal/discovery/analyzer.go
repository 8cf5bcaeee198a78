package discovery

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/bryanwahyu/leakwatch/internal/domain/findings"
)

// Outcome hasil analisis satu paste.
type Outcome string

const (
	OutcomeIncluded Outcome = "included"
	OutcomeExcluded Outcome = "excluded"
	OutcomeFailed   Outcome = "failed"
)

// Analysis membedakan eksplisit antara "tidak relevan" dan "gagal fetch".
type Analysis struct {
	Outcome Outcome
	Reason  string
	Finding *findings.Finding
}

// AnalyzePaste fetch konten raw sebuah paste, skor relevansinya, dan
// bangun Finding kalau lolos threshold atau mengandung kredensial.
// Metadata (author/title) best-effort: gagal fetch halaman HTML tidak
// menggagalkan analisis.
func (e *Engine) AnalyzePaste(ctx context.Context, pasteURL string) Analysis {
	rawURL := rawContentURL(pasteURL)

	text, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return Analysis{Outcome: OutcomeFailed, Reason: err.Error()}
	}
	e.urlsScanned++

	author, title := e.pasteMetadata(ctx, pasteURL)
	score := Score(text, title, e.cfg.TargetDomain, e.cfg.LeakKeywords)
	hasCreds := e.detector.ContainsSensitiveData(text)

	if !hasCreds && score < e.cfg.MinRelevanceScore {
		return Analysis{Outcome: OutcomeExcluded, Reason: "below relevance threshold"}
	}

	emails := ExtractEmails(text)
	preview := text
	if len(preview) > e.cfg.PreviewLength {
		preview = preview[:e.cfg.PreviewLength]
	}

	f := &findings.Finding{
		ID:             findings.FindingID(uuid.NewString()),
		URL:            pasteURL,
		Source:         sourceHost(pasteURL),
		Author:         author,
		Title:          title,
		RelevanceScore: score,
		Emails:         emails,
		TargetEmails:   FilterTargetEmails(emails, e.cfg.TargetDomain),
		HasCredentials: hasCreds,
		ContentPreview: preview,
		DiscoveredAt:   time.Now().UTC(),
	}
	return Analysis{Outcome: OutcomeIncluded, Finding: f}
}

// pasteMetadata scrape halaman HTML paste untuk author dan title.
// Semua kegagalan jatuh ke default (unknown, "").
func (e *Engine) pasteMetadata(ctx context.Context, pasteURL string) (author, title string) {
	author = findings.UnknownAuthor

	body, err := e.fetcher.Fetch(ctx, pasteURL)
	if err != nil {
		return author, ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return author, ""
	}

	if s := strings.TrimSpace(doc.Find("div.username a").First().Text()); s != "" {
		author = s
	} else if s, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok && strings.TrimSpace(s) != "" {
		author = strings.TrimSpace(s)
	}
	title = strings.TrimSpace(doc.Find("div.paste_box_line1").First().AttrOr("title", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("div.paste_box_line1").First().Text())
	}
	return author, title
}

// rawContentURL translate URL paste ke endpoint raw content per situs.
// Situs yang tidak dikenal dipakai apa adanya.
func rawContentURL(pasteURL string) string {
	u, err := url.Parse(pasteURL)
	if err != nil {
		return pasteURL
	}
	id := strings.TrimPrefix(u.Path, "/")
	switch {
	case strings.Contains(u.Host, "pastebin.com"):
		if id != "" && !strings.HasPrefix(u.Path, "/raw/") {
			u.Path = "/raw/" + id
			return u.String()
		}
	case strings.Contains(u.Host, "paste.ee"):
		if id != "" && !strings.HasPrefix(u.Path, "/r/") {
			u.Path = "/r/" + id
			return u.String()
		}
	}
	return pasteURL
}

func sourceHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// sourceBaseURL scheme://host dari URL finding, dipakai frontier crawl.
func sourceBaseURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
