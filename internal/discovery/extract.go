package discovery

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// credentialPatterns bentuk kredensial tradisional (user:pass dsb).
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\w+:\w+@`),                                  // user:pass@host
	regexp.MustCompile(`(?i)\b\w+:\w{6,}\b`),                              // user:password (6+ chars)
	regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`),                       // password: xxx / password=xxx
	regexp.MustCompile(`(?i)username\s*[:=]\s*\S+.*password\s*[:=]\s*\S+`), // pasangan username/password
}

// leakIndicators frasa yang menandakan database dump/leak.
var leakIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)database\s+(dump|leak|breach)`),
	regexp.MustCompile(`(?i)leaked\s+(credentials|data|database)`),
	regexp.MustCompile(`(?i)(dump|leaked)\s+\d+\s+(users|accounts|emails)`),
}

// ExtractEmails kembalikan semua email unik di text, urutan kemunculan
// pertama dipertahankan, case output apa adanya.
func ExtractEmails(text string) []string {
	matches := emailPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToLower(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// FilterTargetEmails ambil subset emails yang bagian domainnya mengandung
// targetDomain (case-insensitive, substring, jadi subdomain juga kena).
func FilterTargetEmails(emails []string, targetDomain string) []string {
	if targetDomain == "" {
		return nil
	}
	target := strings.ToLower(targetDomain)
	var out []string
	for _, email := range emails {
		at := strings.LastIndex(email, "@")
		if at < 0 {
			continue
		}
		if strings.Contains(strings.ToLower(email[at+1:]), target) {
			out = append(out, email)
		}
	}
	return out
}

// Detector deteksi data sensitif: kredensial, PII berlabel, indikator leak.
// Vocabulary PII-nya konfigurasi (locale-specific), dikompilasi sekali.
type Detector struct {
	piiPatterns []*regexp.Regexp
	piiKeywords []string
}

// NewDetector kompilasi pattern PII dari config.
func NewDetector(piiFieldPatterns, piiKeywords []string) (*Detector, error) {
	d := &Detector{piiKeywords: piiKeywords}
	for _, p := range piiFieldPatterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("invalid pii pattern %q: %w", p, err)
		}
		d.piiPatterns = append(d.piiPatterns, re)
	}
	return d, nil
}

// ContainsSensitiveData true kalau text mengandung salah satu dari:
// pattern kredensial, field PII berlabel, indikator database leak, atau
// 3+ keyword PII berbeda (heuristik density, paling rawan false positive).
func (d *Detector) ContainsSensitiveData(text string) bool {
	for _, re := range credentialPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range d.piiPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range leakIndicators {
		if re.MatchString(text) {
			return true
		}
	}

	// heuristik multi-field: 3+ keyword PII berbeda muncul bersamaan
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range d.piiKeywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count >= 3
}
