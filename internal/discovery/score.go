package discovery

import (
	"regexp"
	"strings"
)

// Bobot scoring. Tiap komponen di-cap sendiri sebelum dijumlah supaya satu
// sinyal saja gak bisa menjenuhkan skor; total di-cap 1.0.
const (
	weightDomainMention = 0.15
	capDomainMention    = 0.3

	weightEmail = 0.05
	capEmail    = 0.3

	weightTargetEmail = 0.1
	capTargetEmail    = 0.2

	weightKeyword = 0.04
	capKeyword    = 0.2

	weightNumericID    = 0.1
	weightPhoneIntl    = 0.05
	weightPhoneLocal   = 0.05
	weightAddressLabel = 0.05
	capPII             = 0.2
)

// Pattern struktural PII untuk scoring (bukan inclusion).
var (
	numericIDPattern    = regexp.MustCompile(`\b\d{10}\b`)
	phoneIntlPattern    = regexp.MustCompile(`\+?62\s?\d{2,3}[\s-]?\d{3,4}[\s-]?\d{3,4}`)
	phoneLocalPattern   = regexp.MustCompile(`0\d{2,3}[\s-]?\d{3,4}[\s-]?\d{3,4}`)
	addressLabelPattern = regexp.MustCompile(`(?i)(jalan|jl\.|alamat|address|kota|kelurahan)`)
)

// Score hitung relevance score [0,1] dari konten + title terhadap target
// domain. Deterministik: input sama selalu menghasilkan skor sama.
func Score(content, title, targetDomain string, leakKeywords []string) float64 {
	score := 0.0
	lower := strings.ToLower(content)
	combined := strings.ToLower(title + " " + content)

	// sebutan target domain
	if targetDomain != "" {
		if n := strings.Count(combined, strings.ToLower(targetDomain)); n > 0 {
			score += capped(float64(n)*weightDomainMention, capDomainMention)
		}
	}

	// email apa pun
	emails := ExtractEmails(content)
	if len(emails) > 0 {
		score += capped(float64(len(emails))*weightEmail, capEmail)
	}

	// email target domain (stack dengan komponen email umum)
	if n := len(FilterTargetEmails(emails, targetDomain)); n > 0 {
		score += capped(float64(n)*weightTargetEmail, capTargetEmail)
	}

	// leak keyword yang muncul (distinct)
	matches := 0
	for _, kw := range leakKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	if matches > 0 {
		score += capped(float64(matches)*weightKeyword, capKeyword)
	}

	// sinyal struktural PII
	pii := 0.0
	if numericIDPattern.MatchString(content) {
		pii += weightNumericID
	}
	if phoneIntlPattern.MatchString(content) {
		pii += weightPhoneIntl
	}
	if phoneLocalPattern.MatchString(content) {
		pii += weightPhoneLocal
	}
	if addressLabelPattern.MatchString(content) {
		pii += weightAddressLabel
	}
	score += capped(pii, capPII)

	return capped(score, 1.0)
}

func capped(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
