package discovery

import "time"

// Config mengatur satu discovery engine. Semua nilai punya default yang
// mengikuti deployment awal (target kampus, paste site publik); lihat
// DefaultConfig.
type Config struct {
	// TargetDomain adalah domain organisasi yang dipantau, dipakai untuk
	// scoring dan filter email.
	TargetDomain string

	// RequestDelay jeda antar request ke sumber yang sama (politeness).
	RequestDelay time.Duration

	// MaxRetries batas retry untuk kegagalan transient.
	MaxRetries int

	// MinRelevanceScore ambang inclusion; finding dengan kredensial selalu
	// lolos tanpa melihat ambang ini.
	MinRelevanceScore float64

	// LeakKeywords vocabulary untuk scoring keyword-match.
	LeakKeywords []string

	// PIIFieldPatterns regex untuk field PII berlabel. Locale-specific:
	// vocabulary-nya data konfigurasi, bukan logic.
	PIIFieldPatterns []string

	// PIIKeywords vocabulary untuk heuristik density (3+ keyword = leak).
	PIIKeywords []string

	// UserAgents pool identitas request, dipilih acak per request.
	UserAgents []string

	// Sources daftar paste site clearnet.
	Sources []string

	// MirrorSources mirror clearnet dari paste site darkweb (opsional).
	MirrorSources []string

	// SocksProxy alamat proxy SOCKS5 untuk transport mirror (opsional).
	SocksProxy string

	// AuthorCrawlLimit batas fan-out kandidat per author.
	AuthorCrawlLimit int

	// ArchiveScanLimit batas kandidat yang diperiksa di jalur fallback
	// archive per keyword.
	ArchiveScanLimit int

	// KeywordSearchLimit batas total URL hasil keyword discovery.
	KeywordSearchLimit int

	// KeywordDelay jeda antar keyword saat search.
	KeywordDelay time.Duration

	// PreviewLength panjang maksimum content preview pada finding.
	PreviewLength int

	// HTTPTimeout timeout per request.
	HTTPTimeout time.Duration
}

// DefaultConfig mengembalikan konfigurasi default engine.
func DefaultConfig() Config {
	return Config{
		TargetDomain:      "ui.ac.id",
		RequestDelay:      2 * time.Second,
		MaxRetries:        3,
		MinRelevanceScore: 0.05,
		LeakKeywords: []string{
			"password", "credentials", "leaked", "database", "dump",
			"breach", "hack", "compromised", "exposed", "confidential",
			"username", "passwd", "login", "account",
		},
		PIIFieldPatterns: []string{
			`npm\s*[:=]\s*\d{10}`,
			`no\.?\s*hp\s*(pribadi|orang\s*tua)?\s*[:=]\s*[\d\s\+\-\(\)]{8,}`,
			`nik\s*[:=]\s*\d{16}`,
			`alamat\s*(rumah|kost|lengkap)?\s*[:=]`,
			`tempat\s*lahir\s*[:=]`,
			`tanggal\s*lahir\s*[:=]`,
			`nama\s*(lengkap|panggilan)\s*[:=]`,
			`program\s*studi\s*[:=]`,
			`jalur\s*masuk\s*[:=]`,
			`fakultas\s*[:=]`,
		},
		PIIKeywords: []string{
			"nama", "npm", "email", "alamat", "no. hp", "hp pribadi",
			"tanggal lahir", "tempat lahir", "fakultas", "jurusan",
		},
		UserAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		},
		Sources: []string{
			"https://pastebin.com",
			"https://paste.ee",
			"https://privatebin.net",
			"https://justpaste.it",
			"https://pastelink.net",
		},
		MirrorSources:      nil,
		AuthorCrawlLimit:   20,
		ArchiveScanLimit:   30,
		KeywordSearchLimit: 50,
		KeywordDelay:       time.Second,
		PreviewLength:      2000,
		HTTPTimeout:        15 * time.Second,
	}
}

// withDefaults mengisi field kosong dengan nilai default.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TargetDomain == "" {
		c.TargetDomain = def.TargetDomain
	}
	if c.RequestDelay <= 0 {
		c.RequestDelay = def.RequestDelay
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.MinRelevanceScore <= 0 {
		c.MinRelevanceScore = def.MinRelevanceScore
	}
	if len(c.LeakKeywords) == 0 {
		c.LeakKeywords = def.LeakKeywords
	}
	if len(c.PIIFieldPatterns) == 0 {
		c.PIIFieldPatterns = def.PIIFieldPatterns
	}
	if len(c.PIIKeywords) == 0 {
		c.PIIKeywords = def.PIIKeywords
	}
	if len(c.UserAgents) == 0 {
		c.UserAgents = def.UserAgents
	}
	if len(c.Sources) == 0 {
		c.Sources = def.Sources
	}
	if c.AuthorCrawlLimit <= 0 {
		c.AuthorCrawlLimit = def.AuthorCrawlLimit
	}
	if c.ArchiveScanLimit <= 0 {
		c.ArchiveScanLimit = def.ArchiveScanLimit
	}
	if c.KeywordSearchLimit <= 0 {
		c.KeywordSearchLimit = def.KeywordSearchLimit
	}
	if c.KeywordDelay <= 0 {
		c.KeywordDelay = def.KeywordDelay
	}
	if c.PreviewLength <= 0 {
		c.PreviewLength = def.PreviewLength
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = def.HTTPTimeout
	}
	return c
}
