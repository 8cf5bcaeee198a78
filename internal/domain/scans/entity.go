package scans

import "time"

// ID tipe untuk Scan
type ScanID string

// Status enum
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Options menentukan perilaku satu discovery run
type Options struct {
	EnableClearnet bool     `json:"enable_clearnet"`
	EnableMirrors  bool     `json:"enable_mirrors"`
	CrawlAuthors   bool     `json:"crawl_authors"`
	Keywords       []string `json:"keywords,omitempty"`
}

// Aggregate Root: Scan
type Scan struct {
	ID               ScanID    `json:"id"`
	TenantID         string    `json:"tenant_id"`
	Status           Status    `json:"status"`
	Progress         float64   `json:"progress"`
	URLs             []string  `json:"urls"`
	Options          Options   `json:"options"`
	TotalResults     int       `json:"total_results"`
	CredentialsFound int       `json:"credentials_found"`
	URLsScanned      int       `json:"urls_scanned"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
