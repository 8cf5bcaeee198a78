package findings

import "time"

// FindingID identifier type
type FindingID string

// Finding adalah hasil analisis satu paste: sinyal yang diekstrak + skor.
// Immutable setelah dibuat oleh engine; layer lain boleh menambah anotasi
// (EvidenceURL) tapi tidak mengubah field hasil ekstraksi.
type Finding struct {
	ID             FindingID `json:"id,omitempty"`
	ScanID         string    `json:"scan_id,omitempty"`
	TenantID       string    `json:"tenant_id,omitempty"`
	URL            string    `json:"url"`
	Source         string    `json:"source"`
	Author         string    `json:"author"`
	Title          string    `json:"title,omitempty"`
	RelevanceScore float64   `json:"relevance_score"`
	Emails         []string  `json:"emails"`
	TargetEmails   []string  `json:"target_emails"`
	HasCredentials bool      `json:"has_credentials"`
	ContentPreview string    `json:"content_preview,omitempty"`
	EvidenceURL    string    `json:"evidence_url,omitempty"`
	DiscoveredAt   time.Time `json:"discovered_at"`
}

// UnknownAuthor sentinel dipakai kalau metadata author gak bisa diambil.
const UnknownAuthor = "unknown"
