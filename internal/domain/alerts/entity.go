package alerts

import "time"

// AlertID identifier type
type AlertID string

// Severity enum
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Status lifecycle alert
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// Alert dibuat untuk setiap finding yang mengandung kredensial
type Alert struct {
	ID          AlertID   `json:"id"`
	TenantID    string    `json:"tenant_id"`
	ScanID      string    `json:"scan_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Status      Status    `json:"status"`
	SourceURL   string    `json:"source_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SeverityFromAssessment maps skor AI (0-100) ke severity.
// AlertLevel dari AI bisa menaikkan level walau skornya di bawah ambang.
func SeverityFromAssessment(aiScore float64, alertLevel string) Severity {
	switch {
	case aiScore >= 80 || alertLevel == "HIGH":
		return SeverityCritical
	case aiScore >= 50 || alertLevel == "MEDIUM":
		return SeverityHigh
	case aiScore >= 30:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// SeverityHeuristic fallback kalau AI gak tersedia: pakai jumlah target
// email dan relevance score dari engine.
func SeverityHeuristic(targetEmailCount int, relevance float64) Severity {
	switch {
	case targetEmailCount >= 5 || relevance >= 0.8:
		return SeverityCritical
	case targetEmailCount >= 2 || relevance >= 0.6:
		return SeverityHigh
	case targetEmailCount >= 1 || relevance >= 0.4:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
