package ai

import "context"

// Item adalah satu potong konten yang mau dinilai AI
type Item struct {
	Text      string `json:"text"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Assessment hasil penilaian AI untuk satu item
type Assessment struct {
	Index              int      `json:"index"`
	VulnerabilityScore float64  `json:"vulnerability_score"`
	Summary            string   `json:"summary,omitempty"`
	Rationale          string   `json:"rationale,omitempty"`
	AlertLevel         string   `json:"alerts,omitempty"` // LOW | MEDIUM | HIGH
	Signals            []string `json:"signals,omitempty"`
}

type Client interface {
	Assess(ctx context.Context, item Item) (Assessment, error)
}
