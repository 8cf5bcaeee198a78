package scanerrors

import "time"

// ScanSkip mencatat satu unit kerja yang dilewati selama discovery run.
// Skip bukan kondisi fatal; run tetap jalan dan URL-nya cuma absen dari hasil.
type ScanSkip struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ScanID    string    `json:"scan_id"`
	URL       string    `json:"url"`
	Stage     string    `json:"stage,omitempty"` // fetch | search | frontier
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
