package scans

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/leakwatch/internal/discovery"
	domainai "github.com/bryanwahyu/leakwatch/internal/domain/ai"
	"github.com/bryanwahyu/leakwatch/internal/domain/alerts"
	"github.com/bryanwahyu/leakwatch/internal/domain/findings"
	"github.com/bryanwahyu/leakwatch/internal/domain/scanerrors"
	domain "github.com/bryanwahyu/leakwatch/internal/domain/scans"
)

// aiScoreThreshold skor AI minimum supaya assessment dipakai untuk
// severity; di bawah ini fallback ke heuristik engine.
const aiScoreThreshold = 40.0

// Discoverer jalankan satu discovery run. Implementasi bikin engine baru
// per panggilan karena state dedup-nya run-scoped.
type Discoverer interface {
	RunDiscovery(ctx context.Context, opts discovery.RunOptions) (discovery.Report, error)
}

// EvidenceStore simpan snapshot konten sebagai bukti.
type EvidenceStore interface {
	PutEvidence(ctx context.Context, key string, content []byte) (string, error)
}

// Assessor penilaian AI batch, opsional.
type Assessor interface {
	AssessBatch(ctx context.Context, items []domainai.Item) ([]domainai.Assessment, error)
}

// Notifier broadcast event ke client realtime, opsional.
type Notifier interface {
	Broadcast(event string, payload any)
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Service implements use-cases untuk Scan.
// Field opsional (Skips, Evidence, Assessor, Notifier) boleh nil;
// fiturnya di-skip dengan degradasi halus.
type Service struct {
	Scans      domain.Repository
	Findings   findings.Repository
	Alerts     alerts.Repository
	Skips      scanerrors.Repository
	Discoverer Discoverer
	Evidence   EvidenceStore
	Assessor   Assessor
	Notifier   Notifier
	Clock      Clock
}

//
// ==== USE CASES ====
//

// Command untuk bikin scan baru
type CreateScanCommand struct {
	TenantID string
	URLs     []string
	Options  domain.Options
}

// CreateScan simpan scan berstatus queued dan kembalikan entity-nya.
// Eksekusi run-nya tanggung jawab caller (biasanya goroutine).
func (s *Service) CreateScan(ctx context.Context, cmd CreateScanCommand) (*domain.Scan, error) {
	now := s.Clock.Now()
	scan := &domain.Scan{
		ID:        domain.ScanID(uuid.NewString()),
		TenantID:  cmd.TenantID,
		Status:    domain.StatusQueued,
		Progress:  0,
		URLs:      cmd.URLs,
		Options:   cmd.Options,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Scans.Save(ctx, scan); err != nil {
		return nil, err
	}
	return scan, nil
}

// RunScanUntilDone jalanin discovery run dengan context.Background(),
// cocok dipanggil dari goroutine di router supaya gak kena context canceled.
func (s *Service) RunScanUntilDone(tenant string, id domain.ScanID, urls []string, opts domain.Options) {
	ctx := context.Background()

	update := func(status domain.Status, progress float64) {
		if err := s.Scans.UpdateStatus(ctx, tenant, id, status, progress); err != nil {
			log.Printf("scan %s: update status: %v", id, err)
		}
		s.broadcast("scan.progress", map[string]any{"scan_id": string(id), "progress": progress})
	}

	update(domain.StatusRunning, 0.1)
	s.broadcast("scan.started", map[string]any{"scan_id": string(id), "tenant_id": tenant})

	report, err := s.Discoverer.RunDiscovery(ctx, discovery.RunOptions{
		SeedURLs:       urls,
		EnableClearnet: opts.EnableClearnet,
		EnableMirrors:  opts.EnableMirrors,
		CrawlAuthors:   opts.CrawlAuthors,
		Keywords:       opts.Keywords,
	})
	if err != nil {
		s.fail(ctx, tenant, id, err)
		return
	}
	update(domain.StatusRunning, 0.3)

	assessments := s.assess(ctx, report.Items)
	update(domain.StatusRunning, 0.7)

	credsFound := 0
	for i, f := range report.Items {
		f.ScanID = string(id)
		f.TenantID = tenant
		if f.HasCredentials {
			credsFound++
		}
		s.attachEvidence(ctx, f)
		if err := s.Findings.Save(ctx, f); err != nil {
			s.fail(ctx, tenant, id, err)
			return
		}
		if f.HasCredentials {
			s.raiseAlert(ctx, f, assessments[i])
		}
	}
	s.persistSkips(ctx, tenant, string(id), report.Skipped)

	totals := domain.Totals{
		TotalResults:     report.TotalFound,
		CredentialsFound: credsFound,
		URLsScanned:      report.URLsScanned,
	}
	if err := s.Scans.UpdateResult(ctx, tenant, id, domain.StatusCompleted, totals, ""); err != nil {
		log.Printf("scan %s: update result: %v", id, err)
	}
	s.broadcast("scan.completed", map[string]any{
		"scan_id":           string(id),
		"tenant_id":         tenant,
		"total_results":     totals.TotalResults,
		"credentials_found": totals.CredentialsFound,
	})
}

func (s *Service) fail(ctx context.Context, tenant string, id domain.ScanID, err error) {
	log.Printf("scan %s failed: %v", id, err)
	if uerr := s.Scans.UpdateResult(ctx, tenant, id, domain.StatusFailed, domain.Totals{}, err.Error()); uerr != nil {
		log.Printf("scan %s: mark failed: %v", id, uerr)
	}
	s.broadcast("scan.failed", map[string]any{"scan_id": string(id), "error": err.Error()})
}

// assess nilai finding ber-kredensial lewat AI; hasilnya map index
// finding → assessment. Tanpa Assessor atau batch gagal total map kosong,
// severity jatuh ke heuristik.
func (s *Service) assess(ctx context.Context, items []*findings.Finding) map[int]domainai.Assessment {
	out := make(map[int]domainai.Assessment)
	if s.Assessor == nil {
		return out
	}

	var aiItems []domainai.Item
	var origin []int
	for i, f := range items {
		if !f.HasCredentials {
			continue
		}
		aiItems = append(aiItems, domainai.Item{
			Text:      f.ContentPreview,
			URL:       f.URL,
			Timestamp: f.DiscoveredAt.Format(time.RFC3339),
		})
		origin = append(origin, i)
	}
	if len(aiItems) == 0 {
		return out
	}

	results, err := s.Assessor.AssessBatch(ctx, aiItems)
	if err != nil {
		log.Printf("ai batch failed, fallback heuristik: %v", err)
		return out
	}
	for _, a := range results {
		if a.Index < 0 || a.Index >= len(origin) {
			continue
		}
		out[origin[a.Index]] = a
	}
	return out
}

func (s *Service) attachEvidence(ctx context.Context, f *findings.Finding) {
	if s.Evidence == nil || f.ContentPreview == "" {
		return
	}
	key := fmt.Sprintf("%s/%s/%s.txt", f.TenantID, f.ScanID, f.ID)
	url, err := s.Evidence.PutEvidence(ctx, key, []byte(f.ContentPreview))
	if err != nil {
		log.Printf("evidence upload %s: %v", f.URL, err)
		return
	}
	f.EvidenceURL = url
}

func (s *Service) raiseAlert(ctx context.Context, f *findings.Finding, a domainai.Assessment) {
	assessed := a.VulnerabilityScore >= aiScoreThreshold

	var severity alerts.Severity
	var desc strings.Builder
	fmt.Fprintf(&desc, "Kredensial terdeteksi di %s (relevance %.2f, %d email target).",
		f.URL, f.RelevanceScore, len(f.TargetEmails))
	if assessed {
		severity = alerts.SeverityFromAssessment(a.VulnerabilityScore, a.AlertLevel)
		fmt.Fprintf(&desc, " AI score %.0f: %s", a.VulnerabilityScore, a.Summary)
	} else {
		severity = alerts.SeverityHeuristic(len(f.TargetEmails), f.RelevanceScore)
	}

	alert := &alerts.Alert{
		ID:          alerts.AlertID(uuid.NewString()),
		TenantID:    f.TenantID,
		ScanID:      f.ScanID,
		Title:       fmt.Sprintf("Credential leak di %s", f.Source),
		Description: desc.String(),
		Severity:    severity,
		Status:      alerts.StatusOpen,
		SourceURL:   f.URL,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Alerts.Save(ctx, alert); err != nil {
		log.Printf("save alert for %s: %v", f.URL, err)
		return
	}
	s.broadcast("alert.created", alert)
}

func (s *Service) persistSkips(ctx context.Context, tenant, scanID string, skips []discovery.Skip) {
	if s.Skips == nil {
		return
	}
	for _, sk := range skips {
		e := &scanerrors.ScanSkip{
			TenantID:  tenant,
			ScanID:    scanID,
			URL:       sk.URL,
			Stage:     sk.Stage,
			Reason:    sk.Reason,
			CreatedAt: s.Clock.Now(),
		}
		if err := s.Skips.Save(ctx, e); err != nil {
			log.Printf("save skip %s: %v", sk.URL, err)
		}
	}
}

func (s *Service) broadcast(event string, payload any) {
	if s.Notifier != nil {
		s.Notifier.Broadcast(event, payload)
	}
}

//
// ==== QUERIES ====
//

// Get ambil 1 scan by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.ScanID) (*domain.Scan, error) {
	return s.Scans.Get(ctx, tenant, id)
}

// Latest ambil N scan terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Scan, error) {
	return s.Scans.Latest(ctx, tenant, limit)
}

// Results ambil semua finding milik satu scan
func (s *Service) Results(ctx context.Context, tenant string, scanID string) ([]*findings.Finding, error) {
	return s.Findings.ByScan(ctx, tenant, scanID)
}

// SearchFindings full query lintas scan
func (s *Service) SearchFindings(ctx context.Context, tenant string, filter findings.SearchFilter) ([]*findings.Finding, error) {
	return s.Findings.Search(ctx, tenant, filter)
}

// LatestAlerts ambil N alert terakhir
func (s *Service) LatestAlerts(ctx context.Context, tenant string, limit int) ([]*alerts.Alert, error) {
	return s.Alerts.Latest(ctx, tenant, limit)
}

// SkippedURLs daftar unit kerja yang dilewati pada satu scan
func (s *Service) SkippedURLs(ctx context.Context, tenant, scanID string, limit int) ([]*scanerrors.ScanSkip, error) {
	if s.Skips == nil {
		return nil, nil
	}
	return s.Skips.ListByScan(ctx, tenant, scanID, limit)
}

// Stats rekap dashboard: sebaran severity dan status alert, jumlah
// finding ber-kredensial, dan alert 24 jam terakhir.
func (s *Service) Stats(ctx context.Context, tenant string) (map[string]any, error) {
	bySeverity, err := s.Alerts.CountBySeverity(ctx, tenant)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.Alerts.CountByStatus(ctx, tenant)
	if err != nil {
		return nil, err
	}
	last24h, err := s.Alerts.CountSince(ctx, tenant, 24)
	if err != nil {
		return nil, err
	}
	credentialed, err := s.Findings.CountCredentialed(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"alerts_by_severity":    bySeverity,
		"alerts_by_status":      byStatus,
		"alerts_last_24h":       last24h,
		"credentialed_findings": credentialed,
	}, nil
}
