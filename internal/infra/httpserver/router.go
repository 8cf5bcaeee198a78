package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appscans "github.com/bryanwahyu/leakwatch/internal/application/scans"
	domai "github.com/bryanwahyu/leakwatch/internal/domain/ai"
	"github.com/bryanwahyu/leakwatch/internal/domain/findings"
	domain "github.com/bryanwahyu/leakwatch/internal/domain/scans"
	"github.com/bryanwahyu/leakwatch/internal/infra/notify"
	"github.com/bryanwahyu/leakwatch/internal/middleware"
)

// errBadRequest penanda untuk input yang gak valid; wrap() map ke 400.
var errBadRequest = errors.New("bad request")

type Router struct {
	scansSvc *appscans.Service
	hub      *notify.Hub
}

func NewRouter(scansSvc *appscans.Service, hub *notify.Hub, health http.HandlerFunc) http.Handler {
	r := &Router{scansSvc: scansSvc, hub: hub}
	mux := chi.NewRouter()

	if health == nil {
		health = func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("ok"))
		}
	}
	mux.Get("/health", health)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/scans", r.wrap(r.handleCreateScan))
		rt.Get("/scans", r.wrap(r.handleLatest))
		rt.Get("/scans/{id}", r.wrap(r.handleGet))
		rt.Get("/scans/{id}/results", r.wrap(r.handleResults))
		rt.Get("/scans/{id}/skips", r.wrap(r.handleSkips))
		rt.Get("/alerts", r.wrap(r.handleAlerts))
		rt.Get("/search", r.wrap(r.handleSearch))
		rt.Get("/stats", r.wrap(r.handleStats))
		if hub != nil {
			rt.Get("/ws", hub.ServeWS)
		}
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, errBadRequest) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// tenantFrom ambil tenant dari URL dan cocokkan dengan tenant hasil auth.
func tenantFrom(req *http.Request) (string, error) {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if authed := middleware.GetTenantFromContext(req.Context()); authed != "" && authed != tenant {
		return "", fmt.Errorf("%w: tenant mismatch", errBadRequest)
	}
	return tenant, nil
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{tenant}/scans
// Body: {"urls": [...], "keywords": [...], "enable_clearnet": true,
//        "enable_mirrors": false, "crawl_authors": true}
func (r *Router) handleCreateScan(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}

	var body struct {
		URLs           []string `json:"urls"`
		Keywords       []string `json:"keywords"`
		EnableClearnet *bool    `json:"enable_clearnet"`
		EnableMirrors  *bool    `json:"enable_mirrors"`
		CrawlAuthors   *bool    `json:"crawl_authors"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateScanRequest(body.URLs, body.Keywords); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	// default: clearnet dan author crawl nyala, mirror mati
	opts := domain.Options{
		EnableClearnet: boolOr(body.EnableClearnet, true),
		EnableMirrors:  boolOr(body.EnableMirrors, false),
		CrawlAuthors:   boolOr(body.CrawlAuthors, true),
		Keywords:       body.Keywords,
	}

	scan, err := r.scansSvc.CreateScan(req.Context(), appscans.CreateScanCommand{
		TenantID: tenant,
		URLs:     body.URLs,
		Options:  opts,
	})
	if err != nil {
		return err
	}

	// 🚀 Jalankan di background, biar jalan sampai selesai
	middleware.IncrementScans()
	go func() {
		middleware.IncrementScansRunning()
		defer middleware.DecrementScansRunning()
		r.scansSvc.RunScanUntilDone(tenant, scan.ID, scan.URLs, scan.Options)

		done, err := r.scansSvc.Get(context.Background(), tenant, scan.ID)
		if err != nil {
			return
		}
		if done.Status == domain.StatusFailed {
			middleware.IncrementScansFailed()
			return
		}
		middleware.AddFindings(done.TotalResults)
		middleware.AddCredentialLeaks(done.CredentialsFound)
		// satu alert per finding berkredensial
		middleware.AddAlerts(done.CredentialsFound)
	}()

	// 🔙 langsung balikin respons ke client
	w.WriteHeader(http.StatusAccepted)
	return writeJSON(w, map[string]any{
		"id":        scan.ID,
		"status":    scan.Status,
		"tenant":    tenant,
		"message":   "scan started in background",
		"queued_at": time.Now(),
	})
}

// GET /v1/{tenant}/scans?limit=20 (scan terbaru dulu)
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.scansSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/scans/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateScanID(id); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	scan, err := r.scansSvc.Get(req.Context(), tenant, domain.ScanID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, scan)
}

// GET /v1/{tenant}/scans/{id}/results
func (r *Router) handleResults(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateScanID(id); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	list, err := r.scansSvc.Results(req.Context(), tenant, id)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/scans/{id}/skips?limit=100
func (r *Router) handleSkips(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateScanID(id); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.scansSvc.SkippedURLs(req.Context(), tenant, id, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/alerts?limit=20
func (r *Router) handleAlerts(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.scansSvc.LatestAlerts(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/search?q=&source=&min_score=&has_credentials=&email_domain=
func (r *Router) handleSearch(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	q := req.URL.Query()

	filter := findings.SearchFilter{
		Query:       middleware.SanitizeString(q.Get("q")),
		Source:      middleware.SanitizeString(q.Get("source")),
		EmailDomain: middleware.SanitizeString(q.Get("email_domain")),
	}
	if raw := q.Get("min_score"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil || score < 0 || score > 1 {
			return fmt.Errorf("%w: invalid min_score", errBadRequest)
		}
		filter.MinScore = score
	}
	if raw := q.Get("has_credentials"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: invalid has_credentials", errBadRequest)
		}
		filter.HasCredentials = &b
	}

	list, err := r.scansSvc.SearchFindings(req.Context(), tenant, filter)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	stats, err := r.scansSvc.Stats(req.Context(), tenant)
	if err != nil {
		return err
	}
	return writeJSON(w, stats)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
