package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	aiapp "github.com/bryanwahyu/leakwatch/internal/application/ai"
	appscans "github.com/bryanwahyu/leakwatch/internal/application/scans"
	"github.com/bryanwahyu/leakwatch/internal/config"
	"github.com/bryanwahyu/leakwatch/internal/discovery"
	"github.com/bryanwahyu/leakwatch/internal/domain/alerts"
	"github.com/bryanwahyu/leakwatch/internal/domain/findings"
	"github.com/bryanwahyu/leakwatch/internal/domain/scanerrors"
	domainscans "github.com/bryanwahyu/leakwatch/internal/domain/scans"
	mysqlp "github.com/bryanwahyu/leakwatch/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/leakwatch/internal/infra/db/postgres"
	"github.com/bryanwahyu/leakwatch/internal/infra/httpserver"
	openaiClient "github.com/bryanwahyu/leakwatch/internal/infra/ai/openai"
	"github.com/bryanwahyu/leakwatch/internal/infra/notify"
	minioStore "github.com/bryanwahyu/leakwatch/internal/infra/storage"
	"github.com/bryanwahyu/leakwatch/internal/middleware"
)

// discoveryRunner bikin engine baru tiap run; state dedup engine
// run-scoped jadi gak boleh dishare antar scan.
type discoveryRunner struct {
	cfg discovery.Config
}

func (d discoveryRunner) RunDiscovery(ctx context.Context, opts discovery.RunOptions) (discovery.Report, error) {
	eng, err := discovery.NewEngine(d.cfg)
	if err != nil {
		return discovery.Report{}, err
	}
	if len(d.cfg.MirrorSources) > 0 {
		mirror, err := discovery.NewMirrorDiscovery(d.cfg, d.cfg.SocksProxy, eng)
		if err != nil {
			return discovery.Report{}, err
		}
		discovery.WithMirror(mirror)(eng)
	}
	return eng.RunFullDiscovery(ctx, opts), nil
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect DB sesuai driver
	var (
		scanRepo    domainscans.Repository
		findingRepo findings.Repository
		alertRepo   alerts.Repository
		skipRepo    scanerrors.Repository
		db          interface{ Close() error }
		pinger      middleware.HealthChecker
	)
	switch cfg.Database.Driver {
	case "postgres":
		pg, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		scanRepo = postgresp.NewScanRepository(pg)
		findingRepo = postgresp.NewFindingRepository(pg)
		alertRepo = postgresp.NewAlertRepository(pg)
		db = pg
		pinger = &middleware.DatabaseHealthChecker{DB: pg}
	case "mysql", "":
		my, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		scanRepo = mysqlp.NewScanRepository(my)
		findingRepo = mysqlp.NewFindingRepository(my)
		alertRepo = mysqlp.NewAlertRepository(my)
		skipRepo = mysqlp.NewSkipRepository(my)
		db = my
		pinger = &middleware.DatabaseHealthChecker{DB: my}
	default:
		log.Fatalf("unknown database driver %q", cfg.Database.Driver)
	}
	defer db.Close()

	checkers := map[string]middleware.HealthChecker{"database": pinger}

	// init minio (opsional, evidence di-skip kalau kosong)
	var evidence appscans.EvidenceStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		evidence = store
		checkers["storage"] = &middleware.ObjectStoreHealthChecker{Checker: store}
	}

	// init AI assessor (opsional)
	var assessor appscans.Assessor
	if cfg.OpenAI.APIKey != "" {
		assessor = aiapp.NewService(openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
	}

	// hub websocket untuk event scan realtime
	hub := notify.NewHub()

	// init service
	svc := &appscans.Service{
		Scans:      scanRepo,
		Findings:   findingRepo,
		Alerts:     alertRepo,
		Skips:      skipRepo,
		Discoverer: discoveryRunner{cfg: cfg.DiscoveryConfig()},
		Evidence:   evidence,
		Assessor:   assessor,
		Notifier:   hub,
		Clock:      appscans.SystemClock{},
	}

	// init router + middleware chain
	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RateLimitMiddleware(100, 10))
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Mount("/", httpserver.NewRouter(svc, hub, middleware.HealthHandler(checkers)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
