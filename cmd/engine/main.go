package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/events"
	"talentmatch-engine/internal/geocode"
	"talentmatch-engine/internal/httpapi"
	"talentmatch-engine/internal/logger"
	"talentmatch-engine/internal/match"
	"talentmatch-engine/internal/rank"
	"talentmatch-engine/internal/scheduler"
	"talentmatch-engine/internal/search"
	"talentmatch-engine/internal/secrets"
	"talentmatch-engine/internal/session"
	"talentmatch-engine/internal/store"
)

func main() {
	// Engine data dir: env if provided (a desktop shell can pass one),
	// else local folder.
	dataDir := os.Getenv("TALENTMATCH_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fatal("data dir", err)
	}

	log, err := logger.New(os.Getenv("TALENTMATCH_LOG") != "console", os.Getenv("TALENTMATCH_DEBUG") == "1")
	if err != nil {
		fatal("logger", err)
	}
	defer func() { _ = log.Sync() }()

	// One engine per data dir; a second instance exits instead of
	// fighting over the sqlite file.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatal("lock", zap.Error(err))
	}
	if !locked {
		log.Fatal("another engine instance holds the data dir", zap.String("dir", dataDir))
	}
	defer func() { _ = lock.Unlock() }()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatal("config bootstrap failed", zap.Error(err))
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, wmsg := range vr.Warnings {
			log.Warn("config", zap.String("warning", wmsg))
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatal("config load failed", zap.String("path", userCfgPath), zap.Error(err))
	}
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dataDir, "talentmatch.db"))
	if err != nil {
		log.Fatal("open db", zap.Error(err))
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	seedGazetteer(db, dataDir, log)

	// Geocoder token is optional; keyring lookup failures just mean
	// anonymous provider access.
	token := ""
	if cfg.Geocoder.UseKeyringToken {
		token, err = secrets.GetGeocoderToken(secrets.GeocoderKeyringAccount(cfg))
		if err != nil {
			log.Warn("geocoder token unavailable", zap.Error(err))
		}
	}
	provider := geocode.NewHTTPProvider(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.ClientID,
		token,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
	)
	resolver := geocode.NewResolver(db.Pool, provider, cfg.Geocoder.RequestsPerSec, cfg.Geocoder.Burst, log)
	debounce := geocode.NewDebouncer(time.Duration(cfg.Geocoder.DebounceMillis) * time.Millisecond)
	defer debounce.Stop()

	drafts := openDrafts(cfg, log)

	engine := search.New(
		search.SQLStore{DB: db.Pool},
		resolver,
		match.NewScorer(cfg.Scoring.Weights),
		rank.New(),
		log,
	)

	hub := events.NewHub()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scheduler.Every(rootCtx, time.Duration(cfg.Maintenance.SweepMinutes)*time.Minute, "gazetteer_purge", log,
		func(ctx context.Context) error {
			maxAge := time.Duration(cfg.Maintenance.GazetteerMaxAgeDays) * 24 * time.Hour
			n, err := store.PurgeStaleGazetteer(db.Pool, maxAge)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("gazetteer purged", zap.Int64("rows", n))
			}
			return nil
		})
	if mem, ok := drafts.(*session.Memory); ok {
		go scheduler.Every(rootCtx, time.Duration(cfg.Maintenance.SweepMinutes)*time.Minute, "draft_purge", log,
			func(ctx context.Context) error {
				mem.PurgeIdle(time.Duration(cfg.Redis.DraftTTLMinutes) * time.Minute)
				return nil
			})
	}

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		Engine:      engine,
		Drafts:      drafts,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Resolve:     resolver.Resolve,
		Debounce:    debounce,
		Log:         log,
	})

	addr := net.JoinHostPort("127.0.0.1", portString(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("listen", zap.Error(err))
	}

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover(log), httpapi.AccessLog(log), httpapi.Cors),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownToken, err := randomToken(16)
	if err != nil {
		log.Fatal("shutdown token", zap.Error(err))
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&shutdownToken, srv))
	// The shell reads the token from stdout on launch.
	writeStartupInfo(addr, shutdownToken)

	go func() {
		<-rootCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Info("engine listening", zap.String("addr", addr), zap.String("config", userCfgPath))
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal("serve", zap.Error(err))
	}
}

// openDrafts prefers redis when configured and reachable, with the
// in-process store as fallback so the engine always starts.
func openDrafts(cfg config.Config, log *zap.Logger) session.Store {
	if cfg.Redis.Addr == "" {
		return session.NewMemory()
	}
	ttl := time.Duration(cfg.Redis.DraftTTLMinutes) * time.Minute
	r, err := session.NewRedis(cfg.Redis.Addr, cfg.Redis.DB, ttl)
	if err != nil {
		log.Warn("redis unavailable, using in-memory drafts", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		return session.NewMemory()
	}
	log.Info("draft store on redis", zap.String("addr", cfg.Redis.Addr))
	return r
}

// seedGazetteer overlays a bundled city list so common locations resolve
// without any provider call. Seed rows never expire.
func seedGazetteer(db *store.DB, dataDir string, log *zap.Logger) {
	seedPath := filepath.Join(dataDir, "gazetteer.yml")
	cities, err := config.LoadGazetteerSeed(seedPath)
	if err != nil {
		log.Warn("gazetteer seed unreadable", zap.String("path", seedPath), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, c := range cities {
		coord := domain.Coordinate{Lat: c.Lat, Lon: c.Lon, Source: domain.SourceCached}
		if err := store.UpsertCity(ctx, db.Pool, c.City, c.Country, coord); err != nil {
			log.Warn("gazetteer seed row failed", zap.String("city", c.City), zap.Error(err))
		}
	}
	if len(cities) > 0 {
		log.Info("gazetteer seeded", zap.Int("cities", len(cities)))
	}
}
