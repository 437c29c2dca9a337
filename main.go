package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"boostwatch/models"
	"boostwatch/pkg/capture"
	"boostwatch/pkg/feed"
	"boostwatch/pkg/logger"
	"boostwatch/pkg/notify"
	"boostwatch/pkg/ocr"
	"boostwatch/pkg/reconcile"
)

func main() {
	// Auto-load ./.env if present before reading vars.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}
	log, err := logger.New("boostwatch", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	met := newMetrics()

	db, err := initDB(cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}

	// Identity survives restarts when Redis is configured; otherwise the
	// first boost seen after startup alerts again.
	var store reconcile.IdentityStore = reconcile.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		store = reconcile.NewRedisStore(rdb, "")
		defer rdb.Close()
	}

	hub := feed.NewHub()
	webhook := notify.NewWebhook(cfg.WebhookURL, log)
	notifier := &instrumentedNotifier{inner: webhook, met: met, db: db, log: log}

	rec := reconcile.New(ctx, reconcile.Config{
		StaleTimeout: cfg.StaleTimeout,
		MaxFailures:  cfg.MaxFailures,
	}, store, notifier, log)
	rec.OnNewBoost = func(obs reconcile.Observation) {
		met.boostsDetected.Inc()
		hub.Broadcast(boostRecordFrom(obs))
		if db != nil {
			record := boostRecordFrom(obs)
			if err := db.Create(&record).Error; err != nil {
				log.Warn("persist boost record", zap.Error(err))
			}
		}
	}

	src := &capture.Source{
		Dir:         cfg.FramesDir,
		BoostRegion: cfg.BoostRegion,
		OddsRegion:  cfg.OddsRegion,
	}
	w := &watcher{
		cfg: cfg,
		src: src,
		eng: ocr.NewEngine(),
		rec: rec,
		met: met,
		log: log,
	}

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	setupRoutes(r, &server{db: db, rec: rec, hub: hub}, []byte(cfg.JWTSecret))
	go func() {
		if err := r.Run(cfg.HTTPAddr); err != nil {
			log.Error("http server", zap.Error(err))
		}
	}()

	log.Info("boostwatch started",
		zap.String("frames_dir", cfg.FramesDir),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("stale_timeout", cfg.StaleTimeout),
		zap.Int("max_failures", cfg.MaxFailures),
	)

	go w.healthLoop(ctx)
	w.loop(ctx)

	log.Info("boostwatch stopped")
}

func boostRecordFrom(obs reconcile.Observation) models.BoostRecord {
	rec := models.BoostRecord{
		Percentage:   obs.Percentage,
		RawBoostText: obs.RawBoostText,
		RawOddsText:  obs.RawOddsText,
		FrameFile:    obs.FramePath,
		ObservedAt:   obs.ObservedAt,
	}
	if obs.WasOdds != nil {
		v := int(*obs.WasOdds)
		rec.WasOdds = &v
	}
	if obs.NowOdds != nil {
		v := int(*obs.NowOdds)
		rec.NowOdds = &v
	}
	if obs.Calc != nil {
		calc, disc := obs.Calc.CalculatedPct, obs.Calc.Discrepancy
		rec.CalculatedPct = &calc
		rec.Discrepancy = &disc
		rec.Significant = obs.Calc.Significant
	}
	return rec
}
