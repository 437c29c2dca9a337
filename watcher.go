package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"boostwatch/pkg/capture"
	"boostwatch/pkg/ocr"
	"boostwatch/pkg/odds"
	"boostwatch/pkg/reconcile"
)

// watcher drives the capture-and-analyze loop. One cycle runs to completion
// before the next is considered; a slow cycle delays the next tick instead
// of overlapping it, because everything runs on this one goroutine.
type watcher struct {
	cfg Config
	src *capture.Source
	eng *ocr.Engine
	rec *reconcile.Reconciler
	met *metrics
	log *zap.Logger
}

// loop ticks at the poll interval and also wakes early when fsnotify sees a
// new frame land. Stops when ctx is cancelled, between cycles only.
func (w *watcher) loop(ctx context.Context) {
	frames, err := w.src.Watch(ctx)
	if err != nil {
		w.log.Warn("frame watch unavailable, polling only", zap.Error(err))
		frames = nil
	}
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runCycle(ctx)
		case _, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			w.runCycle(ctx)
		}
	}
}

// healthLoop runs the two watches on their own cadence, decoupled from the
// capture loop.
func (w *watcher) healthLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.HealthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.rec.CheckStale(ctx, now)
			w.rec.CheckFailures(ctx)
		}
	}
}

// runCycle wraps one cycle with the loop-survival guarantee: any panic is
// absorbed and counted as a failed cycle.
func (w *watcher) runCycle(ctx context.Context) {
	w.met.cycles.Inc()
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("cycle panic", zap.Any("panic", r))
			w.recordFailure()
		}
	}()
	if err := w.cycle(ctx); err != nil {
		// ParseMiss, ValidationReject and CaptureFailure all land here;
		// per-cycle misses are routine, so debug level only.
		w.log.Debug("cycle miss", zap.Error(err))
		w.recordFailure()
	}
}

func (w *watcher) recordFailure() {
	n := w.rec.RecordFailure()
	w.met.parseFailures.Inc()
	w.met.consecFailures.Set(float64(n))
}

// cycle is one capture → OCR → parse → reconcile pass. A nil return means a
// percentage was extracted and handed to the reconciler; the odds pair is
// optional and its absence is not a cycle failure.
func (w *watcher) cycle(ctx context.Context) error {
	frame, err := w.src.Latest()
	if err != nil {
		return err
	}
	crops, err := w.src.Crop(frame)
	if err != nil {
		return err
	}
	defer crops.Cleanup()

	boostText, err := w.eng.RecognizeBoostRegion(crops.BoostPath)
	if err != nil {
		return err
	}
	pct, err := ocr.ParseBoostPercent(boostText)
	if err != nil {
		return err
	}

	obs := reconcile.Observation{
		Percentage:   pct,
		ObservedAt:   crops.CapturedAt,
		RawBoostText: boostText,
		FramePath:    frame.Path,
	}

	oddsText, err := w.eng.RecognizeOddsRegion(crops.OddsPath)
	if err == nil {
		obs.RawOddsText = oddsText
		if pair, perr := ocr.ParseOddsPair(oddsText); perr == nil {
			was, now := pair.Pre, pair.Post
			obs.WasOdds, obs.NowOdds = &was, &now
			calc := odds.Verify(pct, pair.Pre, pair.Post, w.cfg.DiscrepancyThreshold)
			obs.Calc = &calc
			if calc.Significant {
				w.log.Warn("detected percentage disagrees with odds pair",
					zap.Float64("detected", pct),
					zap.Float64("implied", calc.CalculatedPct),
					zap.Float64("discrepancy", calc.Discrepancy))
			}
		}
	} else {
		w.log.Warn("odds region OCR failed", zap.Error(err))
	}

	w.rec.Observe(ctx, obs)
	w.met.consecFailures.Set(0)
	return nil
}
