package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// ErrNoFrame means the frames directory holds no usable screenshot yet.
var ErrNoFrame = errors.New("no frame available")

// ErrBadGeometry means a configured crop region does not fit inside the
// captured frame. Distinct from an empty-but-successful capture; callers
// treat it as a capture failure, not a parse miss.
var ErrBadGeometry = errors.New("crop region outside frame bounds")

// Frame is one full-screen mirror screenshot on disk.
type Frame struct {
	Path       string
	CapturedAt time.Time
}

// Crops holds the two region images cut from one frame, written as temp PNGs
// for the OCR engine. Callers own cleanup.
type Crops struct {
	BoostPath  string
	OddsPath   string
	CapturedAt time.Time
}

// Cleanup removes the temp crop files. Safe to call twice.
func (c Crops) Cleanup() {
	if c.BoostPath != "" {
		_ = os.Remove(c.BoostPath)
	}
	if c.OddsPath != "" {
		_ = os.Remove(c.OddsPath)
	}
}

// Source reads mirror frames from a directory that scrcpy (or any screen
// dump) writes PNGs into, and cuts the configured boost/odds regions.
type Source struct {
	Dir         string
	BoostRegion image.Rectangle
	OddsRegion  image.Rectangle
}

// Latest returns the newest PNG in the frames directory by modification
// time. Returns ErrNoFrame when the directory is empty.
func (s *Source) Latest() (Frame, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return Frame{}, fmt.Errorf("read frames dir: %w", err)
	}
	var best Frame
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if best.Path == "" || info.ModTime().After(best.CapturedAt) {
			best = Frame{Path: filepath.Join(s.Dir, e.Name()), CapturedAt: info.ModTime()}
		}
	}
	if best.Path == "" {
		return Frame{}, ErrNoFrame
	}
	return best, nil
}

// Crop validates the configured regions against the frame and writes each
// region to a temp PNG. Geometry failures surface as ErrBadGeometry.
func (s *Source) Crop(f Frame) (Crops, error) {
	img, err := imaging.Open(f.Path)
	if err != nil {
		return Crops{}, fmt.Errorf("open frame %s: %w", f.Path, err)
	}
	bounds := img.Bounds()
	for _, r := range []image.Rectangle{s.BoostRegion, s.OddsRegion} {
		if r.Empty() || !r.In(bounds) {
			return Crops{}, fmt.Errorf("%w: region %v frame %v", ErrBadGeometry, r, bounds)
		}
	}
	boostPath, err := saveCrop(imaging.Crop(img, s.BoostRegion), "boost")
	if err != nil {
		return Crops{}, err
	}
	oddsPath, err := saveCrop(imaging.Crop(img, s.OddsRegion), "odds")
	if err != nil {
		_ = os.Remove(boostPath)
		return Crops{}, err
	}
	return Crops{BoostPath: boostPath, OddsPath: oddsPath, CapturedAt: f.CapturedAt}, nil
}

func saveCrop(img image.Image, tag string) (string, error) {
	tmp, err := os.CreateTemp("", "boostwatch-"+tag+"-*.png")
	if err != nil {
		return "", fmt.Errorf("temp crop: %w", err)
	}
	_ = tmp.Close()
	if err := imaging.Save(img, tmp.Name()); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("save crop: %w", err)
	}
	return tmp.Name(), nil
}

// Watch emits a signal whenever a new PNG lands in the frames directory, as
// an alternative trigger to the fixed poll. The channel carries no payload;
// consumers call Latest themselves, which also absorbs bursts of writes.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := watcher.Add(s.Dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.Dir, err)
	}
	ch := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if !strings.HasSuffix(strings.ToLower(ev.Name), ".png") {
					continue
				}
				select {
				case ch <- struct{}{}:
				default: // a signal is already pending
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}
