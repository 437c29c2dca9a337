package capture

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func writeFrame(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save frame: %v", err)
	}
	return path
}

func TestLatestPicksNewestPNG(t *testing.T) {
	dir := t.TempDir()
	old := writeFrame(t, dir, "frame-001.png", 100, 100)
	newer := writeFrame(t, dir, "frame-002.png", 100, 100)
	past := time.Now().Add(-time.Minute)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	// Non-PNG noise is ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write noise: %v", err)
	}

	s := &Source{Dir: dir}
	f, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if f.Path != newer {
		t.Fatalf("expected %s got %s", newer, f.Path)
	}
}

func TestLatestEmptyDir(t *testing.T) {
	s := &Source{Dir: t.TempDir()}
	if _, err := s.Latest(); err != ErrNoFrame {
		t.Fatalf("expected ErrNoFrame got %v", err)
	}
}

func TestCropWritesBothRegions(t *testing.T) {
	dir := t.TempDir()
	frame := writeFrame(t, dir, "frame.png", 400, 800)
	s := &Source{
		Dir:         dir,
		BoostRegion: image.Rect(10, 100, 390, 200),
		OddsRegion:  image.Rect(10, 220, 390, 300),
	}
	crops, err := s.Crop(Frame{Path: frame, CapturedAt: time.Now()})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	defer crops.Cleanup()
	for _, p := range []string{crops.BoostPath, crops.OddsPath} {
		img, err := imaging.Open(p)
		if err != nil {
			t.Fatalf("open crop %s: %v", p, err)
		}
		if img.Bounds().Dx() != 380 {
			t.Fatalf("unexpected crop width %d", img.Bounds().Dx())
		}
	}
	crops.Cleanup()
	if _, err := os.Stat(crops.BoostPath); !os.IsNotExist(err) {
		t.Fatalf("cleanup left %s behind", crops.BoostPath)
	}
}

func TestCropBadGeometry(t *testing.T) {
	dir := t.TempDir()
	frame := writeFrame(t, dir, "frame.png", 200, 200)
	s := &Source{
		Dir:         dir,
		BoostRegion: image.Rect(0, 0, 300, 100), // wider than the frame
		OddsRegion:  image.Rect(0, 100, 200, 200),
	}
	_, err := s.Crop(Frame{Path: frame})
	if !errors.Is(err, ErrBadGeometry) {
		t.Fatalf("expected ErrBadGeometry got %v", err)
	}
}
