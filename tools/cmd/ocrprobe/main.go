package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"boostwatch/pkg/capture"
	"boostwatch/pkg/ocr"
	"boostwatch/pkg/odds"
)

// ocrprobe runs one frame through the full crop -> OCR -> parse path and
// prints what every stage saw. Useful when tuning crop regions or chasing a
// new Tesseract garble.
//
// Usage: ocrprobe -frame frame.png -boost 40,220,1040,420 -odds 40,430,1040,560
func main() {
	framePath := flag.String("frame", "", "path to a full-screen frame PNG")
	boostSpec := flag.String("boost", "40,220,1040,420", "boost region x0,y0,x1,y1")
	oddsSpec := flag.String("odds", "40,430,1040,560", "odds region x0,y0,x1,y1")
	flag.Parse()

	if *framePath == "" {
		fmt.Fprintln(os.Stderr, "usage: ocrprobe -frame <png> [-boost x0,y0,x1,y1] [-odds x0,y0,x1,y1]")
		os.Exit(2)
	}
	boostRegion, err := parseRect(*boostSpec)
	if err != nil {
		fatal("boost region: %v", err)
	}
	oddsRegion, err := parseRect(*oddsSpec)
	if err != nil {
		fatal("odds region: %v", err)
	}

	src := &capture.Source{
		Dir:         filepath.Dir(*framePath),
		BoostRegion: boostRegion,
		OddsRegion:  oddsRegion,
	}
	crops, err := src.Crop(capture.Frame{Path: *framePath, CapturedAt: time.Now()})
	if err != nil {
		fatal("crop: %v", err)
	}
	defer crops.Cleanup()

	eng := ocr.NewEngine()

	boostText, err := eng.RecognizeBoostRegion(crops.BoostPath)
	if err != nil {
		fatal("boost OCR: %v", err)
	}
	fmt.Printf("boost text: %q\n", boostText)
	if pct, err := ocr.ParseBoostPercent(boostText); err == nil {
		fmt.Printf("boost pct:  %.6g\n", pct)
	} else {
		fmt.Printf("boost pct:  %v\n", err)
	}

	oddsText, err := eng.RecognizeOddsRegion(crops.OddsPath)
	if err != nil {
		fatal("odds OCR: %v", err)
	}
	fmt.Printf("odds text:  %q\n", oddsText)
	if pair, err := ocr.ParseOddsPair(oddsText); err == nil {
		fmt.Printf("odds pair:  %s (decimal %.4f -> %.4f)\n", pair, pair.Pre.Decimal(), pair.Post.Decimal())
		if pct, perr := ocr.ParseBoostPercent(boostText); perr == nil {
			calc := odds.Verify(pct, pair.Pre, pair.Post, 0)
			fmt.Printf("implied:    %.2f%% (discrepancy %.2f significant=%v)\n",
				calc.CalculatedPct, calc.Discrepancy, calc.Significant)
		}
	} else {
		fmt.Printf("odds pair:  %v\n", err)
	}
}

func parseRect(s string) (image.Rectangle, error) {
	var x0, y0, x1, y1 int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x0, &y0, &x1, &y1); err != nil {
		return image.Rectangle{}, err
	}
	return image.Rect(x0, y0, x1, y1), nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
