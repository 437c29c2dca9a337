package ocr

import (
	"fmt"
	"log"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Region-tuned character whitelists. The odds crop only ever shows the
// Was/Now line; the boost crop only ever shows the percentage banner.
// Restricting the alphabet cuts most of Tesseract's hallucinations, and the
// garble tables in corrections.go absorb what remains.
const (
	oddsWhitelist  = "0123456789+-<>»WasNowON()/: "
	boostWhitelist = "0123456789%BoostODSTbodst.:() "
	wideWhitelist  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz%+-<>»./:() "
)

// Engine runs Tesseract over cropped region images. A fresh gosseract client
// is created per pass; the client is not safe for reuse across SetImage calls
// with different settings.
type Engine struct {
	// Lang is the Tesseract language pack, default "eng".
	Lang string
}

func NewEngine() *Engine { return &Engine{Lang: "eng"} }

// RecognizeOddsRegion OCRs the Was/Now crop. Empty text is a valid result
// meaning nothing legible, not an error.
func (e *Engine) RecognizeOddsRegion(path string) (string, error) {
	return e.recognizeRegion(path, oddsWhitelist)
}

// RecognizeBoostRegion OCRs the percentage banner crop.
func (e *Engine) RecognizeBoostRegion(path string) (string, error) {
	return e.recognizeRegion(path, boostWhitelist)
}

// recognizeRegion runs two passes — a preprocessed pass with the tight
// whitelist and a raw pass with the wide one — and aggregates the text so
// the parsers see every variant.
func (e *Engine) recognizeRegion(path, whitelist string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open region image: %w", err)
	}
	prepped := prepare(img)

	tmp := path
	if tmpFile, err := os.CreateTemp("", "boostocr-*.png"); err == nil {
		tmp = tmpFile.Name()
		_ = tmpFile.Close()
		if err := imaging.Save(prepped, tmp); err != nil {
			tmp = path
		}
	}
	defer func() {
		if tmp != path {
			_ = os.Remove(tmp)
		}
	}()

	base, err := e.textPass(tmp, whitelist)
	if err != nil {
		return "", err
	}
	// Wide pass over the untouched crop catches text the threshold ate.
	wide, _ := e.textPass(path, wideWhitelist)

	agg := normalizeText(base + " " + wide)
	log.Printf("OCR region %s snippet=%q", path, snippet(agg, 140))
	return agg, nil
}

func (e *Engine) textPass(path, whitelist string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	lang := e.Lang
	if lang == "" {
		lang = "eng"
	}
	_ = client.SetLanguage(lang)
	_ = client.SetWhitelist(whitelist)
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr error: %w", err)
	}
	return normalizeText(text), nil
}
