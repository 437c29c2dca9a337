package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// prepare runs the standard cleanup chain on a cropped region before it is
// handed to Tesseract: grayscale, contrast, sharpen, upscale small crops,
// then a global threshold. Banner crops are small, so the upscale matters.
func prepare(img image.Image) *image.NRGBA {
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < 200 {
		gray = imaging.Resize(gray, 0, 400, imaging.Lanczos)
	}
	return binarize(gray, 200)
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
