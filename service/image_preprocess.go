package service

import (
	"image"

	"github.com/disintegration/imaging"
)

// maxOCRSide caps the longer image side handed to OCR.
const maxOCRSide = 3000

// PreprocessForOCR turns a receipt photo into a sharpened, high contrast
// grayscale image.
func PreprocessForOCR(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() > maxOCRSide || b.Dy() > maxOCRSide {
		src = imaging.Fit(src, maxOCRSide, maxOCRSide, imaging.Lanczos)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 20)
	img = imaging.Sharpen(img, 1.0)
	return img
}
