package utils

// Thumbnail generation for uploaded profile and stadium images. Originals are
// stored as received; a scaled JPEG copy is written next to them so list
// views never ship multi-megabyte files.

import (
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for uploads
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// thumbnail bounding box in pixels; aspect ratio is preserved.
const (
	thumbMaxWidth  = 200
	thumbMaxHeight = 200
)

// SaveWithThumbnail writes the uploaded image to destDir under baseName and a
// scaled thumbnail under baseName_thumb.jpg. It returns the two file paths.
// The source reader must contain a JPEG or PNG image.
func SaveWithThumbnail(src io.Reader, destDir, baseName string) (string, string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", "", err
	}

	// Copy the full upload to disk first, then decode from the stored file.
	// Decoders stop at the end-of-image marker, so decoding the incoming
	// stream directly would drop any trailing bytes from the original.
	origPath := filepath.Join(destDir, baseName)
	orig, err := os.Create(origPath)
	if err != nil {
		return "", "", err
	}
	if _, err = io.Copy(orig, src); err != nil {
		orig.Close()
		_ = os.Remove(origPath)
		return "", "", err
	}
	if err = orig.Close(); err != nil {
		_ = os.Remove(origPath)
		return "", "", err
	}

	stored, err := os.Open(origPath)
	if err != nil {
		_ = os.Remove(origPath)
		return "", "", err
	}
	img, _, err := image.Decode(stored)
	stored.Close()
	if err != nil {
		_ = os.Remove(origPath)
		return "", "", err
	}

	thumbPath := thumbName(origPath)
	if err := writeThumb(img, thumbPath); err != nil {
		_ = os.Remove(origPath)
		return "", "", err
	}
	return origPath, thumbPath, nil
}

// thumbName derives the thumbnail path from the original: ext is replaced
// with _thumb.jpg so thumbnails are always JPEG.
func thumbName(origPath string) string {
	ext := filepath.Ext(origPath)
	return origPath[:len(origPath)-len(ext)] + "_thumb.jpg"
}

func writeThumb(img image.Image, path string) error {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	tw, th := fitWithin(w, h, thumbMaxWidth, thumbMaxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, dst, &jpeg.Options{Quality: 80})
}

// fitWithin scales (w, h) down to fit inside (maxW, maxH) preserving aspect
// ratio. Images already inside the box keep their size.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	rw := float64(maxW) / float64(w)
	rh := float64(maxH) / float64(h)
	r := rw
	if rh < rw {
		r = rh
	}
	tw := int(float64(w) * r)
	th := int(float64(h) * r)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}
