package utils

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFitWithin(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"already fits", 150, 100, 150, 100},
		{"wide", 400, 200, 200, 100},
		{"tall", 100, 400, 50, 200},
		{"square oversize", 1000, 1000, 200, 200},
		{"extreme ratio stays positive", 10000, 1, 200, 1},
	}
	for _, tc := range cases {
		gw, gh := fitWithin(tc.w, tc.h, 200, 200)
		if gw != tc.wantW || gh != tc.wantH {
			t.Errorf("%s: got %dx%d, want %dx%d", tc.name, gw, gh, tc.wantW, tc.wantH)
		}
	}
}

func TestSaveWithThumbnail(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 640, 480))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	dir := t.TempDir()
	origPath, thumbPath, err := SaveWithThumbnail(&buf, dir, "pic.png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if filepath.Base(origPath) != "pic.png" {
		t.Fatalf("unexpected original name: %s", origPath)
	}
	if filepath.Base(thumbPath) != "pic_thumb.jpg" {
		t.Fatalf("unexpected thumbnail name: %s", thumbPath)
	}
	for _, p := range []string{origPath, thumbPath} {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if st.Size() == 0 {
			t.Fatalf("%s is empty", p)
		}
	}

	// The thumbnail must fit the bounding box.
	f, err := os.Open(thumbPath)
	if err != nil {
		t.Fatalf("open thumb: %v", err)
	}
	defer f.Close()
	cfgImg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode thumb: %v", err)
	}
	if cfgImg.Width > 200 || cfgImg.Height > 200 {
		t.Fatalf("thumbnail %dx%d exceeds 200x200", cfgImg.Width, cfgImg.Height)
	}
}

// Some cameras append metadata after the end-of-image marker; the stored
// original must keep every byte, not just what the decoder consumed.
func TestSaveWithThumbnailKeepsTrailingBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	trailer := []byte("trailing metadata block")
	buf.Write(trailer)
	want := int64(buf.Len())

	dir := t.TempDir()
	origPath, _, err := SaveWithThumbnail(&buf, dir, "trail.png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err := os.Stat(origPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() != want {
		t.Fatalf("stored %d bytes, want %d", st.Size(), want)
	}
	stored, err := os.ReadFile(origPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasSuffix(stored, trailer) {
		t.Fatal("trailing bytes were dropped from the stored original")
	}
}

func TestSaveWithThumbnailRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := SaveWithThumbnail(bytes.NewBufferString("not an image"), dir, "junk.png"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := os.Stat(filepath.Join(dir, "junk.png")); !os.IsNotExist(err) {
		t.Fatal("failed upload must not leave the original behind")
	}
}
