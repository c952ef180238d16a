package cmd

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFrameDelta(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 2, 2))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if d := frameDelta(a, b); d != 0 {
		t.Fatalf("expected zero delta for identical frames; got %f", d)
	}

	// Alpha is ignored; every color channel differs by full intensity
	for i := range b.Pix {
		if i%4 != 3 {
			b.Pix[i] = 255
		}
	}
	if d := frameDelta(a, b); math.Abs(d-1) > 1e-9 {
		t.Fatalf("expected delta of 1; got %f", d)
	}

	c := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if d := frameDelta(a, c); d != 0 {
		t.Fatalf("expected zero delta for mismatched frames; got %f", d)
	}
}

func TestWriteFrame(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range frame.Pix {
		frame.Pix[i] = uint8(i * 10)
	}

	imgFile := filepath.Join(t.TempDir(), "frame.png")
	if err := writeFrame(frame, imgFile); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(imgFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != frame.Bounds() {
		t.Fatalf("expected bounds %v; got %v", frame.Bounds(), img.Bounds())
	}
}
