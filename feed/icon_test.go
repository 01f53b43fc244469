package feed

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"scales down", 288, 288, 144, 144},
		{"keeps aspect", 720, 360, 144, 72},
		{"small image untouched", 100, 50, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var src bytes.Buffer
			if err := png.Encode(&src, image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))); err != nil {
				t.Fatalf("encode png: %v", err)
			}
			data, w, h, err := Thumbnail(&src, IconWidth)
			if err != nil {
				t.Fatalf("Thumbnail failed: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output is not jpeg: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("encoded size = %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	if _, _, _, err := Thumbnail(strings.NewReader("not an image"), IconWidth); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestThumbnailTransparentBecomesWhite(t *testing.T) {
	for _, size := range []int{100, 300} {
		var src bytes.Buffer
		if err := png.Encode(&src, image.NewNRGBA(image.Rect(0, 0, size, size))); err != nil {
			t.Fatalf("encode png: %v", err)
		}
		data, w, h, err := Thumbnail(&src, IconWidth)
		if err != nil {
			t.Fatalf("Thumbnail failed: %v", err)
		}
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode jpeg: %v", err)
		}
		r, g, b, _ := img.At(w/2, h/2).RGBA()
		if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
			t.Errorf("%dpx source: center pixel = (%d,%d,%d), want white", size, r>>8, g>>8, b>>8)
		}
	}
}
