package imgio

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")

	if err := Save(testImage(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 16 || got.Y != 16 {
		t.Errorf("loaded size = %v, want 16x16", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Load on a missing file should fail")
	}
}

func TestCacheReusesDecodedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := Save(testImage(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cache := NewCache()
	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Error("second Load should return the cached image")
	}

	cache.Evict(path)
	third, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after Evict: %v", err)
	}
	if third == first {
		t.Error("Load after Evict should decode a fresh image")
	}
}

func TestCacheClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := Save(testImage(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cache := NewCache()
	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cache.Clear()

	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after Clear: %v", err)
	}
	if first == second {
		t.Error("Load after Clear should decode a fresh image")
	}
}
