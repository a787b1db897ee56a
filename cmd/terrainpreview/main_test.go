package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/habitat/terrain"
)

func testTerrain(t *testing.T) *terrain.Terrain {
	t.Helper()
	cfg := terrain.DefaultConfig()
	cfg.Width, cfg.Height = 16, 12
	tr, err := terrain.New(cfg, 100)
	if err != nil {
		t.Fatalf("terrain.New: %v", err)
	}
	return tr
}

func TestRenderHeightmap(t *testing.T) {
	tr := testTerrain(t)
	img := renderHeightmap(tr.Heightmap, 3)

	b := img.Bounds()
	if b.Dx() != 48 || b.Dy() != 36 {
		t.Fatalf("bounds = %v, want 48x36", b)
	}

	want := uint8(clamp01(tr.Heightmap.At(5, 4)) * 255)
	for dy := 0; dy < 3; dy++ {
		for dx := 0; dx < 3; dx++ {
			if got := img.GrayAt(15+dx, 12+dy).Y; got != want {
				t.Errorf("pixel (%d,%d) = %d, want %d", 15+dx, 12+dy, got, want)
			}
		}
	}
}

func TestRenderBiomesOpaque(t *testing.T) {
	tr := testTerrain(t)
	img := renderBiomes(tr, 0)

	b := img.Bounds()
	if b.Dx() != 16 || b.Dy() != 12 {
		t.Fatalf("scale 0 bounds = %v, want 16x12", b)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, a)
			}
		}
	}
}

func TestWritePNG(t *testing.T) {
	tr := testTerrain(t)
	path := filepath.Join(t.TempDir(), "biomes.png")
	if err := writePNG(path, renderBiomes(tr, 2)); err != nil {
		t.Fatalf("writePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Dx(); got != 32 {
		t.Errorf("decoded width = %d, want 32", got)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0xffff {
		t.Errorf("decoded alpha = %d, want opaque", a)
	}
}
