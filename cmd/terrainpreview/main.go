// Terrain preview tool - renders the generated heightmap and biome map to PNG.
//
// Usage: go run ./cmd/terrainpreview -seed 7 -out preview
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/terrain"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file (empty = use defaults)")
	seed := flag.Int64("seed", -1, "Simulation seed (-1 = from config)")
	noise := flag.String("noise", "", "Noise kind override: hash or simplex")
	scale := flag.Int("scale", 4, "Pixels per terrain cell")
	outDir := flag.String("out", ".", "Directory for heightmap.png and biomes.png")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := *config.Cfg()
	if *seed >= 0 {
		cfg.Simulation.Seed = *seed
	}
	if *noise != "" {
		cfg.Terrain.Noise = *noise
	}
	cfg.ComputeDerived()

	t, err := terrain.New(cfg.TerrainParams(), cfg.Derived.WorldSize32)
	if err != nil {
		log.Fatalf("failed to generate terrain: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	outputs := []struct {
		name string
		img  image.Image
	}{
		{"heightmap.png", renderHeightmap(t.Heightmap, *scale)},
		{"biomes.png", renderBiomes(t, *scale)},
	}
	for _, o := range outputs {
		path := filepath.Join(*outDir, o.name)
		if err := writePNG(path, o.img); err != nil {
			log.Fatalf("failed to write %s: %v", o.name, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	hm := t.Heightmap
	fmt.Printf("Grid %dx%d  Min: %.3f  Max: %.3f\n", hm.Width, hm.Height, hm.MinHeight, hm.MaxHeight)
	counts := t.Biomes.Counts()
	total := len(t.Biomes.Cells)
	for b := terrain.Biome(0); b < terrain.NumBiomes; b++ {
		fmt.Printf("  %-10s %6d cells (%5.1f%%)\n", b, counts[b], 100*float64(counts[b])/float64(total))
	}
}

// renderHeightmap draws elevation as grayscale, black at 0 and white at 1.
func renderHeightmap(hm *terrain.Heightmap, scale int) *image.Gray {
	scale = max(scale, 1)
	img := image.NewGray(image.Rect(0, 0, hm.Width*scale, hm.Height*scale))
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			v := uint8(clamp01(hm.At(x, y)) * 255)
			fillCell(img, x, y, scale, color.Gray{Y: v})
		}
	}
	return img
}

// renderBiomes draws each cell in its biome color, shaded by elevation.
func renderBiomes(t *terrain.Terrain, scale int) *image.RGBA {
	scale = max(scale, 1)
	g := t.Biomes
	img := image.NewRGBA(image.Rect(0, 0, g.Width*scale, g.Height*scale))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			rgb := terrain.Data(g.At(x, y)).Color
			shade := 0.7 + 0.3*clamp01(t.Heightmap.At(x, y))
			c := color.RGBA{
				R: uint8(clamp01(rgb[0]*shade) * 255),
				G: uint8(clamp01(rgb[1]*shade) * 255),
				B: uint8(clamp01(rgb[2]*shade) * 255),
				A: 255,
			}
			fillCell(img, x, y, scale, c)
		}
	}
	return img
}

type settable interface {
	Set(x, y int, c color.Color)
}

func fillCell(img settable, x, y, scale int, c color.Color) {
	for dy := 0; dy < scale; dy++ {
		for dx := 0; dx < scale; dx++ {
			img.Set(x*scale+dx, y*scale+dy, c)
		}
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
