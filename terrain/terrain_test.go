package terrain

import (
	"errors"
	"testing"
)

func smallConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Width = 8
	cfg.Height = 8
	cfg.Seed = seed
	return cfg
}

func TestGenerateHeightmapDeterministic(t *testing.T) {
	for _, kind := range []NoiseKind{NoiseHash, NoiseSimplex} {
		t.Run(string(kind), func(t *testing.T) {
			cfg := smallConfig(42)
			cfg.Noise = kind

			a, err := GenerateHeightmap(cfg)
			if err != nil {
				t.Fatalf("GenerateHeightmap: %v", err)
			}
			b, err := GenerateHeightmap(cfg)
			if err != nil {
				t.Fatalf("GenerateHeightmap: %v", err)
			}

			if len(a.Data) != 64 || len(b.Data) != 64 {
				t.Fatalf("len(Data) = %d, %d, want 64", len(a.Data), len(b.Data))
			}
			for i := range a.Data {
				if a.Data[i] != b.Data[i] {
					t.Fatalf("cell %d differs: %v != %v", i, a.Data[i], b.Data[i])
				}
			}
		})
	}
}

func TestGenerateHeightmapNormalized(t *testing.T) {
	hm, err := GenerateHeightmap(smallConfig(7))
	if err != nil {
		t.Fatalf("GenerateHeightmap: %v", err)
	}

	var sawMin, sawMax bool
	for i, h := range hm.Data {
		if h < 0 || h > 1 {
			t.Errorf("cell %d = %v outside [0,1]", i, h)
		}
		if h == 0 {
			sawMin = true
		}
		if h == 1 {
			sawMax = true
		}
	}
	if !sawMin || !sawMax {
		t.Errorf("normalization did not reach both bounds (min=%v max=%v)", sawMin, sawMax)
	}
	if hm.MinHeight != 0 || hm.MaxHeight != 1 {
		t.Errorf("MinHeight/MaxHeight = %v/%v, want 0/1", hm.MinHeight, hm.MaxHeight)
	}
}

func TestGenerateHeightmapSingleCell(t *testing.T) {
	for _, seed := range []int64{1, 2, 42} {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height = 1, 1
		cfg.Seed = seed

		hm, err := GenerateHeightmap(cfg)
		if err != nil {
			t.Fatalf("seed %d: GenerateHeightmap: %v", seed, err)
		}
		h := hm.Data[0]
		if h < 0 || h > 1 {
			t.Errorf("seed %d: height %v outside [0,1]", seed, h)
		}
		if hm.MinHeight != h || hm.MaxHeight != h {
			t.Errorf("seed %d: MinHeight/MaxHeight = %v/%v, want %v", seed, hm.MinHeight, hm.MaxHeight, h)
		}
		if b := GenerateBiomes(hm, seed).At(0, 0); b >= NumBiomes {
			t.Errorf("seed %d: biome %d out of range", seed, b)
		}
	}
}

func TestGenerateHeightmapSeedsDiffer(t *testing.T) {
	a, _ := GenerateHeightmap(smallConfig(1))
	b, _ := GenerateHeightmap(smallConfig(2))

	same := true
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical heightmaps")
	}
}

func TestNewLayers(t *testing.T) {
	for _, kind := range []NoiseKind{NoiseHash, NoiseSimplex, ""} {
		l, err := newLayers(kind, 9)
		if err != nil {
			t.Fatalf("newLayers(%q): %v", kind, err)
		}
		if l.base == nil || l.ridges == nil || l.rivers == nil {
			t.Errorf("newLayers(%q) left a nil layer: %+v", kind, l)
		}
	}
	if _, err := newLayers("perlin", 9); err == nil {
		t.Error("newLayers(perlin) should fail")
	}
}

func TestGenerateHeightmapInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		isDims bool
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Height = -3 }, true},
		{"zero scale", func(c *Config) { c.Scale = 0 }, false},
		{"no octaves", func(c *Config) { c.Octaves = 0 }, false},
		{"unknown noise", func(c *Config) { c.Noise = "perlin" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig(42)
			tt.modify(&cfg)

			hm, err := GenerateHeightmap(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if hm != nil {
				t.Error("expected nil heightmap on error")
			}
			if got := errors.Is(err, ErrInvalidDimensions); got != tt.isDims {
				t.Errorf("errors.Is(err, ErrInvalidDimensions) = %v, want %v (err=%v)", got, tt.isDims, err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name             string
		alt, temp, moist float64
		want             Biome
	}{
		{"low altitude hot dry", 0.15, 0.9, 0.1, Water},
		{"low altitude cold wet", 0.15, 0.1, 0.9, Water},
		{"high altitude cold wet", 0.75, 0.1, 0.9, Mountain},
		{"high altitude hot dry", 0.75, 0.9, 0.1, Mountain},
		{"cold wet", 0.5, 0.2, 0.7, Forest},
		{"hot dry", 0.5, 0.8, 0.2, Desert},
		{"temperate", 0.5, 0.5, 0.5, Grass},
		{"water threshold is exclusive", 0.2, 0.5, 0.5, Grass},
		{"mountain threshold is exclusive", 0.7, 0.5, 0.5, Grass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.alt, tt.temp, tt.moist); got != tt.want {
				t.Errorf("Classify(%v, %v, %v) = %v, want %v", tt.alt, tt.temp, tt.moist, got, tt.want)
			}
		})
	}
}

func TestGenerateBiomesMatchesAltitude(t *testing.T) {
	hm, err := GenerateHeightmap(smallConfig(42))
	if err != nil {
		t.Fatalf("GenerateHeightmap: %v", err)
	}
	grid := GenerateBiomes(hm, 42)

	for i, h := range hm.Data {
		b := grid.Cells[i]
		switch {
		case h < WaterLevel && b != Water:
			t.Errorf("cell %d altitude %v classified %v, want Water", i, h, b)
		case h > MountainLevel && b != Mountain:
			t.Errorf("cell %d altitude %v classified %v, want Mountain", i, h, b)
		}
	}

	again := GenerateBiomes(hm, 42)
	for i := range grid.Cells {
		if grid.Cells[i] != again.Cells[i] {
			t.Fatalf("biome cell %d not deterministic", i)
		}
	}
}

func TestModifiersFor(t *testing.T) {
	m := ModifiersFor(Grass)
	if m.MovementSpeed != 1.2 {
		t.Errorf("Grass movement = %v, want 1.2", m.MovementSpeed)
	}
	if got, want := m.HungerRate, 1 / float32(0.8); got != want {
		t.Errorf("Grass hunger rate = %v, want %v", got, want)
	}
	if got, want := m.ReproductionRate, float32(0.8)*float32(0.6); got != want {
		t.Errorf("Grass reproduction rate = %v, want %v", got, want)
	}

	if Data(Biome(99)).Name != "Grassland" {
		t.Error("unknown biome should fall back to Grassland")
	}
}

func TestDescribe(t *testing.T) {
	want := "Desert: A sparse region with little water. Resources: cacti, rare_minerals."
	if got := Describe(Desert); got != want {
		t.Errorf("Describe(Desert) = %q, want %q", got, want)
	}
}

func TestWorldToGrid(t *testing.T) {
	tests := []struct {
		world float32
		want  int
	}{
		{-500, 0},
		{-10000, 0},
		{0, 128},
		{499.9, 255},
		{500, 255},
		{10000, 255},
	}

	for _, tt := range tests {
		if got := WorldToGrid(tt.world, 1000, 256); got != tt.want {
			t.Errorf("WorldToGrid(%v) = %d, want %d", tt.world, got, tt.want)
		}
	}
}

func TestTerrainSampling(t *testing.T) {
	tr, err := New(smallConfig(3), 1000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Corner positions map to corner cells.
	if got, want := tr.HeightAt(-500, -500), tr.Heightmap.At(0, 0); got != want {
		t.Errorf("HeightAt(-500,-500) = %v, want %v", got, want)
	}
	if got, want := tr.BiomeAt(500, 500), tr.Biomes.At(7, 7); got != want {
		t.Errorf("BiomeAt(500,500) = %v, want %v", got, want)
	}
	if got, want := SampleBiomeAtPosition(tr.Biomes, 0, 0, 1000), tr.Biomes.At(4, 4); got != want {
		t.Errorf("SampleBiomeAtPosition(0,0) = %v, want %v", got, want)
	}

	if _, err := New(smallConfig(3), 0); err == nil {
		t.Error("expected error for zero world size")
	}
}
