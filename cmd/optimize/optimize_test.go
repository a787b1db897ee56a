package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	norm := pv.Normalize(def)
	for i, v := range norm {
		if v < 0 || v > 1 {
			t.Errorf("%s normalized default = %v, want within [0, 1]", pv.Specs[i].Name, v)
		}
	}

	back := pv.Denormalize(norm)
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s round trip = %v, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-1, 2, 0.5, 10000})
	want := []float64{0.05, 1.0, 0.5, 1500}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Clamp[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{0.5, 0.25, 0.25, 200})

	if cfg.World.InitialPopulation != 200 {
		t.Errorf("InitialPopulation = %d, want 200", cfg.World.InitialPopulation)
	}
	if got := cfg.Derived.SpeciesCDF[0]; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("SpeciesCDF[0] = %v, want 0.5", got)
	}

	extracted := pv.ExtractFromConfig(cfg)
	want := []float64{0.5, 0.25, 0.25, 200}
	for i := range want {
		if extracted[i] != want[i] {
			t.Errorf("ExtractFromConfig[%d] = %v, want %v", i, extracted[i], want[i])
		}
	}
}

func TestCV(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"constant", []float64{5, 5, 5}, 0},
		{"zero mean", []float64{0, 0}, 0},
		{"spread", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cv(tt.values); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cv = %v, want %v", got, tt.want)
			}
		})
	}
}

func window(h, p, tr int, energy float64) telemetry.WindowStats {
	return telemetry.WindowStats{
		Population: h + p + tr,
		Herbivores: h,
		Predators:  p,
		Tribals:    tr,
		EnergyP50:  energy,
	}
}

func TestComputeQuality(t *testing.T) {
	balanced := make([]telemetry.WindowStats, 10)
	lopsided := make([]telemetry.WindowStats, 10)
	for i := range balanced {
		balanced[i] = window(100, 100, 100, 0.6)
		lopsided[i] = window(290, 5, 5, 0.6)
	}

	qb := computeQuality(balanced)
	ql := computeQuality(lopsided)

	if math.Abs(qb-1) > 1e-9 {
		t.Errorf("balanced steady quality = %v, want 1", qb)
	}
	if ql >= qb {
		t.Errorf("lopsided quality %v should be below balanced %v", ql, qb)
	}
	if q := computeQuality(balanced[:qualityWarmupWindows]); q != 0 {
		t.Errorf("warmup-only quality = %v, want 0", q)
	}
}

func TestComputeFitness(t *testing.T) {
	r := &runResult{survivalTicks: 1000}
	if got := computeFitness(r); got != -1000 {
		t.Errorf("fitness without windows = %v, want -1000", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{42 * time.Second, "0m42s"},
		{3*time.Minute + 5*time.Second, "3m05s"},
		{2*time.Hour + time.Minute, "2h01m00s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestWriteEvalRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimize_log.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	clamped := []float64{0.6, 0.25, 0.15, 500}
	for i := 1; i <= 2; i++ {
		rec := []evalRecord{newEvalRecord(i, -1000, 0.5, clamped)}
		if err := writeEvalRecords(f, rec, i == 1); err != nil {
			t.Fatalf("writeEvalRecords(%d): %v", i, err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "eval,fitness,quality,herbivore_weight,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "2,") {
		t.Errorf("second row = %q, want eval 2", lines[2])
	}
}
