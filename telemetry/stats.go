package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/components"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Population int `csv:"population"`
	Herbivores int `csv:"herbivores"`
	Predators  int `csv:"predators"`
	Tribals    int `csv:"tribals"`

	// Events during window
	Births           int `csv:"births"`
	Deaths           int `csv:"deaths"`
	BirthsOffspring  int `csv:"births_offspring"`
	BirthsRespawn    int `csv:"births_respawn"`
	DeathsStarvation int `csv:"deaths_starvation"`
	DeathsOldAge     int `csv:"deaths_old_age"`
	DeathsFrailty    int `csv:"deaths_frailty"`
	HerbivoreBirths  int `csv:"herbivore_births"`
	PredatorBirths   int `csv:"predator_births"`
	TribalBirths     int `csv:"tribal_births"`
	HerbivoreDeaths  int `csv:"herbivore_deaths"`
	PredatorDeaths   int `csv:"predator_deaths"`
	TribalDeaths     int `csv:"tribal_deaths"`
	Discoveries      int `csv:"discoveries"`
	Feedings         int `csv:"feedings"`

	// Distributions sampled at window end
	AgeMean    float64 `csv:"age_mean"`
	HungerMean float64 `csv:"hunger_mean"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Lineage depth among living entities
	MaxGeneration int `csv:"max_generation"`
}

// Count returns the population of one species at window end.
func (s WindowStats) Count(kind components.Kind) int {
	switch kind {
	case components.Herbivore:
		return s.Herbivores
	case components.Predator:
		return s.Predators
	case components.Tribal:
		return s.Tribals
	}
	return 0
}

// Quantile returns the p-th empirical quantile of values, p in [0, 1].
// values need not be sorted. Returns 0 if values is empty.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	sorted := values
	if !sort.Float64sAreSorted(values) {
		sorted = append([]float64(nil), values...)
		sort.Float64s(sorted)
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, standard deviation and percentiles.
// The standard deviation of fewer than two values is 0.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var d Distribution
	if n < 2 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("predators", s.Predators),
		slog.Int("tribals", s.Tribals),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("births_offspring", s.BirthsOffspring),
		slog.Int("births_respawn", s.BirthsRespawn),
		slog.Int("deaths_starvation", s.DeathsStarvation),
		slog.Int("deaths_old_age", s.DeathsOldAge),
		slog.Int("deaths_frailty", s.DeathsFrailty),
		slog.Int("discoveries", s.Discoveries),
		slog.Int("feedings", s.Feedings),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Int("max_generation", s.MaxGeneration),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"herbivores", s.Herbivores,
		"predators", s.Predators,
		"tribals", s.Tribals,
		"births", s.Births,
		"deaths", s.Deaths,
		"births_offspring", s.BirthsOffspring,
		"births_respawn", s.BirthsRespawn,
		"deaths_starvation", s.DeathsStarvation,
		"deaths_old_age", s.DeathsOldAge,
		"deaths_frailty", s.DeathsFrailty,
		"discoveries", s.Discoveries,
		"feedings", s.Feedings,
		"age_mean", s.AgeMean,
		"hunger_mean", s.HungerMean,
		"hunger_p10", s.HungerP10,
		"hunger_p50", s.HungerP50,
		"hunger_p90", s.HungerP90,
		"energy_mean", s.EnergyMean,
		"energy_std", s.EnergyStd,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"max_generation", s.MaxGeneration,
	)
}
