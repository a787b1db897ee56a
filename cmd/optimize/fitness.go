package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. baseCfg is copied.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	fe := &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  *baseCfg,
		bestFitness: math.Inf(1),
	}
	fe.baseConfig.Simulation.TickIntervalMS = 0
	fe.baseConfig.Simulation.Speed = 1
	return fe
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A species below minViablePop for extinctionGraceTicks consecutive ticks
// counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceTicks = 300
	warmupTicks          = 50
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	hallOfFame    *telemetry.HallOfFame
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	quality    float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s)
			if err != nil {
				slog.Error("evaluation failed", "seed", s, "error", err)
				results[idx] = seedResult{fitness: 0}
				return
			}
			results[idx] = seedResult{
				fitness:    computeFitness(result),
				quality:    computeQuality(result.windowStats),
				hallOfFame: result.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
// Runs until functional extinction or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.baseConfig
	cfg.Simulation.Seed = seed
	fe.params.ApplyToConfig(&cfg, x)

	result := &runResult{}
	s, err := sim.New(&cfg, sim.Options{
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var below [components.NumKinds]int32
	for s.Tick() < fe.maxTicks {
		s.Advance(1)

		tick := s.Tick()
		if tick < warmupTicks {
			continue
		}

		pop := s.World().PopulationBySpecies()
		extinct := false
		for _, k := range components.Kinds {
			if pop[k] < minViablePop {
				below[k]++
			} else {
				below[k] = 0
			}
			if pop[k] == 0 || below[k] >= extinctionGraceTicks {
				extinct = true
			}
		}
		if extinct {
			result.survivalTicks = tick
			result.hallOfFame = s.HallOfFame()
			return result, nil
		}
	}

	result.survivalTicks = fe.maxTicks
	result.hallOfFame = s.HallOfFame()
	return result, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightBalance   = 0.40
	qualityWeightStability = 0.35
	qualityWeightEnergy    = 0.25

	qualityWarmupWindows = 3 // skip first N windows (warmup)
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats:
// how evenly the three species share the world, how steady their counts
// are and how healthy median energy is.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var balanceSum, energySum float64
	var counts [components.NumKinds][]float64
	valid := 0

	for _, w := range windows[qualityWarmupWindows:] {
		if w.Population == 0 {
			continue
		}
		valid++

		balanceSum += evenness(w)
		energySum += math.Exp(-math.Pow((w.EnergyP50-0.6)/0.25, 2))
		for _, k := range components.Kinds {
			counts[k] = append(counts[k], float64(w.Count(k)))
		}
	}

	if valid == 0 {
		return 0
	}

	stabilityScore := 0.0
	if valid >= 2 {
		var cv2 float64
		for _, c := range counts {
			v := cv(c)
			cv2 += v * v
		}
		stabilityScore = math.Exp(-cv2)
	}

	quality := qualityWeightBalance*balanceSum/float64(valid) +
		qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energySum/float64(valid)

	return clamp01(quality)
}

// evenness is the Shannon entropy of the species shares normalized to
// [0, 1]; 1 means all species are equally common.
func evenness(w telemetry.WindowStats) float64 {
	p := make([]float64, 0, components.NumKinds)
	for _, k := range components.Kinds {
		p = append(p, float64(w.Count(k))/float64(w.Population))
	}
	return stat.Entropy(p) / math.Log(float64(components.NumKinds))
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
