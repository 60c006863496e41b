package analytics

import (
	"math/rand"
	"sort"
	"sync"
)

const (
	DefaultMonteCarloRuns = 1000
	DefaultRuinThresholdR = -20.0
)

// SimulationConfig controls Simulate. Rand is the only source of randomness;
// pass a seeded generator for reproducible output.
type SimulationConfig struct {
	Runs           int
	RuinThresholdR float64
	Rand           *rand.Rand
	// Workers > 1 spreads runs over goroutines. Results do not depend on it.
	Workers int
}

// path is the outcome of walking one permutation.
type path struct {
	maxDD    float64
	terminal float64
	curve    []float64
}

// walkPath shuffles a copy of rs with rng and accumulates it from 0R.
func walkPath(rs []float64, rng *rand.Rand) path {
	order := append([]float64(nil), rs...)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	p := path{curve: make([]float64, len(order))}
	equity, peak := 0.0, 0.0
	for i, r := range order {
		equity += r
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > p.maxDD {
			p.maxDD = dd
		}
		p.curve[i] = equity
	}
	p.terminal = equity
	return p
}

// Simulate reorders the realized Outcome-R multiset cfg.Runs times and
// reports the spread of drawdown and terminal equity. Values are resampled
// by order only, so every path ends at the same total. It returns nil for an
// empty series.
func Simulate(rs []float64, cfg SimulationConfig) *MonteCarloSummary {
	if len(rs) == 0 {
		return nil
	}
	if cfg.Runs <= 0 {
		cfg.Runs = DefaultMonteCarloRuns
	}
	if cfg.Rand == nil {
		cfg.Rand = newRand()
	}

	// Seeds are drawn up front so each run owns an independent generator and
	// the outcome is the same for any worker count.
	seeds := make([]int64, cfg.Runs)
	for i := range seeds {
		seeds[i] = cfg.Rand.Int63()
	}

	paths := make([]path, cfg.Runs)
	run := func(i int) {
		paths[i] = walkPath(rs, rand.New(rand.NewSource(seeds[i])))
	}

	workers := cfg.Workers
	if workers <= 1 {
		for i := range paths {
			run(i)
		}
	} else {
		if workers > cfg.Runs {
			workers = cfg.Runs
		}
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := w; i < cfg.Runs; i += workers {
					run(i)
				}
			}(w)
		}
		wg.Wait()
	}

	return summarizePaths(paths, len(rs), cfg.RuinThresholdR)
}

func summarizePaths(paths []path, steps int, ruin float64) *MonteCarloSummary {
	s := &MonteCarloSummary{
		Runs:           len(paths),
		Trades:         steps,
		RuinThresholdR: ruin,
		MinTerminalR:   paths[0].terminal,
		MaxTerminalR:   paths[0].terminal,
	}

	var ddSum, termSum float64
	ruined := 0
	for _, p := range paths {
		if p.maxDD > s.WorstDrawdownR {
			s.WorstDrawdownR = p.maxDD
		}
		ddSum += p.maxDD
		termSum += p.terminal
		if p.terminal < s.MinTerminalR {
			s.MinTerminalR = p.terminal
		}
		if p.terminal > s.MaxTerminalR {
			s.MaxTerminalR = p.terminal
		}
		if p.terminal <= ruin {
			ruined++
		}
	}
	n := float64(len(paths))
	s.MeanDrawdownR = ddSum / n
	s.MeanTerminalR = termSum / n
	s.RiskOfRuin = float64(ruined) / n

	s.ConfidenceBand = make([]BandPoint, steps)
	column := make([]float64, len(paths))
	for step := 0; step < steps; step++ {
		for i, p := range paths {
			column[i] = p.curve[step]
		}
		sort.Float64s(column)
		s.ConfidenceBand[step] = BandPoint{
			Step:   step + 1,
			Lower:  round(percentile(column, 0.025), 6),
			Median: round(percentile(column, 0.5), 6),
			Upper:  round(percentile(column, 0.975), 6),
		}
	}
	return s
}
