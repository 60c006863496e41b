package analytics

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultRollingWindow  = 20
	DefaultInitialBalance = 10000.0
	DefaultOvertradingGap = 30 * time.Minute
)

// Options tunes a Run. Zero values select the documented defaults, except
// that a RollingWindow of 1 or less (but not 0) disables rolling metrics.
type Options struct {
	Filters *FilterSpec

	RollingWindow  int
	InitialBalance float64

	MonteCarloRuns int
	// RuinThresholdR defaults to -20R when nil.
	RuinThresholdR *float64
	// Rand drives the Monte Carlo shuffle. Nil means a freshly seeded source.
	Rand    *rand.Rand
	Workers int

	// OvertradingGap is the largest pause after two losses that still counts
	// as overtrading.
	OvertradingGap time.Duration

	Logger *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.RollingWindow == 0 {
		o.RollingWindow = DefaultRollingWindow
	}
	if o.InitialBalance == 0 {
		o.InitialBalance = DefaultInitialBalance
	}
	if o.MonteCarloRuns <= 0 {
		o.MonteCarloRuns = DefaultMonteCarloRuns
	}
	if o.RuinThresholdR == nil {
		o.RuinThresholdR = Float(DefaultRuinThresholdR)
	}
	if o.Rand == nil {
		o.Rand = newRand()
	}
	if o.OvertradingGap <= 0 {
		o.OvertradingGap = DefaultOvertradingGap
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

func newRand() *rand.Rand {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Run filters trades, orders them chronologically and derives every metric
// of Result. It never fails: missing data degrades to nil, 0 or empty
// collections. trades is not modified.
func Run(trades []Trade, opts Options) *Result {
	opts = opts.withDefaults()
	log := opts.Logger

	sorted := SortTrades(ApplyFilters(trades, ResolvePercentiles(trades, opts.Filters)))
	rs := outcomes(sorted)
	log.Debug().
		Int("input", len(trades)).
		Int("filtered", len(sorted)).
		Int("with_r", len(rs)).
		Msg("analytics input prepared")

	res := &Result{
		Summary:      summarize(sorted, rs),
		EquityCurve:  BuildEquityCurve(sorted, opts.InitialBalance),
		Rolling:      rolling(sorted, opts.RollingWindow),
		Emotions:     emotionPerformance(sorted),
		Correlations: correlations(sorted),
		Setups:       setupPerformance(sorted),
		Time:         timeBreakdowns(sorted),
		RiskBehavior: riskBehavior(sorted),
		Drawdown:     drawdownReport(rs),
		Comparisons:  equityComparisons(sorted, opts.InitialBalance),
		Adherence:    adherenceImpact(sorted),
	}

	warnings, overtrading := scanBehavior(sorted, opts.OvertradingGap)
	res.Warnings = warnings

	streaks := scanStreaks(sorted)
	res.EmotionalStreaks = EmotionalStreaks{
		LossStreak: tallies(streaks.loss),
		WinStreak:  tallies(streaks.win),
	}

	res.MonteCarlo = Simulate(rs, SimulationConfig{
		Runs:           opts.MonteCarloRuns,
		RuinThresholdR: *opts.RuinThresholdR,
		Rand:           opts.Rand,
		Workers:        opts.Workers,
	})
	if res.MonteCarlo == nil {
		log.Debug().Msg("monte carlo skipped: no outcome-r values")
	} else {
		log.Debug().
			Int("runs", res.MonteCarlo.Runs).
			Float64("risk_of_ruin", res.MonteCarlo.RiskOfRuin).
			Msg("monte carlo complete")
	}

	components, score := disciplineScore(disciplineInputs{
		trades:      len(sorted),
		risk:        res.RiskBehavior,
		adherence:   res.Adherence,
		lossTallies: totalTally(res.EmotionalStreaks.LossStreak),
		overtrading: overtrading,
	})
	res.Discipline = Discipline{
		Score:      score,
		Components: components,
		Trend:      disciplineTrend(sorted, opts.RollingWindow, opts.OvertradingGap),
	}

	res.Insights = GenerateInsights(res, sorted)
	log.Debug().
		Int("warnings", len(res.Warnings)).
		Int("insights", len(res.Insights)).
		Float64("discipline", score).
		Msg("analytics complete")
	return res
}

func summarize(trades []Trade, rs []float64) Summary {
	s := Summary{
		Trades:       len(trades),
		RTrades:      len(rs),
		WinRate:      WinRate(rs),
		MaxDrawdownR: round(maxDrawdownR(rs), 6),
	}
	if len(rs) > 0 {
		s.TotalR = Float(round(sum(rs), 6))
		exp, _ := Expectancy(rs)
		s.AverageR = Float(exp)
		s.Expectancy = Float(exp)

		var above, below int
		for _, r := range rs {
			if r > 2 {
				above++
			}
			if r <= -1 {
				below++
			}
		}
		s.PctAbove2R = float64(above) / float64(len(rs)) * 100
		s.PctAtOrBelowMinus1R = float64(below) / float64(len(rs)) * 100
	}
	s.ProfitFactor = optionalFactor(ProfitFactorFrom(rs))

	var pnl float64
	for _, t := range trades {
		if v, ok := finite(t.PnL); ok {
			pnl += v
		}
	}
	s.TotalPnL = round(pnl, 2)
	return s
}

// rollingWindow is the accumulator of the rolling fold: the trailing trades
// seen so far, at most size long.
type rollingWindow struct {
	size   int
	window []Trade
	points []RollingPoint
}

func stepRolling(w rollingWindow, i int, t Trade) rollingWindow {
	w.window = append(w.window, t)
	if len(w.window) > w.size {
		w.window = w.window[1:]
	}
	if len(w.window) < w.size {
		return w
	}
	rs := outcomes(w.window)
	w.points = append(w.points, RollingPoint{
		Index:      i,
		TradeID:    t.ID,
		Expectancy: optional(Expectancy(rs)),
		WinRate:    WinRate(rs),
		AverageR:   optional(Expectancy(rs)),
		DrawdownR:  round(maxDrawdownR(rs), 6),
	})
	return w
}

// rolling slides a window of size trades across the chronological set. A
// size of 1 or less yields an empty series.
func rolling(trades []Trade, size int) []RollingPoint {
	if size <= 1 {
		return []RollingPoint{}
	}
	w := foldl(trades, rollingWindow{size: size, points: []RollingPoint{}}, stepRolling)
	return w.points
}

// disciplineTrend recomputes the discipline score over each full trailing
// window.
func disciplineTrend(trades []Trade, size int, gap time.Duration) []DisciplinePoint {
	if size <= 1 {
		return []DisciplinePoint{}
	}
	return foldl(trades, []DisciplinePoint{}, func(out []DisciplinePoint, i int, t Trade) []DisciplinePoint {
		if i < size-1 {
			return out
		}
		return append(out, DisciplinePoint{
			Index:   i,
			TradeID: t.ID,
			Score:   disciplineOf(trades[i-size+1:i+1], gap),
		})
	})
}
