package analytics

import (
	"encoding/json"
	"math"
	"strconv"
)

// Factor is a ratio that may legitimately be +Inf (profit factor with wins and
// no losses). It encodes +Inf as the JSON string "Infinity".
type Factor float64

func (f Factor) IsInf() bool { return math.IsInf(float64(f), 1) }

func (f Factor) String() string {
	if f.IsInf() {
		return "inf"
	}
	return strconv.FormatFloat(float64(f), 'f', 2, 64)
}

func (f Factor) MarshalJSON() ([]byte, error) {
	if f.IsInf() {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(f))
}

func (f *Factor) UnmarshalJSON(b []byte) error {
	if string(b) == `"Infinity"` {
		*f = Factor(math.Inf(1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Factor(v)
	return nil
}

// Summary holds the scalar statistics of the filtered trade set. RTrades is
// the number of trades with a defined Outcome-R; all R statistics use only
// those.
type Summary struct {
	Trades              int      `json:"trades"`
	RTrades             int      `json:"r_trades"`
	TotalR              *float64 `json:"total_r"`
	AverageR            *float64 `json:"average_r"`
	Expectancy          *float64 `json:"expectancy"`
	WinRate             float64  `json:"win_rate"`
	ProfitFactor        *Factor  `json:"profit_factor"`
	PctAbove2R          float64  `json:"pct_above_2r"`
	PctAtOrBelowMinus1R float64  `json:"pct_at_or_below_minus_1r"`
	MaxDrawdownR        float64  `json:"max_drawdown_r"`
	TotalPnL            float64  `json:"total_pnl"`
}

// GroupStats is the common row of every breakdown matrix. Trades counts all
// members; RTrades only those with an Outcome-R.
type GroupStats struct {
	Key          string   `json:"key"`
	Trades       int      `json:"trades"`
	RTrades      int      `json:"r_trades"`
	WinRate      float64  `json:"win_rate"`
	AverageR     *float64 `json:"average_r"`
	Expectancy   *float64 `json:"expectancy"`
	TotalR       float64  `json:"total_r"`
	ProfitFactor *Factor  `json:"profit_factor"`
	MaxDrawdownR float64  `json:"max_drawdown_r"`
}

type Reliability string

const (
	ReliabilityLow    Reliability = "low"
	ReliabilityMedium Reliability = "medium"
	ReliabilityHigh   Reliability = "high"
)

type SetupStats struct {
	GroupStats
	Reliability Reliability `json:"reliability"`
}

type RollingPoint struct {
	Index      int      `json:"index"`
	TradeID    string   `json:"trade_id"`
	Expectancy *float64 `json:"expectancy"`
	WinRate    float64  `json:"win_rate"`
	AverageR   *float64 `json:"average_r"`
	DrawdownR  float64  `json:"drawdown_r"`
}

// Correlation is one coefficient with the number of paired points behind it.
type Correlation struct {
	Coefficient *float64 `json:"coefficient"`
	Pairs       int      `json:"pairs"`
}

type Correlations struct {
	ConfidenceR Correlation `json:"confidence_r"`
	ExecutionR  Correlation `json:"execution_r"`
	ChecklistR  Correlation `json:"checklist_r"`
	EmotionR    Correlation `json:"emotion_r"`
}

type EmotionTally struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// EmotionalStreaks tallies the emotion tags on trades that extend a streak of
// two or more consecutive losses (or wins).
type EmotionalStreaks struct {
	LossStreak []EmotionTally `json:"loss_streak"`
	WinStreak  []EmotionTally `json:"win_streak"`
}

type TimeBreakdowns struct {
	Session     []GroupStats `json:"session"`
	Hour        []GroupStats `json:"hour"`
	DayOfWeek   []GroupStats `json:"day_of_week"`
	TradeNumber []GroupStats `json:"trade_number"`
}

type RiskBehavior struct {
	Samples          int      `json:"samples"`
	AverageRiskPct   *float64 `json:"average_risk_pct"`
	RiskPctVariance  *float64 `json:"risk_pct_variance"`
	AfterLossRiskPct *float64 `json:"after_loss_risk_pct"`
	AfterWinRiskPct  *float64 `json:"after_win_risk_pct"`
	ConsistencyScore *float64 `json:"consistency_score"`
}

type DrawdownPoint struct {
	Index     int     `json:"index"`
	DrawdownR float64 `json:"drawdown_r"`
}

type DrawdownReport struct {
	MaxDrawdownR          float64         `json:"max_drawdown_r"`
	AverageDrawdownR      float64         `json:"average_drawdown_r"`
	CurrentDrawdownR      float64         `json:"current_drawdown_r"`
	Episodes              int             `json:"episodes"`
	FrequencyPct          float64         `json:"frequency_pct"`
	LongestDurationTrades int             `json:"longest_duration_trades"`
	AverageRecoveryTrades *float64        `json:"average_recovery_trades"`
	Points                []DrawdownPoint `json:"points"`
}

type EquityComparison struct {
	All           []EquityPoint `json:"all"`
	AGrade        []EquityPoint `json:"a_grade"`
	HighChecklist []EquityPoint `json:"high_checklist"`
	BySetup       []NamedCurve  `json:"by_setup"`
	ByEmotion     []NamedCurve  `json:"by_emotion"`
}

type AdherenceBucket struct {
	Band       string   `json:"band"`
	Trades     int      `json:"trades"`
	RTrades    int      `json:"r_trades"`
	Expectancy *float64 `json:"expectancy"`
	WinRate    float64  `json:"win_rate"`
}

type DisciplineComponents struct {
	RiskConsistency    float64 `json:"risk_consistency"`
	Adherence          float64 `json:"adherence"`
	EmotionalStability float64 `json:"emotional_stability"`
	OvertradingPenalty float64 `json:"overtrading_penalty"`
}

type DisciplinePoint struct {
	Index   int     `json:"index"`
	TradeID string  `json:"trade_id"`
	Score   float64 `json:"score"`
}

type Discipline struct {
	Score      float64              `json:"score"`
	Components DisciplineComponents `json:"components"`
	Trend      []DisciplinePoint    `json:"trend"`
}

type BandPoint struct {
	Step   int     `json:"step"`
	Lower  float64 `json:"lower"`
	Median float64 `json:"median"`
	Upper  float64 `json:"upper"`
}

// MonteCarloSummary describes the distribution of reshuffled equity paths.
// RiskOfRuin is a probability in [0,1].
type MonteCarloSummary struct {
	Runs           int         `json:"runs"`
	Trades         int         `json:"trades"`
	RuinThresholdR float64     `json:"ruin_threshold_r"`
	WorstDrawdownR float64     `json:"worst_drawdown_r"`
	MeanDrawdownR  float64     `json:"mean_drawdown_r"`
	RiskOfRuin     float64     `json:"risk_of_ruin"`
	MeanTerminalR  float64     `json:"mean_terminal_r"`
	MinTerminalR   float64     `json:"min_terminal_r"`
	MaxTerminalR   float64     `json:"max_terminal_r"`
	ConfidenceBand []BandPoint `json:"confidence_band"`
}

// Result is the complete output of one Run.
type Result struct {
	Summary          Summary            `json:"summary"`
	EquityCurve      []EquityPoint      `json:"equity_curve"`
	Rolling          []RollingPoint     `json:"rolling"`
	Emotions         []GroupStats       `json:"emotions"`
	Correlations     Correlations       `json:"correlations"`
	Warnings         []string           `json:"warnings"`
	EmotionalStreaks EmotionalStreaks   `json:"emotional_streaks"`
	Setups           []SetupStats       `json:"setups"`
	Time             TimeBreakdowns     `json:"time"`
	RiskBehavior     RiskBehavior       `json:"risk_behavior"`
	Drawdown         DrawdownReport     `json:"drawdown"`
	Comparisons      EquityComparison   `json:"comparisons"`
	MonteCarlo       *MonteCarloSummary `json:"monte_carlo"`
	Adherence        []AdherenceBucket  `json:"adherence"`
	Discipline       Discipline         `json:"discipline"`
	Insights         []string           `json:"insights"`
}
