package analytics

import "math"

// riskBehavior summarizes planned risk percent. trades must be chronological.
func riskBehavior(trades []Trade) RiskBehavior {
	var all, afterLoss, afterWin []float64
	for i, t := range trades {
		v, ok := finite(t.RiskPercent)
		if !ok {
			continue
		}
		all = append(all, v)
		if i == 0 {
			continue
		}
		switch prev := trades[i-1]; {
		case prev.IsLoss():
			afterLoss = append(afterLoss, v)
		case prev.IsWin():
			afterWin = append(afterWin, v)
		}
	}

	mean, ok := Expectancy(all)
	vr, vok := variance(all)
	rb := RiskBehavior{
		Samples:          len(all),
		AverageRiskPct:   optional(mean, ok),
		RiskPctVariance:  optional(vr, vok),
		AfterLossRiskPct: optional(Expectancy(afterLoss)),
		AfterWinRiskPct:  optional(Expectancy(afterWin)),
	}
	if ok && mean > 0 {
		cv := clamp(math.Sqrt(vr)/mean, 0, 1)
		rb.ConsistencyScore = Float((1 - cv) * 100)
	}
	return rb
}
