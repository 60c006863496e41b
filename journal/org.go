package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
)

// FormatTradeOrg renders a trade as an Org-mode block for pasting into a
// journal. Structured facts go in the PROPERTIES drawer; the narrative
// headings are left for the trader to fill in.
func FormatTradeOrg(t analytics.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s (%s)\n", t.Symbol, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", t.ExitPrice)
	prop(&b, "OPEN_TIME", orgTime(t.EntryTime))
	prop(&b, "CLOSE_TIME", orgTime(t.ExitTime))
	prop(&b, "QUANTITY", optf(t.Quantity, "%.0f"))
	prop(&b, "REALIZED_PL", optf(t.PnL, "%.2f"))
	prop(&b, "RISK", optf(t.RiskAmount, "%.2f"))
	prop(&b, "RISK_PCT", optf(t.RiskPercent, "%.2f"))
	if r, ok := analytics.OutcomeR(t); ok {
		prop(&b, "R", fmt.Sprintf("%+.2f", r))
	}
	prop(&b, "SETUP", t.Setup)
	prop(&b, "SESSION", string(t.Session))
	prop(&b, "EMOTIONS", strings.Join(t.Emotions, " "))
	prop(&b, "CHECKLIST", optf(t.ChecklistPercent, "%.0f%%"))
	prop(&b, "CONFIDENCE", optf(t.Confidence, "%.0f"))
	prop(&b, "EXECUTION", optf(t.Execution, "%.0f"))
	prop(&b, "GRADE", t.Grade)
	if t.TradeNumber != nil {
		prop(&b, "TRADE_NUMBER", fmt.Sprint(*t.TradeNumber))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []analytics.Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// prop skips empty values so the drawer only lists what was recorded.
func prop(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, ":%s: %s\n", key, value)
}

func optf(p *float64, format string) string {
	if v, ok := analytics.ToFinite(p); ok {
		return fmt.Sprintf(format, v)
	}
	return ""
}

func orgTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
