package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"r":      optR,
	"pf":     optFactor,
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("analytics").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders r as an Org-mode entry.
func WriteOrg(w io.Writer, r Run) error {
	if r.Result == nil {
		return fmt.Errorf("write org: run %s has no result", r.RunID)
	}
	if err := orgTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("write org: %w", err)
	}
	return nil
}

// SaveOrg renders r into r.OrgPath.
func SaveOrg(r Run) error {
	if r.OrgPath == "" {
		return fmt.Errorf("save org: no path")
	}
	buf := new(bytes.Buffer)
	if err := WriteOrg(buf, r); err != nil {
		return err
	}
	return os.WriteFile(r.OrgPath, buf.Bytes(), 0644)
}

const OrgTemplate = `
* ANALYTICS: {{.Source}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:TRADES:      {{.Result.Summary.Trades}}
:R_TRADES:    {{.Result.Summary.RTrades}}
:WIN_RATE:    {{printf "%.2f" .Result.Summary.WinRate}}
:TOTAL_R:     {{r .Result.Summary.TotalR}}
:EXPECTANCY:  {{r .Result.Summary.Expectancy}}
:PROFIT_FAC:  {{pf .Result.Summary.ProfitFactor}}
:NET_PL:      {{printf "%.2f" .Result.Summary.TotalPnL}}
:MAX_DD_R:    {{printf "%.2f" .Result.Drawdown.MaxDrawdownR}}
:DISCIPLINE:  {{printf "%.1f" .Result.Discipline.Score}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Win Rate:         *{{printf "%.2f" .Result.Summary.WinRate}}%*
- Expectancy:       *{{r .Result.Summary.Expectancy}}*
- Profit Factor:    *{{pf .Result.Summary.ProfitFactor}}*
- Max Drawdown:     *{{printf "%.2f" .Result.Drawdown.MaxDrawdownR}}R*
- Drawdown Episodes: {{.Result.Drawdown.Episodes}}
{{- with .Result.MonteCarlo }}
- Risk of Ruin:     *{{printf "%.2f" (mul100 .RiskOfRuin)}}%* over {{.Runs}} runs
{{- end }}

** Checklist Adherence
| Band | Trades | Win Rate | Expectancy |
|------+--------+----------+------------|
{{- range .Result.Adherence }}
| {{.Band}} | {{.Trades}} | {{printf "%.2f" .WinRate}} | {{r .Expectancy}} |
{{- end }}

{{- if .Result.Setups }}

** Setups
| Setup | Trades | Win Rate | Expectancy | Reliability |
|-------+--------+----------+------------+-------------|
{{- range .Result.Setups }}
| {{.Key}} | {{.Trades}} | {{printf "%.2f" .WinRate}} | {{r .Expectancy}} | {{.Reliability}} |
{{- end }}
{{- end }}

{{- if .Result.Emotions }}

** Emotions
| Emotion | Trades | Win Rate | Expectancy |
|---------+--------+----------+------------|
{{- range .Result.Emotions }}
| {{.Key}} | {{.Trades}} | {{printf "%.2f" .WinRate}} | {{r .Expectancy}} |
{{- end }}
{{- end }}

{{- if .Result.Warnings }}

** Warnings
{{- range .Result.Warnings }}
- {{.}}
{{- end }}
{{- end }}

{{- if .Result.Insights }}

** Observations
{{- range .Result.Insights }}
- {{.}}
{{- end }}
{{- end }}
`
