// Package report renders analytics results as text, JSON and Org-mode.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

// Run is one analytics pass over a journal, with enough context to file it.
type Run struct {
	RunID   string            `json:"run_id"`
	Created time.Time         `json:"created"`
	Source  string            `json:"source"`
	OrgPath string            `json:"org_path,omitempty"`
	Result  *analytics.Result `json:"result"`
}

// NewRun stamps res with a fresh run id.
func NewRun(source string, res *analytics.Result) Run {
	return Run{
		RunID:   id.New(),
		Created: time.Now().UTC(),
		Source:  source,
		Result:  res,
	}
}

// WriteJSON writes the run as indented JSON.
func WriteJSON(w io.Writer, r Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func optR(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2fR", *p)
}

func optNum(p *float64, format string) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *p)
}

func optFactor(f *analytics.Factor) string {
	if f == nil {
		return "n/a"
	}
	return f.String()
}
