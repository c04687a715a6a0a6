package domain

import (
	"encoding/json"
	"time"
)

// Report is the final audit artifact. The first row is always the home page;
// product rows follow in discovery order. Not mutated after creation.
type Report struct {
	ID        string
	Domain    string
	Score     int
	Timestamp time.Time
	Rows      []PageResult
}

// StatusLabel buckets the score into a coarse health label.
func (r *Report) StatusLabel() string {
	if r.Score > 85 {
		return "Healthy"
	}
	return "At Risk"
}

// reportJSON is the persisted/HTTP wire form of a report.
type reportJSON struct {
	Domain    string    `json:"domain"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Rows      []RowJSON `json:"rows"`
}

// RowJSON is the wire form of a single page result.
type RowJSON struct {
	URL            string `json:"url"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	TextCompliance string `json:"text_compliance"`
	Lang           string `json:"lang,omitempty"`
	Details        string `json:"details"`
}

func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Domain:    r.Domain,
		Score:     r.Score,
		Status:    r.StatusLabel(),
		Timestamp: r.Timestamp.UTC(),
		Rows:      make([]RowJSON, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		out.Rows = append(out.Rows, row.Row())
	}
	return json.Marshal(out)
}

// Row converts a page result into its wire form. An unreachable page is
// rendered as type "Error" with no text-compliance verdict.
func (p PageResult) Row() RowJSON {
	row := RowJSON{URL: p.URL, Lang: p.Lang, Details: p.Details()}
	switch {
	case p.Status == Unreachable:
		row.Type = "Error"
		row.Status = "Error"
		row.TextCompliance = "N/A"
	case p.Failed():
		row.Type = string(p.Role)
		row.Status = "Fail"
		row.TextCompliance = string(p.Verdict)
	default:
		row.Type = string(p.Role)
		row.Status = "Pass"
		row.TextCompliance = string(p.Verdict)
	}
	return row
}
