package models

import "time"

// JobPostingFields carries the raw form fields of a single job posting.
// Every field is optional; whitespace-only values count as not provided.
// CombinedText is the legacy single-textarea input and, when present,
// overrides all structured fields.
type JobPostingFields struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	HowToApply   string `json:"how_to_apply"`
	CombinedText string `json:"combined_text"`
}

// ClassificationRecord is the canonical structure stored in Elasticsearch
// for every posting the worker has classified.
type ClassificationRecord struct {
	ID             string    `json:"id"`
	Document       string    `json:"document"`
	Title          string    `json:"title"`
	Label          string    `json:"label"`
	Score          float64   `json:"score"`
	ProbabilityPct float64   `json:"probability_pct"`
	BarPct         float64   `json:"bar_pct"`
	BarLabel       string    `json:"bar_label"`
	Explanations   []string  `json:"explanations"`
	NonzeroTokens  int       `json:"nonzero_tokens"`
	Source         string    `json:"source"`
	Timestamp      time.Time `json:"timestamp"`
}
