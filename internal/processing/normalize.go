package processing

import (
	"strings"

	"github.com/SushmaJettiboyina/Fake-job-detection/internal/models"
)

// fieldLabels fixes the order and display label of every structured field
// in the canonical document. The order is part of the observable contract:
// downstream rule matching and stored documents depend on it.
var fieldLabels = []struct {
	label string
	value func(models.JobPostingFields) string
}{
	{"Title", func(f models.JobPostingFields) string { return f.Title }},
	{"Company", func(f models.JobPostingFields) string { return f.Company }},
	{"Location", func(f models.JobPostingFields) string { return f.Location }},
	{"Description", func(f models.JobPostingFields) string { return f.Description }},
	{"Requirements", func(f models.JobPostingFields) string { return f.Requirements }},
	{"How to Apply", func(f models.JobPostingFields) string { return f.HowToApply }},
}

// Normalize merges the posting fields into one canonical text document.
// A non-empty legacy CombinedText wins verbatim; otherwise each provided
// field becomes a "Label: value" line, newline-joined in fixed order.
// Returns the empty string when nothing was provided.
func Normalize(fields models.JobPostingFields) string {
	if legacy := strings.TrimSpace(fields.CombinedText); legacy != "" {
		return legacy
	}

	parts := make([]string, 0, len(fieldLabels))
	for _, fl := range fieldLabels {
		v := strings.TrimSpace(fl.value(fields))
		if v == "" {
			continue
		}
		parts = append(parts, fl.label+": "+v)
	}

	return strings.Join(parts, "\n")
}
