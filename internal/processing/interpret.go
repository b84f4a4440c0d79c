package processing

import (
	"fmt"
	"math"
)

// DefaultThreshold is the decision boundary on the fake-probability.
// Scores strictly above it are labelled Fake; a score exactly at the
// threshold is Real.
const DefaultThreshold = 0.7

const (
	LabelFake = "Fake"
	LabelReal = "Real"
)

// Verdict is the presentation-ready reading of a raw classifier score.
// BarPct is the meter fill and always shows "realness", so a high fake
// probability renders as a small fill.
type Verdict struct {
	Label          string  `json:"label"`
	ProbabilityPct float64 `json:"probability_pct"`
	BarPct         float64 `json:"bar_pct"`
	BarLabel       string  `json:"bar_label"`
}

// InvalidScoreError reports a classifier score outside [0,1]. That is a
// contract violation by the scoring service and is never clamped away.
type InvalidScoreError struct {
	Score float64
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("classifier score %v outside [0,1]", e.Score)
}

// Interpret converts a raw fake-probability into a Verdict under the
// given threshold. Percentages are rounded to one decimal, half away
// from zero (math.Round semantics), so 71.25 rounds to 71.3 rather than
// the banker's 71.2.
func Interpret(score, threshold float64) (Verdict, error) {
	if score < 0 || score > 1 || math.IsNaN(score) {
		return Verdict{}, &InvalidScoreError{Score: score}
	}

	label := LabelReal
	if score > threshold {
		label = LabelFake
	}

	probabilityPct := round1(score * 100)
	barPct := round1(100 - probabilityPct)

	barLabel := fmt.Sprintf("%.1f%% Real", barPct)
	if label == LabelFake {
		barLabel = fmt.Sprintf("%.1f%% Fake", probabilityPct)
	}

	return Verdict{
		Label:          label,
		ProbabilityPct: probabilityPct,
		BarPct:         barPct,
		BarLabel:       barLabel,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
