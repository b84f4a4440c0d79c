package classifier

import (
	"context"
	"fmt"

	"github.com/SushmaJettiboyina/Fake-job-detection/internal/models"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/processing"
)

// PromptMessage is shown when a request carries no usable text at all.
const PromptMessage = "Please enter job details."

// Encoder turns canonical text into the fixed-length vector the scoring
// service consumes.
type Encoder interface {
	Encode(text string) []int
	NonzeroCount(vector []int) int
}

// Scorer produces the raw fake-probability for an encoded posting.
type Scorer interface {
	Score(ctx context.Context, encoded []int) (float64, error)
}

// Result bundles everything one classified posting yields. Insufficient
// marks the terminal empty-input state: no verdict, no explanations, and
// the scorer was never called.
type Result struct {
	Document      string
	Insufficient  bool
	Score         float64
	Verdict       processing.Verdict
	Explanations  []string
	NonzeroTokens int
}

// Headline renders the one-line summary of the verdict.
func (r Result) Headline() string {
	if r.Insufficient {
		return PromptMessage
	}
	return "The job post is " + r.Verdict.Label
}

// ProbabilityText renders the human-readable probability sentence.
func (r Result) ProbabilityText() string {
	return fmt.Sprintf("This job posting has a %.1f%% probability of being fake.", r.Verdict.ProbabilityPct)
}

// Classifier wires the encoder and scorer capabilities around the pure
// normalize/interpret/explain core. Construct once at startup and share;
// it holds no mutable state.
type Classifier struct {
	encoder   Encoder
	scorer    Scorer
	threshold float64
}

// New creates a Classifier. threshold <= 0 selects the default decision
// boundary.
func New(encoder Encoder, scorer Scorer, threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = processing.DefaultThreshold
	}
	return &Classifier{encoder: encoder, scorer: scorer, threshold: threshold}
}

// Classify runs the full pipeline for one posting: normalize, encode,
// score, interpret, and independently explain. Scorer failures and
// out-of-range scores propagate unchanged; a Result never carries a
// partial verdict.
func (c *Classifier) Classify(ctx context.Context, fields models.JobPostingFields) (Result, error) {
	document := processing.Normalize(fields)
	if document == "" {
		return Result{Insufficient: true}, nil
	}

	encoded := c.encoder.Encode(document)

	score, err := c.scorer.Score(ctx, encoded)
	if err != nil {
		return Result{}, fmt.Errorf("score posting: %w", err)
	}

	verdict, err := processing.Interpret(score, c.threshold)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Document:      document,
		Score:         score,
		Verdict:       verdict,
		Explanations:  processing.Explain(document, fields),
		NonzeroTokens: c.encoder.NonzeroCount(encoded),
	}, nil
}
