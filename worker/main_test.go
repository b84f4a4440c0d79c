package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/SushmaJettiboyina/Fake-job-detection/internal/classifier"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/dedupe"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/models"
	"github.com/SushmaJettiboyina/Fake-job-detection/internal/processing"
)

type stubIndexer struct {
	recs []models.ClassificationRecord
	err  error
}

func (s *stubIndexer) IndexClassification(_ context.Context, rec models.ClassificationRecord) error {
	if s.err != nil {
		return s.err
	}
	s.recs = append(s.recs, rec)
	return nil
}

type stubClassifier struct {
	result classifier.Result
	err    error
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, fields models.JobPostingFields) (classifier.Result, error) {
	s.calls++
	if s.err != nil {
		return classifier.Result{}, s.err
	}
	res := s.result
	res.Document = processing.Normalize(fields)
	res.Explanations = processing.Explain(res.Document, fields)
	return res, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fakeResult() classifier.Result {
	return classifier.Result{
		Score: 0.81,
		Verdict: processing.Verdict{
			Label:          "Fake",
			ProbabilityPct: 81.0,
			BarPct:         19.0,
			BarLabel:       "81.0% Fake",
		},
		NonzeroTokens: 9,
	}
}

func TestProcessMessageIndexesRecord(t *testing.T) {
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}
	cls := &stubClassifier{result: fakeResult()}

	payload := rawPosting{
		Title:       "Junior Developer",
		Company:     "Future AI Solutions",
		Description: "No experience needed, refundable deposit required",
		Source:      "scraper",
		Timestamp:   "2024-01-02T15:04:05Z",
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	msg := kafka.Message{Value: data}

	require.NoError(t, processMessage(context.Background(), testLogger(), idx, cls, cache, msg))
	require.Len(t, idx.recs, 1)

	rec := idx.recs[0]
	require.Equal(t, "Junior Developer", rec.Title)
	require.Equal(t, "Fake", rec.Label)
	require.InDelta(t, 0.81, rec.Score, 1e-9)
	require.Equal(t, "81.0% Fake", rec.BarLabel)
	require.Equal(t, "scraper", rec.Source)
	require.Equal(t, 2024, rec.Timestamp.Year())
	require.Equal(t, processing.DocumentID(rec.Document), rec.ID)
	require.NotEmpty(t, rec.Explanations)

	// Same posting again: the dedupe cache keeps it away from the
	// classifier and the index.
	require.NoError(t, processMessage(context.Background(), testLogger(), idx, cls, cache, msg))
	require.Len(t, idx.recs, 1)
	require.Equal(t, 1, cls.calls)
}

func TestProcessMessageSkipsEmptyPosting(t *testing.T) {
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}
	cls := &stubClassifier{result: fakeResult()}

	data, err := json.Marshal(rawPosting{Title: "   ", Source: "scraper"})
	require.NoError(t, err)

	// No usable text is a skip, not a DLQ-worthy failure, and the
	// classifier is never invoked.
	require.NoError(t, processMessage(context.Background(), testLogger(), idx, cls, cache, kafka.Message{Value: data}))
	require.Empty(t, idx.recs)
	require.Zero(t, cls.calls)
}

func TestProcessMessageBadJSON(t *testing.T) {
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}
	cls := &stubClassifier{result: fakeResult()}

	err := processMessage(context.Background(), testLogger(), idx, cls, cache, kafka.Message{Value: []byte("not json")})
	require.Error(t, err)
	require.Empty(t, idx.recs)
}

func TestProcessMessageClassifierFailure(t *testing.T) {
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}
	cls := &stubClassifier{err: errors.New("oracle unreachable")}

	data, err := json.Marshal(rawPosting{Title: "Engineer"})
	require.NoError(t, err)

	err = processMessage(context.Background(), testLogger(), idx, cls, cache, kafka.Message{Value: data})
	require.Error(t, err)
	require.Empty(t, idx.recs)

	// A failed posting must stay retryable: not marked seen.
	require.False(t, cache.IsSeen(processing.DocumentID("Title: Engineer")))
}

func TestProcessMessageIndexFailureNotMarkedSeen(t *testing.T) {
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{err: errors.New("es down")}
	cls := &stubClassifier{result: fakeResult()}

	data, err := json.Marshal(rawPosting{Title: "Engineer"})
	require.NoError(t, err)

	err = processMessage(context.Background(), testLogger(), idx, cls, cache, kafka.Message{Value: data})
	require.Error(t, err)
	require.False(t, cache.IsSeen(processing.DocumentID("Title: Engineer")))
}

func TestProcessMessageLegacyCombinedText(t *testing.T) {
	cache := dedupe.NewCache(100, time.Hour)
	idx := &stubIndexer{}
	cls := &stubClassifier{result: fakeResult()}

	data, err := json.Marshal(rawPosting{
		Title:        "ignored",
		CombinedText: "entire raw posting text",
	})
	require.NoError(t, err)

	require.NoError(t, processMessage(context.Background(), testLogger(), idx, cls, cache, kafka.Message{Value: data}))
	require.Len(t, idx.recs, 1)
	require.Equal(t, "entire raw posting text", idx.recs[0].Document)
}

func TestParseTimestamp(t *testing.T) {
	ts := parseTimestamp("2024-02-03T04:05:06Z")
	require.False(t, ts.IsZero())
	require.Equal(t, 2024, ts.Year())
	require.Equal(t, time.UTC, ts.Location())
	require.Equal(t, 2, int(ts.Month()))
	require.Equal(t, 3, ts.Day())

	legacy := parseTimestamp("2024-02-03 04:05:06")
	require.False(t, legacy.IsZero())
	require.Equal(t, 4, legacy.Hour())

	require.True(t, parseTimestamp("invalid").IsZero())
}
