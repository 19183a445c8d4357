// Package report prints the model comparison to the console and optionally
// renders it as a chart.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/metrics"
)

// Entry is one evaluated model.
type Entry struct {
	Name   string
	Scores metrics.Scores
}

// CVSummary is the cross-validated score of the tuned model.
type CVSummary struct {
	Scoring string
	Mean    float64
	Std     float64
}

// FormatScore prints a score as the shortest decimal that round-trips,
// keeping a fractional part for whole numbers (1.0, not 1).
func FormatScore(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteScores prints a titled block of the four metrics.
func WriteScores(w io.Writer, title string, s metrics.Scores) error {
	_, err := fmt.Fprintf(w, "\n%s:\nAccuracy: %s\nPrecision: %s\nRecall: %s\nF1 Score: %s\n",
		title,
		FormatScore(s.Accuracy),
		FormatScore(s.Precision),
		FormatScore(s.Recall),
		FormatScore(s.F1),
	)
	return err
}

// WriteModel prints the block of one model from the bank.
func WriteModel(w io.Writer, e Entry) error {
	return WriteScores(w, e.Name+" Performance", e.Scores)
}

// WriteBest prints the tuned model's description, its cross-validated score
// and its held-out metrics.
func WriteBest(w io.Writer, repr string, cv CVSummary, s metrics.Scores) error {
	if _, err := fmt.Fprintf(w, "\nBest Random Forest Model:\n%s\n", repr); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Cross-validated %s: %s ± %s\n",
		cv.Scoring, FormatScore(cv.Mean), FormatScore(cv.Std)); err != nil {
		return err
	}
	return WriteScores(w, "Best Random Forest Performance", s)
}
