package experiment

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/log"
)

// writeSyntheticCSV writes a rows×features table of 0/1 counts with an id
// column first and a binary Prediction column last. Feature 0 follows the
// label except on every seventh row.
func writeSyntheticCSV(t *testing.T, rows, features int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Email No.")
	for j := 0; j < features; j++ {
		fmt.Fprintf(&b, ",w%d", j)
	}
	b.WriteString(",Prediction\n")
	for i := 0; i < rows; i++ {
		label := i % 2
		fmt.Fprintf(&b, "Email %d", i+1)
		for j := 0; j < features; j++ {
			v := (i*7 + j*3) % 5 / 4
			if j == 0 {
				v = label
				if i%7 == 0 {
					v = 1 - label
				}
			}
			fmt.Fprintf(&b, ",%d", v)
		}
		fmt.Fprintf(&b, ",%d\n", label)
	}
	path := filepath.Join(t.TempDir(), "emails.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func testConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.Data.Path = path
	cfg.Tuning.NJobs = 2
	return cfg
}

func captureWarnings(t *testing.T) {
	t.Helper()
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
}

var metricLine = regexp.MustCompile(`(?m)^(Accuracy|Precision|Recall|F1 Score): (\S+)$`)

func TestRunEndToEnd(t *testing.T) {
	captureWarnings(t)
	logger, _ := log.NewTestLogger(log.LevelInfo)

	var out bytes.Buffer
	runner := NewRunner(testConfig(writeSyntheticCSV(t, 50, 10)), &out, WithLogger(logger))
	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "First 5 rows of the dataset:")
	assert.Contains(t, text, "Unique values in the target variable:\n[0 1]")
	for _, name := range []string{"MultinomialNB", "SVC", "RandomForest", "LogisticRegression", "DecisionTree"} {
		assert.Contains(t, text, "\n"+name+" Performance:\n")
	}
	assert.Equal(t, 6, strings.Count(text, "Performance:"))
	assert.Contains(t, text, "Best Random Forest Model:\nRandomForestClassifier(")
	assert.Contains(t, text, "Cross-validated accuracy: ")

	// blocks are printed in bank order
	assert.Less(t, strings.Index(text, "MultinomialNB Performance"), strings.Index(text, "SVC Performance"))
	assert.Less(t, strings.Index(text, "LogisticRegression Performance"), strings.Index(text, "DecisionTree Performance"))
	assert.Less(t, strings.Index(text, "DecisionTree Performance"), strings.Index(text, "Best Random Forest Model"))

	lines := metricLine.FindAllStringSubmatch(text, -1)
	require.Len(t, lines, 24)
	for _, m := range lines {
		v, err := strconv.ParseFloat(m[2], 64)
		require.NoError(t, err, m[0])
		assert.GreaterOrEqual(t, v, 0.0, m[0])
		assert.LessOrEqual(t, v, 1.0, m[0])
	}

	require.Len(t, result.Models, 5)
	for _, m := range result.Models {
		if m.Name == "SVC" {
			assert.Nil(t, m.Proba, "SVC has no probability estimates")
			continue
		}
		require.NotNil(t, m.Proba, m.Name)
		assert.GreaterOrEqual(t, m.Proba.AUC, 0.0, m.Name)
		assert.LessOrEqual(t, m.Proba.AUC, 1.0, m.Name)
		assert.GreaterOrEqual(t, m.Proba.LogLoss, 0.0, m.Name)
	}
	require.NotNil(t, result.Best)
	grid := TuningGrid()
	for key, value := range result.Best.Params {
		assert.Contains(t, grid[key], value, key)
	}
	assert.Len(t, result.Entries(), 6)

	assert.True(t, logger.ContainsMessage("Model evaluated"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "DecisionTree"))
	assert.True(t, logger.ContainsMessage("Best estimator evaluated"))
}

func TestPrepare(t *testing.T) {
	cfg := testConfig(writeSyntheticCSV(t, 60, 4))
	cfg.Sampling.MaxRows = 40

	var out bytes.Buffer
	split, err := NewRunner(cfg, &out).Prepare()
	require.NoError(t, err)

	nTrain, d := split.XTrain.Dims()
	nTest, _ := split.XTest.Dims()
	assert.Equal(t, 4, d)
	assert.Equal(t, 30, nTrain)
	assert.Equal(t, 10, nTest)
	for _, m := range []*mat.Dense{split.XTrain, split.XTest} {
		assert.GreaterOrEqual(t, mat.Min(m), 0.0)
		assert.LessOrEqual(t, mat.Max(m), 1.0)
	}
	for _, idx := range append(append([]int{}, split.TrainIndex...), split.TestIndex...) {
		assert.Less(t, idx, 40, "only the leading rows are used")
	}

	again, err := NewRunner(cfg, &bytes.Buffer{}).Prepare()
	require.NoError(t, err)
	assert.Equal(t, split.TestIndex, again.TestIndex)
	assert.True(t, mat.Equal(split.XTrain, again.XTrain))
}

func TestRunWithoutTuningWritesPlot(t *testing.T) {
	captureWarnings(t)
	cfg := testConfig(writeSyntheticCSV(t, 40, 6))
	cfg.Tuning.Enabled = false
	cfg.Report.PlotPath = filepath.Join(t.TempDir(), "comparison.png")

	var out bytes.Buffer
	result, err := NewRunner(cfg, &out).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result.Best)
	assert.NotContains(t, out.String(), "Best Random Forest")
	assert.FileExists(t, cfg.Report.PlotPath)
}

func TestRunFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := testConfig(filepath.Join(t.TempDir(), "absent.csv"))
		_, err := NewRunner(cfg, &bytes.Buffer{}).Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("missing target", func(t *testing.T) {
		cfg := testConfig(writeSyntheticCSV(t, 20, 3))
		cfg.Data.Target = "Spam"
		_, err := NewRunner(cfg, &bytes.Buffer{}).Run(context.Background())
		var de *errors.DataError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cfg := testConfig(writeSyntheticCSV(t, 20, 3))
		_, err := NewRunner(cfg, &bytes.Buffer{}).Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestModelBank(t *testing.T) {
	bank := ModelBank()
	names := make([]string, len(bank))
	for i, spec := range bank {
		names[i] = spec.Name
	}
	assert.Equal(t, []string{"MultinomialNB", "SVC", "RandomForest", "LogisticRegression", "DecisionTree"}, names)

	assert.Equal(t, "MultinomialNB(alpha=1.9)", bank[0].New().String())
	assert.Equal(t, "SVC(gamma='auto', max_iter=1000)", bank[1].New().String())
	assert.Equal(t, "RandomForestClassifier(n_estimators=50, n_jobs=-1)", bank[2].New().String())
	assert.Equal(t, "LogisticRegression(max_iter=1000)", bank[3].New().String())
	assert.Equal(t, "DecisionTreeClassifier()", bank[4].New().String())

	assert.Equal(t, 12, TuningGrid().Len())
}
