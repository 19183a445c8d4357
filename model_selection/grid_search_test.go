package model_selection

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/log"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/sklearn/tree"
)

// constClassifier always predicts its "label" parameter.
type constClassifier struct {
	label  int
	weight int
	failOn int
}

func (c *constClassifier) Fit(X, y mat.Matrix) error {
	if c.failOn != 0 && c.label == c.failOn {
		return fmt.Errorf("label %d refuses to fit", c.label)
	}
	return nil
}

func (c *constClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, float64(c.label))
	}
	return out, nil
}

func (c *constClassifier) Classes() []int { return []int{0, 1} }

func (c *constClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{"label": c.label, "weight": c.weight}
}

func (c *constClassifier) SetParams(p map[string]interface{}) error {
	for k, v := range p {
		var err error
		switch k {
		case "label":
			c.label, err = model.ToInt(k, v)
		case "weight":
			c.weight, err = model.ToInt(k, v)
		default:
			return model.UnknownParam("constClassifier", k, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *constClassifier) String() string { return fmt.Sprintf("const(%d)", c.label) }

func TestParamGridOrder(t *testing.T) {
	g := ParamGrid{
		"n_estimators": {10, 50},
		"criterion":    {"gini", "entropy"},
	}
	require.NoError(t, g.Validate())
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []string{"criterion", "n_estimators"}, g.Keys())
	assert.Equal(t, []map[string]interface{}{
		{"criterion": "gini", "n_estimators": 10},
		{"criterion": "gini", "n_estimators": 50},
		{"criterion": "entropy", "n_estimators": 10},
		{"criterion": "entropy", "n_estimators": 50},
	}, g.Candidates())

	assert.Error(t, ParamGrid{}.Validate())
	assert.Error(t, ParamGrid{"a": {}}.Validate())
}

func TestGridSearchCVPicksBest(t *testing.T) {
	// 30 of class 1, 10 of class 0
	X := mat.NewDense(40, 1, nil)
	y := mat.NewDense(40, 1, nil)
	for i := 0; i < 30; i++ {
		y.Set(i, 0, 1)
	}
	testLogger, _ := log.NewTestLogger(log.LevelDebug)

	gs := NewGridSearchCV(func() model.Tunable { return &constClassifier{} },
		ParamGrid{"label": {0, 1}, "weight": {1, 2}},
		WithGridNJobs(-1),
		WithLogger(testLogger),
	)
	require.NoError(t, gs.Fit(context.Background(), X, y))

	results := gs.CVResults()
	require.Len(t, results, 4)
	for _, r := range results[:2] {
		assert.InDelta(t, 0.25, r.MeanScore, 1e-12)
		assert.Equal(t, 3, r.Rank)
	}
	for _, r := range results[2:] {
		assert.InDelta(t, 0.75, r.MeanScore, 1e-12)
		assert.InDelta(t, 0.0, r.StdScore, 1e-12)
		assert.Equal(t, 1, r.Rank)
		assert.Len(t, r.FoldScores, 5)
	}

	// ties go to the first candidate in grid order
	assert.Equal(t, 2, gs.BestIndex())
	assert.Equal(t, map[string]interface{}{"label": 1, "weight": 1}, gs.BestParams())
	assert.InDelta(t, 0.75, gs.BestScore(), 1e-12)
	require.NotNil(t, gs.BestEstimator())
	assert.Equal(t, "const(1)", gs.BestEstimator().String())

	pred, err := gs.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred.At(0, 0))

	assert.True(t, testLogger.ContainsMessage("Search finished"))
	assert.True(t, testLogger.ContainsField(log.CandidatesKey, float64(4)))
}

func TestGridSearchCVErrors(t *testing.T) {
	X, y := seq(20, 1)
	newConst := func() model.Tunable { return &constClassifier{failOn: 1} }

	gs := NewGridSearchCV(newConst, ParamGrid{"label": {0, 1}}, WithLogger(log.GetLogger()))
	err := gs.Fit(context.Background(), X, y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refuses to fit")

	_, err = gs.Predict(X)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	bad := NewGridSearchCV(newConst, ParamGrid{"depth": {1}})
	assert.Error(t, bad.Fit(context.Background(), X, y))

	scoring := NewGridSearchCV(newConst, ParamGrid{"label": {0}}, WithGridScoring("roc_auc"))
	assert.Error(t, scoring.Fit(context.Background(), X, y))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cancelled := NewGridSearchCV(newConst, ParamGrid{"label": {0}})
	assert.ErrorIs(t, cancelled.Fit(ctx, X, y), context.Canceled)
}

func TestGridSearchCVDecisionTree(t *testing.T) {
	// three classes on one feature: a stump can separate only two of them
	X := mat.NewDense(40, 1, nil)
	y := mat.NewDense(40, 1, nil)
	for i := 0; i < 40; i++ {
		X.Set(i, 0, float64(i%3)+float64(i%5)*0.1)
		y.Set(i, 0, float64(i%3))
	}
	var progress bytes.Buffer
	gs := NewGridSearchCV(
		func() model.Tunable { return tree.NewDecisionTreeClassifier(tree.WithRandomState(0)) },
		ParamGrid{"max_depth": {1, 2}, "criterion": {"gini", "entropy"}},
		WithGridNJobs(2),
		WithProgress(&progress),
	)
	require.NoError(t, gs.Fit(context.Background(), X, y))
	assert.Equal(t, 2, gs.BestParams()["max_depth"])
	assert.Equal(t, "gini", gs.BestParams()["criterion"])
	assert.Equal(t, 1.0, gs.BestScore())
	assert.Less(t, gs.CVResults()[0].MeanScore, 0.7)
	assert.Equal(t, "DecisionTreeClassifier(max_depth=2, random_state=0)", gs.BestEstimator().String())
	assert.NotZero(t, progress.Len())
}

func TestCrossValScore(t *testing.T) {
	X, y := seq(40, 1)
	scores, err := CrossValScore(context.Background(),
		func() model.Classifier { return &constClassifier{label: 1} }, X, y,
		WithCV(NewKFold(4, false, 0)),
		WithNJobs(2),
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, scores)

	mean, std, err := MeanStd([]float64{0.5, 1.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, mean, 1e-12)
	assert.InDelta(t, 0.25, std, 1e-12)

	_, err = CrossValScore(context.Background(),
		func() model.Classifier { return &constClassifier{} }, X, y, WithScoring("nope"))
	assert.Error(t, err)

	f1, err := CrossValScore(context.Background(),
		func() model.Classifier { return &constClassifier{label: 1} }, X, y, WithScoring("f1_macro"))
	require.NoError(t, err)
	for _, s := range f1 {
		assert.InDelta(t, 1.0/3.0, s, 1e-12)
	}
}
