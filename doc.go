// Package emailclassifier compares classic classifiers on a labelled table of
// per-e-mail word counts and tunes the best candidate family.
//
// The module is a small scikit-learn-like library built on gonum plus the
// workflow that drives it. Every estimator follows the same contract: Fit
// takes an n×d feature matrix and an n×1 label column, Predict returns an
// n×1 column of labels, and GetParams/SetParams/String use scikit-learn
// parameter names.
//
// # Quick Start
//
// Run the whole comparison from the command line:
//
//	go run ./cmd/emailclassifier --data emails.csv
//
// or drive a single estimator directly:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/Mahnoor-1225/EMAIL-CLASSIFIER/metrics"
//	    "github.com/Mahnoor-1225/EMAIL-CLASSIFIER/model_selection"
//	    "github.com/Mahnoor-1225/EMAIL-CLASSIFIER/sklearn/naive_bayes"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(8, 2, []float64{3, 0, 4, 1, 5, 0, 3, 1, 0, 3, 1, 4, 0, 5, 1, 3})
//	    y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
//
//	    split, err := model_selection.TrainTestSplit(X, y, model_selection.WithRandomState(42))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    nb := naive_bayes.NewMultinomialNB(naive_bayes.WithAlpha(1.9))
//	    if err := nb.Fit(split.XTrain, split.YTrain); err != nil {
//	        log.Fatal(err)
//	    }
//	    pred, err := nb.Predict(split.XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    scores, err := metrics.Evaluate(split.YTest, pred, metrics.WithZeroDivision(0))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%+v\n", scores)
//	}
//
// # Packages
//
//   - dataset: CSV loading, inspection, feature/label extraction
//   - preprocessing: MinMaxScaler
//   - model_selection: TrainTestSplit, KFold, StratifiedKFold, CrossValScore, GridSearchCV
//   - metrics: accuracy, precision, recall, F1, confusion matrix
//   - sklearn/naive_bayes: MultinomialNB
//   - sklearn/svm: SVC
//   - sklearn/tree: DecisionTreeClassifier
//   - sklearn/ensemble: RandomForestClassifier
//   - sklearn/linear_model: LogisticRegression
//   - experiment: configuration, model bank, evaluation and tuning
//   - report: console blocks and comparison chart
//   - core/model: estimator interfaces and shared validation
//   - core/parallel: CPU-bounded parallel loops
//   - pkg/errors, pkg/log: typed errors, warnings and structured logging
package emailclassifier
