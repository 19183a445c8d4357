package experiment

import (
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/core/model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/model_selection"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/sklearn/ensemble"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/sklearn/linear_model"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/sklearn/naive_bayes"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/sklearn/svm"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/sklearn/tree"
)

// ModelSpec names a classifier configuration of the bank.
type ModelSpec struct {
	Name string
	New  func() model.Tunable
}

// ModelBank returns the compared classifiers in report order.
func ModelBank() []ModelSpec {
	return []ModelSpec{
		{"MultinomialNB", func() model.Tunable {
			return naive_bayes.NewMultinomialNB(naive_bayes.WithAlpha(1.9))
		}},
		{"SVC", func() model.Tunable {
			return svm.NewSVC(
				svm.WithC(1.0),
				svm.WithKernel("rbf"),
				svm.WithGamma("auto"),
				svm.WithMaxIter(1000),
			)
		}},
		{"RandomForest", func() model.Tunable {
			return ensemble.NewRandomForestClassifier(
				ensemble.WithNEstimators(50),
				ensemble.WithCriterion("gini"),
				ensemble.WithNJobs(-1),
			)
		}},
		{"LogisticRegression", func() model.Tunable {
			return linear_model.NewLogisticRegression(linear_model.WithLRMaxIter(1000))
		}},
		{"DecisionTree", func() model.Tunable {
			return tree.NewDecisionTreeClassifier()
		}},
	}
}

// TuningGrid is the random forest search space.
func TuningGrid() model_selection.ParamGrid {
	return model_selection.ParamGrid{
		"n_estimators": {50, 100},
		"criterion":    {"gini", "entropy"},
		"max_features": {"auto", "sqrt", "log2"},
	}
}

// newTunedForest is the base estimator of the search.
func newTunedForest() model.Tunable {
	return ensemble.NewRandomForestClassifier()
}
