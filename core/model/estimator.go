package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる。y は n×1 のクラスラベル
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the contract every estimator in the model bank satisfies.
type Classifier interface {
	Fitter
	Predictor

	// Classes returns the sorted class labels seen during fitting.
	Classes() []int
}

// ProbabilisticClassifier is a Classifier that can estimate class
// membership probabilities. Columns follow the order of Classes().
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter is the interface for models that expose their parameters
// under scikit-learn names.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets hyperparameters by scikit-learn name. Unknown names and
	// invalid values are rejected with a ValidationError.
	SetParams(params map[string]interface{}) error
}

// Tunable is a Classifier that a hyperparameter search can configure and
// report on.
type Tunable interface {
	Classifier
	ParameterGetter
	ParameterSetter
	fmt.Stringer
}
