package model

import "gonum.org/v1/gonum/mat"

// Transformer is a column-wise feature transformation learned from data,
// such as the min-max scaling applied before sampling and splitting.
type Transformer interface {
	// Fit learns the per-column statistics of X.
	Fit(X mat.Matrix) error

	// Transform applies the learned statistics. X must have as many columns
	// as the data seen by Fit.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform は Fit と Transform を同じデータに対して実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer maps transformed values back to the original scale.
type InverseTransformer interface {
	Transformer
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
