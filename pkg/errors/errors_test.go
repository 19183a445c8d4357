package errors

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "emailclf: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "emailclf: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			// ModelError型にキャスト可能か確認
			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}

			// ModelError型へのキャストのみ確認
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 10, 0)

	// 基本的なエラーメッセージの確認
	want := "emailclf: Predict: dimension mismatch on axis 0 (rows). Expected 10, got 10"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// DimensionError型にキャスト可能か確認
	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}

	// DimensionError型へのキャストのみ確認
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("MultinomialNB", "Predict")

	// 基本的なエラーメッセージの確認
	want := "emailclf: MultinomialNB: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// NotFittedError型にキャスト可能か確認
	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValueError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		param   string
		value   interface{}
		message string
		wantMsg string
	}{
		{
			name:    "with message",
			op:      "SetParam",
			param:   "test_size",
			value:   -0.5,
			message: "must be positive",
			wantMsg: "emailclf: SetParam: test_size: -0.5 (must be positive)",
		},
		{
			name:    "without message",
			op:      "SetParam",
			param:   "n_splits",
			value:   0,
			message: "",
			wantMsg: "emailclf: SetParam: n_splits: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.message != "" {
				err = NewValueError(tt.op, fmt.Sprintf("%s: %v (%s)", tt.param, tt.value, tt.message))
			} else {
				err = NewValueError(tt.op, fmt.Sprintf("%s: %v", tt.param, tt.value))
			}

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// ValueError型にキャスト可能か確認
			var valErr *ValueError
			if !As(err, &valErr) {
				t.Error("Error should be castable to *ValueError")
			}
		})
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("SMO", 1000, "loss did not decrease")

	// 基本的なエラーメッセージの確認
	want := "SMO failed to converge after 1000 iterations: loss did not decrease"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}

	// ConvergenceWarning型へのキャストのみ確認
	var convWarn *ConvergenceWarning
	if !As(warn, &convWarn) {
		t.Error("Warning should be castable to *ConvergenceWarning")
	}
}

func TestWrapAndIs(t *testing.T) {
	// 元のエラー
	baseErr := ErrUnknownModel

	// ラップ
	wrapped := Wrap(baseErr, "in experiment.NewModel")

	// Is関数でチェック
	if !Is(wrapped, ErrUnknownModel) {
		t.Error("Expected Is(wrapped, ErrUnknownModel) to be true")
	}

	// エラーメッセージの確認
	if !strings.Contains(wrapped.Error(), "in experiment.NewModel") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	// 元のエラー
	baseErr := ErrEmptyData

	// フォーマット付きラップ
	wrapped := Wrapf(baseErr, "in %s: expected %d, got %d", "Predict", 10, 5)

	// Is関数でチェック
	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	// エラーメッセージの確認
	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	// エラーチェーンの作成
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	// チェーン全体を確認
	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	// スタックトレースの確認（詳細表示）
	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}

func TestNewDataError(t *testing.T) {
	tests := []struct {
		name    string
		column  string
		wantMsg string
	}{
		{"with column", "Prediction", `emailclf: emails.csv: column "Prediction": column not found`},
		{"without column", "", "emailclf: emails.csv: column not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDataError("emails.csv", tt.column, "column not found")
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}
			var dataErr *DataError
			if !As(err, &dataErr) {
				t.Error("Error should be castable to *DataError")
			}
		})
	}
}

func TestWrapDataErrorKeepsCause(t *testing.T) {
	_, statErr := os.Stat(filepath.Join(t.TempDir(), "absent.csv"))
	err := WrapDataError("absent.csv", "", "cannot open file", statErr)

	var dataErr *DataError
	if !As(err, &dataErr) {
		t.Fatal("Error should be castable to *DataError")
	}
	if !Is(err, fs.ErrNotExist) {
		t.Error("Error should match fs.ErrNotExist")
	}
	if !strings.HasPrefix(err.Error(), "emailclf: absent.csv: cannot open file: ") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWarningMessages(t *testing.T) {
	tests := []struct {
		name string
		warn error
		want string
	}{
		{
			name: "deprecation",
			warn: NewDeprecationWarning("max_features", "auto", "sqrt"),
			want: `max_features="auto" is deprecated; it is treated as max_features="sqrt"`,
		},
		{
			name: "split",
			warn: NewSplitWarning("StratifiedKFold", "least populated class has 2 members"),
			want: "StratifiedKFold: least populated class has 2 members",
		},
		{
			name: "undefined metric",
			warn: NewUndefinedMetricWarning("precision", "no predicted samples", 0),
			want: "'precision' is ill-defined and being set to 0.000000 due to no predicted samples.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.warn.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", tt.warn.Error(), tt.want)
			}
		})
	}
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewConvergenceWarning("SMO", 10, ""))
	if len(got) != 1 {
		t.Fatalf("expected 1 routed warning, got %d", len(got))
	}
	var convWarn *ConvergenceWarning
	if !As(got[0], &convWarn) || convWarn.Iterations != 10 {
		t.Errorf("unexpected routed warning: %v", got[0])
	}
}

func TestStackTrace(t *testing.T) {
	err := NewValueError("TrainTestSplit", "test_size out of range")
	if trace := StackTrace(err); !strings.Contains(trace, "errors_test.go") {
		t.Errorf("expected stack trace to mention the test file, got %q", trace)
	}
	if StackTrace(fmt.Errorf("plain")) != "" {
		t.Error("expected no stack trace for a plain error")
	}
}
