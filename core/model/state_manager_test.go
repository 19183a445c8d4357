package model

import (
	"testing"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()

	err := s.RequireFitted("SVC", "Predict")
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
	if nf.ModelName != "SVC" || nf.Method != "Predict" {
		t.Errorf("unexpected NotFittedError fields: %+v", nf)
	}

	s.SetDimensions(3000, 750)
	s.SetFitted()
	if err := s.RequireFitted("SVC", "Predict"); err != nil {
		t.Errorf("RequireFitted() after SetFitted = %v", err)
	}
	if f, n := s.GetDimensions(); f != 3000 || n != 750 {
		t.Errorf("GetDimensions() = (%d, %d)", f, n)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset should clear the fitted flag")
	}
	if f, n := s.GetDimensions(); f != 0 || n != 0 {
		t.Errorf("Reset should clear dimensions, got (%d, %d)", f, n)
	}
}

func TestStateManagerRequireFeatures(t *testing.T) {
	s := NewStateManager()
	s.SetDimensions(4, 10)

	if err := s.RequireFeatures("Predict", 4); err != nil {
		t.Errorf("RequireFeatures(4) = %v", err)
	}
	err := s.RequireFeatures("Predict", 5)
	var dim *errors.DimensionError
	if !errors.As(err, &dim) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dim.Expected != 4 || dim.Got != 5 || dim.Axis != 1 {
		t.Errorf("unexpected DimensionError: %+v", dim)
	}
}
