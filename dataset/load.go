package dataset

import (
	"fmt"
	"os"

	"github.com/sjwhitworth/golearn/base"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/log"
)

// Load reads a CSV file with a header row into a Frame.
//
// Column types are sniffed by golearn: columns whose leading cells parse as
// numbers become numeric, everything else becomes text. A numeric column
// with an unparsable cell further down makes the parser panic; the panic is
// returned as an error.
func Load(path string) (*Frame, error) {
	logger := log.GetLogger().With(log.ComponentKey, "dataset", log.PhaseKey, log.PhaseLoading)

	if _, err := os.Stat(path); err != nil {
		return nil, errors.WrapDataError(path, "", "cannot open file", err)
	}

	var (
		inst   *base.DenseInstances
		header []string
	)
	err := errors.SafeExecute("dataset.Load", func() error {
		header = base.ParseCSVSniffAttributeNames(path, true)
		var err error
		inst, err = base.ParseCSVToInstances(path, true)
		return err
	})
	if err != nil {
		logger.Error("Failed to parse CSV", err, log.PathKey, path)
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	f, err := FromInstances(inst, header...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	rows, cols := f.Shape()
	logger.Info("Dataset loaded",
		log.PathKey, path,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)
	return f, nil
}

// FromInstances converts golearn instances into a Frame.
//
// golearn stores attributes grouped by type, so AllAttributes does not
// follow the file layout. When order is given (the CSV header), columns are
// arranged by it and every name must match exactly one attribute; otherwise
// the grid's own attribute order is used.
func FromInstances(inst base.FixedDataGrid, order ...string) (*Frame, error) {
	const op = "dataset.FromInstances"
	_, rows := inst.Size()
	if rows == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	attrs, err := orderAttributes(inst.AllAttributes(), order)
	if err != nil {
		return nil, err
	}
	columns := make([]*Column, 0, len(attrs))
	for _, attr := range attrs {
		spec, err := inst.GetAttribute(attr)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %s", attr.GetName())
		}
		col := &Column{Name: attr.GetName()}
		switch a := attr.(type) {
		case *base.FloatAttribute:
			col.Kind = Float64
			col.Floats = make([]float64, rows)
			for i := 0; i < rows; i++ {
				col.Floats[i] = base.UnpackBytesToFloat(inst.Get(spec, i))
			}
		case *base.CategoricalAttribute:
			col.Kind = Object
			col.Strings = make([]string, rows)
			for i := 0; i < rows; i++ {
				col.Strings[i] = a.GetStringFromSysVal(inst.Get(spec, i))
			}
		default:
			return nil, errors.NewDataError(op, attr.GetName(),
				fmt.Sprintf("unsupported attribute type %T", attr))
		}
		columns = append(columns, col)
	}
	return NewFrame(columns)
}

func orderAttributes(attrs []base.Attribute, order []string) ([]base.Attribute, error) {
	const op = "dataset.FromInstances"
	if len(order) == 0 {
		return attrs, nil
	}
	if len(order) != len(attrs) {
		return nil, errors.NewDataError(op, "",
			fmt.Sprintf("header has %d columns, parsed %d attributes", len(order), len(attrs)))
	}
	byName := make(map[string]base.Attribute, len(attrs))
	for _, a := range attrs {
		if _, dup := byName[a.GetName()]; dup {
			return nil, newDuplicateColumnError(a.GetName())
		}
		byName[a.GetName()] = a
	}
	ordered := make([]base.Attribute, len(order))
	for i, name := range order {
		a, ok := byName[name]
		if !ok {
			return nil, errors.NewDataError(op, name, "header column has no parsed attribute")
		}
		ordered[i] = a
	}
	return ordered, nil
}

func newColumnLengthError(name string, want, got int) error {
	return errors.NewDataError("dataset.NewFrame", name,
		fmt.Sprintf("has %d rows, expected %d", got, want))
}

func newDuplicateColumnError(name string) error {
	return errors.NewDataError("dataset.NewFrame", name, "duplicate column name")
}
