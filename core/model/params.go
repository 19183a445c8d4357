package model

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// Repr renders an estimator the way scikit-learn prints it: the class name
// followed by the parameters whose value differs from the default, sorted by
// name.
//
//	Repr("SVC", map[string]interface{}{"gamma": "auto"}, map[string]interface{}{"gamma": "scale"})
//	// SVC(gamma='auto')
func Repr(name string, params, defaults map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if d, ok := defaults[k]; ok && reflect.DeepEqual(d, params[k]) {
			continue
		}
		parts = append(parts, k+"="+FormatValue(params[k]))
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// FormatValue formats a parameter value with Python literal conventions.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + x + "'"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) && math.Abs(x) < 1e16 {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []float64:
		s := make([]string, len(x))
		for i, f := range x {
			s[i] = FormatValue(f)
		}
		return "[" + strings.Join(s, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

// ToFloat coerces a SetParams value to float64.
func ToFloat(param string, v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, errors.NewValidationError(param, "must be a number", v)
	}
}

// ToInt coerces a SetParams value to int. Floats must be integral.
func ToInt(param string, v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, errors.NewValidationError(param, "must be an integer", v)
		}
		return int(x), nil
	default:
		return 0, errors.NewValidationError(param, "must be an integer", v)
	}
}

// ToBool coerces a SetParams value to bool.
func ToBool(param string, v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errors.NewValidationError(param, "must be a boolean", v)
	}
	return b, nil
}

// ToString coerces a SetParams value to string.
func ToString(param string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.NewValidationError(param, "must be a string", v)
	}
	return s, nil
}

// UnknownParam returns the error SetParams reports for a name the estimator
// does not have.
func UnknownParam(estimator, param string, v interface{}) error {
	return errors.NewValidationError(param, "invalid parameter for estimator "+estimator, v)
}
