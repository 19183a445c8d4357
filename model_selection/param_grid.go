package model_selection

import (
	"sort"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
)

// ParamGrid maps parameter names to the values to try. Candidates are the
// cartesian product with keys taken in sorted order and the last key
// varying fastest.
type ParamGrid map[string][]interface{}

// Validate rejects an empty grid and keys without values.
func (g ParamGrid) Validate() error {
	if len(g) == 0 {
		return errors.NewValidationError("param_grid", "must contain at least one parameter", g)
	}
	for k, v := range g {
		if len(v) == 0 {
			return errors.NewValidationError("param_grid", "parameter "+k+" has no values", v)
		}
	}
	return nil
}

// Keys returns the parameter names in iteration order.
func (g ParamGrid) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of candidates.
func (g ParamGrid) Len() int {
	if len(g) == 0 {
		return 0
	}
	n := 1
	for _, v := range g {
		n *= len(v)
	}
	return n
}

// Candidates enumerates every parameter combination.
func (g ParamGrid) Candidates() []map[string]interface{} {
	keys := g.Keys()
	total := g.Len()
	out := make([]map[string]interface{}, 0, total)
	for i := 0; i < total; i++ {
		params := make(map[string]interface{}, len(keys))
		rest := i
		for k := len(keys) - 1; k >= 0; k-- {
			values := g[keys[k]]
			params[keys[k]] = values[rest%len(values)]
			rest /= len(values)
		}
		out = append(out, params)
	}
	return out
}
