// Package constants loads the user-supplied constant environment the
// compiler's `const` declaration handling consumes: a name-to-value
// map read from an external YAML document, mirroring how this
// codebase's own configuration loaders read plain YAML documents into
// Go values before handing them to the evaluator.
package constants

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quint-lang/quint-core/internal/value"
)

// LoadEnv reads a YAML document at path, mapping every top-level key to
// a value.Value. Booleans, integers, strings, lists, and nested maps are
// converted recursively; any other scalar (a float or null) is an error,
// as is a document that isn't a top-level mapping.
func LoadEnv(path string) (map[string]value.Value, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("constants: %w", err)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("constants: %w", err)
	}
	out := make(map[string]value.Value, len(doc))
	for k, v := range doc {
		cv, err := convert(v)
		if err != nil {
			return nil, fmt.Errorf("constants: field %q: %w", k, err)
		}
		out[k] = cv
	}
	return out, nil
}

func convert(v interface{}) (value.Value, error) {
	switch t := v.(type) {
	case bool:
		return value.NewBool(t), nil
	case int:
		return value.NewIntFromInt64(int64(t)), nil
	case int64:
		return value.NewIntFromInt64(t), nil
	case string:
		return value.NewStr(t), nil
	case []interface{}:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			cv, err := convert(e)
			if err != nil {
				return nil, err
			}
			elems[i] = cv
		}
		return value.NewList(elems...), nil
	case map[string]interface{}:
		fields := make(map[string]value.Value, len(t))
		for k, e := range t {
			cv, err := convert(e)
			if err != nil {
				return nil, err
			}
			fields[k] = cv
		}
		return value.NewRecord(fields), nil
	default:
		return nil, fmt.Errorf("unsupported YAML scalar of type %T", v)
	}
}
