package handler

import (
	"context"
	"fmt"
	"math"
)

// ParamType is the schema type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
)

// Param describes one tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
	// Default is applied when an optional parameter is absent.
	Default any
	// Min bounds integer parameters from below when set.
	Min *int
}

// ToolDescriptor is the public contract of a tool.
type ToolDescriptor struct {
	Name        string
	Description string
	Params      []Param
}

// HandlerFunc runs a tool against validated arguments.
type HandlerFunc func(ctx context.Context, args Args) Result

// Tool pairs a descriptor with its handler.
type Tool struct {
	Descriptor ToolDescriptor
	Handler    HandlerFunc
	// Mutating tools trigger a change notification on success.
	Mutating bool
}

// ValidationError reports arguments rejected before any upstream call.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

func minimum(n int) *int { return &n }

// Args holds arguments that passed validation. Strings are strings and
// integers are ints; absent optional parameters without a default are
// missing from the map.
type Args struct {
	values map[string]any
}

// NewArgs wraps already validated values.
func NewArgs(values map[string]any) Args {
	if values == nil {
		values = map[string]any{}
	}
	return Args{values: values}
}

// String returns a string argument and whether it was supplied.
func (a Args) String(name string) (string, bool) {
	s, ok := a.values[name].(string)
	return s, ok
}

// MustString returns a string argument, or "" when absent.
func (a Args) MustString(name string) string {
	s, _ := a.String(name)
	return s
}

// Int returns an integer argument and whether it was supplied.
func (a Args) Int(name string) (int, bool) {
	n, ok := a.values[name].(int)
	return n, ok
}

// Map returns the underlying values.
func (a Args) Map() map[string]any {
	return a.values
}

// Validate checks raw arguments against the descriptor's schema and returns
// the normalized set. A null value counts as absent. Arguments the schema
// does not declare are ignored.
func (d ToolDescriptor) Validate(raw map[string]any) (Args, error) {
	values := make(map[string]any, len(d.Params))
	for _, p := range d.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				return Args{}, &ValidationError{Param: p.Name, Reason: "is required"}
			}
			if p.Default != nil {
				values[p.Name] = p.Default
			}
			continue
		}

		switch p.Type {
		case ParamString:
			s, ok := v.(string)
			if !ok {
				return Args{}, &ValidationError{Param: p.Name, Reason: fmt.Sprintf("must be a string, got %T", v)}
			}
			if p.Required && s == "" {
				return Args{}, &ValidationError{Param: p.Name, Reason: "must not be empty"}
			}
			values[p.Name] = s
		case ParamInteger:
			n, err := toInt(v)
			if err != nil {
				return Args{}, &ValidationError{Param: p.Name, Reason: err.Error()}
			}
			if p.Min != nil && n < *p.Min {
				return Args{}, &ValidationError{Param: p.Name, Reason: fmt.Sprintf("must be at least %d", *p.Min)}
			}
			values[p.Name] = n
		default:
			return Args{}, &ValidationError{Param: p.Name, Reason: fmt.Sprintf("unsupported type %q", p.Type)}
		}
	}
	return Args{values: values}, nil
}

// toInt accepts JSON numbers (float64) and Go integer types. Fractions are
// rejected.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, fmt.Errorf("must be a whole number, got %v", n)
		}
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("out of range: %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("must be an integer, got %T", v)
	}
}
