package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Validation failure reasons.
const (
	ReasonMissing      = "missing"
	ReasonTypeMismatch = "type-mismatch"
	ReasonOutOfRange   = "out-of-range"
	ReasonNotInEnum    = "not-in-enum"
)

// ValidationError names the parameter that failed and the rule it broke.
type ValidationError struct {
	Param  string
	Reason string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %q: %s (%s)", e.Param, e.Reason, e.Detail)
}

// Validate checks raw against d in declared parameter order and returns the
// effective arguments: supplied values normalized to string, float64 or bool,
// plus resolved defaults. Optional parameters with neither are absent.
// Keys in raw that d does not declare are ignored, and a nil value counts as
// not supplied.
func Validate(d OperationDescriptor, raw map[string]any) (map[string]any, error) {
	effective := make(map[string]any, len(d.Parameters))

	for _, p := range d.Parameters {
		v, supplied := raw[p.Name]
		if supplied && v != nil {
			coerced, err := p.coerce(v)
			if err != nil {
				return nil, err
			}
			effective[p.Name] = coerced
			continue
		}

		if p.Required {
			return nil, &ValidationError{Param: p.Name, Reason: ReasonMissing}
		}
		if p.Default == nil {
			continue
		}
		dv := p.Default.Resolve()
		if dv == nil {
			continue
		}
		coerced, err := p.coerce(dv)
		if err != nil {
			return nil, err
		}
		effective[p.Name] = coerced
	}

	return effective, nil
}

// coerce checks v against the parameter's kind, enum, and bounds.
func (p ParameterSpec) coerce(v any) (any, error) {
	switch p.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, p.mismatch(v)
		}
		return s, nil

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, p.mismatch(v)
		}
		if !slices.Contains(p.EnumValues, s) {
			return nil, &ValidationError{
				Param:  p.Name,
				Reason: ReasonNotInEnum,
				Detail: fmt.Sprintf("%q not one of %s", s, strings.Join(p.EnumValues, ", ")),
			}
		}
		return s, nil

	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, p.mismatch(v)
		}
		return b, nil

	case KindNumber:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, p.mismatch(v)
		}
		if (p.Min != nil && f < *p.Min) || (p.Max != nil && f > *p.Max) {
			return nil, &ValidationError{Param: p.Name, Reason: ReasonOutOfRange, Detail: p.rangeText(f)}
		}
		return f, nil
	}

	return nil, fmt.Errorf("parameter %q: unknown kind %q", p.Name, p.Kind)
}

func (p ParameterSpec) mismatch(v any) *ValidationError {
	want := string(p.Kind)
	if p.Kind == KindEnum {
		want = "string"
	}
	return &ValidationError{
		Param:  p.Name,
		Reason: ReasonTypeMismatch,
		Detail: fmt.Sprintf("expected %s, got %T", want, v),
	}
}

func (p ParameterSpec) rangeText(f float64) string {
	switch {
	case p.Min != nil && p.Max != nil:
		return fmt.Sprintf("%v not between %v and %v", f, *p.Min, *p.Max)
	case p.Min != nil:
		return fmt.Sprintf("%v below minimum %v", f, *p.Min)
	default:
		return fmt.Sprintf("%v above maximum %v", f, *p.Max)
	}
}

// toFloat accepts every numeric type a JSON decoder or Go caller may produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
