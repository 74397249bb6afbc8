// Package schema describes operation parameters and validates caller arguments against them.
package schema

import (
	"fmt"
	"slices"
)

// Kind is the primitive type of a parameter.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
)

// Default produces a value for a parameter the caller did not supply.
type Default interface {
	Resolve() any
}

type staticDefault struct {
	value any
}

func (d staticDefault) Resolve() any { return d.value }

// DefaultFunc is a default computed on every validation pass. It is never cached,
// so a value that changes after registration (a credential, say) is still honored.
type DefaultFunc func() any

// Resolve calls f.
func (f DefaultFunc) Resolve() any { return f() }

// ParameterSpec describes one input parameter of an operation.
type ParameterSpec struct {
	Name        string
	Kind        Kind
	Required    bool
	Default     Default
	EnumValues  []string
	Min         *float64
	Max         *float64
	Description string
}

// String declares an optional string parameter.
func String(name string) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindString}
}

// Number declares an optional number parameter.
func Number(name string) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindNumber}
}

// Boolean declares an optional boolean parameter.
func Boolean(name string) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindBoolean}
}

// Enum declares an optional string parameter restricted to values.
func Enum(name string, values ...string) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindEnum, EnumValues: slices.Clone(values)}
}

// Require marks the parameter as required.
func (p ParameterSpec) Require() ParameterSpec {
	p.Required = true
	return p
}

// WithDefault sets a static default value.
func (p ParameterSpec) WithDefault(v any) ParameterSpec {
	p.Default = staticDefault{value: v}
	return p
}

// WithDefaultFunc sets a default evaluated at validation time.
func (p ParameterSpec) WithDefaultFunc(fn func() any) ParameterSpec {
	p.Default = DefaultFunc(fn)
	return p
}

// Between sets inclusive numeric bounds.
func (p ParameterSpec) Between(lo, hi float64) ParameterSpec {
	p.Min = &lo
	p.Max = &hi
	return p
}

// Describe sets the human-readable description.
func (p ParameterSpec) Describe(text string) ParameterSpec {
	p.Description = text
	return p
}

// StaticDefault returns the default value when it is static.
func (p ParameterSpec) StaticDefault() (any, bool) {
	d, ok := p.Default.(staticDefault)
	if !ok {
		return nil, false
	}
	return d.value, true
}

// check enforces the per-parameter invariants.
func (p ParameterSpec) check() error {
	if p.Name == "" {
		return fmt.Errorf("parameter has empty name")
	}
	switch p.Kind {
	case KindString, KindNumber, KindBoolean:
		if len(p.EnumValues) > 0 {
			return fmt.Errorf("parameter %q: enum values on non-enum kind %s", p.Name, p.Kind)
		}
	case KindEnum:
		if len(p.EnumValues) == 0 {
			return fmt.Errorf("parameter %q: enum has no values", p.Name)
		}
	default:
		return fmt.Errorf("parameter %q: unknown kind %q", p.Name, p.Kind)
	}
	if p.Required && p.Default != nil {
		return fmt.Errorf("parameter %q: required parameter cannot have a default", p.Name)
	}
	if (p.Min != nil || p.Max != nil) && p.Kind != KindNumber {
		return fmt.Errorf("parameter %q: bounds are only valid on numbers", p.Name)
	}
	if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		return fmt.Errorf("parameter %q: min %v exceeds max %v", p.Name, *p.Min, *p.Max)
	}
	if v, ok := p.StaticDefault(); ok {
		if _, err := p.coerce(v); err != nil {
			return fmt.Errorf("parameter %q: invalid default: %w", p.Name, err)
		}
	}
	return nil
}
