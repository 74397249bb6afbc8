package schema

import "fmt"

// OperationDescriptor is the parameter schema of one operation.
type OperationDescriptor struct {
	Name        string
	Title       string
	Description string
	Parameters  []ParameterSpec
}

// Param returns the named parameter.
func (d OperationDescriptor) Param(name string) (ParameterSpec, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// Check verifies the descriptor and every parameter it declares.
func (d OperationDescriptor) Check() error {
	if d.Name == "" {
		return fmt.Errorf("operation has empty name")
	}
	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if err := p.check(); err != nil {
			return fmt.Errorf("operation %q: %w", d.Name, err)
		}
		if seen[p.Name] {
			return fmt.Errorf("operation %q: duplicate parameter %q", d.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Builder accumulates parameters into an OperationDescriptor.
type Builder struct {
	desc OperationDescriptor
}

// NewOperation starts a descriptor.
func NewOperation(name, title, description string) *Builder {
	return &Builder{desc: OperationDescriptor{Name: name, Title: title, Description: description}}
}

// Param appends one parameter.
func (b *Builder) Param(p ParameterSpec) *Builder {
	b.desc.Parameters = append(b.desc.Parameters, p)
	return b
}

// Build returns the descriptor, or the first invariant it violates.
// Static defaults are stored in their normalized form (numbers as float64).
func (b *Builder) Build() (OperationDescriptor, error) {
	d := b.desc
	d.Parameters = append([]ParameterSpec(nil), b.desc.Parameters...)
	if err := d.Check(); err != nil {
		return OperationDescriptor{}, err
	}
	for i, p := range d.Parameters {
		if v, ok := p.StaticDefault(); ok {
			normalized, _ := p.coerce(v)
			d.Parameters[i].Default = staticDefault{value: normalized}
		}
	}
	return d, nil
}
