// Package binder tracks the named placeholders and bound values produced
// while a statement is rendered.
package binder

import (
	"fmt"
	"strings"
)

// Binding is one entry of the binding table.
type Binding struct {
	Param       string // placeholder as it appears in SQL, e.g. ":c0"
	Placeholder string // name without the leading colon, e.g. "c0"
	Value       any
	Type        string // declared semantic type, empty when unknown
}

// ValueBinder is the single source of truth for parameter placeholders
// within one statement render. It is not safe for concurrent use.
type ValueBinder struct {
	bindings  map[string]*Binding
	generated map[string]bool
	order     []string
	counter   int
}

// New creates an empty ValueBinder.
func New() *ValueBinder {
	return &ValueBinder{
		bindings:  make(map[string]*Binding),
		generated: make(map[string]bool),
	}
}

func normalize(param string) string {
	return strings.TrimPrefix(param, ":")
}

// Bind registers or overwrites the value bound to param. The leading colon
// is optional.
func (b *ValueBinder) Bind(param string, value any, typ string) {
	b.bind(normalize(param), value, typ, false)
}

func (b *ValueBinder) bind(name string, value any, typ string, generated bool) {
	if generated {
		b.generated[name] = true
	} else {
		delete(b.generated, name)
	}
	if existing, ok := b.bindings[name]; ok {
		existing.Value = value
		existing.Type = typ
		return
	}
	b.bindings[name] = &Binding{
		Param:       ":" + name,
		Placeholder: name,
		Value:       value,
		Type:        typ,
	}
	b.order = append(b.order, name)
}

// Placeholder allocates the next unique placeholder with the given prefix,
// e.g. ":c0", ":c1". Names already taken by explicit binds are skipped.
func (b *ValueBinder) Placeholder(prefix string) string {
	for {
		name := fmt.Sprintf("%s%d", prefix, b.counter)
		b.counter++
		if _, taken := b.bindings[name]; !taken {
			return ":" + name
		}
	}
}

// Generate allocates a fresh ":cN" placeholder and binds value to it.
func (b *ValueBinder) Generate(value any, typ string) string {
	param := b.Placeholder("c")
	b.bind(normalize(param), value, typ, true)
	return param
}

// GenerateManyNamed binds each value to a fresh placeholder and returns the
// placeholders in order.
func (b *ValueBinder) GenerateManyNamed(values []any, typ string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = b.Generate(v, typ)
	}
	return out
}

// Get returns the binding for param.
func (b *ValueBinder) Get(param string) (Binding, bool) {
	bd, ok := b.bindings[normalize(param)]
	if !ok {
		return Binding{}, false
	}
	return *bd, true
}

// Bindings returns the binding table in registration order.
func (b *ValueBinder) Bindings() []Binding {
	out := make([]Binding, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, *b.bindings[name])
	}
	return out
}

// Len returns the number of registered bindings.
func (b *ValueBinder) Len() int {
	return len(b.order)
}

// Reset removes every binding and restarts the placeholder counter.
func (b *ValueBinder) Reset() {
	b.bindings = make(map[string]*Binding)
	b.generated = make(map[string]bool)
	b.order = nil
	b.counter = 0
}

// ResetCount restarts the placeholder counter and drops the bindings that
// were generated by a previous render. Explicit binds are kept so that
// rendering the same statement twice yields the same binding table.
func (b *ValueBinder) ResetCount() {
	b.counter = 0
	kept := b.order[:0]
	for _, name := range b.order {
		if b.generated[name] {
			delete(b.bindings, name)
			delete(b.generated, name)
			continue
		}
		kept = append(kept, name)
	}
	b.order = kept
}

// Merge copies the explicit binds of other into b. Existing names are
// overwritten.
func (b *ValueBinder) Merge(other *ValueBinder) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		if other.generated[name] {
			continue
		}
		bd := other.bindings[name]
		b.bind(name, bd.Value, bd.Type, false)
	}
}

// Clone returns an independent copy of the binder.
func (b *ValueBinder) Clone() *ValueBinder {
	c := &ValueBinder{
		bindings:  make(map[string]*Binding, len(b.bindings)),
		generated: make(map[string]bool, len(b.generated)),
		order:     make([]string, len(b.order)),
		counter:   b.counter,
	}
	copy(c.order, b.order)
	for name := range b.generated {
		c.generated[name] = true
	}
	for name, bd := range b.bindings {
		cp := *bd
		c.bindings[name] = &cp
	}
	return c
}
