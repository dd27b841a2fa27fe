package types

import (
	"maps"
	"strings"
)

// TypeMap maps column or alias names to semantic type names. Explicit types
// set with SetTypes take precedence over the defaults.
type TypeMap struct {
	defaults map[string]string
	types    map[string]string
}

// NewTypeMap creates a TypeMap with the given defaults.
func NewTypeMap(defaults map[string]string) *TypeMap {
	tm := &TypeMap{types: map[string]string{}}
	tm.SetDefaults(defaults)
	return tm
}

// SetDefaults replaces the default map wholesale.
func (tm *TypeMap) SetDefaults(defaults map[string]string) *TypeMap {
	tm.defaults = maps.Clone(defaults)
	if tm.defaults == nil {
		tm.defaults = map[string]string{}
	}
	return tm
}

// AddDefaults merges entries into the default map.
func (tm *TypeMap) AddDefaults(defaults map[string]string) *TypeMap {
	if tm.defaults == nil {
		tm.defaults = map[string]string{}
	}
	maps.Copy(tm.defaults, defaults)
	return tm
}

// Defaults returns a copy of the default map.
func (tm *TypeMap) Defaults() map[string]string {
	return maps.Clone(tm.defaults)
}

// SetTypes replaces the explicit type map.
func (tm *TypeMap) SetTypes(types map[string]string) *TypeMap {
	tm.types = maps.Clone(types)
	if tm.types == nil {
		tm.types = map[string]string{}
	}
	return tm
}

// Types returns a copy of the explicit type map.
func (tm *TypeMap) Types() map[string]string {
	return maps.Clone(tm.types)
}

// Type returns the type registered for name, checking explicit types first.
func (tm *TypeMap) Type(name string) string {
	if tm == nil {
		return ""
	}
	if t, ok := tm.types[name]; ok {
		return t
	}
	return tm.defaults[name]
}

// ColumnType resolves a possibly qualified column name. When "a.title" is
// not mapped, the unqualified "title" is tried.
func (tm *TypeMap) ColumnType(column string) string {
	if t := tm.Type(column); t != "" {
		return t
	}
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		return tm.Type(column[i+1:])
	}
	return ""
}

// Clone returns an independent copy.
func (tm *TypeMap) Clone() *TypeMap {
	if tm == nil {
		return NewTypeMap(nil)
	}
	c := &TypeMap{}
	c.SetDefaults(tm.defaults)
	c.SetTypes(tm.types)
	return c
}
