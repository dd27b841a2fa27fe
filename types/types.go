// Package types maps semantic column types to value conversions applied
// when binding parameters (ToDatabase) and when reading rows (ToGo).
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Type converts values between Go and the database for one semantic type.
type Type interface {
	Name() string
	ToDatabase(v any) (any, error)
	ToGo(v any) (any, error)
}

// Semantic type names registered by default.
const (
	Integer      = "integer"
	BigInteger   = "biginteger"
	SmallInteger = "smallinteger"
	TinyInteger  = "tinyinteger"
	Float        = "float"
	Decimal      = "decimal"
	Boolean      = "boolean"
	String       = "string"
	Char         = "char"
	Text         = "text"
	UUID         = "uuid"
	Binary       = "binary"
	Date         = "date"
	DateTime     = "datetime"
	Timestamp    = "timestamp"
	Time         = "time"
	JSON         = "json"
)

// multipleSuffix marks a list type such as "integer[]".
const multipleSuffix = "[]"

// IsMultiple reports whether name declares a list of values.
func IsMultiple(name string) bool {
	return strings.HasSuffix(name, multipleSuffix)
}

// Base strips the list marker from a type name.
func Base(name string) string {
	return strings.TrimSuffix(name, multipleSuffix)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Type{}
)

// Register adds or replaces a type in the global registry.
func Register(t Type) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t.Name()] = t
}

// Lookup returns the registered type for name. List markers are ignored.
func Lookup(name string) (Type, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[Base(name)]
	return t, ok
}

// Encode converts v for the database using the named type. Unknown or empty
// type names pass the value through.
func Encode(name string, v any) (any, error) {
	if v == nil || name == "" {
		return v, nil
	}
	t, ok := Lookup(name)
	if !ok {
		return v, nil
	}
	out, err := t.ToDatabase(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return out, nil
}

// Decode converts a raw driver value using the named type. Unknown or empty
// type names pass the value through.
func Decode(name string, v any) (any, error) {
	if v == nil || name == "" {
		return v, nil
	}
	t, ok := Lookup(name)
	if !ok {
		return v, nil
	}
	out, err := t.ToGo(v)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

func init() {
	for _, name := range []string{Integer, BigInteger, SmallInteger, TinyInteger} {
		Register(integerType{name: name})
	}
	Register(floatType{})
	Register(decimalType{})
	Register(boolType{})
	for _, name := range []string{String, Char, Text} {
		Register(stringType{name: name})
	}
	Register(uuidType{})
	Register(binaryType{})
	Register(timeType{name: Date, layout: time.DateOnly})
	Register(timeType{name: DateTime, layout: time.DateTime})
	Register(timeType{name: Timestamp, layout: time.DateTime})
	Register(timeType{name: Time, layout: time.TimeOnly})
	Register(jsonType{})
}

// raw unwraps []byte driver values to strings so cast can read them.
func raw(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

type integerType struct{ name string }

func (t integerType) Name() string { return t.name }

func (t integerType) ToDatabase(v any) (any, error) { return cast.ToInt64E(raw(v)) }

func (t integerType) ToGo(v any) (any, error) { return cast.ToInt64E(raw(v)) }

type floatType struct{}

func (floatType) Name() string { return Float }

func (floatType) ToDatabase(v any) (any, error) { return cast.ToFloat64E(raw(v)) }

func (floatType) ToGo(v any) (any, error) { return cast.ToFloat64E(raw(v)) }

// decimalType keeps values as strings so no precision is lost.
type decimalType struct{}

func (decimalType) Name() string { return Decimal }

func (decimalType) ToDatabase(v any) (any, error) { return cast.ToStringE(raw(v)) }

func (decimalType) ToGo(v any) (any, error) { return cast.ToStringE(raw(v)) }

type boolType struct{}

func (boolType) Name() string { return Boolean }

func (boolType) ToDatabase(v any) (any, error) { return cast.ToBoolE(raw(v)) }

func (boolType) ToGo(v any) (any, error) { return cast.ToBoolE(raw(v)) }

type stringType struct{ name string }

func (t stringType) Name() string { return t.name }

func (t stringType) ToDatabase(v any) (any, error) { return cast.ToStringE(raw(v)) }

func (t stringType) ToGo(v any) (any, error) { return cast.ToStringE(raw(v)) }

type uuidType struct{}

func (uuidType) Name() string { return UUID }

func (uuidType) ToDatabase(v any) (any, error) {
	switch u := v.(type) {
	case uuid.UUID:
		return u.String(), nil
	case string:
		parsed, err := uuid.Parse(u)
		if err != nil {
			return nil, err
		}
		return parsed.String(), nil
	default:
		return cast.ToStringE(raw(v))
	}
}

func (uuidType) ToGo(v any) (any, error) {
	switch u := v.(type) {
	case uuid.UUID:
		return u, nil
	case []byte:
		if len(u) == 16 {
			return uuid.FromBytes(u)
		}
		return uuid.ParseBytes(u)
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		return uuid.Parse(s)
	}
}

type binaryType struct{}

func (binaryType) Name() string { return Binary }

func (binaryType) ToDatabase(v any) (any, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to binary", v)
	}
}

func (binaryType) ToGo(v any) (any, error) {
	switch b := v.(type) {
	case []byte:
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to binary", v)
	}
}

type timeType struct {
	name   string
	layout string
}

func (t timeType) Name() string { return t.name }

func (t timeType) ToDatabase(v any) (any, error) {
	switch tv := v.(type) {
	case time.Time:
		return tv.Format(t.layout), nil
	case string:
		return tv, nil
	default:
		parsed, err := cast.ToTimeE(raw(v))
		if err != nil {
			return nil, err
		}
		return parsed.Format(t.layout), nil
	}
}

func (t timeType) ToGo(v any) (any, error) {
	if t.name == Time {
		if s, ok := raw(v).(string); ok {
			return time.Parse(time.TimeOnly, s)
		}
	}
	return cast.ToTimeE(raw(v))
}

type jsonType struct{}

func (jsonType) Name() string { return JSON }

func (jsonType) ToDatabase(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (jsonType) ToGo(v any) (any, error) {
	var data []byte
	switch s := v.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return v, nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
