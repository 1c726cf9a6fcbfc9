package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cast"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	String
	Number
	Bool
	Object
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Object:
		return "object"
	case Sequence:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one node of a loaded record: an object, a sequence or a scalar.
//
// Scalars keep the text they were decoded from so numbers stringify exactly
// as written in the source document. Values are never mutated after
// construction and may be shared between goroutines.
type Value struct {
	kind Kind
	text string
	obj  map[string]Value
	seq  []Value
}

// NullValue returns the null scalar.
func NullValue() Value { return Value{kind: Null} }

// Str returns a string scalar.
func Str(s string) Value { return Value{kind: String, text: s} }

// Num returns a number scalar holding the literal text of the number.
func Num(text string) Value { return Value{kind: Number, text: text} }

// Boolean returns a boolean scalar.
func Boolean(b bool) Value { return Value{kind: Bool, text: strconv.FormatBool(b)} }

// Obj returns an object value. The map is owned by the returned Value.
func Obj(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: Object, obj: fields}
}

// Seq returns a sequence value.
func Seq(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Sequence, seq: items}
}

func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether v is a string, number, bool or null.
func (v Value) IsScalar() bool {
	return v.kind != Object && v.kind != Sequence
}

// Text returns the string form of a non-null scalar. The second return value
// is false for null, objects and sequences.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case String, Number, Bool:
		return v.text, true
	default:
		return "", false
	}
}

// Field returns the member of an object value.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	child, ok := v.obj[key]
	return child, ok
}

// Keys returns the sorted member names of an object value.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Elements returns the items of a sequence value.
func (v Value) Elements() []Value {
	if v.kind != Sequence {
		return nil
	}
	return v.seq
}

// Len returns the number of members or items, and zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case Object:
		return len(v.obj)
	case Sequence:
		return len(v.seq)
	default:
		return 0
	}
}

// GetString is a convenience for reading a top-level string member, such as
// a node's "name" or a data bag item's "id".
func (v Value) GetString(key string) string {
	child, ok := v.Field(key)
	if !ok {
		return ""
	}
	s, _ := child.Text()
	return s
}

// Interface converts v back into plain Go values. Numbers are returned as
// json.Number so their text survives a round trip through encoding/json.
func (v Value) Interface() any {
	switch v.kind {
	case String:
		return v.text
	case Number:
		return json.Number(v.text)
	case Bool:
		return v.text == "true"
	case Object:
		out := make(map[string]any, len(v.obj))
		for k, child := range v.obj {
			out[k] = child.Interface()
		}
		return out
	case Sequence:
		out := make([]any, len(v.seq))
		for i, child := range v.seq {
			out[i] = child.Interface()
		}
		return out
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v Value) String() string {
	if s, ok := v.Text(); ok {
		return s
	}
	if v.kind == Null {
		return "null"
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(data)
}

// FromAny converts decoded JSON-like Go values into a Value.
func FromAny(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case string:
		return Str(t), nil
	case bool:
		return Boolean(t), nil
	case json.Number:
		return Num(t.String()), nil
	case float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		text, err := cast.ToStringE(t)
		if err != nil {
			return Value{}, err
		}
		return Num(text), nil
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, raw := range t {
			child, err := FromAny(raw)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			fields[k] = child
		}
		return Obj(fields), nil
	case map[any]any:
		fields := make(map[string]Value, len(t))
		for k, raw := range t {
			key, err := cast.ToStringE(k)
			if err != nil {
				return Value{}, fmt.Errorf("object key %v: %w", k, err)
			}
			child, err := FromAny(raw)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			fields[key] = child
		}
		return Obj(fields), nil
	case []any:
		items := make([]Value, len(t))
		for i, raw := range t {
			child, err := FromAny(raw)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = child
		}
		return Seq(items...), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = Str(s)
		}
		return Seq(items...), nil
	default:
		return Value{}, fmt.Errorf("unsupported record value of type %T", in)
	}
}

// MustFromAny is FromAny for literals known to be valid.
func MustFromAny(in any) Value {
	v, err := FromAny(in)
	if err != nil {
		panic(err)
	}
	return v
}
