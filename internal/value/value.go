// Package value holds the structured value shared by node configuration
// payloads, pin values and executor results.
//
// Values are plain cty.Value instances. A value may be null, a bool, a number,
// a string, a sequence (tuple or list) or a mapping (object or map). The helpers
// in this package read such values defensively: an accessor never panics on a
// value of the wrong shape, it reports ok=false instead so that executors can
// fall back to their defaults.
package value

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Null is the placeholder bound to inputs that carry no value.
var Null = cty.NullVal(cty.DynamicPseudoType)

// IsNull reports whether v is null or the zero cty.Value.
func IsNull(v cty.Value) bool {
	return v == cty.NilVal || v.IsNull()
}

// String returns the string held by v.
func String(v cty.Value) (string, bool) {
	if IsNull(v) || !v.IsKnown() || !v.Type().Equals(cty.String) {
		return "", false
	}
	return v.AsString(), true
}

// Int returns the integer held by v. Numbers with a fractional part or that
// do not fit in an int64 are rejected.
func Int(v cty.Value) (int64, bool) {
	if IsNull(v) || !v.IsKnown() || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	bf := v.AsBigFloat()
	if !bf.IsInt() {
		return 0, false
	}
	i, acc := bf.Int64()
	if acc != big.Exact {
		return 0, false
	}
	return i, true
}

// Attr returns the named field of a mapping value, or Null when v is not a
// mapping or has no such field.
func Attr(v cty.Value, name string) cty.Value {
	if IsNull(v) || !v.IsKnown() {
		return Null
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(name) {
			return Null
		}
		return v.GetAttr(name)
	case ty.IsMapType():
		key := cty.StringVal(name)
		if v.HasIndex(key).True() {
			return v.Index(key)
		}
	}
	return Null
}

// FromJSON decodes a JSON document of any shape into a value. Arrays become
// tuples and objects become object values. Empty input decodes to Null.
func FromJSON(raw []byte) (cty.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Null, nil
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("infer value type: %w", err)
	}
	v, err := ctyjson.Unmarshal(raw, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}

// ToJSON encodes v as plain JSON.
func ToJSON(v cty.Value) ([]byte, error) {
	if IsNull(v) {
		return []byte("null"), nil
	}
	return ctyjson.Marshal(v, v.Type())
}

// Format renders v as compact JSON for logs and CLI output.
func Format(v cty.Value) string {
	b, err := ToJSON(v)
	if err != nil {
		return fmt.Sprintf("<%s>", err)
	}
	return string(b)
}

// FromGo converts a Go value into a value using its implied cty type. Struct
// fields need `cty:"name"` tags.
func FromGo(in any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(in)
	if err != nil {
		return cty.NilVal, fmt.Errorf("imply type of %T: %w", in, err)
	}
	v, err := gocty.ToCtyValue(in, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("convert %T: %w", in, err)
	}
	return v, nil
}
