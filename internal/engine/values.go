package engine

import (
	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
)

// Key addresses one output pin of one node.
type Key struct {
	Node uuid.UUID
	Pin  string
}

// Values is the value table of a run. Entries keep the order in which they
// were committed.
type Values struct {
	keys []Key
	vals map[Key]cty.Value
}

func newValues() *Values {
	return &Values{vals: make(map[Key]cty.Value)}
}

func (v *Values) set(k Key, val cty.Value) {
	if _, ok := v.vals[k]; !ok {
		v.keys = append(v.keys, k)
	}
	v.vals[k] = val
}

// Get returns the value committed for node.pin.
func (v *Values) Get(node uuid.UUID, pin string) (cty.Value, bool) {
	val, ok := v.vals[Key{Node: node, Pin: pin}]
	return val, ok
}

// Keys returns all keys in commit order.
func (v *Values) Keys() []Key {
	return append([]Key(nil), v.keys...)
}

// Len returns the number of committed values.
func (v *Values) Len() int {
	return len(v.keys)
}

// Outputs returns the values committed by one node, keyed by pin id.
func (v *Values) Outputs(node uuid.UUID) map[string]cty.Value {
	out := make(map[string]cty.Value)
	for _, k := range v.keys {
		if k.Node == node {
			out[k.Pin] = v.vals[k]
		}
	}
	return out
}
