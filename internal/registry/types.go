package registry

import (
	"fmt"
	"strings"
)

// ValueType is the declared type of a pin.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeVec2
	TypeVec3
	TypeJSON
	TypeAny
)

var valueTypeNames = map[ValueType]string{
	TypeBool:   "bool",
	TypeInt:    "int",
	TypeFloat:  "float",
	TypeString: "string",
	TypeVec2:   "vec2",
	TypeVec3:   "vec3",
	TypeJSON:   "json",
	TypeAny:    "any",
}

func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// ParseValueType resolves a type keyword such as "int" or "vec3".
func ParseValueType(s string) (ValueType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range valueTypeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeAny, fmt.Errorf("unknown value type %q", s)
}

// CompatibleWith reports whether a value declared as t may flow into a pin
// declared as dst. Identical types always connect, Any connects to
// everything in either position, and Int widens into Float.
func (t ValueType) CompatibleWith(dst ValueType) bool {
	switch {
	case t == dst:
		return true
	case t == TypeAny || dst == TypeAny:
		return true
	case t == TypeInt && dst == TypeFloat:
		return true
	}
	return false
}

// PinDefinition declares one input or output slot of a node type.
type PinDefinition struct {
	ID   string
	Name string
	Type ValueType
}

// NodeDefinition declares the shape of one node type.
type NodeDefinition struct {
	TypeID      string
	DisplayName string
	Inputs      []PinDefinition
	Outputs     []PinDefinition
}

// Input returns the declared input pin with the given id.
func (d NodeDefinition) Input(id string) (PinDefinition, bool) {
	return findPin(d.Inputs, id)
}

// Output returns the declared output pin with the given id.
func (d NodeDefinition) Output(id string) (PinDefinition, bool) {
	return findPin(d.Outputs, id)
}

func findPin(pins []PinDefinition, id string) (PinDefinition, bool) {
	for _, p := range pins {
		if p.ID == id {
			return p, true
		}
	}
	return PinDefinition{}, false
}

func (d NodeDefinition) clone() NodeDefinition {
	d.Inputs = append([]PinDefinition(nil), d.Inputs...)
	d.Outputs = append([]PinDefinition(nil), d.Outputs...)
	return d
}
