package calculator

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind of an Operand
type Kind int

const (
	// KindInt is an integer operand
	KindInt Kind = iota
	// KindText is an arbitrary string operand, it may not be numeric at all
	KindText
)

// Operand is a value typed into one of the operand fields.
// Use Int or Text to create one.
type Operand struct {
	kind Kind
	n    int64
	s    string
}

// Int operand
func Int(n int64) Operand {
	return Operand{kind: KindInt, n: n}
}

// Text operand
func Text(s string) Operand {
	return Operand{kind: KindText, s: s}
}

// Kind of the operand
func (o Operand) Kind() Kind {
	return o.kind
}

// Int value, the bool is false if the operand isn't an integer
func (o Operand) Int() (int64, bool) {
	return o.n, o.kind == KindInt
}

// String is what gets typed into the field
func (o Operand) String() string {
	if o.kind == KindInt {
		return strconv.FormatInt(o.n, 10)
	}
	return o.s
}

// UnmarshalYAML decodes a plain yaml integer as an Int, anything else as a Text.
// Quote a number to make it a Text, such as "5".
func (o *Operand) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: operand must be a scalar", node.Line)
	}

	if node.ShortTag() == "!!int" {
		n, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*o = Int(n)
		return nil
	}

	*o = Text(node.Value)
	return nil
}

// MarshalYAML keeps the kind of the operand
func (o Operand) MarshalYAML() (interface{}, error) {
	if o.kind == KindInt {
		return o.n, nil
	}
	return o.s, nil
}
