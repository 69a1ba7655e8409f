package calculator_test

import (
	"testing"

	c "github.com/go-rod/harness/pages/calculator"
	"github.com/ysmood/got"
	"gopkg.in/yaml.v3"
)

func TestOperand(t *testing.T) {
	g := got.New(t)

	n, ok := c.Int(-5).Int()
	g.True(ok)
	g.Eq(n, int64(-5))
	g.Eq(c.Int(-5).String(), "-5")
	g.Eq(c.Int(-5).Kind(), c.KindInt)

	_, ok = c.Text("5").Int()
	g.False(ok)
	g.Eq(c.Text("ааа").String(), "ааа")
	g.Eq(c.Text("5").Kind(), c.KindText)
}

func TestOperandYAML(t *testing.T) {
	g := got.New(t)

	var v struct {
		A c.Operand `yaml:"a"`
		B c.Operand `yaml:"b"`
		C c.Operand `yaml:"c"`
		D c.Operand `yaml:"d"`
	}

	g.E(yaml.Unmarshal([]byte("{a: 12, b: '12', c: ааа, d: 1.5}"), &v))

	g.Eq(v.A, c.Int(12))
	g.Eq(v.B, c.Text("12"))
	g.Eq(v.C, c.Text("ааа"))
	g.Eq(v.D, c.Text("1.5"))

	out, err := yaml.Marshal(map[string]c.Operand{"a": c.Int(3), "b": c.Text("3")})
	g.E(err)
	g.Eq(string(out), "a: 3\nb: \"3\"\n")

	g.Err(yaml.Unmarshal([]byte("a: [1]"), &v))
}
