package calculator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Operation is the symbol of an option of the operation select
type Operation string

const (
	// None is the empty option, the page renders no result for it
	None Operation = ""
	// Add operation
	Add Operation = "+"
	// Sub operation
	Sub Operation = "-"
	// Mul operation
	Mul Operation = "*"
	// Div operation
	Div Operation = "/"
)

// Operations the page supports
var Operations = []Operation{Add, Sub, Mul, Div}

var regNumber = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)

// Expect returns the text the page is expected to render for the input.
// An operand that isn't a number is rendered as "null", so is the value of a division by zero.
func Expect(a Operand, op Operation, b Operand) string {
	if op == None {
		return ""
	}

	x, okX := number(a)
	y, okY := number(b)

	value := "null"
	if okX && okY {
		if v, ok := apply(x, op, y); ok {
			value = formatNumber(v)
		}
	}

	return fmt.Sprintf("%s %s %s = %s", operandText(x, okX), op, operandText(y, okY), value)
}

func apply(x float64, op Operation, y float64) (float64, bool) {
	switch op {
	case Add:
		return x + y, true
	case Sub:
		return x - y, true
	case Mul:
		return x * y, true
	case Div:
		if y == 0 {
			return 0, false
		}
		return x / y, true
	}
	return 0, false
}

func number(o Operand) (float64, bool) {
	if n, ok := o.Int(); ok {
		return float64(n), true
	}

	s := strings.TrimSpace(o.String())
	if !regNumber.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func operandText(f float64, ok bool) string {
	if !ok {
		return "null"
	}
	return formatNumber(f)
}

// formatNumber the way js converts a number to string
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp := s[:strings.IndexByte(s, 'e')+2], s[strings.IndexByte(s, 'e')+2:]
		return mantissa + strings.TrimLeft(exp, "0")
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
