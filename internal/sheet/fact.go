// Package sheet generates single-digit addition and subtraction facts and
// arranges them into the three-column grid used by printed worksheets.
package sheet

import "fmt"

// MaxValue bounds every operand and result.
const MaxValue = 10

// Operator is the arithmetic operation of a fact.
type Operator int

const (
	OpAdd Operator = iota
	OpSubtract
)

// Symbol returns the printed operator.
func (o Operator) Symbol() string {
	if o == OpSubtract {
		return "-"
	}
	return "+"
}

// String implements fmt.Stringer.
func (o Operator) String() string {
	if o == OpSubtract {
		return "subtract"
	}
	return "add"
}

// Term identifies one of the three numbers in A op B = C.
type Term int

const (
	TermA Term = iota
	TermB
	TermC
)

// String implements fmt.Stringer.
func (t Term) String() string {
	switch t {
	case TermA:
		return "a"
	case TermB:
		return "b"
	default:
		return "c"
	}
}

// Fact is one arithmetic statement with the term hidden in the question view.
type Fact struct {
	A     int
	Op    Operator
	B     int
	C     int
	Blank Term
}

// Key is the canonical identity of a fact; the blank position is ignored.
func (f Fact) Key() string {
	return fmt.Sprintf("%d%s%d=%d", f.A, f.Op.Symbol(), f.B, f.C)
}

// HasZero reports whether any term is zero.
func (f Fact) HasZero() bool {
	return f.A == 0 || f.B == 0 || f.C == 0
}

// Value returns the number at the given term.
func (f Fact) Value(t Term) int {
	switch t {
	case TermA:
		return f.A
	case TermB:
		return f.B
	default:
		return f.C
	}
}

// Valid reports whether the fact satisfies its equation within [0, MaxValue].
func (f Fact) Valid() bool {
	for _, v := range []int{f.A, f.B, f.C} {
		if v < 0 || v > MaxValue {
			return false
		}
	}
	switch f.Op {
	case OpAdd:
		return f.A+f.B == f.C
	case OpSubtract:
		return f.B <= f.A && f.A-f.B == f.C
	default:
		return false
	}
}
