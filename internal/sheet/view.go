package sheet

// View selects which rendering of a question is produced.
type View int

const (
	ViewQuestion View = iota
	ViewAnswer
)

// String implements fmt.Stringer.
func (v View) String() string {
	if v == ViewAnswer {
		return "answer"
	}
	return "question"
}

// ParseView converts "question" or "answer" into a View.
func ParseView(value string) (View, bool) {
	switch value {
	case "", "question", "q":
		return ViewQuestion, true
	case "answer", "answers", "a":
		return ViewAnswer, true
	default:
		return ViewQuestion, false
	}
}

// TokenKind tags one element of a rendered expression.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenOperator
	// TokenBlank is the hidden term in the question view.
	TokenBlank
	// TokenRevealed is the hidden term filled in for the answer view.
	TokenRevealed
)

// Token is one element of an expression. Value is set for numbers and
// revealed terms, Op for operators.
type Token struct {
	Kind  TokenKind
	Value int
	Op    Operator
}

// Expr is one side of an equation.
type Expr []Token

// Question is a fact numbered within its page.
type Question struct {
	Number int
	Fact   Fact
}

// LHS returns the left-hand side in the given view.
func (q Question) LHS(view View) Expr {
	return Expr{
		q.term(TermA, view),
		{Kind: TokenOperator, Op: q.Fact.Op},
		q.term(TermB, view),
	}
}

// RHS returns the right-hand side in the given view.
func (q Question) RHS(view View) Expr {
	return Expr{q.term(TermC, view)}
}

func (q Question) term(t Term, view View) Token {
	value := q.Fact.Value(t)
	if t != q.Fact.Blank {
		return Token{Kind: TokenNumber, Value: value}
	}
	if view == ViewAnswer {
		return Token{Kind: TokenRevealed, Value: value}
	}
	return Token{Kind: TokenBlank}
}
