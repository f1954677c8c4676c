package sheet

import (
	"slices"
	"testing"
)

func TestEquation(t *testing.T) {
	q := Question{Number: 1, Fact: Fact{A: 3, Op: OpAdd, B: 4, C: 7, Blank: TermB}}
	if got := Equation(q, ViewQuestion); got != "3+__=7" {
		t.Fatalf("question view = %q", got)
	}
	if got := Equation(q, ViewAnswer); got != "3+4=7" {
		t.Fatalf("answer view = %q", got)
	}
}

func TestTextRowsPadsLastRow(t *testing.T) {
	set := QuestionSet{Questions: []Question{
		{Number: 1, Fact: Fact{A: 3, Op: OpAdd, B: 4, C: 7, Blank: TermC}},
		{Number: 2, Fact: Fact{A: 9, Op: OpSubtract, B: 5, C: 4, Blank: TermA}},
		{Number: 3, Fact: Fact{A: 1, Op: OpAdd, B: 1, C: 2, Blank: TermB}},
		{Number: 4, Fact: Fact{A: 8, Op: OpSubtract, B: 2, C: 6, Blank: TermC}},
	}}

	rows := TextRows(Arrange(set, ViewQuestion))
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !slices.Equal(rows[0], []string{"(1) 3+4=__", "(2) __-5=4", "(3) 1+__=2"}) {
		t.Fatalf("row 0 = %v", rows[0])
	}
	if !slices.Equal(rows[1], []string{"(4) 8-2=__", "", ""}) {
		t.Fatalf("row 1 = %v", rows[1])
	}

	answers := TextRows(Arrange(set, ViewAnswer))
	if answers[1][0] != "(4) 8-2=6" {
		t.Fatalf("answer row = %v", answers[1])
	}
}
