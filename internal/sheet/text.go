package sheet

import (
	"strconv"
	"strings"
)

// TextBlank is the plain-text placeholder for a hidden term.
const TextBlank = "__"

// FormatText renders an expression as plain text. Revealed terms print as
// their value, so answer views read as complete equations.
func FormatText(expr Expr) string {
	var b strings.Builder
	for _, tok := range expr {
		switch tok.Kind {
		case TokenOperator:
			b.WriteString(tok.Op.Symbol())
		case TokenBlank:
			b.WriteString(TextBlank)
		default:
			b.WriteString(strconv.Itoa(tok.Value))
		}
	}
	return b.String()
}

// Equation renders a full question line such as "3+__=7".
func Equation(q Question, view View) string {
	return FormatText(q.LHS(view)) + "=" + FormatText(q.RHS(view))
}

// TextRows renders each row of g as Columns cells of "(n) equation".
// Padding slots render as empty strings so every row keeps its width.
func TextRows(g Grouping) [][]string {
	rows := make([][]string, len(g.Rows))
	for i, row := range g.Rows {
		cells := make([]string, Columns)
		for j, slot := range row.Slots {
			if slot.Empty() {
				continue
			}
			cells[j] = "(" + strconv.Itoa(slot.Question.Number) + ") " + Equation(*slot.Question, g.View)
		}
		rows[i] = cells
	}
	return rows
}
