package sheet

// Columns is the number of questions per row.
const Columns = 3

// FieldsPerSlot is the number of rendered fields per question: number, LHS, RHS.
const FieldsPerSlot = 3

// FieldKind tags a rendered table field.
type FieldKind int

const (
	FieldNumber FieldKind = iota
	FieldLHS
	FieldRHS
	// FieldEmpty pads a short final row.
	FieldEmpty
)

// Field is one rendered cell of a row.
type Field struct {
	Kind   FieldKind
	Number int
	Expr   Expr
}

// Slot holds one question or, when Question is nil, a placeholder.
type Slot struct {
	Question *Question
}

// Empty reports whether the slot is padding.
func (s Slot) Empty() bool {
	return s.Question == nil
}

// Row is one line of the grid. Last marks the final row, which ends with a
// plain terminator instead of the wider row gap.
type Row struct {
	Slots [Columns]Slot
	Last  bool
}

// Grouping is a question set arranged for one view.
type Grouping struct {
	View View
	Rows []Row
}

// Arrange partitions set into rows of Columns questions, preserving order.
func Arrange(set QuestionSet, view View) Grouping {
	n := set.Len()
	rows := make([]Row, 0, (n+Columns-1)/Columns)
	for start := 0; start < n; start += Columns {
		var row Row
		for i := 0; i < Columns && start+i < n; i++ {
			q := set.Questions[start+i]
			row.Slots[i] = Slot{Question: &q}
		}
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		rows[len(rows)-1].Last = true
	}
	return Grouping{View: view, Rows: rows}
}

// Fields returns the Columns*FieldsPerSlot rendered fields of the row.
func (r Row) Fields(view View) []Field {
	fields := make([]Field, 0, Columns*FieldsPerSlot)
	for _, slot := range r.Slots {
		if slot.Empty() {
			for i := 0; i < FieldsPerSlot; i++ {
				fields = append(fields, Field{Kind: FieldEmpty})
			}
			continue
		}
		q := *slot.Question
		fields = append(fields,
			Field{Kind: FieldNumber, Number: q.Number},
			Field{Kind: FieldLHS, Expr: q.LHS(view)},
			Field{Kind: FieldRHS, Expr: q.RHS(view)},
		)
	}
	return fields
}

// Fields returns the rendered fields of every row in the grouping's view.
func (g Grouping) Fields() [][]Field {
	out := make([][]Field, len(g.Rows))
	for i, row := range g.Rows {
		out[i] = row.Fields(g.View)
	}
	return out
}
