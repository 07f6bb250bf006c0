package analysis

import "strings"

// Predicate is a node of a boolean filter rendered into SQL with positional
// parameters. Values never reach the query text.
type Predicate interface {
	render(w *sqlWriter)
}

// Eq matches a column against a single value.
type Eq struct {
	Column string
	Value  string
}

// And joins its children with AND inside one group.
type And []Predicate

// Or joins its children with OR inside one group.
type Or []Predicate

func (p Eq) render(w *sqlWriter) {
	w.raw(p.Column)
	w.raw(" = ")
	w.param(p.Value)
}

func (p And) render(w *sqlWriter) { renderGroup(w, " AND ", p) }

func (p Or) render(w *sqlWriter) { renderGroup(w, " OR ", p) }

func renderGroup(w *sqlWriter, sep string, children []Predicate) {
	w.raw("(")
	for i, c := range children {
		if i > 0 {
			w.raw(sep)
		}
		c.render(w)
	}
	w.raw(")")
}

// sqlWriter accumulates query text and the values bound to its placeholders, in order.
type sqlWriter struct {
	sb     strings.Builder
	params []string
}

func (w *sqlWriter) raw(s string) { w.sb.WriteString(s) }

func (w *sqlWriter) param(value string) {
	w.sb.WriteString("?")
	w.params = append(w.params, quoteLiteral(value))
}

// dateParam binds an ISO date and casts it on the SQL side.
func (w *sqlWriter) dateParam(value string) {
	w.sb.WriteString("DATE(?)")
	w.params = append(w.params, quoteLiteral(value))
}

// quoteLiteral renders value as a SQL string literal. Athena execution parameters
// are substituted as literals, so single quotes are doubled.
func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// RenderPredicate returns the SQL fragment for p and its bound parameters.
func RenderPredicate(p Predicate) (string, []string) {
	var w sqlWriter
	p.render(&w)
	return w.sb.String(), w.params
}
