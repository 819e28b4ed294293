package params

// Kind is the term type of a bound value, as in SPARQL JSON results.
type Kind string

const (
	KindURI     Kind = "uri"
	KindLiteral Kind = "literal"
	KindBNode   Kind = "bnode"
)

// TypedValue is one bound RDF term.
type TypedValue struct {
	Type     Kind   `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// BindingRow maps variable names to values. A variable missing from the row
// is unbound in that row.
type BindingRow map[string]TypedValue

// Head lists the variables a BindingSet provides.
type Head struct {
	Vars []string `json:"vars"`
}

// Arguments holds the rows of a BindingSet.
type Arguments struct {
	Bindings []BindingRow `json:"bindings"`
}

// BindingSet is the caller-supplied table of values, shaped like a SPARQL
// JSON results document.
type BindingSet struct {
	Head      *Head      `json:"head"`
	Arguments *Arguments `json:"arguments"`
}

// NewBindingSet builds a BindingSet from a header and rows.
func NewBindingSet(header []string, rows ...BindingRow) *BindingSet {
	return &BindingSet{
		Head:      &Head{Vars: header},
		Arguments: &Arguments{Bindings: rows},
	}
}

// Header returns the declared variables.
func (b *BindingSet) Header() []string {
	if b == nil || b.Head == nil {
		return nil
	}
	return b.Head.Vars
}

// Rows returns the binding rows.
func (b *BindingSet) Rows() []BindingRow {
	if b == nil || b.Arguments == nil {
		return nil
	}
	return b.Arguments.Bindings
}

// complete reports whether both head and arguments are present.
func (b *BindingSet) complete() bool {
	return b != nil && b.Head != nil && b.Arguments != nil
}

// URI returns a TypedValue for an IRI.
func URI(iri string) TypedValue {
	return TypedValue{Type: KindURI, Value: iri}
}

// Literal returns a TypedValue for a plain string literal.
func Literal(value string) TypedValue {
	return TypedValue{Type: KindLiteral, Value: value}
}

// TypedLiteral returns a TypedValue for a literal with a datatype IRI.
func TypedLiteral(value, datatype string) TypedValue {
	return TypedValue{Type: KindLiteral, Value: value, Datatype: datatype}
}

// LangLiteral returns a TypedValue for a language-tagged literal.
func LangLiteral(value, lang string) TypedValue {
	return TypedValue{Type: KindLiteral, Value: value, Lang: lang}
}
