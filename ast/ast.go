// Package ast defines the abstract syntax tree for SPARQL 1.1 queries and updates.
package ast

import (
	"github.com/kyleconroy/sparqlparam/token"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() token.Position
	End() token.Position
}

// Request is either a *Query or an *Update.
type Request interface {
	Node
	requestNode()
}

// Pattern is the interface implemented by all graph pattern nodes.
type Pattern interface {
	Node
	patternNode()
}

// Term is the interface implemented by RDF terms and triple-pattern nodes.
type Term interface {
	Node
	termNode()
}

// Expression is the interface implemented by all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// Path is the interface implemented by predicate positions: property paths,
// plain IRIs, 'a' and variables.
type Path interface {
	Node
	pathNode()
}

// UpdateOperation is the interface implemented by the SPARQL Update operations.
type UpdateOperation interface {
	Node
	updateNode()
}

// -----------------------------------------------------------------------------
// Requests

// QueryForm identifies the kind of query.
type QueryForm int

const (
	SelectForm QueryForm = iota
	ConstructForm
	AskForm
	DescribeForm
)

func (f QueryForm) String() string {
	switch f {
	case SelectForm:
		return "SELECT"
	case ConstructForm:
		return "CONSTRUCT"
	case AskForm:
		return "ASK"
	case DescribeForm:
		return "DESCRIBE"
	}
	return "UNKNOWN"
}

// Declaration is a BASE or PREFIX declaration in a prologue.
type Declaration struct {
	Position token.Position `json:"-"`
	Base     bool           `json:"base,omitempty"`
	Prefix   string         `json:"prefix,omitempty"` // without the trailing ':'
	IRI      string         `json:"iri"`
}

func (d *Declaration) Pos() token.Position { return d.Position }
func (d *Declaration) End() token.Position { return d.Position }

// Query represents a SELECT, CONSTRUCT, ASK or DESCRIBE query. Sub-selects
// reuse this type with an empty prologue and dataset.
type Query struct {
	Position       token.Position   `json:"-"`
	Prologue       []*Declaration   `json:"prologue,omitempty"`
	Form           QueryForm        `json:"form"`
	Select         *SelectClause    `json:"select,omitempty"`
	Template       *BGP             `json:"template,omitempty"`
	ShortConstruct bool             `json:"short_construct,omitempty"` // CONSTRUCT WHERE { ... }
	Describe       []Term           `json:"describe,omitempty"`
	DescribeAll    bool             `json:"describe_all,omitempty"`
	Dataset        []*DatasetClause `json:"dataset,omitempty"`
	Where          *GroupPattern    `json:"where,omitempty"`
	Modifiers      SolutionModifier `json:"modifiers"`
	Values         *ValuesPattern   `json:"values,omitempty"` // trailing VALUES block
}

func (q *Query) Pos() token.Position { return q.Position }
func (q *Query) End() token.Position { return q.Position }
func (q *Query) requestNode()        {}

// SelectClause is the projection of a SELECT query.
type SelectClause struct {
	Position   token.Position `json:"-"`
	Distinct   bool           `json:"distinct,omitempty"`
	Reduced    bool           `json:"reduced,omitempty"`
	Star       bool           `json:"star,omitempty"`
	Projection []*Projection  `json:"projection,omitempty"`
}

func (s *SelectClause) Pos() token.Position { return s.Position }
func (s *SelectClause) End() token.Position { return s.Position }

// Projection is one projected column: a bare variable when Expr is nil,
// otherwise (Expr AS ?Var).
type Projection struct {
	Position token.Position `json:"-"`
	Var      *Var           `json:"var"`
	Expr     Expression     `json:"expr,omitempty"`
}

func (p *Projection) Pos() token.Position { return p.Position }
func (p *Projection) End() token.Position { return p.Position }

// DatasetClause is FROM <iri> or FROM NAMED <iri> (USING in updates).
type DatasetClause struct {
	Position token.Position `json:"-"`
	Named    bool           `json:"named,omitempty"`
	IRI      Term           `json:"iri"`
}

func (d *DatasetClause) Pos() token.Position { return d.Position }
func (d *DatasetClause) End() token.Position { return d.Position }

// SolutionModifier holds GROUP BY, HAVING, ORDER BY, LIMIT and OFFSET.
type SolutionModifier struct {
	GroupBy []*GroupCondition `json:"group_by,omitempty"`
	Having  []Expression      `json:"having,omitempty"`
	OrderBy []*OrderCondition `json:"order_by,omitempty"`
	Limit   *Literal          `json:"limit,omitempty"`
	Offset  *Literal          `json:"offset,omitempty"`
}

// GroupCondition is one GROUP BY entry, optionally (Expr AS ?As).
type GroupCondition struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	As       *Var           `json:"as,omitempty"`
}

func (g *GroupCondition) Pos() token.Position { return g.Position }
func (g *GroupCondition) End() token.Position { return g.Position }

// OrderCondition is one ORDER BY entry. Explicit is set when the condition
// was written as ASC(...) or DESC(...).
type OrderCondition struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	Desc     bool           `json:"desc,omitempty"`
	Explicit bool           `json:"explicit,omitempty"`
}

func (o *OrderCondition) Pos() token.Position { return o.Position }
func (o *OrderCondition) End() token.Position { return o.Position }

// Update is a sequence of update operations separated by ';'.
type Update struct {
	Position token.Position `json:"-"`
	Steps    []*UpdateStep  `json:"steps"`
}

func (u *Update) Pos() token.Position { return u.Position }
func (u *Update) End() token.Position { return u.Position }
func (u *Update) requestNode()        {}

// UpdateStep is one operation with the prologue written in front of it.
// Operation is nil for a trailing prologue.
type UpdateStep struct {
	Position  token.Position  `json:"-"`
	Prologue  []*Declaration  `json:"prologue,omitempty"`
	Operation UpdateOperation `json:"operation,omitempty"`
}

func (u *UpdateStep) Pos() token.Position { return u.Position }
func (u *UpdateStep) End() token.Position { return u.Position }

// -----------------------------------------------------------------------------
// Graph patterns

// GroupPattern is a { ... } block.
type GroupPattern struct {
	Position token.Position `json:"-"`
	Patterns []Pattern      `json:"patterns"`
}

func (g *GroupPattern) Pos() token.Position { return g.Position }
func (g *GroupPattern) End() token.Position { return g.Position }
func (g *GroupPattern) patternNode()        {}

// BGP is a basic graph pattern: a run of triples.
type BGP struct {
	Position token.Position        `json:"-"`
	Triples  []*TriplesSameSubject `json:"triples"`
}

func (b *BGP) Pos() token.Position { return b.Position }
func (b *BGP) End() token.Position { return b.Position }
func (b *BGP) patternNode()        {}

// TriplesSameSubject is a subject with its predicate-object list.
type TriplesSameSubject struct {
	Position   token.Position     `json:"-"`
	Subject    Term               `json:"subject"`
	Properties []*PropertyObjects `json:"properties,omitempty"`
}

func (t *TriplesSameSubject) Pos() token.Position { return t.Position }
func (t *TriplesSameSubject) End() token.Position { return t.Position }

// PropertyObjects is one verb with its object list.
type PropertyObjects struct {
	Position token.Position `json:"-"`
	Verb     Path           `json:"verb"`
	Objects  []Term         `json:"objects"`
}

func (p *PropertyObjects) Pos() token.Position { return p.Position }
func (p *PropertyObjects) End() token.Position { return p.Position }

// OptionalPattern is OPTIONAL { ... }.
type OptionalPattern struct {
	Position token.Position `json:"-"`
	Pattern  *GroupPattern  `json:"pattern"`
}

func (o *OptionalPattern) Pos() token.Position { return o.Position }
func (o *OptionalPattern) End() token.Position { return o.Position }
func (o *OptionalPattern) patternNode()        {}

// UnionPattern is { ... } UNION { ... } [UNION ...].
type UnionPattern struct {
	Position     token.Position  `json:"-"`
	Alternatives []*GroupPattern `json:"alternatives"`
}

func (u *UnionPattern) Pos() token.Position { return u.Position }
func (u *UnionPattern) End() token.Position { return u.Position }
func (u *UnionPattern) patternNode()        {}

// MinusPattern is MINUS { ... }.
type MinusPattern struct {
	Position token.Position `json:"-"`
	Pattern  *GroupPattern  `json:"pattern"`
}

func (m *MinusPattern) Pos() token.Position { return m.Position }
func (m *MinusPattern) End() token.Position { return m.Position }
func (m *MinusPattern) patternNode()        {}

// GraphPattern is GRAPH name { ... }.
type GraphPattern struct {
	Position token.Position `json:"-"`
	Name     Term           `json:"name"`
	Pattern  *GroupPattern  `json:"pattern"`
}

func (g *GraphPattern) Pos() token.Position { return g.Position }
func (g *GraphPattern) End() token.Position { return g.Position }
func (g *GraphPattern) patternNode()        {}

// ServicePattern is SERVICE [SILENT] name { ... }.
type ServicePattern struct {
	Position token.Position `json:"-"`
	Silent   bool           `json:"silent,omitempty"`
	Name     Term           `json:"name"`
	Pattern  *GroupPattern  `json:"pattern"`
}

func (s *ServicePattern) Pos() token.Position { return s.Position }
func (s *ServicePattern) End() token.Position { return s.Position }
func (s *ServicePattern) patternNode()        {}

// FilterPattern is FILTER constraint.
type FilterPattern struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
}

func (f *FilterPattern) Pos() token.Position { return f.Position }
func (f *FilterPattern) End() token.Position { return f.Position }
func (f *FilterPattern) patternNode()        {}

// BindPattern is BIND (expr AS ?var).
type BindPattern struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	Var      *Var           `json:"var"`
}

func (b *BindPattern) Pos() token.Position { return b.Position }
func (b *BindPattern) End() token.Position { return b.Position }
func (b *BindPattern) patternNode()        {}

// ValuesPattern is an inline data block. A nil entry in a row is UNDEF.
type ValuesPattern struct {
	Position token.Position `json:"-"`
	Vars     []*Var         `json:"vars"`
	Rows     [][]Term       `json:"rows"`
}

func (v *ValuesPattern) Pos() token.Position { return v.Position }
func (v *ValuesPattern) End() token.Position { return v.Position }
func (v *ValuesPattern) patternNode()        {}

// VarNames returns the declared variable names in order.
func (v *ValuesPattern) VarNames() []string {
	names := make([]string, len(v.Vars))
	for i, vr := range v.Vars {
		names[i] = vr.Name
	}
	return names
}

// SubSelect is a nested SELECT query inside a group.
type SubSelect struct {
	Position token.Position `json:"-"`
	Query    *Query         `json:"query"`
}

func (s *SubSelect) Pos() token.Position { return s.Position }
func (s *SubSelect) End() token.Position { return s.Position }
func (s *SubSelect) patternNode()        {}

// -----------------------------------------------------------------------------
// Terms

// Var is a query variable, stored without its sigil.
type Var struct {
	Position token.Position `json:"-"`
	Name     string         `json:"name"`
}

func (v *Var) Pos() token.Position { return v.Position }
func (v *Var) End() token.Position { return v.Position }
func (v *Var) termNode()           {}
func (v *Var) expressionNode()     {}
func (v *Var) pathNode()           {}

// IRI is an IRI reference written in angle brackets.
type IRI struct {
	Position token.Position `json:"-"`
	Value    string         `json:"value"`
}

func (i *IRI) Pos() token.Position { return i.Position }
func (i *IRI) End() token.Position { return i.Position }
func (i *IRI) termNode()           {}
func (i *IRI) expressionNode()     {}
func (i *IRI) pathNode()           {}

// PrefixedName is a prefixed name kept exactly as written.
type PrefixedName struct {
	Position token.Position `json:"-"`
	Prefix   string         `json:"prefix"`
	Local    string         `json:"local"`
}

func (p *PrefixedName) Pos() token.Position { return p.Position }
func (p *PrefixedName) End() token.Position { return p.Position }
func (p *PrefixedName) termNode()           {}
func (p *PrefixedName) expressionNode()     {}
func (p *PrefixedName) pathNode()           {}

// LiteralKind identifies the lexical class of a literal.
type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	IntegerLiteral
	DecimalLiteral
	DoubleLiteral
	BooleanLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case StringLiteral:
		return "String"
	case IntegerLiteral:
		return "Integer"
	case DecimalLiteral:
		return "Decimal"
	case DoubleLiteral:
		return "Double"
	case BooleanLiteral:
		return "Boolean"
	}
	return "Unknown"
}

// Literal is an RDF literal. Value is the decoded string for string
// literals and the lexical form (sign included) for numbers and booleans.
// At most one of Lang and Datatype is set.
type Literal struct {
	Position token.Position `json:"-"`
	Kind     LiteralKind    `json:"kind"`
	Value    string         `json:"value"`
	Lang     string         `json:"lang,omitempty"`
	Datatype Term           `json:"datatype,omitempty"` // *IRI or *PrefixedName
}

func (l *Literal) Pos() token.Position { return l.Position }
func (l *Literal) End() token.Position { return l.Position }
func (l *Literal) termNode()           {}
func (l *Literal) expressionNode()     {}

// BlankNode is a labelled blank node (_:label) or the anonymous [] when
// Label is empty.
type BlankNode struct {
	Position token.Position `json:"-"`
	Label    string         `json:"label,omitempty"`
}

func (b *BlankNode) Pos() token.Position { return b.Position }
func (b *BlankNode) End() token.Position { return b.Position }
func (b *BlankNode) termNode()           {}

// Nil is the empty collection ().
type Nil struct {
	Position token.Position `json:"-"`
}

func (n *Nil) Pos() token.Position { return n.Position }
func (n *Nil) End() token.Position { return n.Position }
func (n *Nil) termNode()           {}

// BlankNodePropertyList is [ verb objects ; ... ] in a triple position.
type BlankNodePropertyList struct {
	Position   token.Position     `json:"-"`
	Properties []*PropertyObjects `json:"properties"`
}

func (b *BlankNodePropertyList) Pos() token.Position { return b.Position }
func (b *BlankNodePropertyList) End() token.Position { return b.Position }
func (b *BlankNodePropertyList) termNode()           {}

// Collection is ( term ... ) in a triple position.
type Collection struct {
	Position token.Position `json:"-"`
	Items    []Term         `json:"items"`
}

func (c *Collection) Pos() token.Position { return c.Position }
func (c *Collection) End() token.Position { return c.Position }
func (c *Collection) termNode()           {}

// -----------------------------------------------------------------------------
// Property paths

// TypeKeyword is the 'a' shorthand for rdf:type.
type TypeKeyword struct {
	Position token.Position `json:"-"`
}

func (t *TypeKeyword) Pos() token.Position { return t.Position }
func (t *TypeKeyword) End() token.Position { return t.Position }
func (t *TypeKeyword) pathNode()           {}

// PathAlternative is p1 | p2 | ...
type PathAlternative struct {
	Position     token.Position `json:"-"`
	Alternatives []Path         `json:"alternatives"`
}

func (p *PathAlternative) Pos() token.Position { return p.Position }
func (p *PathAlternative) End() token.Position { return p.Position }
func (p *PathAlternative) pathNode()           {}

// PathSequence is p1 / p2 / ...
type PathSequence struct {
	Position token.Position `json:"-"`
	Elements []Path         `json:"elements"`
}

func (p *PathSequence) Pos() token.Position { return p.Position }
func (p *PathSequence) End() token.Position { return p.Position }
func (p *PathSequence) pathNode()           {}

// PathInverse is ^p.
type PathInverse struct {
	Position token.Position `json:"-"`
	Path     Path           `json:"path"`
}

func (p *PathInverse) Pos() token.Position { return p.Position }
func (p *PathInverse) End() token.Position { return p.Position }
func (p *PathInverse) pathNode()           {}

// PathMod is p*, p+ or p?.
type PathMod struct {
	Position token.Position `json:"-"`
	Path     Path           `json:"path"`
	Mod      string         `json:"mod"`
}

func (p *PathMod) Pos() token.Position { return p.Position }
func (p *PathMod) End() token.Position { return p.Position }
func (p *PathMod) pathNode()           {}

// PathNegated is !p or !(p1 | ^p2 | ...).
type PathNegated struct {
	Position token.Position `json:"-"`
	Set      []Path         `json:"set"`
}

func (p *PathNegated) Pos() token.Position { return p.Position }
func (p *PathNegated) End() token.Position { return p.Position }
func (p *PathNegated) pathNode()           {}

// PathGroup is a parenthesized path.
type PathGroup struct {
	Position token.Position `json:"-"`
	Path     Path           `json:"path"`
}

func (p *PathGroup) Pos() token.Position { return p.Position }
func (p *PathGroup) End() token.Position { return p.Position }
func (p *PathGroup) pathNode()           {}

// -----------------------------------------------------------------------------
// Expressions

// BinaryExpr is a binary operation. Op is the operator as written in SPARQL
// ("||", "&&", "=", "!=", "<", ">", "<=", ">=", "+", "-", "*", "/").
type BinaryExpr struct {
	Position token.Position `json:"-"`
	Op       string         `json:"op"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func (b *BinaryExpr) Pos() token.Position { return b.Position }
func (b *BinaryExpr) End() token.Position { return b.Position }
func (b *BinaryExpr) expressionNode()     {}

// UnaryExpr is !e, +e or -e.
type UnaryExpr struct {
	Position token.Position `json:"-"`
	Op       string         `json:"op"`
	Operand  Expression     `json:"operand"`
}

func (u *UnaryExpr) Pos() token.Position { return u.Position }
func (u *UnaryExpr) End() token.Position { return u.Position }
func (u *UnaryExpr) expressionNode()     {}

// InExpr is e IN (...) or e NOT IN (...).
type InExpr struct {
	Position token.Position `json:"-"`
	Expr     Expression     `json:"expr"`
	Not      bool           `json:"not,omitempty"`
	List     []Expression   `json:"list"`
}

func (i *InExpr) Pos() token.Position { return i.Position }
func (i *InExpr) End() token.Position { return i.Position }
func (i *InExpr) expressionNode()     {}

// FunctionCall is a built-in call, an aggregate or an IRI function call.
// Built-ins carry their upper-cased Name; IRI calls carry IRI instead.
type FunctionCall struct {
	Position  token.Position `json:"-"`
	Name      string         `json:"name,omitempty"`
	IRI       Term           `json:"iri,omitempty"`
	Distinct  bool           `json:"distinct,omitempty"`
	Star      bool           `json:"star,omitempty"` // COUNT(*)
	Args      []Expression   `json:"args,omitempty"`
	Separator *string        `json:"separator,omitempty"` // GROUP_CONCAT
}

func (f *FunctionCall) Pos() token.Position { return f.Position }
func (f *FunctionCall) End() token.Position { return f.Position }
func (f *FunctionCall) expressionNode()     {}

// ExistsExpr is EXISTS { ... } or NOT EXISTS { ... }.
type ExistsExpr struct {
	Position token.Position `json:"-"`
	Not      bool           `json:"not,omitempty"`
	Pattern  *GroupPattern  `json:"pattern"`
}

func (e *ExistsExpr) Pos() token.Position { return e.Position }
func (e *ExistsExpr) End() token.Position { return e.Position }
func (e *ExistsExpr) expressionNode()     {}

// -----------------------------------------------------------------------------
// Update operations

// InsertData is INSERT DATA { quads }.
type InsertData struct {
	Position token.Position `json:"-"`
	Quads    []Pattern      `json:"quads"` // *BGP or *GraphPattern
}

func (i *InsertData) Pos() token.Position { return i.Position }
func (i *InsertData) End() token.Position { return i.Position }
func (i *InsertData) updateNode()         {}

// DeleteData is DELETE DATA { quads }.
type DeleteData struct {
	Position token.Position `json:"-"`
	Quads    []Pattern      `json:"quads"`
}

func (d *DeleteData) Pos() token.Position { return d.Position }
func (d *DeleteData) End() token.Position { return d.Position }
func (d *DeleteData) updateNode()         {}

// DeleteWhere is DELETE WHERE { quads }.
type DeleteWhere struct {
	Position token.Position `json:"-"`
	Quads    []Pattern      `json:"quads"`
}

func (d *DeleteWhere) Pos() token.Position { return d.Position }
func (d *DeleteWhere) End() token.Position { return d.Position }
func (d *DeleteWhere) updateNode()         {}

// Modify is [WITH iri] DELETE { } INSERT { } [USING ...] WHERE { }.
type Modify struct {
	Position  token.Position   `json:"-"`
	With      Term             `json:"with,omitempty"`
	HasDelete bool             `json:"has_delete,omitempty"`
	Delete    []Pattern        `json:"delete,omitempty"`
	HasInsert bool             `json:"has_insert,omitempty"`
	Insert    []Pattern        `json:"insert,omitempty"`
	Using     []*DatasetClause `json:"using,omitempty"`
	Where     *GroupPattern    `json:"where"`
}

func (m *Modify) Pos() token.Position { return m.Position }
func (m *Modify) End() token.Position { return m.Position }
func (m *Modify) updateNode()         {}

// Load is LOAD [SILENT] iri [INTO GRAPH iri].
type Load struct {
	Position token.Position `json:"-"`
	Silent   bool           `json:"silent,omitempty"`
	Source   Term           `json:"source"`
	Into     Term           `json:"into,omitempty"`
}

func (l *Load) Pos() token.Position { return l.Position }
func (l *Load) End() token.Position { return l.Position }
func (l *Load) updateNode()         {}

// GraphTargetKind identifies which graphs an operation addresses.
type GraphTargetKind int

const (
	TargetGraph GraphTargetKind = iota
	TargetDefault
	TargetNamed
	TargetAll
)

// GraphTarget is GRAPH iri, DEFAULT, NAMED or ALL.
type GraphTarget struct {
	Kind GraphTargetKind `json:"kind"`
	IRI  Term            `json:"iri,omitempty"`
}

// GraphManagement is CLEAR, DROP or CREATE.
type GraphManagement struct {
	Position token.Position `json:"-"`
	Op       string         `json:"op"`
	Silent   bool           `json:"silent,omitempty"`
	Target   GraphTarget    `json:"target"`
}

func (g *GraphManagement) Pos() token.Position { return g.Position }
func (g *GraphManagement) End() token.Position { return g.Position }
func (g *GraphManagement) updateNode()         {}

// GraphTransfer is ADD, MOVE or COPY.
type GraphTransfer struct {
	Position token.Position `json:"-"`
	Op       string         `json:"op"`
	Silent   bool           `json:"silent,omitempty"`
	From     GraphTarget    `json:"from"`
	To       GraphTarget    `json:"to"`
}

func (g *GraphTransfer) Pos() token.Position { return g.Position }
func (g *GraphTransfer) End() token.Position { return g.Position }
func (g *GraphTransfer) updateNode()         {}
