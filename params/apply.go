package params

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/internal/format"
	"github.com/kyleconroy/sparqlparam/parser"
)

// Pagination maps LIMIT and OFFSET placeholder identifiers to values.
type Pagination struct {
	Limit  map[string]uint64 `json:"limit,omitempty" yaml:"limit,omitempty"`
	Offset map[string]uint64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// ApplyBindings parses query, fills its VALUES parameter slots from bindings
// and returns the re-serialized query.
//
// For every VALUES clause whose variables are all in the binding header and
// which has at least one row, the rows with every variable UNDEF are replaced
// by one row per binding row. Other rows keep their place ahead of the new
// ones. Clauses that are not fully covered are left alone and logged.
func (e *Engine) ApplyBindings(ctx context.Context, query string, bindings *BindingSet) (string, error) {
	req, err := e.parse(ctx, query)
	if err != nil {
		return "", err
	}

	if !bindings.complete() {
		e.log.Warn("binding set is missing head or arguments; query left unchanged")
		return parser.Format(req), nil
	}

	a := newApplier(e.log, bindings)
	w := &walker{values: a.rewrite}
	out, err := w.request(req)
	if err != nil {
		return "", err
	}
	return parser.Format(out), nil
}

// ApplyPagination parses query and replaces every LIMIT/OFFSET placeholder
// that has an entry in values with that number. Placeholders without an
// entry are kept and logged.
func (e *Engine) ApplyPagination(ctx context.Context, query string, values Pagination) (string, error) {
	req, err := e.parse(ctx, query)
	if err != nil {
		return "", err
	}

	w := &walker{
		onQuery: func(q *ast.Query) (*ast.Query, error) {
			limit := e.substitute("LIMIT", q.Modifiers.Limit, values.Limit)
			offset := e.substitute("OFFSET", q.Modifiers.Offset, values.Offset)
			if limit == q.Modifiers.Limit && offset == q.Modifiers.Offset {
				return q, nil
			}
			cp := *q
			cp.Modifiers.Limit = limit
			cp.Modifiers.Offset = offset
			return &cp, nil
		},
	}
	out, err := w.request(req)
	if err != nil {
		return "", err
	}
	return parser.Format(out), nil
}

func (e *Engine) substitute(clause string, lit *ast.Literal, values map[string]uint64) *ast.Literal {
	id, ok := placeholderID(lit)
	if !ok {
		return lit
	}
	n, ok := values[id]
	if !ok {
		e.log.Warn("no value supplied for placeholder",
			zap.String("clause", clause),
			zap.String("placeholder", id))
		return lit
	}
	return &ast.Literal{
		Position: lit.Position,
		Kind:     ast.IntegerLiteral,
		Value:    strconv.FormatUint(n, 10),
	}
}

type applier struct {
	log    *zap.Logger
	header map[string]bool
	rows   []BindingRow
}

func newApplier(log *zap.Logger, bindings *BindingSet) *applier {
	a := &applier{
		log:    log,
		header: make(map[string]bool),
		rows:   bindings.Rows(),
	}
	for _, name := range bindings.Header() {
		a.header[name] = true
	}

	reported := make(map[string]bool)
	for _, row := range a.rows {
		for name := range row {
			if !a.header[name] && !reported[name] {
				reported[name] = true
				log.Warn("binding variable not in header; ignored", zap.String("variable", name))
			}
		}
	}
	return a
}

func (a *applier) rewrite(v *ast.ValuesPattern) (*ast.ValuesPattern, error) {
	vars := v.VarNames()

	var missing []string
	for _, name := range vars {
		if !a.header[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		a.log.Warn("pattern variables not fully covered",
			zap.Strings("variables", vars),
			zap.Strings("missing", missing),
			zap.String("clause", clauseText(v)))
		return v, nil
	}

	if len(vars) == 0 || len(v.Rows) == 0 || len(a.rows) == 0 {
		return v, nil
	}

	rows := make([][]ast.Term, 0, len(v.Rows)+len(a.rows))
	for _, row := range v.Rows {
		if !allUndef(row) {
			rows = append(rows, row)
		}
	}
	for _, binding := range a.rows {
		row := make([]ast.Term, len(vars))
		for i, name := range vars {
			value, ok := binding[name]
			if !ok {
				continue
			}
			term, err := a.term(name, value, v)
			if err != nil {
				return nil, err
			}
			row[i] = term
		}
		rows = append(rows, row)
	}

	cp := *v
	cp.Rows = rows
	return &cp, nil
}

// term renders a bound value. A nil term leaves the slot UNDEF.
func (a *applier) term(name string, value TypedValue, v *ast.ValuesPattern) (ast.Term, error) {
	switch value.Type {
	case KindURI:
		return &ast.IRI{Value: value.Value}, nil
	case KindLiteral:
		lit := &ast.Literal{Kind: ast.StringLiteral, Value: value.Value}
		switch {
		case value.Lang != "":
			if value.Datatype != "" {
				a.log.Warn("literal has both language and datatype; using language",
					zap.String("variable", name),
					zap.String("lang", value.Lang),
					zap.String("datatype", value.Datatype))
			}
			lit.Lang = value.Lang
		case value.Datatype != "":
			lit.Datatype = &ast.IRI{Value: value.Datatype}
		}
		return lit, nil
	case KindBNode:
		return nil, newIllegalBindingTypeError(name, clauseText(v))
	}
	a.log.Warn("unknown binding type; slot left unbound",
		zap.String("variable", name),
		zap.String("kind", string(value.Type)))
	return nil, nil
}

func clauseText(v *ast.ValuesPattern) string {
	var sb strings.Builder
	format.Pattern(&sb, v)
	return strings.Join(strings.Fields(sb.String()), " ")
}
