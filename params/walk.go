package params

import (
	"fmt"

	"github.com/kyleconroy/sparqlparam/ast"
)

// walker visits queries and VALUES clauses in source order and rebuilds the
// tree copy-on-write: a hook that returns its argument unchanged leaves the
// enclosing nodes shared with the input, a hook that returns a new node gets
// fresh copies of every ancestor.
//
// Order: a query is handed to onQuery before its WHERE patterns are walked,
// and its trailing VALUES block is visited after them.
type walker struct {
	values  func(*ast.ValuesPattern) (*ast.ValuesPattern, error)
	onQuery func(*ast.Query) (*ast.Query, error)
}

func (w *walker) request(req ast.Request) (ast.Request, error) {
	switch r := req.(type) {
	case *ast.Query:
		return w.query(r)
	case *ast.Update:
		return w.update(r)
	}
	return nil, fmt.Errorf("unhandled request %T", req)
}

func (w *walker) query(q *ast.Query) (*ast.Query, error) {
	out := q
	if w.onQuery != nil {
		nq, err := w.onQuery(q)
		if err != nil {
			return nil, err
		}
		out = nq
	}

	where, err := w.group(out.Where)
	if err != nil {
		return nil, err
	}
	values := out.Values
	if values != nil && w.values != nil {
		if values, err = w.values(values); err != nil {
			return nil, err
		}
	}

	if where == out.Where && values == out.Values {
		return out, nil
	}
	cp := *out
	cp.Where = where
	cp.Values = values
	return &cp, nil
}

func (w *walker) update(u *ast.Update) (*ast.Update, error) {
	var steps []*ast.UpdateStep
	for i, step := range u.Steps {
		m, ok := step.Operation.(*ast.Modify)
		if !ok {
			continue
		}
		where, err := w.group(m.Where)
		if err != nil {
			return nil, err
		}
		if where == m.Where {
			continue
		}
		if steps == nil {
			steps = append([]*ast.UpdateStep(nil), u.Steps...)
		}
		nm := *m
		nm.Where = where
		ns := *step
		ns.Operation = &nm
		steps[i] = &ns
	}
	if steps == nil {
		return u, nil
	}
	cp := *u
	cp.Steps = steps
	return &cp, nil
}

func (w *walker) group(g *ast.GroupPattern) (*ast.GroupPattern, error) {
	if g == nil {
		return nil, nil
	}
	patterns, changed, err := w.patterns(g.Patterns)
	if err != nil || !changed {
		return g, err
	}
	cp := *g
	cp.Patterns = patterns
	return &cp, nil
}

func (w *walker) patterns(ps []ast.Pattern) ([]ast.Pattern, bool, error) {
	var out []ast.Pattern
	for i, p := range ps {
		np, err := w.pattern(p)
		if err != nil {
			return nil, false, err
		}
		if np == p {
			continue
		}
		if out == nil {
			out = append([]ast.Pattern(nil), ps...)
		}
		out[i] = np
	}
	if out == nil {
		return ps, false, nil
	}
	return out, true, nil
}

func (w *walker) pattern(p ast.Pattern) (ast.Pattern, error) {
	switch n := p.(type) {
	case *ast.GroupPattern:
		return w.group(n)
	case *ast.BGP:
		return n, nil
	case *ast.OptionalPattern:
		g, err := w.group(n.Pattern)
		if err != nil || g == n.Pattern {
			return n, err
		}
		cp := *n
		cp.Pattern = g
		return &cp, nil
	case *ast.UnionPattern:
		var alts []*ast.GroupPattern
		for i, alt := range n.Alternatives {
			g, err := w.group(alt)
			if err != nil {
				return nil, err
			}
			if g == alt {
				continue
			}
			if alts == nil {
				alts = append([]*ast.GroupPattern(nil), n.Alternatives...)
			}
			alts[i] = g
		}
		if alts == nil {
			return n, nil
		}
		cp := *n
		cp.Alternatives = alts
		return &cp, nil
	case *ast.MinusPattern:
		g, err := w.group(n.Pattern)
		if err != nil || g == n.Pattern {
			return n, err
		}
		cp := *n
		cp.Pattern = g
		return &cp, nil
	case *ast.GraphPattern:
		g, err := w.group(n.Pattern)
		if err != nil || g == n.Pattern {
			return n, err
		}
		cp := *n
		cp.Pattern = g
		return &cp, nil
	case *ast.ServicePattern:
		g, err := w.group(n.Pattern)
		if err != nil || g == n.Pattern {
			return n, err
		}
		cp := *n
		cp.Pattern = g
		return &cp, nil
	case *ast.FilterPattern:
		e, err := w.expression(n.Expr)
		if err != nil || e == n.Expr {
			return n, err
		}
		cp := *n
		cp.Expr = e
		return &cp, nil
	case *ast.BindPattern:
		e, err := w.expression(n.Expr)
		if err != nil || e == n.Expr {
			return n, err
		}
		cp := *n
		cp.Expr = e
		return &cp, nil
	case *ast.ValuesPattern:
		if w.values == nil {
			return n, nil
		}
		return w.values(n)
	case *ast.SubSelect:
		q, err := w.query(n.Query)
		if err != nil || q == n.Query {
			return n, err
		}
		cp := *n
		cp.Query = q
		return &cp, nil
	}
	return nil, fmt.Errorf("unhandled pattern %T", p)
}

// expression descends into expressions looking for EXISTS patterns.
func (w *walker) expression(e ast.Expression) (ast.Expression, error) {
	switch n := e.(type) {
	case *ast.ExistsExpr:
		g, err := w.group(n.Pattern)
		if err != nil || g == n.Pattern {
			return n, err
		}
		cp := *n
		cp.Pattern = g
		return &cp, nil
	case *ast.BinaryExpr:
		left, err := w.expression(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := w.expression(n.Right)
		if err != nil {
			return nil, err
		}
		if left == n.Left && right == n.Right {
			return n, nil
		}
		cp := *n
		cp.Left = left
		cp.Right = right
		return &cp, nil
	case *ast.UnaryExpr:
		operand, err := w.expression(n.Operand)
		if err != nil || operand == n.Operand {
			return n, err
		}
		cp := *n
		cp.Operand = operand
		return &cp, nil
	case *ast.InExpr:
		expr, err := w.expression(n.Expr)
		if err != nil {
			return nil, err
		}
		list, changed, err := w.expressions(n.List)
		if err != nil {
			return nil, err
		}
		if expr == n.Expr && !changed {
			return n, nil
		}
		cp := *n
		cp.Expr = expr
		cp.List = list
		return &cp, nil
	case *ast.FunctionCall:
		args, changed, err := w.expressions(n.Args)
		if err != nil || !changed {
			return n, err
		}
		cp := *n
		cp.Args = args
		return &cp, nil
	}
	return e, nil
}

func (w *walker) expressions(es []ast.Expression) ([]ast.Expression, bool, error) {
	var out []ast.Expression
	for i, e := range es {
		ne, err := w.expression(e)
		if err != nil {
			return nil, false, err
		}
		if ne == e {
			continue
		}
		if out == nil {
			out = append([]ast.Expression(nil), es...)
		}
		out[i] = ne
	}
	if out == nil {
		return es, false, nil
	}
	return out, true, nil
}
