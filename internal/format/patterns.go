package format

import (
	"strings"

	"github.com/kyleconroy/sparqlparam/ast"
)

// Pattern formats a single graph pattern at depth 0.
func Pattern(sb *strings.Builder, p ast.Pattern) {
	if bgp, ok := p.(*ast.BGP); ok {
		formatTriples(sb, bgp, 0)
		return
	}
	formatPattern(sb, p, 0)
}

func formatGroup(sb *strings.Builder, g *ast.GroupPattern, depth int) {
	if g == nil || len(g.Patterns) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{")
	for _, p := range g.Patterns {
		if bgp, ok := p.(*ast.BGP); ok {
			formatTriples(sb, bgp, depth+1)
			continue
		}
		newline(sb, depth+1)
		formatPattern(sb, p, depth+1)
	}
	newline(sb, depth)
	sb.WriteString("}")
}

func formatPattern(sb *strings.Builder, p ast.Pattern, depth int) {
	switch n := p.(type) {
	case *ast.GroupPattern:
		formatGroup(sb, n, depth)
	case *ast.BGP:
		formatTriples(sb, n, depth)
	case *ast.OptionalPattern:
		sb.WriteString("OPTIONAL ")
		formatGroup(sb, n.Pattern, depth)
	case *ast.UnionPattern:
		for i, alt := range n.Alternatives {
			if i > 0 {
				newline(sb, depth)
				sb.WriteString("UNION")
				newline(sb, depth)
			}
			formatGroup(sb, alt, depth)
		}
	case *ast.MinusPattern:
		sb.WriteString("MINUS ")
		formatGroup(sb, n.Pattern, depth)
	case *ast.GraphPattern:
		sb.WriteString("GRAPH ")
		Term(sb, n.Name, depth)
		sb.WriteString(" ")
		formatGroup(sb, n.Pattern, depth)
	case *ast.ServicePattern:
		sb.WriteString("SERVICE ")
		if n.Silent {
			sb.WriteString("SILENT ")
		}
		Term(sb, n.Name, depth)
		sb.WriteString(" ")
		formatGroup(sb, n.Pattern, depth)
	case *ast.FilterPattern:
		sb.WriteString("FILTER(")
		formatExpression(sb, n.Expr, depth)
		sb.WriteString(")")
	case *ast.BindPattern:
		sb.WriteString("BIND(")
		formatExpression(sb, n.Expr, depth)
		sb.WriteString(" AS ")
		formatVar(sb, n.Var)
		sb.WriteString(")")
	case *ast.ValuesPattern:
		formatValues(sb, n, depth)
	case *ast.SubSelect:
		formatQuery(sb, n.Query, depth)
	}
}

// formatTriples writes one line per subject, each starting on a new line.
func formatTriples(sb *strings.Builder, bgp *ast.BGP, depth int) {
	for _, t := range bgp.Triples {
		newline(sb, depth)
		Term(sb, t.Subject, depth)
		formatPropertyList(sb, t.Properties, depth)
		sb.WriteString(" .")
	}
}

func formatPropertyList(sb *strings.Builder, props []*ast.PropertyObjects, depth int) {
	for i, po := range props {
		if i > 0 {
			sb.WriteString(" ;")
		}
		sb.WriteString(" ")
		Path(sb, po.Verb)
		for j, obj := range po.Objects {
			if j > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(" ")
			Term(sb, obj, depth)
		}
	}
}

func formatValues(sb *strings.Builder, v *ast.ValuesPattern, depth int) {
	sb.WriteString("VALUES (")
	for i, vr := range v.Vars {
		if i > 0 {
			sb.WriteString(" ")
		}
		formatVar(sb, vr)
	}
	sb.WriteString(") {")
	if len(v.Rows) == 0 {
		sb.WriteString("}")
		return
	}
	for _, row := range v.Rows {
		newline(sb, depth+1)
		sb.WriteString("(")
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(" ")
			}
			if cell == nil {
				sb.WriteString("UNDEF")
				continue
			}
			Term(sb, cell, depth)
		}
		sb.WriteString(")")
	}
	newline(sb, depth)
	sb.WriteString("}")
}
