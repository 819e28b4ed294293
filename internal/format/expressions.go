package format

import (
	"fmt"
	"strings"

	"github.com/kyleconroy/sparqlparam/ast"
)

// Expression formats an expression.
func Expression(sb *strings.Builder, expr ast.Expression) {
	formatExpression(sb, expr, 0)
}

// Operator precedence levels, mirroring the parser.
const (
	precOr = iota + 1
	precAnd
	precCompare
	precAdd
	precMul
	precUnary
	precPrimary
)

func precedenceOf(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		switch e.Op {
		case "||":
			return precOr
		case "&&":
			return precAnd
		case "+", "-":
			return precAdd
		case "*", "/":
			return precMul
		default:
			return precCompare
		}
	case *ast.InExpr:
		return precCompare
	case *ast.UnaryExpr:
		return precUnary
	}
	return precPrimary
}

// formatOperand parenthesizes an operand that binds looser than its parent.
// Right operands of equal precedence are parenthesized too, since all binary
// operators associate to the left.
func formatOperand(sb *strings.Builder, expr ast.Expression, parent int, right bool, depth int) {
	prec := precedenceOf(expr)
	if prec < parent || (right && prec == parent) {
		sb.WriteString("(")
		formatExpression(sb, expr, depth)
		sb.WriteString(")")
		return
	}
	formatExpression(sb, expr, depth)
}

func formatExpression(sb *strings.Builder, expr ast.Expression, depth int) {
	if expr == nil {
		return
	}

	switch e := expr.(type) {
	case *ast.Var:
		formatVar(sb, e)
	case *ast.IRI:
		formatIRIRef(sb, e.Value)
	case *ast.PrefixedName:
		formatPrefixedName(sb, e)
	case *ast.Literal:
		formatLiteral(sb, e)
	case *ast.BinaryExpr:
		prec := precedenceOf(e)
		formatOperand(sb, e.Left, prec, false, depth)
		sb.WriteString(" ")
		sb.WriteString(e.Op)
		sb.WriteString(" ")
		formatOperand(sb, e.Right, prec, true, depth)
	case *ast.UnaryExpr:
		sb.WriteString(e.Op)
		formatOperand(sb, e.Operand, precUnary, false, depth)
	case *ast.InExpr:
		formatOperand(sb, e.Expr, precCompare, false, depth)
		if e.Not {
			sb.WriteString(" NOT IN (")
		} else {
			sb.WriteString(" IN (")
		}
		for i, item := range e.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatExpression(sb, item, depth)
		}
		sb.WriteString(")")
	case *ast.FunctionCall:
		formatFunctionCall(sb, e, depth)
	case *ast.ExistsExpr:
		if e.Not {
			sb.WriteString("NOT ")
		}
		sb.WriteString("EXISTS ")
		formatGroup(sb, e.Pattern, depth)
	default:
		sb.WriteString(fmt.Sprintf("%v", expr))
	}
}

func formatFunctionCall(sb *strings.Builder, call *ast.FunctionCall, depth int) {
	if call.IRI != nil {
		Term(sb, call.IRI, depth)
	} else {
		sb.WriteString(call.Name)
	}
	sb.WriteString("(")
	if call.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if call.Star {
		sb.WriteString("*")
	}
	for i, arg := range call.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatExpression(sb, arg, depth)
	}
	if call.Separator != nil {
		sb.WriteString(" ; SEPARATOR = ")
		formatString(sb, *call.Separator)
	}
	sb.WriteString(")")
}

// -----------------------------------------------------------------------------
// Terms and paths

// Term formats an RDF term or triple-pattern node.
func Term(sb *strings.Builder, t ast.Term, depth int) {
	switch n := t.(type) {
	case *ast.Var:
		formatVar(sb, n)
	case *ast.IRI:
		formatIRIRef(sb, n.Value)
	case *ast.PrefixedName:
		formatPrefixedName(sb, n)
	case *ast.Literal:
		formatLiteral(sb, n)
	case *ast.BlankNode:
		if n.Label == "" {
			sb.WriteString("[]")
		} else {
			sb.WriteString("_:")
			sb.WriteString(n.Label)
		}
	case *ast.Nil:
		sb.WriteString("()")
	case *ast.BlankNodePropertyList:
		sb.WriteString("[")
		formatPropertyList(sb, n.Properties, depth)
		sb.WriteString(" ]")
	case *ast.Collection:
		sb.WriteString("(")
		for i, item := range n.Items {
			if i > 0 {
				sb.WriteString(" ")
			}
			Term(sb, item, depth)
		}
		sb.WriteString(")")
	}
}

// Path formats a verb or property path.
func Path(sb *strings.Builder, p ast.Path) {
	switch n := p.(type) {
	case *ast.Var:
		formatVar(sb, n)
	case *ast.IRI:
		formatIRIRef(sb, n.Value)
	case *ast.PrefixedName:
		formatPrefixedName(sb, n)
	case *ast.TypeKeyword:
		sb.WriteString("a")
	case *ast.PathAlternative:
		for i, alt := range n.Alternatives {
			if i > 0 {
				sb.WriteString(" | ")
			}
			Path(sb, alt)
		}
	case *ast.PathSequence:
		for i, elt := range n.Elements {
			if i > 0 {
				sb.WriteString("/")
			}
			Path(sb, elt)
		}
	case *ast.PathInverse:
		sb.WriteString("^")
		Path(sb, n.Path)
	case *ast.PathMod:
		Path(sb, n.Path)
		sb.WriteString(n.Mod)
	case *ast.PathNegated:
		sb.WriteString("!")
		if len(n.Set) == 1 {
			Path(sb, n.Set[0])
			return
		}
		sb.WriteString("(")
		for i, elt := range n.Set {
			if i > 0 {
				sb.WriteString(" | ")
			}
			Path(sb, elt)
		}
		sb.WriteString(")")
	case *ast.PathGroup:
		sb.WriteString("(")
		Path(sb, n.Path)
		sb.WriteString(")")
	}
}

func formatVar(sb *strings.Builder, v *ast.Var) {
	sb.WriteString("?")
	sb.WriteString(v.Name)
}

func formatPrefixedName(sb *strings.Builder, pn *ast.PrefixedName) {
	sb.WriteString(pn.Prefix)
	sb.WriteString(":")
	sb.WriteString(pn.Local)
}

// formatIRIRef writes <iri>, escaping the characters IRIREF forbids.
func formatIRIRef(sb *strings.Builder, iri string) {
	sb.WriteString("<")
	for _, r := range iri {
		switch {
		case r <= 0x20, strings.ContainsRune("<>\"{}|^`\\", r):
			fmt.Fprintf(sb, "\\u%04X", r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(">")
}

func formatLiteral(sb *strings.Builder, lit *ast.Literal) {
	if lit.Kind != ast.StringLiteral {
		sb.WriteString(lit.Value)
		return
	}
	formatString(sb, lit.Value)
	if lit.Lang != "" {
		sb.WriteString("@")
		sb.WriteString(lit.Lang)
		return
	}
	if lit.Datatype != nil {
		sb.WriteString("^^")
		Term(sb, lit.Datatype, 0)
	}
}

// formatString writes a double-quoted string literal with SPARQL escapes.
func formatString(sb *strings.Builder, s string) {
	sb.WriteString("\"")
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		case '\b':
			sb.WriteString("\\b")
		case '\f':
			sb.WriteString("\\f")
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString("\"")
}
