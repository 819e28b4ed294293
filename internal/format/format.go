// Package format provides SPARQL formatting for the syntax tree.
package format

import (
	"strings"

	"github.com/kyleconroy/sparqlparam/ast"
)

const indentUnit = "  "

// Format returns the SPARQL text of a request.
func Format(req ast.Request) string {
	var sb strings.Builder
	Request(&sb, req)
	return sb.String()
}

// Request formats a query or update.
func Request(sb *strings.Builder, req ast.Request) {
	switch r := req.(type) {
	case *ast.Query:
		formatQuery(sb, r, 0)
	case *ast.Update:
		formatUpdate(sb, r)
	}
}

// newline ends the current line and indents the next one.
func newline(sb *strings.Builder, depth int) {
	sb.WriteString("\n")
	for i := 0; i < depth; i++ {
		sb.WriteString(indentUnit)
	}
}

func formatPrologue(sb *strings.Builder, decls []*ast.Declaration) {
	for _, d := range decls {
		if d.Base {
			sb.WriteString("BASE ")
		} else {
			sb.WriteString("PREFIX ")
			sb.WriteString(d.Prefix)
			sb.WriteString(": ")
		}
		formatIRIRef(sb, d.IRI)
		sb.WriteString("\n")
	}
}
