package parser

import (
	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/internal/format"
)

// Format returns the SPARQL text of a parsed request.
func Format(req ast.Request) string {
	return format.Format(req)
}
