package parser

import (
	"github.com/kyleconroy/sparqlparam/ast"
)

// Explain returns an indented dump of the syntax tree of a request.
func Explain(req ast.Request) string {
	return ast.Explain(req)
}
