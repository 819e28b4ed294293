package params

import (
	"context"

	"github.com/kyleconroy/sparqlparam/ast"
)

// DetectOutputColumns returns the projected column names of the outermost
// SELECT: the variable for a bare projection, the alias for (expr AS ?alias).
// Other query forms, updates and SELECT * yield an empty list.
func (e *Engine) DetectOutputColumns(ctx context.Context, query string) ([]string, error) {
	req, err := e.parse(ctx, query)
	if err != nil {
		return nil, err
	}
	return outputColumns(req), nil
}

func outputColumns(req ast.Request) []string {
	columns := []string{}
	q, ok := req.(*ast.Query)
	if !ok || q.Form != ast.SelectForm || q.Select == nil || q.Select.Star {
		return columns
	}
	for _, proj := range q.Select.Projection {
		columns = append(columns, proj.Var.Name)
	}
	return columns
}
