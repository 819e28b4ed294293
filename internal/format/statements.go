package format

import (
	"strings"

	"github.com/kyleconroy/sparqlparam/ast"
)

// formatQuery formats a query at the given depth; sub-selects use depth > 0.
func formatQuery(sb *strings.Builder, q *ast.Query, depth int) {
	if q == nil {
		return
	}
	formatPrologue(sb, q.Prologue)

	switch q.Form {
	case ast.SelectForm:
		formatSelectClause(sb, q.Select)
	case ast.ConstructForm:
		sb.WriteString("CONSTRUCT")
		if !q.ShortConstruct {
			sb.WriteString(" ")
			formatTemplate(sb, q.Template, depth)
		}
	case ast.AskForm:
		sb.WriteString("ASK")
	case ast.DescribeForm:
		sb.WriteString("DESCRIBE")
		if q.DescribeAll {
			sb.WriteString(" *")
		}
		for _, t := range q.Describe {
			sb.WriteString(" ")
			Term(sb, t, depth)
		}
	}

	for _, d := range q.Dataset {
		newline(sb, depth)
		sb.WriteString("FROM ")
		formatDatasetClause(sb, d)
	}

	if q.Where != nil {
		newline(sb, depth)
		sb.WriteString("WHERE ")
		formatGroup(sb, q.Where, depth)
	}

	formatSolutionModifier(sb, &q.Modifiers, depth)

	if q.Values != nil {
		newline(sb, depth)
		formatValues(sb, q.Values, depth)
	}
}

func formatSelectClause(sb *strings.Builder, sel *ast.SelectClause) {
	sb.WriteString("SELECT")
	if sel == nil {
		return
	}
	if sel.Distinct {
		sb.WriteString(" DISTINCT")
	}
	if sel.Reduced {
		sb.WriteString(" REDUCED")
	}
	if sel.Star {
		sb.WriteString(" *")
		return
	}
	for _, proj := range sel.Projection {
		sb.WriteString(" ")
		if proj.Expr == nil {
			formatVar(sb, proj.Var)
			continue
		}
		sb.WriteString("(")
		formatExpression(sb, proj.Expr, 0)
		sb.WriteString(" AS ")
		formatVar(sb, proj.Var)
		sb.WriteString(")")
	}
}

func formatDatasetClause(sb *strings.Builder, d *ast.DatasetClause) {
	if d.Named {
		sb.WriteString("NAMED ")
	}
	Term(sb, d.IRI, 0)
}

func formatTemplate(sb *strings.Builder, bgp *ast.BGP, depth int) {
	if bgp == nil || len(bgp.Triples) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{")
	formatTriples(sb, bgp, depth+1)
	newline(sb, depth)
	sb.WriteString("}")
}

func formatSolutionModifier(sb *strings.Builder, mod *ast.SolutionModifier, depth int) {
	if len(mod.GroupBy) > 0 {
		newline(sb, depth)
		sb.WriteString("GROUP BY")
		for _, cond := range mod.GroupBy {
			sb.WriteString(" ")
			formatGroupCondition(sb, cond, depth)
		}
	}

	if len(mod.Having) > 0 {
		newline(sb, depth)
		sb.WriteString("HAVING")
		for _, expr := range mod.Having {
			sb.WriteString(" (")
			formatExpression(sb, expr, depth)
			sb.WriteString(")")
		}
	}

	if len(mod.OrderBy) > 0 {
		newline(sb, depth)
		sb.WriteString("ORDER BY")
		for _, cond := range mod.OrderBy {
			sb.WriteString(" ")
			formatOrderCondition(sb, cond, depth)
		}
	}

	if mod.Limit != nil {
		newline(sb, depth)
		sb.WriteString("LIMIT ")
		sb.WriteString(mod.Limit.Value)
	}

	if mod.Offset != nil {
		newline(sb, depth)
		sb.WriteString("OFFSET ")
		sb.WriteString(mod.Offset.Value)
	}
}

func formatGroupCondition(sb *strings.Builder, cond *ast.GroupCondition, depth int) {
	if cond.As != nil {
		sb.WriteString("(")
		formatExpression(sb, cond.Expr, depth)
		sb.WriteString(" AS ")
		formatVar(sb, cond.As)
		sb.WriteString(")")
		return
	}
	switch cond.Expr.(type) {
	case *ast.Var, *ast.FunctionCall:
		formatExpression(sb, cond.Expr, depth)
	default:
		sb.WriteString("(")
		formatExpression(sb, cond.Expr, depth)
		sb.WriteString(")")
	}
}

func formatOrderCondition(sb *strings.Builder, cond *ast.OrderCondition, depth int) {
	if cond.Explicit {
		if cond.Desc {
			sb.WriteString("DESC(")
		} else {
			sb.WriteString("ASC(")
		}
		formatExpression(sb, cond.Expr, depth)
		sb.WriteString(")")
		return
	}
	switch cond.Expr.(type) {
	case *ast.Var, *ast.FunctionCall:
		formatExpression(sb, cond.Expr, depth)
	default:
		sb.WriteString("(")
		formatExpression(sb, cond.Expr, depth)
		sb.WriteString(")")
	}
}

// -----------------------------------------------------------------------------
// Updates

func formatUpdate(sb *strings.Builder, u *ast.Update) {
	for i, step := range u.Steps {
		if i > 0 {
			sb.WriteString(" ;\n")
		}
		formatPrologue(sb, step.Prologue)
		if step.Operation != nil {
			formatUpdateOperation(sb, step.Operation)
		}
	}
}

func formatUpdateOperation(sb *strings.Builder, op ast.UpdateOperation) {
	switch o := op.(type) {
	case *ast.InsertData:
		sb.WriteString("INSERT DATA ")
		formatQuads(sb, o.Quads, 0)
	case *ast.DeleteData:
		sb.WriteString("DELETE DATA ")
		formatQuads(sb, o.Quads, 0)
	case *ast.DeleteWhere:
		sb.WriteString("DELETE WHERE ")
		formatQuads(sb, o.Quads, 0)
	case *ast.Modify:
		formatModify(sb, o)
	case *ast.Load:
		sb.WriteString("LOAD ")
		if o.Silent {
			sb.WriteString("SILENT ")
		}
		Term(sb, o.Source, 0)
		if o.Into != nil {
			sb.WriteString(" INTO GRAPH ")
			Term(sb, o.Into, 0)
		}
	case *ast.GraphManagement:
		sb.WriteString(o.Op)
		sb.WriteString(" ")
		if o.Silent {
			sb.WriteString("SILENT ")
		}
		formatGraphTarget(sb, o.Target)
	case *ast.GraphTransfer:
		sb.WriteString(o.Op)
		sb.WriteString(" ")
		if o.Silent {
			sb.WriteString("SILENT ")
		}
		formatGraphTarget(sb, o.From)
		sb.WriteString(" TO ")
		formatGraphTarget(sb, o.To)
	}
}

func formatModify(sb *strings.Builder, m *ast.Modify) {
	if m.With != nil {
		sb.WriteString("WITH ")
		Term(sb, m.With, 0)
		sb.WriteString("\n")
	}
	if m.HasDelete {
		sb.WriteString("DELETE ")
		formatQuads(sb, m.Delete, 0)
		sb.WriteString("\n")
	}
	if m.HasInsert {
		sb.WriteString("INSERT ")
		formatQuads(sb, m.Insert, 0)
		sb.WriteString("\n")
	}
	for _, u := range m.Using {
		sb.WriteString("USING ")
		formatDatasetClause(sb, u)
		sb.WriteString("\n")
	}
	sb.WriteString("WHERE ")
	formatGroup(sb, m.Where, 0)
}

func formatGraphTarget(sb *strings.Builder, t ast.GraphTarget) {
	switch t.Kind {
	case ast.TargetGraph:
		sb.WriteString("GRAPH ")
		Term(sb, t.IRI, 0)
	case ast.TargetDefault:
		sb.WriteString("DEFAULT")
	case ast.TargetNamed:
		sb.WriteString("NAMED")
	case ast.TargetAll:
		sb.WriteString("ALL")
	}
}

// formatQuads formats update data: triples and GRAPH blocks.
func formatQuads(sb *strings.Builder, quads []ast.Pattern, depth int) {
	if len(quads) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{")
	for _, q := range quads {
		switch qp := q.(type) {
		case *ast.BGP:
			formatTriples(sb, qp, depth+1)
		case *ast.GraphPattern:
			newline(sb, depth+1)
			sb.WriteString("GRAPH ")
			Term(sb, qp.Name, depth+1)
			sb.WriteString(" ")
			formatGroup(sb, qp.Pattern, depth+1)
		}
	}
	newline(sb, depth)
	sb.WriteString("}")
}
