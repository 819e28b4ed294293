package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns an indented dump of the syntax tree, one node per line.
func Explain(req Request) string {
	var b strings.Builder
	explainNode(&b, req, 0)
	return b.String()
}

// section groups child nodes under a synthetic heading such as "Prologue".
type section struct {
	label string
	items []any
}

// undef stands in for an UNDEF cell of a VALUES row.
type undef struct{}

// explainNode recursively writes the node and its children to the builder.
func explainNode(b *strings.Builder, node any, depth int) {
	indent := strings.Repeat(" ", depth)
	label, children := describe(node)
	if len(children) > 0 {
		fmt.Fprintf(b, "%s%s (children %d)\n", indent, label, len(children))
	} else {
		fmt.Fprintf(b, "%s%s\n", indent, label)
	}
	for _, child := range children {
		explainNode(b, child, depth+1)
	}
}

func describe(node any) (string, []any) {
	switch n := node.(type) {
	case section:
		return n.label, n.items
	case undef:
		return "UNDEF", nil

	// Requests
	case *Query:
		return "Query " + n.Form.String(), queryChildren(n)
	case *Update:
		var items []any
		for _, step := range n.Steps {
			items = append(items, step)
		}
		return "Update", items
	case *UpdateStep:
		var items []any
		if len(n.Prologue) > 0 {
			items = append(items, prologue(n.Prologue))
		}
		if n.Operation != nil {
			items = append(items, n.Operation)
		}
		return "UpdateStep", items
	case *Declaration:
		if n.Base {
			return "Base <" + n.IRI + ">", nil
		}
		return "Prefix " + n.Prefix + ": <" + n.IRI + ">", nil
	case *SelectClause:
		label := "SelectClause"
		if n.Distinct {
			label += " DISTINCT"
		}
		if n.Reduced {
			label += " REDUCED"
		}
		if n.Star {
			label += " *"
		}
		var items []any
		for _, proj := range n.Projection {
			if proj.Expr == nil {
				items = append(items, proj.Var)
			} else {
				items = append(items, proj)
			}
		}
		return label, items
	case *Projection:
		return "Projection", []any{n.Expr, n.Var}
	case *DatasetClause:
		if n.Named {
			return "FromNamed", []any{n.IRI}
		}
		return "From", []any{n.IRI}
	case *GroupCondition:
		items := []any{n.Expr}
		if n.As != nil {
			items = append(items, n.As)
		}
		return "GroupCondition", items
	case *OrderCondition:
		label := "OrderCondition"
		if n.Desc {
			label += " DESC"
		} else if n.Explicit {
			label += " ASC"
		}
		return label, []any{n.Expr}

	// Patterns
	case *GroupPattern:
		return "GroupPattern", patternItems(n.Patterns)
	case *BGP:
		var items []any
		for _, t := range n.Triples {
			items = append(items, t)
		}
		return "BGP", items
	case *TriplesSameSubject:
		items := []any{n.Subject}
		for _, po := range n.Properties {
			items = append(items, po)
		}
		return "Triples", items
	case *PropertyObjects:
		items := []any{n.Verb}
		for _, obj := range n.Objects {
			items = append(items, obj)
		}
		return "PropertyObjects", items
	case *OptionalPattern:
		return "Optional", []any{n.Pattern}
	case *UnionPattern:
		var items []any
		for _, alt := range n.Alternatives {
			items = append(items, alt)
		}
		return "Union", items
	case *MinusPattern:
		return "Minus", []any{n.Pattern}
	case *GraphPattern:
		return "Graph", []any{n.Name, n.Pattern}
	case *ServicePattern:
		if n.Silent {
			return "Service SILENT", []any{n.Name, n.Pattern}
		}
		return "Service", []any{n.Name, n.Pattern}
	case *FilterPattern:
		return "Filter", []any{n.Expr}
	case *BindPattern:
		return "Bind", []any{n.Expr, n.Var}
	case *ValuesPattern:
		vars := section{label: "Vars"}
		for _, v := range n.Vars {
			vars.items = append(vars.items, v)
		}
		items := []any{vars}
		for _, row := range n.Rows {
			r := section{label: "Row"}
			for _, cell := range row {
				if cell == nil {
					r.items = append(r.items, undef{})
				} else {
					r.items = append(r.items, cell)
				}
			}
			items = append(items, r)
		}
		return "Values", items
	case *SubSelect:
		return "SubSelect", []any{n.Query}

	// Terms
	case *Var:
		return "Var " + n.Name, nil
	case *IRI:
		return "IRI <" + n.Value + ">", nil
	case *PrefixedName:
		return "PrefixedName " + n.Prefix + ":" + n.Local, nil
	case *Literal:
		return explainLiteral(n)
	case *BlankNode:
		if n.Label == "" {
			return "BlankNode []", nil
		}
		return "BlankNode _:" + n.Label, nil
	case *Nil:
		return "Nil", nil
	case *BlankNodePropertyList:
		var items []any
		for _, po := range n.Properties {
			items = append(items, po)
		}
		return "BlankNodePropertyList", items
	case *Collection:
		var items []any
		for _, item := range n.Items {
			items = append(items, item)
		}
		return "Collection", items

	// Paths
	case *TypeKeyword:
		return "a", nil
	case *PathAlternative:
		return "PathAlternative", pathItems(n.Alternatives)
	case *PathSequence:
		return "PathSequence", pathItems(n.Elements)
	case *PathInverse:
		return "PathInverse", []any{n.Path}
	case *PathMod:
		return "PathMod " + n.Mod, []any{n.Path}
	case *PathNegated:
		return "PathNegated", pathItems(n.Set)
	case *PathGroup:
		return "PathGroup", []any{n.Path}

	// Expressions
	case *BinaryExpr:
		return "BinaryExpr " + n.Op, []any{n.Left, n.Right}
	case *UnaryExpr:
		return "UnaryExpr " + n.Op, []any{n.Operand}
	case *InExpr:
		label := "In"
		if n.Not {
			label = "NotIn"
		}
		items := []any{n.Expr}
		for _, e := range n.List {
			items = append(items, e)
		}
		return label, items
	case *FunctionCall:
		return explainFunctionCall(n)
	case *ExistsExpr:
		if n.Not {
			return "NotExists", []any{n.Pattern}
		}
		return "Exists", []any{n.Pattern}

	// Update operations
	case *InsertData:
		return "InsertData", patternItems(n.Quads)
	case *DeleteData:
		return "DeleteData", patternItems(n.Quads)
	case *DeleteWhere:
		return "DeleteWhere", patternItems(n.Quads)
	case *Modify:
		var items []any
		if n.With != nil {
			items = append(items, section{label: "With", items: []any{n.With}})
		}
		if n.HasDelete {
			items = append(items, section{label: "Delete", items: patternItems(n.Delete)})
		}
		if n.HasInsert {
			items = append(items, section{label: "Insert", items: patternItems(n.Insert)})
		}
		for _, u := range n.Using {
			items = append(items, u)
		}
		items = append(items, n.Where)
		return "Modify", items
	case *Load:
		label := "Load"
		if n.Silent {
			label += " SILENT"
		}
		items := []any{n.Source}
		if n.Into != nil {
			items = append(items, section{label: "Into", items: []any{n.Into}})
		}
		return label, items
	case *GraphManagement:
		label := n.Op
		if n.Silent {
			label += " SILENT"
		}
		return label, []any{n.Target}
	case *GraphTransfer:
		label := n.Op
		if n.Silent {
			label += " SILENT"
		}
		return label, []any{n.From, n.To}
	case GraphTarget:
		switch n.Kind {
		case TargetDefault:
			return "DEFAULT", nil
		case TargetNamed:
			return "NAMED", nil
		case TargetAll:
			return "ALL", nil
		}
		return "GRAPH", []any{n.IRI}
	}
	return fmt.Sprintf("%T", node), nil
}

func queryChildren(q *Query) []any {
	var items []any
	if len(q.Prologue) > 0 {
		items = append(items, prologue(q.Prologue))
	}
	if q.Select != nil {
		items = append(items, q.Select)
	}
	if q.Template != nil {
		items = append(items, section{label: "Template", items: []any{q.Template}})
	}
	if q.ShortConstruct {
		items = append(items, section{label: "Template WHERE"})
	}
	if q.DescribeAll || len(q.Describe) > 0 {
		s := section{label: "Describe"}
		if q.DescribeAll {
			s.label = "Describe *"
		}
		for _, t := range q.Describe {
			s.items = append(s.items, t)
		}
		items = append(items, s)
	}
	for _, d := range q.Dataset {
		items = append(items, d)
	}
	if q.Where != nil {
		items = append(items, section{label: "Where", items: []any{q.Where}})
	}
	mod := q.Modifiers
	if len(mod.GroupBy) > 0 {
		s := section{label: "GroupBy"}
		for _, c := range mod.GroupBy {
			s.items = append(s.items, c)
		}
		items = append(items, s)
	}
	if len(mod.Having) > 0 {
		s := section{label: "Having"}
		for _, e := range mod.Having {
			s.items = append(s.items, e)
		}
		items = append(items, s)
	}
	if len(mod.OrderBy) > 0 {
		s := section{label: "OrderBy"}
		for _, c := range mod.OrderBy {
			s.items = append(s.items, c)
		}
		items = append(items, s)
	}
	if mod.Limit != nil {
		items = append(items, section{label: "Limit " + mod.Limit.Value})
	}
	if mod.Offset != nil {
		items = append(items, section{label: "Offset " + mod.Offset.Value})
	}
	if q.Values != nil {
		items = append(items, q.Values)
	}
	return items
}

func prologue(decls []*Declaration) section {
	s := section{label: "Prologue"}
	for _, d := range decls {
		s.items = append(s.items, d)
	}
	return s
}

func patternItems(patterns []Pattern) []any {
	var items []any
	for _, p := range patterns {
		items = append(items, p)
	}
	return items
}

func pathItems(paths []Path) []any {
	var items []any
	for _, p := range paths {
		items = append(items, p)
	}
	return items
}

func explainLiteral(lit *Literal) (string, []any) {
	if lit.Kind != StringLiteral {
		return "Literal " + lit.Kind.String() + " " + lit.Value, nil
	}
	label := "Literal String " + strconv.Quote(lit.Value)
	if lit.Lang != "" {
		return label + "@" + lit.Lang, nil
	}
	if lit.Datatype != nil {
		return label, []any{section{label: "Datatype", items: []any{lit.Datatype}}}
	}
	return label, nil
}

func explainFunctionCall(call *FunctionCall) (string, []any) {
	label := "Function"
	if call.Name != "" {
		label += " " + call.Name
	}
	if call.Distinct {
		label += " DISTINCT"
	}
	if call.Star {
		label += " *"
	}
	if call.Separator != nil {
		label += " SEPARATOR " + strconv.Quote(*call.Separator)
	}
	var items []any
	if call.IRI != nil {
		items = append(items, call.IRI)
	}
	for _, arg := range call.Args {
		items = append(items, arg)
	}
	return label, items
}
