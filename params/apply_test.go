package params

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kyleconroy/sparqlparam/ast"
)

func TestApplyBindingsScenario(t *testing.T) {
	query := `SELECT * WHERE {
  VALUES (?subject ?predicate) { (<http://example.org/s1> <http://example.org/p1>) (UNDEF UNDEF) }
  ?subject ?predicate ?o .
}`
	bindings := NewBindingSet([]string{"subject", "predicate"}, BindingRow{
		"subject":   URI("http://example.org/s2"),
		"predicate": URI("http://example.org/p2"),
	})

	got, err := ApplyBindings(context.Background(), query, bindings)
	require.NoError(t, err)

	want := `SELECT *
WHERE {
  VALUES (?subject ?predicate) {
    (<http://example.org/s1> <http://example.org/p1>)
    (<http://example.org/s2> <http://example.org/p2>)
  }
  ?subject ?predicate ?o .
}`
	assert.Equal(t, want, got)
}

func TestApplyBindingsRowCount(t *testing.T) {
	query := `SELECT * WHERE { VALUES (?a ?b) { (1 2) (UNDEF UNDEF) (3 UNDEF) (UNDEF UNDEF) } }`
	bindings := NewBindingSet([]string{"a", "b"},
		BindingRow{"a": Literal("x"), "b": Literal("y")},
		BindingRow{"a": Literal("z"), "b": Literal("w")},
		BindingRow{"a": URI("http://example.org/q"), "b": Literal("v")},
	)

	got, err := ApplyBindings(context.Background(), query, bindings)
	require.NoError(t, err)

	clauses := valuesClauses(t, got)
	require.Len(t, clauses, 1)
	rows := clauses[0].Rows
	require.Len(t, rows, 2+3)
	for i, row := range rows {
		assert.False(t, allUndef(row), "row %d is a placeholder", i)
	}

	// Bound rows keep their order ahead of the new ones
	assert.Equal(t, "1", rows[0][0].(*ast.Literal).Value)
	assert.Equal(t, "3", rows[1][0].(*ast.Literal).Value)
	assert.Nil(t, rows[1][1])
	assert.Equal(t, "x", rows[2][0].(*ast.Literal).Value)
	assert.Equal(t, "z", rows[3][0].(*ast.Literal).Value)
	assert.Equal(t, "http://example.org/q", rows[4][0].(*ast.IRI).Value)
}

func TestApplyBindingsPartialRow(t *testing.T) {
	query := "SELECT * WHERE { VALUES (?a ?b) { (UNDEF UNDEF) } }"
	bindings := NewBindingSet([]string{"a", "b"},
		BindingRow{"a": URI("http://example.org/x")},
		BindingRow{"b": Literal("y")},
	)

	got, err := ApplyBindings(context.Background(), query, bindings)
	require.NoError(t, err)

	want := `SELECT *
WHERE {
  VALUES (?a ?b) {
    (<http://example.org/x> UNDEF)
    (UNDEF "y")
  }
}`
	assert.Equal(t, want, got)
}

func TestApplyBindingsClauseIsolation(t *testing.T) {
	query := `SELECT * WHERE {
  VALUES ?a { UNDEF }
  OPTIONAL { VALUES (?b ?c) { (UNDEF UNDEF) } }
}`
	e, logs := observed()
	bindings := NewBindingSet([]string{"a"}, BindingRow{"a": Literal("1")})

	got, err := e.ApplyBindings(context.Background(), query, bindings)
	require.NoError(t, err)

	clauses := valuesClauses(t, got)
	require.Len(t, clauses, 2)
	if diff := cmp.Diff([][]ast.Term{{&ast.Literal{Value: "1"}}}, clauses[0].Rows, treeOpts...); diff != "" {
		t.Errorf("bound clause (-want +got):\n%s", diff)
	}
	assert.Equal(t, [][]ast.Term{{nil, nil}}, clauses[1].Rows)

	entries := logs.FilterMessage("pattern variables not fully covered").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, []interface{}{"b", "c"}, fields["missing"])
	assert.Equal(t, "VALUES (?b ?c) { (UNDEF UNDEF) }", fields["clause"])
}

func TestApplyBindingsNoOp(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		bindings *BindingSet
	}{
		{
			name:     "no binding rows",
			query:    "SELECT * WHERE { VALUES ?a { UNDEF } ?a ?p ?o }",
			bindings: NewBindingSet([]string{"a"}),
		},
		{
			name:     "no values clause",
			query:    "PREFIX ex: <http://example.org/>\nSELECT ?s WHERE { ?s ex:p ?o FILTER(?o > 1) } ORDER BY ?s LIMIT 5",
			bindings: NewBindingSet([]string{"a"}, BindingRow{"a": Literal("1")}),
		},
		{
			name:     "clause with zero rows",
			query:    "SELECT * WHERE { VALUES ?a { } }",
			bindings: NewBindingSet([]string{"a"}, BindingRow{"a": Literal("1")}),
		},
		{
			name:     "clause without variables",
			query:    "SELECT * WHERE { VALUES () { () } }",
			bindings: NewBindingSet([]string{"a"}, BindingRow{"a": Literal("1")}),
		},
		{
			name:     "update",
			query:    "CLEAR ALL ; LOAD <http://example.org/d>",
			bindings: NewBindingSet([]string{"a"}, BindingRow{"a": Literal("1")}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyBindings(context.Background(), tt.query, tt.bindings)
			require.NoError(t, err)
			sameTree(t, tt.query, got)
		})
	}
}

func TestApplyBindingsIncompleteSet(t *testing.T) {
	query := "SELECT * WHERE { VALUES ?a { UNDEF } }"

	tests := []struct {
		name     string
		bindings *BindingSet
	}{
		{"nil", nil},
		{"missing head", &BindingSet{Arguments: &Arguments{Bindings: []BindingRow{{"a": Literal("1")}}}}},
		{"missing arguments", &BindingSet{Head: &Head{Vars: []string{"a"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, logs := observed()
			got, err := e.ApplyBindings(context.Background(), query, tt.bindings)
			require.NoError(t, err)
			sameTree(t, query, got)
			assert.Equal(t, 1, logs.FilterMessage("binding set is missing head or arguments; query left unchanged").Len())
		})
	}
}

func TestApplyBindingsTerms(t *testing.T) {
	xsdInt := "http://www.w3.org/2001/XMLSchema#int"

	tests := []struct {
		name  string
		value TypedValue
		want  ast.Term
		warn  string
	}{
		{
			name:  "uri",
			value: URI("http://example.org/a"),
			want:  &ast.IRI{Value: "http://example.org/a"},
		},
		{
			name:  "plain literal",
			value: Literal("hello \"world\""),
			want:  &ast.Literal{Value: "hello \"world\""},
		},
		{
			name:  "typed literal",
			value: TypedLiteral("5", xsdInt),
			want:  &ast.Literal{Value: "5", Datatype: &ast.IRI{Value: xsdInt}},
		},
		{
			name:  "language literal",
			value: LangLiteral("chat", "fr"),
			want:  &ast.Literal{Value: "chat", Lang: "fr"},
		},
		{
			name:  "language wins over datatype",
			value: TypedValue{Type: KindLiteral, Value: "chat", Lang: "fr", Datatype: xsdInt},
			want:  &ast.Literal{Value: "chat", Lang: "fr"},
			warn:  "literal has both language and datatype; using language",
		},
		{
			name:  "unknown kind",
			value: TypedValue{Type: "triple", Value: "x"},
			want:  nil,
			warn:  "unknown binding type; slot left unbound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, logs := observed()
			query := "SELECT * WHERE { VALUES (?v ?w) { (UNDEF UNDEF) } }"
			bindings := NewBindingSet([]string{"v", "w"}, BindingRow{"v": tt.value, "w": Literal("w")})

			got, err := e.ApplyBindings(context.Background(), query, bindings)
			require.NoError(t, err)

			clauses := valuesClauses(t, got)
			require.Len(t, clauses, 1)
			require.Len(t, clauses[0].Rows, 1)
			if diff := cmp.Diff(tt.want, clauses[0].Rows[0][0], treeOpts...); diff != "" {
				t.Errorf("bound term (-want +got):\n%s", diff)
			}

			if tt.warn == "" {
				assert.Zero(t, logs.Len(), "unexpected diagnostics: %v", logs.All())
				return
			}
			assert.Equal(t, 1, logs.FilterMessage(tt.warn).FilterField(zap.String("variable", "v")).Len())
		})
	}
}

func TestApplyBindingsBlankNode(t *testing.T) {
	query := `SELECT * WHERE {
  VALUES ?a { UNDEF }
  OPTIONAL { VALUES ?s { UNDEF } }
}`
	bindings := NewBindingSet([]string{"a", "s"}, BindingRow{
		"a": Literal("1"),
		"s": TypedValue{Type: KindBNode, Value: "b0"},
	})

	got, err := ApplyBindings(context.Background(), query, bindings)
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, IsIllegalBindingType(err))

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "s", pe.Variable)
	assert.Equal(t, "VALUES (?s) { (UNDEF) }", pe.Clause)
	assert.Contains(t, err.Error(), "variable=?s")
}

func TestApplyBindingsUndeclaredVariable(t *testing.T) {
	e, logs := observed()
	bindings := NewBindingSet([]string{"a"},
		BindingRow{"a": Literal("1"), "extra": Literal("x")},
		BindingRow{"a": Literal("2"), "extra": Literal("y")},
	)

	got, err := e.ApplyBindings(context.Background(), "SELECT * WHERE { VALUES ?a { UNDEF } }", bindings)
	require.NoError(t, err)
	assert.Len(t, valuesClauses(t, got)[0].Rows, 2)
	assert.Equal(t, 1, logs.FilterMessage("binding variable not in header; ignored").Len())
}

func TestApplyBindingsNested(t *testing.T) {
	header := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	row := BindingRow{}
	for _, name := range header {
		row[name] = Literal(name)
	}
	bindings := NewBindingSet(header, row, row)

	got, err := ApplyBindings(context.Background(), nestedQuery, bindings)
	require.NoError(t, err)

	groups, err := DetectParameterGroups(context.Background(), got)
	require.NoError(t, err)
	assert.Empty(t, groups)

	for _, clause := range valuesClauses(t, got) {
		assert.Len(t, clause.Rows, len(bindings.Rows()), "clause %v", clause.VarNames())
	}
}

// Every detected group can be filled by a binding set built from it.
func TestDetectApplyConsistency(t *testing.T) {
	query := `SELECT * WHERE {
  VALUES (?a ?b) { (UNDEF UNDEF) (1 2) }
  { SELECT ?c WHERE { VALUES ?c { UNDEF } } }
  FILTER NOT EXISTS { VALUES (?d ?e) { (UNDEF UNDEF) } }
}`
	ctx := context.Background()
	groups, err := DetectParameterGroups(ctx, query)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	for _, group := range groups {
		t.Run(fmt.Sprint(group), func(t *testing.T) {
			row := BindingRow{}
			for _, name := range group {
				row[name] = URI("http://example.org/" + name)
			}
			got, err := ApplyBindings(ctx, query, NewBindingSet(group, row))
			require.NoError(t, err)

			remaining, err := DetectParameterGroups(ctx, got)
			require.NoError(t, err)
			assert.NotContains(t, remaining, group)
			assert.Len(t, remaining, len(groups)-1)
		})
	}
}

func TestBindingSetJSON(t *testing.T) {
	data := `{
  "head": {"vars": ["s", "label"]},
  "arguments": {"bindings": [
    {"s": {"type": "uri", "value": "http://example.org/a"},
     "label": {"type": "literal", "value": "chat", "xml:lang": "fr"}},
    {"label": {"type": "literal", "value": "5", "datatype": "http://www.w3.org/2001/XMLSchema#int"}}
  ]}
}`
	var bindings BindingSet
	require.NoError(t, json.Unmarshal([]byte(data), &bindings))
	assert.Equal(t, []string{"s", "label"}, bindings.Header())
	require.Len(t, bindings.Rows(), 2)
	assert.Equal(t, LangLiteral("chat", "fr"), bindings.Rows()[0]["label"])
	assert.Equal(t, TypedLiteral("5", "http://www.w3.org/2001/XMLSchema#int"), bindings.Rows()[1]["label"])

	got, err := ApplyBindings(context.Background(), "SELECT * WHERE { VALUES (?s ?label) { (UNDEF UNDEF) } }", &bindings)
	require.NoError(t, err)
	want := `SELECT *
WHERE {
  VALUES (?s ?label) {
    (<http://example.org/a> "chat"@fr)
    (UNDEF "5"^^<http://www.w3.org/2001/XMLSchema#int>)
  }
}`
	assert.Equal(t, want, got)
}

func TestApplyPagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		values Pagination
		want   string
		warns  int
	}{
		{
			name:   "limit and offset",
			query:  "SELECT * WHERE { ?s ?p ?o } LIMIT 0001 OFFSET 0002",
			values: Pagination{Limit: map[string]uint64{"1": 10}, Offset: map[string]uint64{"2": 20}},
			want:   "SELECT *\nWHERE {\n  ?s ?p ?o .\n}\nLIMIT 10\nOFFSET 20",
		},
		{
			name:   "missing value keeps placeholder",
			query:  "SELECT * WHERE { ?s ?p ?o } LIMIT 0001 OFFSET 0002",
			values: Pagination{Limit: map[string]uint64{"1": 10}},
			want:   "SELECT *\nWHERE {\n  ?s ?p ?o .\n}\nLIMIT 10\nOFFSET 0002",
			warns:  1,
		},
		{
			name:   "ordinary clauses are untouched",
			query:  "SELECT * WHERE { ?s ?p ?o } LIMIT 5 OFFSET 0",
			values: Pagination{Limit: map[string]uint64{"5": 1}, Offset: map[string]uint64{"0": 1}},
			want:   "SELECT *\nWHERE {\n  ?s ?p ?o .\n}\nLIMIT 5\nOFFSET 0",
		},
		{
			name:   "sub-select",
			query:  "SELECT * WHERE { { SELECT ?s WHERE { ?s ?p ?o } LIMIT 0007 } } LIMIT 0009",
			values: Pagination{Limit: map[string]uint64{"7": 70, "9": 90}},
			want:   "SELECT *\nWHERE {\n  {\n    SELECT ?s\n    WHERE {\n      ?s ?p ?o .\n    }\n    LIMIT 70\n  }\n}\nLIMIT 90",
		},
		{
			name:   "zero value",
			query:  "ASK { } OFFSET 000001",
			values: Pagination{Offset: map[string]uint64{"001": 0}},
			want:   "ASK\nWHERE {}\nOFFSET 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, logs := observed()
			got, err := e.ApplyPagination(context.Background(), tt.query, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.warns, logs.FilterMessage("no value supplied for placeholder").Len())
		})
	}
}

func TestApplyPaginationSyntaxError(t *testing.T) {
	_, err := ApplyPagination(context.Background(), "SELECT * WHERE { } LIMIT", Pagination{})
	require.Error(t, err)
	assert.True(t, IsSyntaxError(err))
}

func TestEngineConcurrent(t *testing.T) {
	e, _ := observed()
	query := "SELECT ?s WHERE { VALUES ?s { UNDEF } ?s ?p ?o } LIMIT 0001"

	g, ctx := errgroup.WithContext(context.Background())
	results := make([]string, 32)
	for i := range results {
		i := i
		g.Go(func() error {
			bindings := NewBindingSet([]string{"s"}, BindingRow{"s": URI(fmt.Sprintf("http://example.org/%d", i))})
			out, err := e.ApplyBindings(ctx, query, bindings)
			if err != nil {
				return err
			}
			results[i], err = e.ApplyPagination(ctx, out, Pagination{Limit: map[string]uint64{"1": uint64(i)}})
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, out := range results {
		assert.Contains(t, out, fmt.Sprintf("(<http://example.org/%d>)", i))
		assert.Contains(t, out, fmt.Sprintf("LIMIT %d", i))
	}
}
