package params

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/parser"
	"github.com/kyleconroy/sparqlparam/token"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var treeOpts = []cmp.Option{
	cmpopts.IgnoreTypes(token.Position{}),
	cmpopts.EquateEmpty(),
}

// observed returns an engine whose warnings are recorded.
func observed() (*Engine, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return New(WithLogger(zap.New(core))), logs
}

func mustParse(t *testing.T, query string) ast.Request {
	t.Helper()
	req, err := parser.ParseString(context.Background(), query)
	require.NoError(t, err, "query:\n%s", query)
	return req
}

// valuesClauses parses query and returns its VALUES clauses in traversal order.
func valuesClauses(t *testing.T, query string) []*ast.ValuesPattern {
	t.Helper()
	var clauses []*ast.ValuesPattern
	w := &walker{
		values: func(v *ast.ValuesPattern) (*ast.ValuesPattern, error) {
			clauses = append(clauses, v)
			return v, nil
		},
	}
	_, err := w.request(mustParse(t, query))
	require.NoError(t, err)
	return clauses
}

// sameTree reports a diff between the trees of two query texts.
func sameTree(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(mustParse(t, want), mustParse(t, got), treeOpts...); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}
