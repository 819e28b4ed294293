package parser_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/parser"
)

func TestUpdateSteps(t *testing.T) {
	tests := []struct {
		name     string
		sparql   string
		expected int
	}{
		{
			name:     "two operations",
			sparql:   "CLEAR DEFAULT ; DROP ALL",
			expected: 2,
		},
		{
			name:     "trailing semicolon",
			sparql:   "CREATE GRAPH <http://example.org/g> ;",
			expected: 1,
		},
		{
			name:     "mixed operations",
			sparql:   "INSERT DATA { <a> <b> <c> } ; DELETE WHERE { ?s ?p ?o } ; LOAD <http://example.org/d>",
			expected: 3,
		},
		{
			name:     "prologue per operation",
			sparql:   "PREFIX a: <http://a/> INSERT DATA { a:x a:y a:z } ;\nPREFIX b: <http://b/> DELETE DATA { b:x b:y b:z }",
			expected: 2,
		},
		{
			name:     "trailing prologue",
			sparql:   "ADD GRAPH <a> TO DEFAULT ; PREFIX ex: <http://example.org/>",
			expected: 2,
		},
		{
			name:     "empty request",
			sparql:   "",
			expected: 0,
		},
		{
			name:     "modify with using",
			sparql:   "WITH <g> DELETE { ?s ?p ?o } USING NAMED <h> WHERE { ?s ?p ?o }",
			expected: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			req, err := parser.Parse(ctx, strings.NewReader(tc.sparql))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			update, ok := req.(*ast.Update)
			if !ok {
				t.Fatalf("Expected *ast.Update, got %T", req)
			}
			if len(update.Steps) != tc.expected {
				t.Errorf("Expected %d steps, got %d", tc.expected, len(update.Steps))
			}
		})
	}
}

func TestUpdatePrologue(t *testing.T) {
	ctx := context.Background()
	req, err := parser.ParseString(ctx, "PREFIX a: <http://a/> CLEAR ALL ; PREFIX b: <http://b/> DROP DEFAULT ; BASE <http://c/>")
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	steps := req.(*ast.Update).Steps
	if len(steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(steps))
	}
	if got := steps[0].Prologue[0].Prefix; got != "a" {
		t.Errorf("Step 0 prefix = %q, want a", got)
	}
	if got := steps[1].Prologue[0].Prefix; got != "b" {
		t.Errorf("Step 1 prefix = %q, want b", got)
	}
	if steps[2].Operation != nil {
		t.Errorf("Trailing prologue should have no operation, got %T", steps[2].Operation)
	}
	if !steps[2].Prologue[0].Base {
		t.Error("Trailing prologue should hold the BASE declaration")
	}
}

func TestParseFileUpdate(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "update.ru")

	content := `# Seed the graph
PREFIX ex: <http://example.org/>
INSERT DATA {
  ex:a ex:p 1 .
  GRAPH ex:g { ex:b ex:p 2 }
} ;

# Move it
MOVE SILENT GRAPH ex:g TO DEFAULT ;

# Tidy up
CLEAR NAMED
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	ctx := context.Background()
	req, err := parser.ParseFile(ctx, path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	steps := req.(*ast.Update).Steps
	if len(steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(steps))
	}
	insert, ok := steps[0].Operation.(*ast.InsertData)
	if !ok {
		t.Fatalf("Expected *ast.InsertData, got %T", steps[0].Operation)
	}
	if len(insert.Quads) != 2 {
		t.Errorf("Expected 2 quad blocks, got %d", len(insert.Quads))
	}
	move, ok := steps[1].Operation.(*ast.GraphTransfer)
	if !ok || move.Op != "MOVE" || !move.Silent {
		t.Errorf("Expected MOVE SILENT, got %#v", steps[1].Operation)
	}
}

func TestParseFileNotFound(t *testing.T) {
	ctx := context.Background()
	_, err := parser.ParseFile(ctx, "/nonexistent/file.rq")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}
