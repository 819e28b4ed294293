// Command testcase creates a parser test case from a SPARQL request.
//
// Usage:
//
//	go run ./cmd/testcase -name select_values query.rq
//	echo 'ASK { ?s ?p ?o }' | go run ./cmd/testcase -name ask
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kyleconroy/sparqlparam/parser"
)

func main() {
	name := flag.String("name", "", "Test case directory name (required)")
	testdataDir := flag.String("dir", "parser/testdata", "Testdata directory")
	force := flag.Bool("force", false, "Overwrite an existing test case")
	flag.Parse()

	if *name == "" {
		fmt.Fprintf(os.Stderr, "Usage: go run ./cmd/testcase -name <case> [query.rq]\n")
		fmt.Fprintf(os.Stderr, "Reads the query from stdin when no file is given.\n")
		os.Exit(1)
	}

	query, err := readQuery(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading query: %v\n", err)
		os.Exit(1)
	}

	testDir := filepath.Join(*testdataDir, *name)
	if _, err := os.Stat(testDir); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "%s already exists (use -force to overwrite)\n", testDir)
		os.Exit(1)
	}

	if err := writeCase(testDir, query); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %s\n", testDir)
}

func readQuery(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// writeCase parses the query and writes query.rq with its golden files.
func writeCase(testDir, query string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := parser.ParseString(ctx, query)
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}
	formatted := parser.Format(req)

	// Golden output must survive its own round trip
	reparsed, err := parser.ParseString(ctx, formatted)
	if err != nil {
		return fmt.Errorf("formatted query does not parse: %w\n%s", err, formatted)
	}
	if again := parser.Format(reparsed); again != formatted {
		return fmt.Errorf("format is not stable:\nfirst:\n%s\nsecond:\n%s", formatted, again)
	}

	if err := os.MkdirAll(testDir, 0755); err != nil {
		return err
	}
	files := map[string]string{
		"query.rq":       strings.TrimRight(query, "\n") + "\n",
		"format.golden":  formatted + "\n",
		"explain.golden": parser.Explain(req),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(testDir, name), []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
