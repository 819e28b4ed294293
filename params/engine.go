// Package params discovers and fills the parameter slots of stored SPARQL
// queries.
//
// A VALUES clause is a parameter slot when at least one of its rows leaves
// every variable UNDEF. LIMIT and OFFSET clauses are parameter slots when
// their integer is written with a "000" prefix followed by an identifier,
// as in LIMIT 000123. Every call parses its own copy of the query, so an
// Engine may be shared between goroutines.
package params

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/parser"
)

// Engine runs parameter detection and binding over SPARQL text.
type Engine struct {
	log *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger that receives non-fatal diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine. Without options diagnostics are discarded.
func New(opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// DetectParameters runs DetectParameters on an Engine without a logger.
func DetectParameters(ctx context.Context, query string) (DetectedParameters, error) {
	return defaultEngine.DetectParameters(ctx, query)
}

// DetectParameterGroups runs DetectParameterGroups on an Engine without a logger.
func DetectParameterGroups(ctx context.Context, query string) ([]ParameterGroup, error) {
	return defaultEngine.DetectParameterGroups(ctx, query)
}

// DetectLimitOffsetParameters runs DetectLimitOffsetParameters on an Engine
// without a logger.
func DetectLimitOffsetParameters(ctx context.Context, query string) (LimitOffsetParameters, error) {
	return defaultEngine.DetectLimitOffsetParameters(ctx, query)
}

// ApplyBindings runs ApplyBindings on an Engine without a logger.
func ApplyBindings(ctx context.Context, query string, bindings *BindingSet) (string, error) {
	return defaultEngine.ApplyBindings(ctx, query, bindings)
}

// ApplyPagination runs ApplyPagination on an Engine without a logger.
func ApplyPagination(ctx context.Context, query string, values Pagination) (string, error) {
	return defaultEngine.ApplyPagination(ctx, query, values)
}

// DetectOutputColumns runs DetectOutputColumns on an Engine without a logger.
func DetectOutputColumns(ctx context.Context, query string) ([]string, error) {
	return defaultEngine.DetectOutputColumns(ctx, query)
}

// parse turns query text into a fresh tree. Syntax errors are wrapped in
// *Error; context errors are returned as-is.
func (e *Engine) parse(ctx context.Context, query string) (ast.Request, error) {
	req, err := parser.ParseString(ctx, query)
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			return nil, newSyntaxError(se)
		}
		return nil, err
	}
	return req, nil
}
