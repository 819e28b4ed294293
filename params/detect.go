package params

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kyleconroy/sparqlparam/ast"
)

// placeholderPrefix marks a LIMIT or OFFSET integer as a parameter slot.
const placeholderPrefix = "000"

// ParameterGroup is the ordered variable list of one bindable VALUES clause.
type ParameterGroup []string

// DetectedParameters lists every parameter slot of a query.
type DetectedParameters struct {
	ValuesParameters []ParameterGroup `json:"valuesParameters"`
	LimitParameters  []string         `json:"limitParameters"`
	OffsetParameters []string         `json:"offsetParameters"`
}

// LimitOffsetParameters lists the LIMIT and OFFSET placeholder identifiers.
type LimitOffsetParameters struct {
	Limit  []string `json:"limit"`
	Offset []string `json:"offset"`
}

// DetectParameters parses query and reports its VALUES parameter groups and
// LIMIT/OFFSET placeholders.
func (e *Engine) DetectParameters(ctx context.Context, query string) (DetectedParameters, error) {
	req, err := e.parse(ctx, query)
	if err != nil {
		return DetectedParameters{}, err
	}
	groups, err := parameterGroups(req)
	if err != nil {
		return DetectedParameters{}, err
	}
	lo, err := limitOffsetParameters(req)
	if err != nil {
		return DetectedParameters{}, err
	}
	e.log.Debug("detected parameters",
		zap.Int("groups", len(groups)),
		zap.Strings("limit", lo.Limit),
		zap.Strings("offset", lo.Offset))
	return DetectedParameters{
		ValuesParameters: groups,
		LimitParameters:  lo.Limit,
		OffsetParameters: lo.Offset,
	}, nil
}

// DetectParameterGroups reports, in traversal order, every VALUES clause
// that has a row with all of its variables UNDEF.
func (e *Engine) DetectParameterGroups(ctx context.Context, query string) ([]ParameterGroup, error) {
	req, err := e.parse(ctx, query)
	if err != nil {
		return nil, err
	}
	return parameterGroups(req)
}

// DetectLimitOffsetParameters reports the identifiers of LIMIT and OFFSET
// placeholders in the outer query and every sub-select, outer first.
func (e *Engine) DetectLimitOffsetParameters(ctx context.Context, query string) (LimitOffsetParameters, error) {
	req, err := e.parse(ctx, query)
	if err != nil {
		return LimitOffsetParameters{}, err
	}
	return limitOffsetParameters(req)
}

func parameterGroups(req ast.Request) ([]ParameterGroup, error) {
	groups := []ParameterGroup{}
	w := &walker{
		values: func(v *ast.ValuesPattern) (*ast.ValuesPattern, error) {
			if isParameterGroup(v) {
				groups = append(groups, ParameterGroup(v.VarNames()))
			}
			return v, nil
		},
	}
	if _, err := w.request(req); err != nil {
		return nil, err
	}
	return groups, nil
}

func limitOffsetParameters(req ast.Request) (LimitOffsetParameters, error) {
	lo := LimitOffsetParameters{Limit: []string{}, Offset: []string{}}
	w := &walker{
		onQuery: func(q *ast.Query) (*ast.Query, error) {
			if id, ok := placeholderID(q.Modifiers.Limit); ok {
				lo.Limit = append(lo.Limit, id)
			}
			if id, ok := placeholderID(q.Modifiers.Offset); ok {
				lo.Offset = append(lo.Offset, id)
			}
			return q, nil
		},
	}
	if _, err := w.request(req); err != nil {
		return LimitOffsetParameters{}, err
	}
	return lo, nil
}

// isParameterGroup reports whether some row leaves every variable UNDEF.
// A clause without variables is never a parameter group.
func isParameterGroup(v *ast.ValuesPattern) bool {
	if len(v.Vars) == 0 {
		return false
	}
	for _, row := range v.Rows {
		if allUndef(row) {
			return true
		}
	}
	return false
}

func allUndef(row []ast.Term) bool {
	for _, cell := range row {
		if cell != nil {
			return false
		}
	}
	return true
}

// placeholderID returns the identifier of a LIMIT/OFFSET placeholder. The
// literal must be "000" followed by at least one digit, so LIMIT 000 and
// LIMIT 0 are ordinary clauses.
func placeholderID(lit *ast.Literal) (string, bool) {
	if lit == nil || lit.Kind != ast.IntegerLiteral {
		return "", false
	}
	id, ok := strings.CutPrefix(lit.Value, placeholderPrefix)
	if !ok || id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}
