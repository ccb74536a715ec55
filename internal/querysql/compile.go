package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/queryir"
)

// DefaultTable is the shape table created by the store schema.
const DefaultTable = "shapes"

// SQLCompiler compiles QueryIR predicates to parameterized SQL for SQLite.
//
// CRITICAL: ALL queries include ORDER BY for deterministic results.
// CRITICAL: All values are parameterized (never interpolated).
type SQLCompiler struct {
	// Table is the shape table to select from.
	Table string
}

// NewSQLCompiler creates a new SQLCompiler over DefaultTable.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{Table: DefaultTable}
}

// axisColumns maps an axis to its (start, end) columns.
var axisColumns = map[ir.Axis][2]string{
	ir.Valid:       {"vt_start", "vt_end"},
	ir.Transaction: {"tt_start", "tt_end"},
}

// Compile converts a predicate over one field to a full SELECT of version IDs.
// Returns (sql, params, error) tuple.
//
// MANDATORY: Every query includes ORDER BY with COLLATE BINARY.
func (c *SQLCompiler) Compile(field string, p queryir.Predicate) (string, []any, error) {
	if field == "" {
		return "", nil, fmt.Errorf("cannot compile query without a field")
	}

	where, params, err := c.CompileWhere(p)
	if err != nil {
		return "", nil, err
	}

	table := c.Table
	if table == "" {
		table = DefaultTable
	}

	sql := fmt.Sprintf("SELECT version_id FROM %s WHERE field = ? AND (%s) ORDER BY version_id COLLATE BINARY ASC",
		table, where)
	return sql, append([]any{field}, params...), nil
}

// CompileWhere compiles a predicate to a WHERE clause fragment.
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) CompileWhere(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, fmt.Errorf("cannot compile nil predicate")
	}

	switch pred := p.(type) {
	case queryir.Range:
		return c.compileRange(pred)
	case *queryir.Range:
		return c.compileRange(*pred)
	case queryir.Present:
		return c.compilePresent(pred)
	case *queryir.Present:
		return c.compilePresent(*pred)
	case queryir.And:
		return c.compileJunction(pred.Predicates, " AND ", "1 = 1")
	case *queryir.And:
		return c.compileJunction(pred.Predicates, " AND ", "1 = 1")
	case queryir.Or:
		return c.compileJunction(pred.Predicates, " OR ", "1 = 0")
	case *queryir.Or:
		return c.compileJunction(pred.Predicates, " OR ", "1 = 0")
	case queryir.Not:
		return c.compileNot(pred)
	case *queryir.Not:
		return c.compileNot(*pred)
	case queryir.Boost:
		// Boost affects scoring, not membership.
		return c.CompileWhere(pred.Predicate)
	case *queryir.Boost:
		return c.CompileWhere(pred.Predicate)
	case queryir.MatchAll, *queryir.MatchAll:
		return "1 = 1", nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileRange emits the relation between a stored interval [s, e] and the
// query bounds [f, t]. A MAX upper bound drops the constraint it would set.
func (c *SQLCompiler) compileRange(r queryir.Range) (string, []any, error) {
	if !r.Partition.Valid() {
		return "", nil, fmt.Errorf("unknown partition %s", r.Partition)
	}
	cols, ok := axisColumns[r.Axis]
	if !ok {
		return "", nil, fmt.Errorf("unknown axis %s", r.Axis)
	}
	start, end := cols[0], cols[1]
	from := r.Bounds.From.Timestamp()
	to := r.Bounds.To.Timestamp()
	openEnd := r.Bounds.To.IsMax()

	parts := []string{"partition = ?"}
	params := []any{int64(r.Partition)}

	switch r.Relation {
	case ir.Intersects:
		if !openEnd {
			parts = append(parts, start+" <= ?")
			params = append(params, to)
		}
		parts = append(parts, end+" >= ?")
		params = append(params, from)
	case ir.IsWithin:
		parts = append(parts, start+" >= ?")
		params = append(params, from)
		if !openEnd {
			parts = append(parts, end+" <= ?")
			params = append(params, to)
		}
	case ir.Contains:
		parts = append(parts, start+" <= ?", end+" >= ?")
		params = append(params, from, to)
	default:
		return "", nil, fmt.Errorf("unsupported relation %s", r.Relation)
	}

	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}

// compilePresent compiles a Present predicate to "partition = ?".
func (c *SQLCompiler) compilePresent(p queryir.Present) (string, []any, error) {
	if !p.Partition.Valid() {
		return "", nil, fmt.Errorf("unknown partition %s", p.Partition)
	}
	return "partition = ?", []any{int64(p.Partition)}, nil
}

// compileJunction joins children with op. An empty junction compiles to
// empty (the identity of op).
func (c *SQLCompiler) compileJunction(preds []queryir.Predicate, op, empty string) (string, []any, error) {
	if len(preds) == 0 {
		return empty, nil, nil
	}

	var sqlParts []string
	var allParams []any

	for _, pred := range preds {
		sql, params, err := c.CompileWhere(pred)
		if err != nil {
			return "", nil, err
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	if len(sqlParts) == 1 {
		return sqlParts[0], allParams, nil
	}
	return "(" + strings.Join(sqlParts, op) + ")", allParams, nil
}

// compileNot compiles a Not predicate to "NOT (...)".
func (c *SQLCompiler) compileNot(n queryir.Not) (string, []any, error) {
	sql, params, err := c.CompileWhere(n.Predicate)
	if err != nil {
		return "", nil, fmt.Errorf("compile not: %w", err)
	}
	return "NOT (" + sql + ")", params, nil
}
