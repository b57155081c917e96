package orm

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rediwo/redi-orm/schema"
	"github.com/rediwo/redi-orm/types"
)

// compileWhere translates a structured WhereInput into a parameterized
// types.Condition, the form every planner in this package hands to the
// fluent query builder in package query. Top-level "AND"/"OR"/"NOT" keys
// combine sub-filters; every other key must name a scalar field on table.
// Filtering through a relation field belongs to include expansion, not to
// where compilation -- see fetchIncludes in read.go -- so a relation key
// here is rejected rather than silently ignored.
func compileWhere(pc *planContext, table string, where WhereInput) (types.Condition, error) {
	if len(where) == 0 {
		return nil, nil
	}

	fields, err := pc.fields(table)
	if err != nil {
		return nil, err
	}
	relations, err := pc.registry.GetRelations(table)
	if err != nil {
		return nil, err
	}
	relationFields := make(map[string]bool, len(relations))
	for _, r := range relations {
		relationFields[r.RelationField] = true
	}

	// Deterministic key order keeps generated SQL (and therefore test
	// expectations) stable across runs.
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conds []types.Condition
	for _, key := range keys {
		value := where[key]
		switch key {
		case "AND":
			c, err := compileWhereList(pc, table, value)
			if err != nil {
				return nil, err
			}
			if c != nil {
				conds = append(conds, c)
			}
		case "OR":
			list, err := asWhereList(value)
			if err != nil {
				return nil, err
			}
			var ors []types.Condition
			for _, w := range list {
				c, err := compileWhere(pc, table, w)
				if err != nil {
					return nil, err
				}
				if c != nil {
					ors = append(ors, c)
				}
			}
			if len(ors) > 0 {
				conds = append(conds, types.Or(ors...))
			}
		case "NOT":
			wm, ok := value.(map[string]any)
			if !ok {
				return nil, newInvalidArgument("where.NOT", "must be an object")
			}
			c, err := compileWhere(pc, table, wm)
			if err != nil {
				return nil, err
			}
			if c != nil {
				conds = append(conds, types.Not(c))
			}
		default:
			if relationFields[key] {
				return nil, newInvalidArgument("where."+key, "filtering through a relation field is not supported here; use include")
			}
			field, ok := fields[key]
			if !ok {
				return nil, newInvalidArgument("where."+key, "unknown field on %s", table)
			}
			c, err := compileFieldFilter(pc.tx, table, field, value)
			if err != nil {
				return nil, err
			}
			if c != nil {
				conds = append(conds, c)
			}
		}
	}

	if len(conds) == 0 {
		return nil, nil
	}
	if len(conds) == 1 {
		return conds[0], nil
	}
	return types.And(conds...), nil
}

func compileWhereList(pc *planContext, table string, value any) (types.Condition, error) {
	list, err := asWhereList(value)
	if err != nil {
		return nil, err
	}
	var conds []types.Condition
	for _, w := range list {
		c, err := compileWhere(pc, table, w)
		if err != nil {
			return nil, err
		}
		if c != nil {
			conds = append(conds, c)
		}
	}
	if len(conds) == 0 {
		return nil, nil
	}
	return types.And(conds...), nil
}

func asWhereList(value any) ([]WhereInput, error) {
	switch v := value.(type) {
	case []WhereInput:
		return v, nil
	case []map[string]any:
		out := make([]WhereInput, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, nil
	case []any:
		out := make([]WhereInput, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, newInvalidArgument("where", "AND/OR entries must be objects")
			}
			out = append(out, m)
		}
		return out, nil
	case map[string]any:
		return []WhereInput{v}, nil
	default:
		return nil, newInvalidArgument("where", "expected an object or array of objects")
	}
}

// compileFieldFilter handles both the bare-scalar shorthand (`{field:
// value}` means equals) and the operator-object form (`{field: {gt: 5}}`).
func compileFieldFilter(tx types.Transaction, table string, field schema.Field, value any) (types.Condition, error) {
	fc := tx.Model(table).Where(field.Name)

	opMap, isOpMap := value.(map[string]any)
	if !isOpMap {
		return fc.Equals(convertScalar(field, value)), nil
	}

	var conds []types.Condition
	for op, raw := range opMap {
		switch op {
		case "equals":
			conds = append(conds, fc.Equals(convertScalar(field, raw)))
		case "not":
			conds = append(conds, fc.NotEquals(convertScalar(field, raw)))
		case "gt":
			conds = append(conds, fc.GreaterThan(convertScalar(field, raw)))
		case "gte":
			conds = append(conds, fc.GreaterThanOrEqual(convertScalar(field, raw)))
		case "lt":
			conds = append(conds, fc.LessThan(convertScalar(field, raw)))
		case "lte":
			conds = append(conds, fc.LessThanOrEqual(convertScalar(field, raw)))
		case "in":
			conds = append(conds, fc.In(convertScalarList(field, raw)...))
		case "notIn":
			conds = append(conds, fc.NotIn(convertScalarList(field, raw)...))
		case "contains":
			conds = append(conds, fc.Contains(fmt.Sprint(raw)))
		case "startsWith":
			conds = append(conds, fc.StartsWith(fmt.Sprint(raw)))
		case "endsWith":
			conds = append(conds, fc.EndsWith(fmt.Sprint(raw)))
		case "isNull":
			if b, _ := raw.(bool); b {
				conds = append(conds, fc.IsNull())
			} else {
				conds = append(conds, fc.IsNotNull())
			}
		default:
			return nil, newInvalidArgument("where."+field.Name, "unsupported operator %q", op)
		}
	}
	if len(conds) == 0 {
		return nil, nil
	}
	if len(conds) == 1 {
		return conds[0], nil
	}
	return types.And(conds...), nil
}

// convertScalar applies the input-type conversions C2 owns (§4.2 step 2):
// dates arrive as RFC3339 strings or time.Time and are normalized to ISO
// strings; booleans are coerced to the integer representation SQLite
// expects, mirroring what the teacher's own driver layer does at the SQL
// boundary.
func convertScalar(field schema.Field, value any) any {
	if value == nil {
		return nil
	}
	switch field.Type {
	case schema.FieldTypeDateTime:
		if t, ok := value.(time.Time); ok {
			return t.UTC().Format(time.RFC3339Nano)
		}
		return value
	case schema.FieldTypeBool:
		if b, ok := value.(bool); ok {
			if b {
				return int64(1)
			}
			return int64(0)
		}
		return value
	default:
		return value
	}
}

func convertScalarList(field schema.Field, value any) []any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = convertScalar(field, item)
		}
		return out
	case nil:
		return nil
	default:
		return []any{convertScalar(field, v)}
	}
}

// CompileWhereToSQL renders a structured where (or a raw passthrough
// string) into a fully-materialized SQL fragment with no placeholders, for
// the server-side shape/sync path described in §4.4.8. Values are quoted
// per Postgres literal rules; any value of an unhandled type raises
// Unsupported.
func CompileWhereToSQL(registry *schema.Registry, table string, where any) (string, error) {
	if s, ok := where.(string); ok {
		return s, nil
	}

	m, ok := where.(map[string]any)
	if !ok {
		return "", newUnsupported("where must be a string or object")
	}

	fields, err := registry.GetFields(table)
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fragments []string
	for _, key := range keys {
		field, ok := fields[key]
		if !ok {
			return "", newUnsupported("unknown field %q on %s", key, table)
		}
		frag, err := makeFilter(field, m[key])
		if err != nil {
			return "", err
		}
		fragments = append(fragments, "("+frag+")")
	}

	return strings.Join(fragments, " AND "), nil
}

// makeFilter is the pure-string sibling of compileFieldFilter: instead of a
// parameterized Condition it produces a literal SQL fragment, since the
// replication/sync path has no place to carry bound parameters.
func makeFilter(field schema.Field, value any) (string, error) {
	opMap, isOpMap := value.(map[string]any)
	if !isOpMap {
		lit, err := sqlLiteral(field, value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", field.GetColumnName(), lit), nil
	}

	var parts []string
	for op, raw := range opMap {
		switch op {
		case "equals":
			lit, err := sqlLiteral(field, raw)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s = %s", field.GetColumnName(), lit))
		case "not":
			lit, err := sqlLiteral(field, raw)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s != %s", field.GetColumnName(), lit))
		case "gt", "gte", "lt", "lte":
			lit, err := sqlLiteral(field, raw)
			if err != nil {
				return "", err
			}
			sym := map[string]string{"gt": ">", "gte": ">=", "lt": "<", "lte": "<="}[op]
			parts = append(parts, fmt.Sprintf("%s %s %s", field.GetColumnName(), sym, lit))
		case "in":
			lit, err := sqlTuple(field, raw)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s IN %s", field.GetColumnName(), lit))
		default:
			return "", newUnsupported("unsupported operator %q", op)
		}
	}
	return strings.Join(parts, " AND "), nil
}

func sqlLiteral(field schema.Field, value any) (string, error) {
	if value == nil {
		return "NULL", nil
	}
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), nil
	case time.Time:
		return "'" + v.UTC().Format(time.RFC3339Nano) + "'", nil
	default:
		return "", newUnsupported("unsupported literal type %T for field %s", value, field.Name)
	}
}

func sqlTuple(field schema.Field, value any) (string, error) {
	items, ok := value.([]any)
	if !ok {
		return "", newUnsupported("expected an array for IN filter on %s", field.Name)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		lit, err := sqlLiteral(field, item)
		if err != nil {
			return "", err
		}
		parts[i] = lit
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}
