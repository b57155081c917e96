package orm

import (
	"github.com/rediwo/redi-orm/schema"
	"github.com/rediwo/redi-orm/types"
)

// Row is a single decoded record: a mapping from field name to scalar
// value. After include expansion a row may additionally hold, under a
// relation field's name, either another Row (arity one) or a []Row (arity
// many).
type Row = map[string]any

func selectRows(pc *planContext, table string, cond types.Condition, orderBy []OrderByClause, limit, offset *int) ([]Row, error) {
	q := pc.tx.Model(table).Select()
	if cond != nil {
		q = q.WhereCondition(cond)
	}
	for _, ob := range orderBy {
		dir := types.ASC
		if !ob.Ascending {
			dir = types.DESC
		}
		q = q.OrderBy(ob.Field, dir)
	}
	if limit != nil {
		q = q.Limit(*limit)
	}
	if offset != nil {
		q = q.Offset(*offset)
	}

	var rows []Row
	if err := q.FindMany(pc.ctx, &rows); err != nil {
		return nil, newAdapterError("select "+table, err)
	}
	return rows, nil
}

// findUnique emits `SELECT ... WHERE <uniqueKey> LIMIT 2`; two rows is
// NotUnique, one row proceeds to include expansion, zero rows is nil
// (§4.4.1).
func findUnique(pc *planContext, table string, in FindUniqueInput) (Row, error) {
	cond, err := compileWhere(pc, table, in.Where)
	if err != nil {
		return nil, err
	}
	two := 2
	rows, err := selectRows(pc, table, cond, nil, &two, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) > 1 {
		return nil, &NotUniqueError{Table: table}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := fetchIncludes(pc, table, rows, in.Include); err != nil {
		return nil, err
	}
	return applySelect(rows[0], in.Select), nil
}

// findUniqueWithoutAutoSelect is findUnique without select/include
// projection applied -- used internally by update/delete for pre-image
// fetches, where callers need every scalar column regardless of the
// caller-supplied select.
func findUniqueWithoutAutoSelect(pc *planContext, table string, where WhereInput) (Row, error) {
	cond, err := compileWhere(pc, table, where)
	if err != nil {
		return nil, err
	}
	two := 2
	rows, err := selectRows(pc, table, cond, nil, &two, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) > 1 {
		return nil, &NotUniqueError{Table: table}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func findFirst(pc *planContext, table string, in FindFirstInput) (Row, error) {
	cond, err := compileWhere(pc, table, in.Where)
	if err != nil {
		return nil, err
	}
	one := 1
	rows, err := selectRows(pc, table, cond, in.OrderBy, &one, in.Skip)
	if err != nil {
		return nil, err
	}
	if err := fetchIncludes(pc, table, rows, in.Include); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return applySelect(rows[0], in.Select), nil
}

func findMany(pc *planContext, table string, in FindManyInput) ([]Row, error) {
	cond, err := compileWhere(pc, table, in.Where)
	if err != nil {
		return nil, err
	}
	rows, err := selectRows(pc, table, cond, in.OrderBy, in.Take, in.Skip)
	if err != nil {
		return nil, err
	}
	if err := fetchIncludes(pc, table, rows, in.Include); err != nil {
		return nil, err
	}
	return applySelectMany(rows, in.Select), nil
}

func applySelect(row Row, sel SelectInput) Row {
	if row == nil || len(sel) == 0 {
		return row
	}
	out := make(Row, len(sel))
	for field, keep := range sel {
		if !keep {
			continue
		}
		if v, ok := row[field]; ok {
			out[field] = v
		}
	}
	// relation fields attached by include expansion survive projection
	// regardless of select, since select only ever names scalar columns.
	for field, v := range row {
		if _, known := sel[field]; !known {
			if _, isRelation := v.(Row); isRelation {
				out[field] = v
			} else if _, isRelation := v.([]Row); isRelation {
				out[field] = v
			}
		}
	}
	return out
}

func applySelectMany(rows []Row, sel SelectInput) []Row {
	if len(sel) == 0 {
		return rows
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = applySelect(r, sel)
	}
	return out
}

// fetchIncludes is the central read algorithm (§4.4.1). For every included
// relation field it collects the parent-side key values, issues one
// recursive findMany against the related table restricted to those keys,
// and joins the results back onto the parent rows in memory -- no SQL JOIN
// is ever used here, so each nested level can independently enforce arity
// and apply its own ordering/pagination.
//
// Relations are processed strictly one at a time, in map-iteration order
// made deterministic by sorting relation field names, because nested
// mutation paths elsewhere in this package rely on include expansion
// finishing one relation fully before starting the next.
func fetchIncludes(pc *planContext, table string, rows []Row, include IncludeInput) error {
	include = omitCountFromSelectAndInclude(include)
	if len(include) == 0 || len(rows) == 0 {
		return nil
	}

	for _, relationField := range sortedKeys(include) {
		arg := include[relationField]
		if b, ok := arg.(bool); ok && !b {
			continue
		}

		rel, err := pc.registry.GetRelation(table, relationField)
		if err != nil {
			return newInvalidArgument(table+"."+relationField, "unknown include field")
		}

		keySet, byKey := collectParentKeys(rows, rel)
		if len(keySet) == 0 {
			attachEmpty(rows, rel)
			continue
		}

		nested := nestedFindInput(arg)
		nested.Where = mergeKeyFilter(nested.Where, otherSideField(rel), keySet)

		related, err := findMany(pc, rel.RelatedTable, nested)
		if err != nil {
			return err
		}

		if err := joinRelation(rows, related, rel, byKey); err != nil {
			return err
		}
	}

	return nil
}

func sortedKeys(m IncludeInput) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// stable, deterministic order; simple insertion sort is fine at this
	// scale (include trees are never large).
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// otherSideField is the column on the related table joined against: on an
// outgoing relation the related table's toField is already the related
// side's own primary key, so the *related* rows are matched on toField;
// dually for incoming relations the related rows are matched on fromField.
func otherSideField(rel schema.RelationDescriptor) string {
	if rel.Direction == schema.DirectionOutgoing {
		return rel.ToField
	}
	return rel.FromField
}

// parentSideField is the column read off each parent row to build the key
// set collected for the follow-up query.
func parentSideField(rel schema.RelationDescriptor) string {
	if rel.Direction == schema.DirectionOutgoing {
		return rel.FromField
	}
	return rel.ToField
}

func collectParentKeys(rows []Row, rel schema.RelationDescriptor) ([]any, map[any][]Row) {
	field := parentSideField(rel)
	seen := make(map[any]bool)
	var keys []any
	byKey := make(map[any][]Row)
	for _, r := range rows {
		v, ok := r[field]
		if !ok || v == nil {
			continue
		}
		if !seen[v] {
			seen[v] = true
			keys = append(keys, v)
		}
		byKey[v] = append(byKey[v], r)
	}
	return keys, byKey
}

// nestedFindInput accepts either the typed FindManyInput Go callers are
// expected to pass (the per-table wrapper a code generator would emit from
// the registry, per §9 DESIGN NOTES) or a dynamic map[string]any, for
// callers that build the include tree from untyped data.
func nestedFindInput(arg any) FindManyInput {
	switch v := arg.(type) {
	case FindManyInput:
		return v
	case *FindManyInput:
		if v != nil {
			return *v
		}
	case map[string]any:
		in := FindManyInput{}
		if w, ok := v["where"].(map[string]any); ok {
			in.Where = w
		}
		if inc, ok := v["include"].(map[string]any); ok {
			in.Include = inc
		}
		if sel, ok := v["select"].(map[string]bool); ok {
			in.Select = sel
		}
		if take, ok := v["take"].(int); ok {
			in.Take = &take
		}
		return in
	}
	return FindManyInput{}
}

func mergeKeyFilter(where WhereInput, field string, keys []any) WhereInput {
	out := make(WhereInput, len(where)+1)
	for k, v := range where {
		out[k] = v
	}
	out[field] = map[string]any{"in": keys}
	return out
}

func attachEmpty(rows []Row, rel schema.RelationDescriptor) {
	for _, r := range rows {
		if rel.Arity == schema.ArityMany {
			r[rel.RelationField] = []Row{}
		}
		// arity one with no candidates: field simply omitted, per spec.
	}
}

// joinRelation performs the in-memory join step: for each parent row,
// attach the related rows whose otherSideField equals the parent's
// parentSideField.
func joinRelation(rows []Row, related []Row, rel schema.RelationDescriptor, byKey map[any][]Row) error {
	field := otherSideField(rel)
	grouped := make(map[any][]Row)
	for _, r := range related {
		v := r[field]
		if v == nil {
			continue
		}
		grouped[v] = append(grouped[v], r)
	}

	for key, parents := range byKey {
		matches := grouped[key]
		for _, parent := range parents {
			switch rel.Arity {
			case schema.ArityOne:
				if len(matches) > 1 {
					return newInvalidArgument(rel.Table+"."+rel.RelationField,
						"Relation %s is one-to-one but found several related objects", rel.RelationName)
				}
				if len(matches) == 1 {
					parent[rel.RelationField] = matches[0]
				}
			case schema.ArityMany:
				cp := make([]Row, len(matches))
				copy(cp, matches)
				parent[rel.RelationField] = cp
			}
		}
	}
	return nil
}
