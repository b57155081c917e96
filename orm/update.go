package orm

import (
	"fmt"

	"github.com/rediwo/redi-orm/schema"
)

// updateRecord is _update from §4.4.4. It runs, in order: a pre-image
// fetch, the scalar column update, FK-rewrite propagation to dependents,
// nested relation updates, and a final re-fetch. Steps never interleave --
// the FK rewrite always finishes before any nested relation update starts,
// and the re-fetch is always last.
func updateRecord(pc *planContext, table string, in UpdateInput) (Row, error) {
	if err := validateWhereRequired("update", table, in.Where); err != nil {
		return nil, err
	}

	// 1. Pre-image fetch.
	og, err := findUniqueWithoutAutoSelect(pc, table, in.Where)
	if err != nil {
		return nil, err
	}
	if og == nil {
		return nil, newRecordNotFound(table, "Update")
	}

	fields, err := pc.fields(table)
	if err != nil {
		return nil, err
	}
	relations, err := pc.registry.GetRelations(table)
	if err != nil {
		return nil, err
	}
	outgoing, incoming := partitionRelations(relations)

	// 2. Partition data into scalar fields, atomic increment/decrement ops,
	// and relation fields. `{ increment: n }`/`{ decrement: n }` is the
	// teacher's UpdateQuery.Increment/Decrement atomic-op shape (compiled to
	// `col = col + ?`), offered here as an alternative to a plain value for
	// any scalar field.
	scalarData := make(DataInput)
	relationData := make(DataInput)
	atomicOps := make(map[string]atomicOp)
	for k, v := range in.Data {
		if rel, ok := outgoing[k]; ok {
			_ = rel
			relationData[k] = v
			continue
		}
		if _, ok := incoming[k]; ok {
			relationData[k] = v
			continue
		}
		field, isField := fields[k]
		if !isField {
			return nil, newInvalidArgument(table+"."+k, "unknown field")
		}
		if op, ok, err := parseAtomicOp(table+"."+k, v); err != nil {
			return nil, err
		} else if ok {
			atomicOps[k] = op
			continue
		}
		scalarData[k] = convertScalar(field, v)
	}

	// 3. Scalar update (including any atomic increment/decrement ops).
	upd := og
	if len(scalarData) > 0 || len(atomicOps) > 0 {
		cond, err := compileWhere(pc, table, in.Where)
		if err != nil {
			return nil, err
		}
		uq := pc.tx.Model(table).Update(scalarData)
		for field, op := range atomicOps {
			if op.decrement {
				uq = uq.Decrement(field, op.value)
			} else {
				uq = uq.Increment(field, op.value)
			}
		}
		if _, err := uq.WhereCondition(cond).Exec(pc.ctx); err != nil {
			return nil, newAdapterError("update "+table, err)
		}
		upd, err = findUniqueWithoutAutoSelect(pc, table, in.Where)
		if err != nil {
			return nil, err
		}
		if upd == nil {
			return nil, newRecordNotFound(table, "Update")
		}
	}

	// 4. FK rewrite: propagate every changed scalar to dependents.
	for field, newVal := range upd {
		oldVal, existed := og[field]
		if !existed || !scalarEqual(oldVal, newVal) {
			if err := rewriteForeignKeys(pc, table, field, oldVal, newVal); err != nil {
				return nil, err
			}
		}
	}

	// 5. Nested relation updates.
	nonRelationalData := make(DataInput)
	for _, field := range sortedRelationFields(outgoing) {
		v, ok := relationData[field]
		if !ok {
			continue
		}
		rel := outgoing[field]
		nw, err := parseNestedWrite(table+"."+field, v)
		if err != nil {
			return nil, err
		}
		if !nw.HasUpdate || len(nw.Update) != 1 {
			continue
		}
		childWhere := WhereInput{rel.ToField: upd[rel.FromField]}
		childResult, err := updateRecord(pc, rel.RelatedTable, UpdateInput{
			Where: childWhere,
			Data:  nw.Update[0].Data,
		})
		if err != nil {
			return nil, err
		}
		nonRelationalData[rel.FromField] = childResult[rel.ToField]
	}

	for _, field := range sortedRelationFields(incoming) {
		v, ok := relationData[field]
		if !ok {
			continue
		}
		rel := incoming[field]
		nw, err := parseNestedWrite(table+"."+field, v)
		if err != nil {
			return nil, err
		}

		if nw.HasUpdate {
			for _, entry := range nw.Update {
				if rel.Arity == schema.ArityMany {
					if len(entry.Where) == 0 {
						return nil, newInvalidArgument(table+"."+field, "nested update on a to-many relation requires where")
					}
					childResult, err := updateRecord(pc, rel.RelatedTable, UpdateInput{
						Where: entry.Where,
						Data:  entry.Data,
					})
					if err != nil {
						return nil, err
					}
					if !scalarEqual(childResult[rel.FromField], upd[rel.ToField]) {
						return nil, newInvalidArgument(table+"."+field, "Nested update cannot update an unrelated object")
					}
				} else {
					childWhere := WhereInput{rel.FromField: upd[rel.ToField]}
					if _, err := updateRecord(pc, rel.RelatedTable, UpdateInput{
						Where: childWhere,
						Data:  entry.Data,
					}); err != nil {
						return nil, err
					}
				}
			}
		}

		if nw.HasUpdateMany {
			for _, entry := range nw.UpdateMany {
				where := cloneWhere(entry.Where)
				where[rel.FromField] = upd[rel.ToField]
				if _, err := updateMany(pc, rel.RelatedTable, UpdateManyInput{Where: where, Data: entry.Data}); err != nil {
					return nil, err
				}
			}
		}
	}

	// 6. Re-fetch.
	refetchWhere := cloneWhere(in.Where)
	for k, v := range nonRelationalData {
		refetchWhere[k] = v
	}
	result, err := findUniqueWithoutAutoSelect(pc, table, refetchWhere)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, newRecordNotFound(table, "Update")
	}
	if err := fetchIncludes(pc, table, []Row{result}, in.Include); err != nil {
		return nil, err
	}
	return applySelect(result, in.Select), nil
}

// atomicOp is a parsed `{ increment: n }`/`{ decrement: n }` field op.
type atomicOp struct {
	decrement bool
	value     int64
}

// parseAtomicOp recognizes the single-key `{ increment: n }`/`{ decrement:
// n }` shape; any other value (including a multi-key map) is left for the
// caller to treat as a plain scalar.
func parseAtomicOp(path string, v any) (atomicOp, bool, error) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return atomicOp{}, false, nil
	}
	if raw, ok := m["increment"]; ok {
		n, ok := toInt64(raw)
		if !ok {
			return atomicOp{}, false, newInvalidArgument(path, "increment value must be numeric")
		}
		return atomicOp{value: n}, true, nil
	}
	if raw, ok := m["decrement"]; ok {
		n, ok := toInt64(raw)
		if !ok {
			return atomicOp{}, false, newInvalidArgument(path, "decrement value must be numeric")
		}
		return atomicOp{decrement: true, value: n}, true, nil
	}
	return atomicOp{}, false, nil
}

func toInt64(v any) (int64, bool) {
	f, ok := toFloat64(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func cloneWhere(w WhereInput) WhereInput {
	out := make(WhereInput, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func scalarEqual(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// rewriteForeignKeys is the FK-rewrite step (§4.4.6): every incoming
// relation whose referenced column is field gets its dependents' FK column
// repointed from the old to the new value.
func rewriteForeignKeys(pc *planContext, table, field string, oldVal, newVal any) error {
	pointers, err := pc.registry.GetRelationsPointingAtField(table, field)
	if err != nil {
		return err
	}
	for _, rel := range pointers {
		cond, err := compileWhere(pc, rel.RelatedTable, WhereInput{rel.FromField: oldVal})
		if err != nil {
			return err
		}
		data := DataInput{rel.FromField: newVal}
		if _, err := pc.tx.Model(rel.RelatedTable).Update(data).WhereCondition(cond).Exec(pc.ctx); err != nil {
			return newAdapterError("fk rewrite "+rel.RelatedTable, err)
		}
	}
	return nil
}
