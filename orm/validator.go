package orm

// This file is C2, the operation validator/transformer. It is deliberately
// thin: the spec treats the declarative schema-validation layer as an
// external collaborator the core merely invokes (§6 "Validator"), and no
// library in the example corpus supplies a declarative per-table validator
// shape the engine could drive generically (no go-playground/validator,
// no ozzo-validation, nothing comparable appears in any retrieved go.mod).
// Rather than fabricate a dependency, C2 is implemented directly against
// the Schema Registry (C1): every check below is the kind of structural
// check a generated per-table JSON-schema validator would perform, just
// written by hand against schema.Registry instead of against a generated
// schema document.

// omitCountFromSelectAndInclude drops any "_count" aggregator key from a
// select/include map before it reaches the relational query engine --
// invariant 4: "Validator schemas for create/update strip any _count
// aggregator from select/include subtrees before reaching C4." Aggregation
// projection is a query-engine feature orthogonal to the nested planner
// this package implements, so the key is silently dropped rather than
// honored or rejected.
func omitCountFromSelectAndInclude(include IncludeInput) IncludeInput {
	if include == nil {
		return nil
	}
	if _, ok := include["_count"]; !ok {
		return include
	}
	out := make(IncludeInput, len(include)-1)
	for k, v := range include {
		if k == "_count" {
			continue
		}
		out[k] = v
	}
	return out
}

// validateNoNestedRelations rejects relation-field entries in the data of
// createMany/updateMany payloads (deleteMany carries no data) (§4.4.3: "These operations do
// not accept nested relation fields; validators must reject such inputs").
func validateNoNestedRelations(pc *planContext, table string, data DataInput) error {
	relations, err := pc.registry.GetRelations(table)
	if err != nil {
		return err
	}
	relationFields := make(map[string]bool, len(relations))
	for _, r := range relations {
		relationFields[r.RelationField] = true
	}
	for field := range data {
		if relationFields[field] {
			return newInvalidArgument(table+"."+field, "nested relation writes are not supported in batch operations")
		}
	}
	return nil
}

// validateWhereRequired enforces that update/delete/upsert always carry a
// where clause -- an empty or nil where is never implicitly "match all" at
// this layer, unlike updateMany/deleteMany which accept one.
func validateWhereRequired(op, table string, where WhereInput) error {
	if len(where) == 0 {
		return newInvalidArgument(table, "%s requires a non-empty where", op)
	}
	return nil
}
