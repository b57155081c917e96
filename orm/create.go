package orm

import (
	"github.com/rediwo/redi-orm/schema"
	"github.com/rediwo/redi-orm/types"
)

// createRecord is _create from §4.4.2: outgoing relations are resolved
// before the base insert (their created ids become this row's FK columns),
// incoming relations are resolved after (they need this row's own key), and
// a re-fetch resolves whatever the database defaulted or auto-generated.
func createRecord(pc *planContext, table string, in CreateInput) (Row, error) {
	data := cloneData(in.Data)

	fields, err := pc.fields(table)
	if err != nil {
		return nil, err
	}
	relations, err := pc.registry.GetRelations(table)
	if err != nil {
		return nil, err
	}
	outgoing, incoming := partitionRelations(relations)

	// 1. Outgoing-relation pre-pass.
	for _, field := range sortedRelationFields(outgoing) {
		rel := outgoing[field]
		v, ok := data[field]
		if !ok {
			continue
		}

		nw, err := parseNestedWrite(table+"."+field, v)
		if err != nil {
			return nil, err
		}
		if nw.HasConnect || nw.HasConnectOrCreate || nw.HasCreateMany {
			return nil, newInvalidArgument(table+"."+field,
				"connect, connectOrCreate, and createMany are not supported inside create; only {create: ...} is accepted")
		}
		if !nw.HasCreate || len(nw.Create) != 1 {
			return nil, newInvalidArgument(table+"."+field, "expected a single {create: <object>} nested write")
		}

		createdRelated, err := createRecord(pc, rel.RelatedTable, CreateInput{Data: nw.Create[0]})
		if err != nil {
			return nil, err
		}

		delete(data, field)
		data[rel.FromField] = createdRelated[rel.ToField]
	}

	// Partition what remains into real scalar columns (the base insert)
	// versus incoming-relation writes (handled after the insert).
	scalarData := make(DataInput)
	for k, v := range data {
		if _, isIncoming := incoming[k]; isIncoming {
			continue
		}
		field, isField := fields[k]
		if !isField {
			return nil, newInvalidArgument(table+"."+k, "unknown field")
		}
		scalarData[k] = convertScalar(field, v)
	}

	// 2. Base insert.
	result, err := pc.tx.Model(table).Insert(scalarData).Exec(pc.ctx)
	if err != nil {
		return nil, newAdapterError("insert "+table, err)
	}
	if result.RowsAffected != 1 {
		return nil, newInvalidArgument(table, "Wrong amount of objects were created")
	}

	// 3. Incoming-relation post-pass, sequential, after the base insert --
	// only now is the parent's own key known.
	for _, field := range sortedRelationFields(incoming) {
		rel := incoming[field]
		v, ok := data[field]
		if !ok {
			continue
		}
		nw, err := parseNestedWrite(table+"."+field, v)
		if err != nil {
			return nil, err
		}
		if nw.HasConnect || nw.HasConnectOrCreate || nw.HasCreateMany {
			return nil, newInvalidArgument(table+"."+field,
				"connect, connectOrCreate, and createMany are not supported inside create; only {create: ...} is accepted")
		}
		if !nw.HasCreate {
			continue
		}

		parentKey := resolveGeneratedValue(fields, scalarData, result, rel.ToField)
		for _, childData := range nw.Create {
			cd := cloneData(childData)
			cd[rel.FromField] = parentKey
			if _, err := createRecord(pc, rel.RelatedTable, CreateInput{Data: cd}); err != nil {
				return nil, err
			}
		}
	}

	// 4. Re-fetch: where is every scalar value actually supplied to the
	// base insert, not the caller's original input and not anything
	// contributed by the incoming-relation pass. See §9's open question --
	// this can raise NotUnique if two rows now share every supplied
	// scalar; that is the documented, intentional behavior.
	created, err := findUniqueWithoutAutoSelect(pc, table, WhereInput(scalarData))
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, newRecordNotFound(table, "Create")
	}

	if err := fetchIncludes(pc, table, []Row{created}, in.Include); err != nil {
		return nil, err
	}
	return applySelect(created, in.Select), nil
}

func cloneData(data DataInput) DataInput {
	out := make(DataInput, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func partitionRelations(relations []schema.RelationDescriptor) (outgoing, incoming map[string]schema.RelationDescriptor) {
	outgoing = make(map[string]schema.RelationDescriptor)
	incoming = make(map[string]schema.RelationDescriptor)
	for _, r := range relations {
		if r.Direction == schema.DirectionOutgoing {
			outgoing[r.RelationField] = r
		} else {
			incoming[r.RelationField] = r
		}
	}
	return
}

// sortedRelationFields gives a deterministic processing order. The spec
// asks for declaration order, but the teacher's Schema.Relations is itself
// a map (schema/schema.go), so declaration order isn't preserved upstream
// of this package either; sorting by field name is the closest stable
// substitute (documented in DESIGN.md).
func sortedRelationFields(m map[string]schema.RelationDescriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func resolveGeneratedValue(fields map[string]schema.Field, scalarData DataInput, result types.Result, column string) any {
	if v, ok := scalarData[column]; ok {
		return v
	}
	if f, ok := fields[column]; ok && f.AutoIncrement {
		return result.LastInsertID
	}
	return nil
}
