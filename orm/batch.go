package orm

import "strconv"

// This file covers §4.4.3: createMany/updateMany/deleteMany are single
// statements against the adapter's batch primitives, never a loop of
// per-row planner calls, and never accept nested relation fields.

func createMany(pc *planContext, table string, in CreateManyInput) (int64, error) {
	fields, err := pc.fields(table)
	if err != nil {
		return 0, err
	}

	rows := make([]interface{}, 0, len(in.Data))
	for i, data := range in.Data {
		if err := validateNoNestedRelations(pc, table, data); err != nil {
			return 0, err
		}
		row := make(DataInput, len(data))
		for k, v := range data {
			field, ok := fields[k]
			if !ok {
				return 0, newInvalidArgument(table+".data["+strconv.Itoa(i)+"]."+k, "unknown field")
			}
			row[k] = convertScalar(field, v)
		}
		rows = append(rows, row)
	}

	result, err := pc.tx.CreateMany(pc.ctx, table, rows)
	if err != nil {
		return 0, newAdapterError("createMany "+table, err)
	}
	return result.RowsAffected, nil
}

func updateMany(pc *planContext, table string, in UpdateManyInput) (int64, error) {
	if err := validateNoNestedRelations(pc, table, in.Data); err != nil {
		return 0, err
	}

	fields, err := pc.fields(table)
	if err != nil {
		return 0, err
	}
	scalarData := make(DataInput, len(in.Data))
	for k, v := range in.Data {
		field, ok := fields[k]
		if !ok {
			return 0, newInvalidArgument(table+"."+k, "unknown field")
		}
		scalarData[k] = convertScalar(field, v)
	}

	cond, err := compileWhere(pc, table, in.Where)
	if err != nil {
		return 0, err
	}

	result, err := pc.tx.UpdateMany(pc.ctx, table, cond, scalarData)
	if err != nil {
		return 0, newAdapterError("updateMany "+table, err)
	}
	return result.RowsAffected, nil
}

func deleteMany(pc *planContext, table string, in DeleteManyInput) (int64, error) {
	cond, err := compileWhere(pc, table, in.Where)
	if err != nil {
		return 0, err
	}
	result, err := pc.tx.DeleteMany(pc.ctx, table, cond)
	if err != nil {
		return 0, newAdapterError("deleteMany "+table, err)
	}
	return result.RowsAffected, nil
}
