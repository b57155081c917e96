package orm

// deleteRecord is _delete from §4.4.6: fetch the pre-image (so callers can
// see what was removed, and so select/include can be honored), then issue a
// single-row DELETE against the same where.
func deleteRecord(pc *planContext, table string, in DeleteInput) (Row, error) {
	if err := validateWhereRequired("delete", table, in.Where); err != nil {
		return nil, err
	}

	og, err := findUniqueWithoutAutoSelect(pc, table, in.Where)
	if err != nil {
		return nil, err
	}
	if og == nil {
		return nil, newRecordNotFound(table, "Delete")
	}

	if err := fetchIncludes(pc, table, []Row{og}, in.Include); err != nil {
		return nil, err
	}
	result := applySelect(og, in.Select)

	cond, err := compileWhere(pc, table, in.Where)
	if err != nil {
		return nil, err
	}
	if _, err := pc.tx.Model(table).Delete().WhereCondition(cond).Exec(pc.ctx); err != nil {
		return nil, newAdapterError("delete "+table, err)
	}

	return result, nil
}
