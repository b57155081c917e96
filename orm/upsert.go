package orm

// upsertRecord is _upsert from §4.4.5: a plain findUnique on Where decides
// which of the two single-record planners runs; it never issues a native
// ON CONFLICT statement, since the create and update branches each carry
// their own nested-write handling that a single SQL statement cannot express.
func upsertRecord(pc *planContext, table string, in UpsertInput) (Row, error) {
	if err := validateWhereRequired("upsert", table, in.Where); err != nil {
		return nil, err
	}

	existing, err := findUnique(pc, table, FindUniqueInput{Where: in.Where})
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return createRecord(pc, table, CreateInput{
			Data:    in.Create,
			Select:  in.Select,
			Include: in.Include,
		})
	}

	return updateRecord(pc, table, UpdateInput{
		Where:   in.Where,
		Data:    in.Update,
		Select:  in.Select,
		Include: in.Include,
	})
}
