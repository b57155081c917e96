package orm

// This file defines the canonical operation records the validator (C2)
// produces and the relational query engine (C4) consumes. Each Go struct
// below is the systems-language rendering of one tagged variant from the
// spec's operation record: FindUniqueInput is the Create variant's dual,
// and so on. Because the schema-validation layer is an external
// collaborator (C2 in validator.go only runs structural checks), these structs carry the
// raw, already-validated `data`/`where`/`select`/`include` maps rather than
// per-table generated types -- the per-table typed wrapper is the Client's
// job (client.go), not the engine's.

// WhereInput is a structured filter: each key is a scalar field name
// (compiled to an equality or operator condition). A relation field name is
// rejected as an invalid argument; filtering through a relation is not
// supported. AND/OR/NOT may appear as the special
// keys "AND", "OR", "NOT" holding a []WhereInput (or WhereInput for NOT).
type WhereInput = map[string]any

// DataInput is the `data` payload of a create/update call: scalar field
// values plus, for relation fields, a nested write map (see NestedWrite).
type DataInput = map[string]any

// SelectInput/IncludeInput describe which scalar fields / related tables to
// project. A `false` include value skips the relation; any other value is
// itself a FindManyInput describing the nested read.
type SelectInput = map[string]bool
type IncludeInput = map[string]any

type OrderByClause struct {
	Field     string
	Ascending bool
}

type FindUniqueInput struct {
	Where   WhereInput
	Select  SelectInput
	Include IncludeInput
}

type FindFirstInput struct {
	Where   WhereInput
	Select  SelectInput
	Include IncludeInput
	OrderBy []OrderByClause
	Skip    *int
}

type FindManyInput struct {
	Where   WhereInput
	Select  SelectInput
	Include IncludeInput
	OrderBy []OrderByClause
	Take    *int
	Skip    *int
}

type CreateInput struct {
	Data    DataInput
	Select  SelectInput
	Include IncludeInput
}

type CreateManyInput struct {
	Data []DataInput
}

type UpdateInput struct {
	Where   WhereInput
	Data    DataInput
	Select  SelectInput
	Include IncludeInput
}

type UpdateManyInput struct {
	Where WhereInput
	Data  DataInput
}

type UpsertInput struct {
	Where   WhereInput
	Create  DataInput
	Update  DataInput
	Select  SelectInput
	Include IncludeInput
}

type DeleteInput struct {
	Where   WhereInput
	Select  SelectInput
	Include IncludeInput
}

type DeleteManyInput struct {
	Where WhereInput
}

// NestedWrite is the parsed form of a relation-field value found inside a
// DataInput passed to create/update. Only the keys the caller actually
// supplied are populated; everything else is the zero value. The create
// and update planners each accept a different subset and reject the rest
// with a fixed InvalidArgument message (per spec §4.4.2/§4.4.4).
type NestedWrite struct {
	HasCreate          bool
	Create             []DataInput // normalized to a slice even for a bare object
	HasConnect         bool
	HasConnectOrCreate bool
	HasCreateMany      bool
	HasUpdate          bool
	Update             []NestedUpdateEntry
	HasUpdateMany      bool
	UpdateMany         []NestedUpdateManyEntry
	HasDelete          bool
	HasDeleteMany      bool
}

type NestedUpdateEntry struct {
	Where WhereInput // nil when arity one: matched on the relation's toField
	Data  DataInput
}

type NestedUpdateManyEntry struct {
	Where WhereInput
	Data  DataInput
}

// parseNestedWrite normalizes a raw relation-field value (always a
// map[string]any with one or more of the known DSL keys) into a NestedWrite.
func parseNestedWrite(path string, value any) (*NestedWrite, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, newInvalidArgument(path, "expected a nested write object")
	}

	nw := &NestedWrite{}

	if v, ok := m["create"]; ok {
		nw.HasCreate = true
		nw.Create = normalizeDataList(v)
	}
	if _, ok := m["connect"]; ok {
		nw.HasConnect = true
	}
	if _, ok := m["connectOrCreate"]; ok {
		nw.HasConnectOrCreate = true
	}
	if _, ok := m["createMany"]; ok {
		nw.HasCreateMany = true
	}
	if v, ok := m["update"]; ok {
		nw.HasUpdate = true
		entries, err := normalizeUpdateEntries(path, v)
		if err != nil {
			return nil, err
		}
		nw.Update = entries
	}
	if v, ok := m["updateMany"]; ok {
		nw.HasUpdateMany = true
		entries, err := normalizeUpdateManyEntries(path, v)
		if err != nil {
			return nil, err
		}
		nw.UpdateMany = entries
	}
	if _, ok := m["delete"]; ok {
		nw.HasDelete = true
	}
	if _, ok := m["deleteMany"]; ok {
		nw.HasDeleteMany = true
	}

	return nw, nil
}

func normalizeDataList(v any) []DataInput {
	switch val := v.(type) {
	case map[string]any:
		return []DataInput{val}
	case []map[string]any:
		out := make([]DataInput, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out
	case []any:
		out := make([]DataInput, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func normalizeUpdateEntries(path string, v any) ([]NestedUpdateEntry, error) {
	toEntry := func(m map[string]any) (NestedUpdateEntry, error) {
		entry := NestedUpdateEntry{}
		if w, ok := m["where"]; ok {
			wm, ok := w.(map[string]any)
			if !ok {
				return entry, newInvalidArgument(path, "where must be an object")
			}
			entry.Where = wm
		}
		if d, ok := m["data"]; ok {
			dm, ok := d.(map[string]any)
			if !ok {
				return entry, newInvalidArgument(path, "data must be an object")
			}
			entry.Data = dm
		} else {
			// allow the bare-data shorthand `{update: {field: value}}` for
			// to-one relations, where there is no separate where/data split
			entry.Data = m
		}
		return entry, nil
	}

	switch val := v.(type) {
	case map[string]any:
		e, err := toEntry(val)
		if err != nil {
			return nil, err
		}
		return []NestedUpdateEntry{e}, nil
	case []any:
		out := make([]NestedUpdateEntry, 0, len(val))
		for _, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, newInvalidArgument(path, "update array entries must be objects")
			}
			e, err := toEntry(m)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	default:
		return nil, newInvalidArgument(path, "update must be an object or array")
	}
}

func normalizeUpdateManyEntries(path string, v any) ([]NestedUpdateManyEntry, error) {
	toEntry := func(m map[string]any) NestedUpdateManyEntry {
		entry := NestedUpdateManyEntry{}
		if w, ok := m["where"].(map[string]any); ok {
			entry.Where = w
		}
		if d, ok := m["data"].(map[string]any); ok {
			entry.Data = d
		} else {
			entry.Data = m
		}
		return entry
	}

	switch val := v.(type) {
	case map[string]any:
		return []NestedUpdateManyEntry{toEntry(val)}, nil
	case []any:
		out := make([]NestedUpdateManyEntry, 0, len(val))
		for _, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, newInvalidArgument(path, "updateMany array entries must be objects")
			}
			out = append(out, toEntry(m))
		}
		return out, nil
	default:
		return nil, newInvalidArgument(path, "updateMany must be an object or array")
	}
}
