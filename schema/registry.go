package schema

import "fmt"

// Direction describes which side of a relation carries the foreign key column.
type Direction string

const (
	// DirectionOutgoing means the FK column lives on the table that declares
	// the relation (A -> B, A.fromField references B.toField).
	DirectionOutgoing Direction = "outgoing"
	// DirectionIncoming is the dual: the FK column lives on the related table.
	DirectionIncoming Direction = "incoming"
)

// Arity controls how include assembly attaches related rows.
type Arity string

const (
	ArityOne  Arity = "one"
	ArityMany Arity = "many"
)

// RelationDescriptor is the registry's normalized view of a Relation, with
// direction/arity/fromField/toField resolved regardless of which side of the
// edge it was declared on.
type RelationDescriptor struct {
	RelationField string // name of the virtual field exposing the related record(s)
	RelationName  string // globally unique label identifying the two-sided edge
	Table         string // the table this descriptor is attached to (A)
	RelatedTable  string // B
	Direction     Direction
	Arity         Arity
	FromField     string // FK column, always named as on the outgoing side
	ToField       string // referenced column, always named as on the outgoing side
}

// ErrUnknownEntity is raised when a lookup key (table, field, relation) is
// not present in the registry.
type ErrUnknownEntity struct {
	Kind string // "table", "field", "relation"
	Key  string
}

func (e *ErrUnknownEntity) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.Key)
}

// Registry holds the declarative description of every table reachable by
// the relational query engine. It is built once from parsed schema
// definitions (see package prisma) and is immutable thereafter; every
// lookup method is a pure function of its inputs.
type Registry struct {
	tables map[string]*Schema
	// relations[table] is the list of relation descriptors attached to that
	// table. Finalize builds it by ranging over maps, so declaration order is
	// not preserved and the order is not stable between runs.
	relations map[string][]RelationDescriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables:    make(map[string]*Schema),
		relations: make(map[string][]RelationDescriptor),
	}
}

// Register adds a table's schema to the registry. Call Finalize once every
// table has been registered so that incoming relations can be derived from
// the outgoing declarations of related tables.
func (r *Registry) Register(s *Schema) {
	r.tables[s.Name] = s
}

// Finalize walks every registered schema's outgoing relations and builds the
// dual incoming descriptor on the related table, satisfying invariant 1
// ("every relation is registered on both tables"). Call this once after all
// Register calls complete.
func (r *Registry) Finalize() error {
	r.relations = make(map[string][]RelationDescriptor, len(r.tables))

	for _, s := range r.tables {
		for field, rel := range s.Relations {
			desc, err := r.describeOutgoing(s, field, rel)
			if err != nil {
				return err
			}
			r.relations[s.Name] = append(r.relations[s.Name], desc)
		}
	}

	// Synthesize the dual on the related table for every relation whose
	// inverse wasn't independently declared there.
	for table, descs := range r.relations {
		for _, d := range descs {
			if d.Direction != DirectionOutgoing {
				continue
			}
			if r.hasDualDeclared(d) {
				continue
			}
			dual := RelationDescriptor{
				RelationField: inverseFieldName(table, d),
				RelationName:  d.RelationName,
				Table:         d.RelatedTable,
				RelatedTable:  table,
				Direction:     DirectionIncoming,
				Arity:         ArityMany,
				FromField:     d.FromField,
				ToField:       d.ToField,
			}
			r.relations[d.RelatedTable] = append(r.relations[d.RelatedTable], dual)
		}
	}

	return nil
}

// hasDualDeclared reports whether the related table already carries an
// independently-declared incoming relation for the same FK edge as out.
// Matching on (FromField, ToField, RelatedTable) rather than RelationName
// is deliberate: relationName() embeds the declaring field's name, which
// differs between the two sides of a manually-declared two-sided relation
// (e.g. "Post.author->User" vs "User.posts->Post"), so RelationName alone
// would never recognize a legitimately-declared dual and would synthesize a
// spurious duplicate alongside it.
func (r *Registry) hasDualDeclared(out RelationDescriptor) bool {
	for _, d := range r.relations[out.RelatedTable] {
		if d.Direction == DirectionIncoming &&
			d.RelatedTable == out.Table &&
			d.FromField == out.FromField &&
			d.ToField == out.ToField {
			return true
		}
	}
	return false
}

func inverseFieldName(table string, d RelationDescriptor) string {
	return table + "_via_" + d.RelationName
}

func (r *Registry) describeOutgoing(s *Schema, field string, rel Relation) (RelationDescriptor, error) {
	related, ok := r.tables[rel.Model]
	if !ok {
		return RelationDescriptor{}, &ErrUnknownEntity{Kind: "table", Key: rel.Model}
	}

	direction := DirectionOutgoing
	arity := ArityOne
	fromField := rel.ForeignKey
	toField := rel.References
	table := s.Name
	relatedTable := related.Name

	switch rel.Type {
	case RelationManyToOne:
		direction = DirectionOutgoing
		arity = ArityOne
	case RelationOneToMany:
		// FK lives on the related table; this field is the incoming side
		// expressed directly on A, so flip perspective: treat it as
		// outgoing from B's point of view but return a descriptor attached
		// to A with direction=incoming.
		direction = DirectionIncoming
		arity = ArityMany
		if fromField == "" {
			fromField = defaultForeignKeyName(s.Name)
		}
		if toField == "" {
			toField = "id"
		}
		return RelationDescriptor{
			RelationField: field,
			RelationName:  relationName(s.Name, related.Name, field),
			Table:         table,
			RelatedTable:  relatedTable,
			Direction:     direction,
			Arity:         arity,
			FromField:     fromField,
			ToField:       toField,
		}, nil
	case RelationOneToOne:
		arity = ArityOne
		if _, err := s.GetField(rel.ForeignKey); err == nil {
			direction = DirectionOutgoing
		} else {
			direction = DirectionIncoming
			if fromField == "" {
				fromField = defaultForeignKeyName(s.Name)
			}
			if toField == "" {
				toField = "id"
			}
			return RelationDescriptor{
				RelationField: field,
				RelationName:  relationName(s.Name, related.Name, field),
				Table:         table,
				RelatedTable:  relatedTable,
				Direction:     direction,
				Arity:         arity,
				FromField:     fromField,
				ToField:       toField,
			}, nil
		}
	case RelationManyToMany:
		// Many-to-many has no direct FK column; the registry still exposes
		// it so read-side include expansion can join through the junction
		// table, but it carries an empty FromField/ToField and nested
		// writes against it are rejected by the write planner (the spec's
		// two-sided FK model has no home for it).
		direction = DirectionOutgoing
		arity = ArityMany
	}

	if toField == "" {
		toField = "id"
	}

	return RelationDescriptor{
		RelationField: field,
		RelationName:  relationName(s.Name, related.Name, field),
		Table:         table,
		RelatedTable:  relatedTable,
		Direction:     direction,
		Arity:         arity,
		FromField:     fromField,
		ToField:       toField,
	}, nil
}

func defaultForeignKeyName(tableName string) string {
	if len(tableName) == 0 {
		return tableName
	}
	return string(toLowerFirst(tableName)) + "Id"
}

func toLowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] + ('a' - 'A')
	}
	return string(r)
}

func relationName(a, b, field string) string {
	return a + "." + field + "->" + b
}

// Table returns the schema for a registered table.
func (r *Registry) Table(name string) (*Schema, error) {
	s, ok := r.tables[name]
	if !ok {
		return nil, &ErrUnknownEntity{Kind: "table", Key: name}
	}
	return s, nil
}

// GetFields returns the field descriptors of a table, keyed by field name.
func (r *Registry) GetFields(table string) (map[string]Field, error) {
	s, err := r.Table(table)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Field, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = f
	}
	return out, nil
}

// GetFieldNames returns the field names of a table.
func (r *Registry) GetFieldNames(table string) ([]string, error) {
	s, err := r.Table(table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names, nil
}

// GetRelations returns every relation descriptor attached to a table.
func (r *Registry) GetRelations(table string) ([]RelationDescriptor, error) {
	if _, err := r.Table(table); err != nil {
		return nil, err
	}
	return r.relations[table], nil
}

// GetRelation looks up a single relation by its virtual field name.
func (r *Registry) GetRelation(table, relationField string) (RelationDescriptor, error) {
	descs, err := r.GetRelations(table)
	if err != nil {
		return RelationDescriptor{}, err
	}
	for _, d := range descs {
		if d.RelationField == relationField {
			return d, nil
		}
	}
	return RelationDescriptor{}, &ErrUnknownEntity{Kind: "relation", Key: table + "." + relationField}
}

// GetIncomingRelations returns the relations on a table whose FK column
// lives on the related (child) table -- used by the FK-rewrite propagation.
func (r *Registry) GetIncomingRelations(table string) ([]RelationDescriptor, error) {
	descs, err := r.GetRelations(table)
	if err != nil {
		return nil, err
	}
	var out []RelationDescriptor
	for _, d := range descs {
		if d.Direction == DirectionIncoming {
			out = append(out, d)
		}
	}
	return out, nil
}

// HasRelationForField reports whether a scalar field is the FK column of
// some outgoing relation on the table.
func (r *Registry) HasRelationForField(table, field string) bool {
	descs, err := r.GetRelations(table)
	if err != nil {
		return false
	}
	for _, d := range descs {
		if d.Direction == DirectionOutgoing && d.FromField == field {
			return true
		}
	}
	return false
}

// GetRelationName returns the relation name of the outgoing relation whose
// FK column is field.
func (r *Registry) GetRelationName(table, field string) (string, error) {
	descs, err := r.GetRelations(table)
	if err != nil {
		return "", err
	}
	for _, d := range descs {
		if d.Direction == DirectionOutgoing && d.FromField == field {
			return d.RelationName, nil
		}
	}
	return "", &ErrUnknownEntity{Kind: "relation", Key: table + "." + field}
}

// GetRelatedTable returns the table a virtual relation field points at.
func (r *Registry) GetRelatedTable(table, field string) (string, error) {
	d, err := r.GetRelation(table, field)
	if err != nil {
		return "", err
	}
	return d.RelatedTable, nil
}

// GetRelationsPointingAtField returns every incoming relation (on other
// tables) whose FK references the given column on table -- i.e. every
// dependent that must be rewritten when table.field changes.
func (r *Registry) GetRelationsPointingAtField(table, field string) ([]RelationDescriptor, error) {
	if _, err := r.Table(table); err != nil {
		return nil, err
	}
	var out []RelationDescriptor
	for _, descs := range r.relations {
		for _, d := range descs {
			if d.Direction == DirectionIncoming && d.Table == table && d.ToField == field {
				out = append(out, d)
			}
		}
	}
	return out, nil
}
