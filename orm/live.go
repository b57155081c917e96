package orm

import (
	"context"

	"github.com/rediwo/redi-orm/schema"
)

// LiveQuery is the wrapper described in §4.5: a zero-arg callable that
// re-runs the underlying read and reports which tables it touched, plus a
// Subscribe method that re-invokes a callback whenever one of those tables
// changes. The engine never polls on its own; it only computes
// TrackedTables and leaves the actual subscription mechanics to whatever
// Notifier the caller wired in.
type LiveQuery struct {
	executor      *Executor
	notifier      Notifier
	table         string
	include       IncludeInput
	run           func(pc *planContext) (any, error)
	trackedTables []string
}

// Run executes the underlying read inside a fresh transaction and returns
// its result alongside the tables it depends on.
func (lq *LiveQuery) Run(ctx context.Context) (any, []string, error) {
	result, err := lq.executor.Run(ctx, lq.run)
	if err != nil {
		return nil, nil, err
	}
	return result, lq.trackedTables, nil
}

// Subscribe registers cb to be called (with a fresh Run) whenever any table
// in TrackedTables changes. It returns an unsubscribe function. This is a
// thin convenience built directly on Notifier; real change delivery is the
// ShapeManager/Notifier implementation's job, out of scope for this engine
// (§1).
func (lq *LiveQuery) Subscribe(ctx context.Context, cb func(result any, err error)) (unsubscribe func()) {
	sub, ok := lq.notifier.(interface {
		Subscribe(tables []string, onChange func()) func()
	})
	if !ok {
		return func() {}
	}
	return sub.Subscribe(lq.trackedTables, func() {
		result, _, err := lq.Run(ctx)
		cb(result, err)
	})
}

func newLiveQuery(executor *Executor, notifier Notifier, registry *schema.Registry, table string, include IncludeInput, run func(pc *planContext) (any, error)) (*LiveQuery, error) {
	tracked, err := trackedTables(registry, table, include)
	if err != nil {
		return nil, err
	}
	return &LiveQuery{
		executor:      executor,
		notifier:      notifier,
		table:         table,
		include:       include,
		run:           run,
		trackedTables: tracked,
	}, nil
}

// trackedTables computes the transitive closure of tables an include tree
// touches, starting from table itself, per §4.5.
func trackedTables(registry *schema.Registry, table string, include IncludeInput) ([]string, error) {
	seen := map[string]bool{table: true}
	order := []string{table}

	var walk func(table string, include IncludeInput) error
	walk = func(table string, include IncludeInput) error {
		for field, arg := range include {
			if field == "_count" {
				continue
			}
			if b, ok := arg.(bool); ok && !b {
				continue
			}
			rel, err := registry.GetRelation(table, field)
			if err != nil {
				return err
			}
			if !seen[rel.RelatedTable] {
				seen[rel.RelatedTable] = true
				order = append(order, rel.RelatedTable)
			}
			nested := nestedFindInput(arg)
			if err := walk(rel.RelatedTable, nested.Include); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(table, include); err != nil {
		return nil, err
	}
	return order, nil
}
