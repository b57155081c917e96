package orm

import (
	"context"

	"github.com/rediwo/redi-orm/schema"
	"github.com/rediwo/redi-orm/types"
)

// planContext is the handle every planner receives. It plays the role the
// spec assigns to the continuation-passing plan's `db` argument: a single
// transactional handle good for the whole top-level call, plus the schema
// registry nested planners need to resolve relations and field types
// ("withTableSchema" in the spec's executor description).
//
// The spec expresses planners as `plan(opInput, db, onResult, onError)`
// continuations. §9 DESIGN NOTES explicitly sanctions rendering that as a
// sequential function holding the handle instead in a systems language --
// "the contract is identical" -- so every planner in this package is a
// plain Go function returning (value, error): the first non-nil error is
// exactly one failure continuation, and a nil error with a value is exactly
// one success continuation.
type planContext struct {
	ctx      context.Context
	tx       types.Transaction
	registry *schema.Registry
}

func (pc *planContext) fields(table string) (map[string]schema.Field, error) {
	return pc.registry.GetFields(table)
}

// Executor wraps the adapter (types.Database) and runs planners inside one
// logical transaction, committing on success and rolling back on the first
// error -- the "at-most-one terminal callback" guarantee from §4.3.
type Executor struct {
	db       types.Database
	registry *schema.Registry
}

func NewExecutor(db types.Database, registry *schema.Registry) *Executor {
	return &Executor{db: db, registry: registry}
}

// Run executes fn inside a single transaction. Every public operation on
// Client goes through this, including pure reads: the spec requires every
// top-level call to own one transactional handle for its duration, and the
// in-memory join performed by include expansion must see a consistent
// snapshot across its follow-up queries.
func (e *Executor) Run(ctx context.Context, fn func(pc *planContext) (any, error)) (any, error) {
	var result any
	err := e.db.Transaction(ctx, func(tx types.Transaction) error {
		pc := &planContext{ctx: ctx, tx: tx, registry: e.registry}
		r, ferr := fn(pc)
		if ferr != nil {
			return ferr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
