package orm

import (
	"context"

	"github.com/rediwo/redi-orm/schema"
	"github.com/rediwo/redi-orm/types"
)

// Client is the engine's top-level handle: one Executor (transaction
// owner) plus the external collaborators the spec deliberately keeps out of
// the core (§1) -- change notification, replication shaping, and per-table
// transform hooks. NewClient defaults every collaborator to a no-op so the
// engine is usable standalone; a caller wires in real implementations by
// passing options.
type Client struct {
	executor    *Executor
	registry    *schema.Registry
	notifier    Notifier
	shapes      ShapeManager
	replication ReplicationTransformManager
}

type ClientOption func(*Client)

func WithNotifier(n Notifier) ClientOption { return func(c *Client) { c.notifier = n } }
func WithShapeManager(s ShapeManager) ClientOption {
	return func(c *Client) { c.shapes = s }
}
func WithReplicationTransformManager(r ReplicationTransformManager) ClientOption {
	return func(c *Client) { c.replication = r }
}

func NewClient(db types.Database, registry *schema.Registry, opts ...ClientOption) *Client {
	c := &Client{
		executor:    NewExecutor(db, registry),
		registry:    registry,
		notifier:    NullNotifier{},
		shapes:      nil,
		replication: nullReplicationTransformManager{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the per-table operation surface named in §6: create,
// createMany, findUnique, findFirst, findMany, update, updateMany, upsert,
// delete, deleteMany, sync, liveUnique, liveFirst, liveMany,
// setReplicationTransform, clearReplicationTransform.
func (c *Client) Table(name string) *TableClient {
	return &TableClient{client: c, table: name}
}

type TableClient struct {
	client *Client
	table  string
}

func (t *TableClient) run(ctx context.Context, fn func(pc *planContext) (any, error)) (any, error) {
	return t.client.executor.Run(ctx, fn)
}

func (t *TableClient) notify() {
	t.client.notifier.NotifyTableChanged(t.table)
}

func (t *TableClient) Create(ctx context.Context, in CreateInput) (Row, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return createRecord(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	t.notify()
	return result.(Row), nil
}

func (t *TableClient) CreateMany(ctx context.Context, in CreateManyInput) (int64, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return createMany(pc, t.table, in)
	})
	if err != nil {
		return 0, err
	}
	t.notify()
	return result.(int64), nil
}

func (t *TableClient) FindUnique(ctx context.Context, in FindUniqueInput) (Row, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return findUnique(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	row, _ := result.(Row)
	return row, nil
}

func (t *TableClient) FindFirst(ctx context.Context, in FindFirstInput) (Row, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return findFirst(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	row, _ := result.(Row)
	return row, nil
}

func (t *TableClient) FindMany(ctx context.Context, in FindManyInput) ([]Row, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return findMany(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Row), nil
}

func (t *TableClient) Update(ctx context.Context, in UpdateInput) (Row, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return updateRecord(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	t.notify()
	return result.(Row), nil
}

func (t *TableClient) UpdateMany(ctx context.Context, in UpdateManyInput) (int64, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return updateMany(pc, t.table, in)
	})
	if err != nil {
		return 0, err
	}
	t.notify()
	return result.(int64), nil
}

func (t *TableClient) Upsert(ctx context.Context, in UpsertInput) (Row, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return upsertRecord(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	t.notify()
	return result.(Row), nil
}

func (t *TableClient) Delete(ctx context.Context, in DeleteInput) (Row, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return deleteRecord(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	t.notify()
	return result.(Row), nil
}

func (t *TableClient) DeleteMany(ctx context.Context, in DeleteManyInput) (int64, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return deleteMany(pc, t.table, in)
	})
	if err != nil {
		return 0, err
	}
	t.notify()
	return result.(int64), nil
}

// Aggregate computes Count plus any requested Sum/Avg fields over the rows
// matching in.Where, entirely in memory over the same row shape findMany
// produces (§6).
func (t *TableClient) Aggregate(ctx context.Context, in AggregateInput) (*AggregateResult, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return aggregate(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	return result.(*AggregateResult), nil
}

// GroupBy partitions the rows matching in.Where by in.By and computes
// Count/Sum/Avg independently per partition, applying in.Having to the
// aggregated values (§6).
func (t *TableClient) GroupBy(ctx context.Context, in GroupByInput) ([]GroupByRow, error) {
	result, err := t.run(ctx, func(pc *planContext) (any, error) {
		return groupBy(pc, t.table, in)
	})
	if err != nil {
		return nil, err
	}
	return result.([]GroupByRow), nil
}

// Sync compiles a where filter into a fully-materialized SQL fragment for
// the server-side shape/replication path (§4.4.8) -- it performs no query
// of its own.
func (t *TableClient) Sync(where any) (string, error) {
	return CompileWhereToSQL(t.client.registry, t.table, where)
}

func (t *TableClient) LiveUnique(in FindUniqueInput) (*LiveQuery, error) {
	return newLiveQuery(t.client.executor, t.client.notifier, t.client.registry, t.table, in.Include, func(pc *planContext) (any, error) {
		return findUnique(pc, t.table, in)
	})
}

func (t *TableClient) LiveFirst(in FindFirstInput) (*LiveQuery, error) {
	return newLiveQuery(t.client.executor, t.client.notifier, t.client.registry, t.table, in.Include, func(pc *planContext) (any, error) {
		return findFirst(pc, t.table, in)
	})
}

func (t *TableClient) LiveMany(in FindManyInput) (*LiveQuery, error) {
	return newLiveQuery(t.client.executor, t.client.notifier, t.client.registry, t.table, in.Include, func(pc *planContext) (any, error) {
		return findMany(pc, t.table, in)
	})
}

func (t *TableClient) SetReplicationTransform(transform func(row map[string]any) map[string]any) {
	t.client.replication.SetTableTransform(t.table, transform)
}

func (t *TableClient) ClearReplicationTransform() {
	t.client.replication.ClearTableTransform(t.table)
}

// TrackedTables exposes the transitive closure computed for live queries
// (§4.5) so a caller's ShapeManager can build its own Shape subscription
// without duplicating the include-tree walk.
func (t *TableClient) TrackedTables(include IncludeInput) ([]string, error) {
	return trackedTables(t.client.registry, t.table, include)
}

// Subscribe hands a caller-built ShapeManager the table list for an include
// tree. The engine never decides how shapes map to subscriptions; it only
// supplies TrackedTables and delegates here.
func (t *TableClient) Subscribe(ctx context.Context, include IncludeInput, shapes []Shape, key string) (func(), error) {
	if t.client.shapes == nil {
		return func() {}, nil
	}
	return t.client.shapes.Subscribe(ctx, shapes, key)
}

// RawQuery runs the sniffed raw-read path (§4.4.7) against no particular
// table -- it is exposed on Client rather than TableClient since a raw
// query may join or read across tables.
func (c *Client) RawQuery(ctx context.Context, query string, args ...any) ([]Row, error) {
	result, err := c.executor.Run(ctx, func(pc *planContext) (any, error) {
		return rawQuery(pc, query, args)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Row), nil
}

// UnsafeExec bypasses the dangerous-statement sniffer entirely.
func (c *Client) UnsafeExec(ctx context.Context, query string, args ...any) ([]Row, error) {
	result, err := c.executor.Run(ctx, func(pc *planContext) (any, error) {
		return unsafeExec(pc, query, args)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Row), nil
}
