package orm

import (
	"fmt"

	"github.com/rediwo/redi-orm/prisma"
	"github.com/rediwo/redi-orm/schema"
	"github.com/rediwo/redi-orm/types"
)

// LoadSchema parses a Prisma-style schema definition -- the same .prisma DSL
// the underlying driver's LoadSchema accepts -- and wires every model onto
// both db (for SQL generation and field mapping) and a freshly finalized
// schema.Registry (for the relational engine's include expansion and
// FK-rewrite propagation). The returned registry is ready to pass to
// NewClient.
func LoadSchema(db types.Database, content string) (*schema.Registry, error) {
	schemas, err := prisma.ParseSchema(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prisma schema: %w", err)
	}
	return registerSchemas(db, schemas)
}

// LoadSchemaFile is the file-path variant of LoadSchema.
func LoadSchemaFile(db types.Database, filename string) (*schema.Registry, error) {
	schemas, err := prisma.ParseSchemaFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prisma schema file: %w", err)
	}
	return registerSchemas(db, schemas)
}

func registerSchemas(db types.Database, schemas map[string]*schema.Schema) (*schema.Registry, error) {
	registry := schema.NewRegistry()
	for name, s := range schemas {
		if err := db.RegisterSchema(name, s); err != nil {
			return nil, fmt.Errorf("failed to register schema %s: %w", name, err)
		}
		registry.Register(s)
	}
	if err := registry.Finalize(); err != nil {
		return nil, fmt.Errorf("failed to finalize schema registry: %w", err)
	}
	return registry, nil
}
