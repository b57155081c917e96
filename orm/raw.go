package orm

import (
	"strings"

	sqlparser "github.com/rediwo/redi-orm/sql"
)

// rawQuery is the sniffed raw-read path from §4.4.7: the statement is run
// through the package sql parser, and anything that doesn't parse as a bare
// SELECT is rejected before it ever reaches the adapter. unsafeExec (below)
// is the explicit, unchecked escape hatch for everything else.
func rawQuery(pc *planContext, query string, args []any) ([]Row, error) {
	if err := ensureSafeSelect(query); err != nil {
		return nil, err
	}

	var rows []Row
	if err := pc.tx.Raw(query, args...).Find(pc.ctx, &rows); err != nil {
		return nil, newAdapterError("raw query", err)
	}
	return rows, nil
}

func ensureSafeSelect(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return newUnsupported("empty raw query")
	}

	stmt, err := sqlparser.NewParser(trimmed).Parse()
	if err != nil {
		return newUnsupported("raw query could not be parsed as a safe SELECT: %v", err)
	}
	if stmt.GetType() != sqlparser.StatementTypeSelect {
		return newUnsupported("raw query must be a SELECT statement")
	}
	return nil
}

// unsafeExec bypasses the dangerous-statement sniffer entirely -- any
// statement the adapter accepts is run verbatim. Callers reach this only
// through an explicitly named entry point (never rawQuery's default path).
func unsafeExec(pc *planContext, query string, args []any) ([]Row, error) {
	var rows []Row
	if err := pc.tx.Raw(query, args...).Find(pc.ctx, &rows); err != nil {
		return nil, newAdapterError("unsafe exec", err)
	}
	return rows, nil
}
