package orm

import "fmt"

// InvalidArgumentError covers validation failures, unknown include fields,
// disallowed nested-write shapes, one-to-one arity violations on read, and
// nested updates of an unrelated object.
type InvalidArgumentError struct {
	Path    string // dotted path into the input that failed, if known
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func newInvalidArgument(path, format string, args ...any) error {
	return &InvalidArgumentError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// NotUniqueError is raised when a uniqueness query (findUnique, or the
// implicit pre-/re-fetch inside update/delete) matched more than one row.
type NotUniqueError struct {
	Table string
}

func (e *NotUniqueError) Error() string {
	return fmt.Sprintf("%s: query matched more than one record", e.Table)
}

// RecordNotFoundError is raised when a pre-image fetch (update/delete) or a
// post-insert re-fetch (create) found zero rows.
type RecordNotFoundError struct {
	Table string
	Kind  string // "Create", "Update", "Delete"
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s: record not found (%s)", e.Table, e.Kind)
}

func newRecordNotFound(table, kind string) error {
	return &RecordNotFoundError{Table: table, Kind: kind}
}

// UnsupportedError is raised when a raw query is flagged as potentially
// dangerous, or a value of an unhandled type reaches server-side where
// compilation.
type UnsupportedError struct {
	Message string
}

func (e *UnsupportedError) Error() string {
	return e.Message
}

func newUnsupported(format string, args ...any) error {
	return &UnsupportedError{Message: fmt.Sprintf(format, args...)}
}

// AdapterError wraps any error propagated verbatim from the database
// adapter (the types.Database/Transaction implementation).
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

func newAdapterError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &AdapterError{Op: op, Err: err}
}
