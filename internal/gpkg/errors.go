package gpkg

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDestination is returned when no container path was given.
	ErrNoDestination = errors.New("gpkg: destination path is required")
	// ErrNoTables is returned when the selection is empty.
	ErrNoTables = errors.New("gpkg: at least one table is required")
)

// ErrWriteTable indicates a structurally valid table failed to persist.
type ErrWriteTable struct {
	Path  string
	Table string
	Err   error
}

func (e *ErrWriteTable) Error() string {
	return fmt.Sprintf("gpkg: write table %q to %s: %v", e.Table, e.Path, e.Err)
}

func (e *ErrWriteTable) Unwrap() error {
	return e.Err
}
