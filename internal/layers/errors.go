package layers

import "fmt"

// ErrInvalidTable indicates a table that cannot be written as-is.
type ErrInvalidTable struct {
	Table  string
	Reason string
}

func (e *ErrInvalidTable) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("invalid table %q: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("invalid table: %s", e.Reason)
}
