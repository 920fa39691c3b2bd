package parser

import (
	"fmt"
)

// ErrInputFile indicates the LandXML file is missing or unreadable.
type ErrInputFile struct {
	Path string
	Err  error
}

func (e *ErrInputFile) Error() string {
	return fmt.Sprintf("landxml file %q missing or invalid: %v", e.Path, e.Err)
}

func (e *ErrInputFile) Unwrap() error {
	return e.Err
}

// ErrInvalidDocument indicates the input is not well-formed XML.
type ErrInvalidDocument struct {
	Reason string
}

func (e *ErrInvalidDocument) Error() string {
	return fmt.Sprintf("invalid landxml document: %s", e.Reason)
}

// ErrInvalidGeometry indicates a decoded part cannot form the requested geometry.
type ErrInvalidGeometry struct {
	Kind   string
	Reason string
}

func (e *ErrInvalidGeometry) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("invalid geometry (%s): %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}
