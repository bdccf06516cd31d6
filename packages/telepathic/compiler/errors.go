package compiler

import (
	"fmt"

	"telepathic-go/packages/telepathic/marker"
)

// BindingIntegrityError is returned when the attribute pass meets a marker
// whose binding the text pass did not create
type BindingIntegrityError struct {
	Marker marker.Marker
	Key    marker.Path
}

// Error implements the error interface
func (e *BindingIntegrityError) Error() string {
	return fmt.Sprintf("no binding registered for %s (key %q)", e.Marker, e.Key)
}

// UnknownPathWarning reports a marker path the property schema does not declare
type UnknownPathWarning struct {
	Path marker.Path
}

func (w *UnknownPathWarning) Error() string {
	return fmt.Sprintf("path %q is not declared in the property schema", w.Path)
}
