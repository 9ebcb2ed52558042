package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned when no image is loaded or no regions are given.
	ErrMissingInput = errors.New("no image loaded")
	// ErrInvalidConfig is returned for non-positive or non-numeric slice settings.
	ErrInvalidConfig = errors.New("invalid slice configuration")
	// ErrPageCountExceeded is matched by every *PageCountError.
	ErrPageCountExceeded = errors.New("too many pages")
	// ErrRenderAnomaly marks a page that could not be cropped from the image.
	ErrRenderAnomaly = errors.New("render anomaly")
	// ErrExportInProgress is returned when an action is attempted during an export.
	ErrExportInProgress = errors.New("export in progress")
)

// PageCountError reports a configuration that would produce more than Max pages.
type PageCountError struct {
	Count int
	Max   int
}

// Error implements the error interface.
func (e *PageCountError) Error() string {
	return fmt.Sprintf("current settings would produce too many pages (%d pages, limit %d); adjust the slice size", e.Count, e.Max)
}

// Is matches ErrPageCountExceeded.
func (e *PageCountError) Is(target error) bool {
	return target == ErrPageCountExceeded
}
