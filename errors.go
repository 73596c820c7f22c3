package stencilbuilder

import "errors"

var (
	// ErrInputImage marks an unreadable or empty source image. It is
	// surfaced at submission time, before any pipeline stage runs.
	ErrInputImage = errors.New("stencilbuilder: invalid input image")
	// ErrConfiguration marks an invalid option, palette, or layer
	// assignment, rejected before the worker starts.
	ErrConfiguration = errors.New("stencilbuilder: invalid configuration")
	// ErrBusy is returned by Runner.Submit while a run is in flight.
	ErrBusy = errors.New("stencilbuilder: processing already in progress")
)
