package main

import "errors"

var (
	// ErrNodeNotFound is returned when an identity does not resolve to a live
	// node, including stale handles to a reused slot.
	ErrNodeNotFound = errors.New("node not found")

	// ErrLoopNotAllowed is returned for an edge from a node to itself when
	// self-loops are disabled.
	ErrLoopNotAllowed = errors.New("self-loop not allowed")

	// ErrParallelEdgeNotAllowed is returned for a second edge between the same
	// ordered pair when parallel edges are disabled.
	ErrParallelEdgeNotAllowed = errors.New("parallel edge not allowed")

	ErrEmptyDocument      = errors.New("empty document")
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrNothingToExport    = errors.New("nothing to export")
	ErrDiagramNotFound    = errors.New("diagram not found")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")
)
