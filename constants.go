package main

import (
	"fmt"
	"strings"
)

// EdgeType selects how a committed edge is drawn.
type EdgeType int

const (
	EdgeLine EdgeType = iota
	EdgeBezier
)

func (t EdgeType) String() string {
	switch t {
	case EdgeLine:
		return "line"
	case EdgeBezier:
		return "bezier"
	default:
		return "unknown"
	}
}

// Toggle returns the other edge type.
func (t EdgeType) Toggle() EdgeType {
	switch t {
	case EdgeLine:
		return EdgeBezier
	default:
		return EdgeLine
	}
}

func ParseEdgeType(s string) (EdgeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line":
		return EdgeLine, nil
	case "bezier", "curve":
		return EdgeBezier, nil
	}
	return EdgeLine, fmt.Errorf("unknown edge type %q", s)
}

// BusyReason names the gesture that owns the input while the manager is busy.
type BusyReason int

const (
	BusyNone BusyReason = iota
	BusyPan
	BusyZoom
	BusyDragSelect
	BusyLinkEdge
	BusyMoveNode
)

func (r BusyReason) String() string {
	switch r {
	case BusyNone:
		return "idle"
	case BusyPan:
		return "pan"
	case BusyZoom:
		return "zoom"
	case BusyDragSelect:
		return "drag-select"
	case BusyLinkEdge:
		return "link-edge"
	case BusyMoveNode:
		return "move-node"
	default:
		return "unknown"
	}
}

// Modifier is a bitmask of keyboard modifiers held during a frame.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

func (m Modifier) Has(o Modifier) bool { return o != 0 && m&o == o }

func ParseModifier(s string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shift":
		return ModShift, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "", "alt", "option", "meta":
		return ModAlt, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

// Mode is the editor front-end mode; gestures only run in ModeNormal.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeFileInput
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpExportPNG
	FileOpExportTXT
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmNewDiagram
	ConfirmQuit
)

const (
	minNodeWidth  = 8
	minNodeHeight = 3

	documentVersion = 1
	documentExt     = ".cnt"
)
