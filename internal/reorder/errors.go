package reorder

import "errors"

var (
	// ErrSessionActive is returned when a gesture starts while another is in progress.
	ErrSessionActive = errors.New("drag session already active")

	// ErrNotDraggable is returned for rows without a drag handle.
	ErrNotDraggable = errors.New("row is not draggable")

	// ErrUnknownRow is returned for ids that are not in the outline.
	ErrUnknownRow = errors.New("unknown row")

	// ErrNotRendered is returned when the source row is hidden inside a collapsed container.
	ErrNotRendered = errors.New("row is not rendered")

	// ErrInvalidPlacement is returned by direct moves that break the hierarchy rules.
	ErrInvalidPlacement = errors.New("placement violates hierarchy rules")
)
