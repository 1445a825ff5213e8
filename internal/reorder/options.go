package reorder

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/dretree/internal/domain"
)

// Options tunes the drag engine. Distances are in layout units.
type Options struct {
	// HorizontalTolerance widens each row box when matching the pointer.
	HorizontalTolerance float64
	// SnapDistance is the largest vertical distance from a row centre that
	// still selects the row.
	SnapDistance float64

	// AutoScrollMargin is the band at the viewport edges that starts scrolling.
	AutoScrollMargin float64
	// AutoScrollStep is the distance scrolled on every tick.
	AutoScrollStep float64
	// AutoScrollEvery is the tick interval.
	AutoScrollEvery time.Duration

	// Draggable restricts which node types get a drag handle. nil allows all.
	Draggable func(domain.NodeType) bool

	Logger *slog.Logger
}

// DefaultOptions returns the tuning used with DefaultGeometry.
func DefaultOptions() Options {
	return Options{
		HorizontalTolerance: 50,
		SnapDistance:        80,
		AutoScrollMargin:    40,
		AutoScrollStep:      16,
		AutoScrollEvery:     50 * time.Millisecond,
	}
}

func (o Options) draggable(t domain.NodeType) bool {
	if !t.Valid() {
		return false
	}
	if o.Draggable == nil {
		return true
	}
	return o.Draggable(t)
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
