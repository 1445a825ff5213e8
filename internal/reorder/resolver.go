package reorder

import (
	"math"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/hierarchy"
)

// Decision is the outcome of one drop-target computation.
type Decision struct {
	Target   *Element
	Position domain.Position
	Valid    bool
}

// zone boundaries as a fraction of row height.
const (
	zoneAbove = 0.25
	zoneBelow = 0.75
)

// classify maps a relative vertical position within the target row to a drop
// position. The middle band means inside when the target can contain the
// dragged type and otherwise falls back to the nearer edge.
func classify(rel float64, containment bool) domain.Position {
	switch {
	case rel < zoneAbove:
		return domain.Above
	case rel > zoneBelow:
		return domain.Below
	case containment:
		return domain.Inside
	case rel < 0.5:
		return domain.Above
	default:
		return domain.Below
	}
}

// contextTypeOf returns the rule-table context for children of parent.
func contextTypeOf(parent *Element) domain.NodeType {
	if parent == nil || parent.IsRoot() {
		return hierarchy.Root
	}
	return parent.Type()
}

// Resolve finds the drop candidate for a pointer position. Rows belonging to
// the dragged subtree and the placeholder are never candidates. A row is
// eligible when the pointer is within the horizontal tolerance of its box; the
// eligible row with the nearest vertical centre wins if it lies closer than
// the snap distance. Equal distances resolve to the first row in document
// order. found is false when no row qualifies.
func Resolve(rows []Row, source *Element, p Point, opts Options) (d Decision, found bool) {
	var best *Row
	bestDist := math.Inf(1)
	for i := range rows {
		r := &rows[i]
		if r.El.IsPlaceholder() || source.Contains(r.El) {
			continue
		}
		if !r.Rect.WithinX(p.X, opts.HorizontalTolerance) {
			continue
		}
		if dist := math.Abs(p.Y - r.Rect.CenterY()); dist < bestDist {
			best, bestDist = r, dist
		}
	}
	if best == nil || bestDist >= opts.SnapDistance {
		return Decision{}, false
	}

	rel := 0.5
	if best.Rect.H > 0 {
		rel = (p.Y - best.Rect.Y) / best.Rect.H
	}
	dragged, target := source.Type(), best.El.Type()
	pos := classify(rel, hierarchy.AcceptsChild(target, dragged))
	valid := hierarchy.IsValidPlacement(dragged, target, contextTypeOf(best.El.Parent()), pos)
	return Decision{Target: best.El, Position: pos, Valid: valid}, true
}
