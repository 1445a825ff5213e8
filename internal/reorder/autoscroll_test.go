package reorder

import (
	"fmt"
	"testing"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longFixture(n int) []*domain.Node {
	var children []*domain.Node
	for i := 1; i <= n; i++ {
		children = append(children, node(fmt.Sprintf("sg_%d", i), fmt.Sprintf("Subgroup %d", i), rank(i*10)))
	}
	return []*domain.Node{node("virt_1", "Ajustes", rank(10), children...)}
}

func TestAutoScroll_ArmsNearBottomEdgeOnly(t *testing.T) {
	h := newHarness(t, longFixture(20), DefaultOptions())
	h.outline.SetViewportHeight(5 * 48)
	h.begin("sg_1")

	h.ctrl.PointerMove(Point{X: 30, Y: 5*48 - 10})
	assert.Equal(t, uint64(1), h.ctrl.AutoScrolling())
	assert.True(t, h.timer.armed[1])

	h.ctrl.PointerMove(Point{X: 30, Y: 100})
	assert.Equal(t, uint64(0), h.ctrl.AutoScrolling())
	assert.Empty(t, h.timer.armed)

	// Top edge while already at the top: nothing to scroll.
	h.ctrl.PointerMove(Point{X: 30, Y: 5})
	assert.Equal(t, uint64(0), h.ctrl.AutoScrolling())
}

func TestAutoScroll_TickScrollsAndRecomputes(t *testing.T) {
	h := newHarness(t, longFixture(20), DefaultOptions())
	h.outline.SetViewportHeight(5 * 48)
	h.begin("sg_1")

	p := Point{X: 30, Y: 5*48 - 10}
	h.ctrl.PointerMove(p)
	id := h.ctrl.AutoScrolling()
	require.NotZero(t, id)
	before := h.ctrl.Session().Decision.Target.ID

	for i := 0; i < 6; i++ {
		require.True(t, h.ctrl.AutoScrollTick(id))
	}
	assert.Equal(t, 96.0, h.outline.ScrollY())
	assert.NotEqual(t, before, h.ctrl.Session().Decision.Target.ID, "target follows the scrolled rows")

	assert.False(t, h.ctrl.AutoScrollTick(id+1), "stale id ignored")
}

func TestAutoScroll_StopsAtContentEnd(t *testing.T) {
	h := newHarness(t, longFixture(6), DefaultOptions())
	h.outline.SetViewportHeight(6 * 48)
	h.begin("sg_1")

	h.ctrl.PointerMove(Point{X: 30, Y: 6*48 - 5})
	id := h.ctrl.AutoScrolling()
	require.NotZero(t, id)

	ticks := 0
	for h.ctrl.AutoScrollTick(id) {
		ticks++
		require.Less(t, ticks, 100)
	}
	assert.Equal(t, uint64(0), h.ctrl.AutoScrolling())
	assert.Equal(t, h.outline.ContentHeight()-6*48, h.outline.ScrollY())
}

func TestAutoScroll_NeverOutlivesSession(t *testing.T) {
	h := newHarness(t, longFixture(20), DefaultOptions())
	h.outline.SetViewportHeight(5 * 48)
	h.begin("sg_1")

	h.ctrl.PointerMove(Point{X: 30, Y: 5*48 - 10})
	id := h.ctrl.AutoScrolling()
	require.NotZero(t, id)

	h.ctrl.EndDrag(Point{X: 30, Y: 5*48 - 10})
	assert.Empty(t, h.timer.armed)
	assert.Equal(t, timerEvent{"stop", id}, h.timer.events[len(h.timer.events)-1])
	assert.False(t, h.ctrl.AutoScrollTick(id))
}

func TestAutoScroll_AtMostOneArmed(t *testing.T) {
	h := newHarness(t, longFixture(20), DefaultOptions())
	h.outline.SetViewportHeight(5 * 48)
	h.begin("sg_1")

	for i := 0; i < 5; i++ {
		h.ctrl.PointerMove(Point{X: 30, Y: 5*48 - 10})
		assert.Len(t, h.timer.armed, 1)
	}
	h.ctrl.Cancel()
	assert.Empty(t, h.timer.armed)
}
