package reorder

import "time"

// Timer schedules the repeating auto-scroll tick. Start arms a timer that
// keeps calling Controller.AutoScrollTick(id) every interval; Stop disarms it.
// The controller never has more than one id armed.
type Timer interface {
	Start(id uint64, every time.Duration)
	Stop(id uint64)
}

type noopTimer struct{}

func (noopTimer) Start(uint64, time.Duration) {}
func (noopTimer) Stop(uint64)                 {}

type autoScroll struct {
	id  uint64
	dir float64
}

func (c *Controller) stopAutoScroll() {
	if c.scroll.id == 0 {
		return
	}
	c.timer.Stop(c.scroll.id)
	c.scroll = autoScroll{}
}

// evaluateAutoScroll arms the timer while the pointer is inside the edge
// margin of the viewport and the outline can still scroll that way.
func (c *Controller) evaluateAutoScroll(p Point) {
	vp := c.outline.Viewport()
	if vp.H <= 0 {
		return
	}
	var dir float64
	switch {
	case p.Y < vp.Y+c.opts.AutoScrollMargin:
		dir = -1
	case p.Y > vp.Bottom()-c.opts.AutoScrollMargin:
		dir = 1
	default:
		return
	}
	if !c.outline.CanScroll(dir) {
		return
	}
	c.timerSeq++
	c.scroll = autoScroll{id: c.timerSeq, dir: dir}
	c.timer.Start(c.scroll.id, c.opts.AutoScrollEvery)
}

// AutoScrollTick advances the armed auto-scroll. It returns false when id is
// stale or scrolling has stopped, in which case the caller must not re-arm.
func (c *Controller) AutoScrollTick(id uint64) bool {
	if c.session == nil || c.scroll.id == 0 || c.scroll.id != id {
		return false
	}
	if c.outline.ScrollBy(c.scroll.dir*c.opts.AutoScrollStep) == 0 {
		c.stopAutoScroll()
		return false
	}
	c.resolve(c.session.Pointer)
	return true
}

// AutoScrolling reports the armed timer id, zero when idle.
func (c *Controller) AutoScrolling() uint64 {
	return c.scroll.id
}
