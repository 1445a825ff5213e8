package reorder

import (
	"testing"
	"time"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/stretchr/testify/require"
)

func rank(n int) *int { return &n }

func node(id, text string, order *int, children ...*domain.Node) *domain.Node {
	return &domain.Node{ID: id, Text: text, Order: order, Children: children}
}

// dreFixture is a small statement tree:
//
//	tipo_1 Receitas
//	  cc_7 Comercial
//	    sg_1 Vendas
//	      conta_501 Produtos
//	      conta_502 Mercadorias
//	    sg_2 Servicos
//	    sg_3 Outros
//	virt_3 Ajustes
//	  det_9 Arredondamento
func dreFixture() []*domain.Node {
	return []*domain.Node{
		node("tipo_1", "Receitas", rank(10),
			node("cc_7", "Comercial", rank(10),
				node("sg_1", "Vendas", rank(10),
					node("conta_501", "Produtos", rank(10)),
					node("conta_502", "Mercadorias", rank(20)),
				),
				node("sg_2", "Servicos", rank(20)),
				node("sg_3", "Outros", rank(30)),
			),
		),
		node("virt_3", "Ajustes", rank(20),
			node("det_9", "Arredondamento", rank(10)),
		),
	}
}

type commitRecorder struct {
	batches []contract.ReorderBatch
}

func (r *commitRecorder) Commit(b contract.ReorderBatch) {
	r.batches = append(r.batches, b)
}

type timerEvent struct {
	op string
	id uint64
}

type fakeTimer struct {
	events []timerEvent
	armed  map[uint64]bool
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{armed: map[uint64]bool{}}
}

func (f *fakeTimer) Start(id uint64, _ time.Duration) {
	f.events = append(f.events, timerEvent{"start", id})
	f.armed[id] = true
}

func (f *fakeTimer) Stop(id uint64) {
	f.events = append(f.events, timerEvent{"stop", id})
	delete(f.armed, id)
}

type harness struct {
	t       *testing.T
	outline *Outline
	ctrl    *Controller
	commits *commitRecorder
	timer   *fakeTimer
}

func newHarness(t *testing.T, nodes []*domain.Node, opts Options) *harness {
	t.Helper()
	o, err := NewOutline(nodes, DefaultGeometry(), true)
	require.NoError(t, err)
	h := &harness{t: t, outline: o, commits: &commitRecorder{}, timer: newFakeTimer()}
	h.ctrl = NewController(o, h.commits, h.timer, opts)
	h.ctrl.EnableDragDrop()
	return h
}

func (h *harness) el(id string) *Element {
	h.t.Helper()
	el, ok := h.outline.Element(id)
	require.True(h.t, ok, "element %s", id)
	return el
}

func (h *harness) row(id string) Row {
	h.t.Helper()
	r, ok := h.outline.RowOf(h.el(id))
	require.True(h.t, ok, "row %s not rendered", id)
	return r
}

// at returns a point over the row of id, rel is the fraction of the row height.
func (h *harness) at(id string, rel float64) Point {
	r := h.row(id)
	return Point{X: r.Rect.X + 5, Y: r.Rect.Y + rel*r.Rect.H}
}

func (h *harness) begin(id string) {
	h.t.Helper()
	require.NoError(h.t, h.ctrl.BeginDrag(id, h.at(id, 0.5)))
}

func (h *harness) childIDs(parentID string) []string {
	if parentID == domain.RootContext {
		return SiblingIDs(h.outline.Root())
	}
	return SiblingIDs(h.el(parentID))
}
