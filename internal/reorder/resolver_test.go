package reorder

import (
	"testing"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		rel         float64
		containment bool
		want        domain.Position
	}{
		{0.0, true, domain.Above},
		{0.24, true, domain.Above},
		{0.25, true, domain.Inside},
		{0.75, true, domain.Inside},
		{0.76, true, domain.Below},
		{1.0, false, domain.Below},
		{0.3, false, domain.Above},
		{0.49, false, domain.Above},
		{0.5, false, domain.Below},
		{0.7, false, domain.Below},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.rel, tt.containment), "rel=%v containment=%v", tt.rel, tt.containment)
	}
}

func TestResolve_TieGoesToFirstRow(t *testing.T) {
	o, err := NewOutline([]*domain.Node{
		node("virt_1", "A", nil),
		node("virt_2", "B", nil),
		node("virt_3", "C", nil),
	}, DefaultGeometry(), false)
	require.NoError(t, err)
	src, _ := o.Element("virt_3")
	rows := o.Rows()

	// Exactly on the boundary between the first two rows.
	p := Point{X: 5, Y: rows[0].Rect.Bottom()}
	for i := 0; i < 3; i++ {
		d, found := Resolve(rows, src, p, DefaultOptions())
		require.True(t, found)
		assert.Equal(t, "virt_1", d.Target.ID)
		assert.Equal(t, domain.Below, d.Position)
		assert.True(t, d.Valid)
	}
}

func TestResolve_SnapDistance(t *testing.T) {
	o, err := NewOutline([]*domain.Node{node("virt_1", "A", nil), node("virt_2", "B", nil)}, DefaultGeometry(), false)
	require.NoError(t, err)
	src, _ := o.Element("virt_2")
	rows := o.Rows()[:1]

	_, found := Resolve(rows, src, Point{X: 5, Y: rows[0].Rect.CenterY() + 79}, DefaultOptions())
	assert.True(t, found)
	_, found = Resolve(rows, src, Point{X: 5, Y: rows[0].Rect.CenterY() + 80}, DefaultOptions())
	assert.False(t, found)
}

func TestResolve_HorizontalTolerance(t *testing.T) {
	o, err := NewOutline([]*domain.Node{
		node("virt_1", "A", nil, node("sg_1", "B", nil, node("sg_2", "C", nil))),
		node("virt_2", "D", nil),
	}, DefaultGeometry(), false)
	require.NoError(t, err)
	src, _ := o.Element("virt_2")
	deep, _ := o.Element("sg_2")
	r, ok := o.RowOf(deep)
	require.True(t, ok)

	opts := DefaultOptions()
	d, found := Resolve(o.Rows(), src, Point{X: r.Rect.X - 50, Y: r.Rect.CenterY()}, opts)
	require.True(t, found)
	assert.Equal(t, "sg_2", d.Target.ID)

	d, found = Resolve(o.Rows(), src, Point{X: r.Rect.X - 51, Y: r.Rect.CenterY()}, opts)
	require.True(t, found)
	assert.NotEqual(t, "sg_2", d.Target.ID, "deep row rejected, a shallower one wins")

	_, found = Resolve(o.Rows(), src, Point{X: r.Rect.X + r.Rect.W + 51, Y: r.Rect.CenterY()}, opts)
	assert.False(t, found)
}

func TestResolve_InsideWhenContainerAccepts(t *testing.T) {
	o, err := NewOutline([]*domain.Node{
		node("tipo_1", "Receitas", nil, node("cc_1", "Loja", nil)),
		node("tipo_2", "Custos", nil),
	}, DefaultGeometry(), false)
	require.NoError(t, err)
	src, _ := o.Element("cc_1")
	target, _ := o.Element("tipo_2")
	r, _ := o.RowOf(target)

	d, found := Resolve(o.Rows(), src, Point{X: 5, Y: r.Rect.CenterY()}, DefaultOptions())
	require.True(t, found)
	assert.Equal(t, domain.Inside, d.Position)
	assert.True(t, d.Valid)

	d, found = Resolve(o.Rows(), src, Point{X: 5, Y: r.Rect.Y + 2}, DefaultOptions())
	require.True(t, found)
	assert.Equal(t, domain.Above, d.Position)
	assert.False(t, d.Valid, "cost centers never sit at root")
}
