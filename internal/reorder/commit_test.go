package reorder

import (
	"testing"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBatch_RanksFollowDocumentOrder(t *testing.T) {
	o, err := NewOutline(longFixture(7), DefaultGeometry(), true)
	require.NoError(t, err)
	parent, _ := o.Element("virt_1")
	o.insert(parent, 3, newPlaceholder())

	b := BuildBatch(parent)
	assert.Equal(t, "virt_1", b.ParentContext)
	require.Len(t, b.OrderedList, 7)
	for i, it := range b.OrderedList {
		assert.Equal(t, (i+1)*domain.RankInterval, it.Rank)
		assert.Equal(t, SiblingIDs(parent)[i], it.NodeID())
	}
	require.NoError(t, b.Validate())
}

func TestBuildBatch_RootContext(t *testing.T) {
	o, err := NewOutline(dreFixture(), DefaultGeometry(), true)
	require.NoError(t, err)

	b := BuildBatch(o.Root())
	assert.Equal(t, domain.RootContext, b.ParentContext)
	assert.Equal(t, []contract.OrderItem{
		{Type: domain.TypeGroup, ReferenceID: "1", Rank: 10},
		{Type: domain.VirtualGroup, ReferenceID: "3", Rank: 20},
	}, b.OrderedList)
}

func TestBuildBatch_EmptyParent(t *testing.T) {
	o, err := NewOutline(dreFixture(), DefaultGeometry(), true)
	require.NoError(t, err)
	sg, _ := o.Element("sg_2")

	b := BuildBatch(sg)
	assert.Equal(t, "sg_2", b.ParentContext)
	assert.NotNil(t, b.OrderedList)
	assert.Empty(t, b.OrderedList)
}

func TestCommitFunc(t *testing.T) {
	var got contract.ReorderBatch
	var c Committer = CommitFunc(func(b contract.ReorderBatch) { got = b })
	c.Commit(contract.ReorderBatch{ParentContext: "cc_1"})
	assert.Equal(t, "cc_1", got.ParentContext)
}
