package contract

import (
	"testing"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBatch() ReorderBatch {
	return ReorderBatch{
		ParentContext: "cc_7",
		OrderedList: []OrderItem{
			{Type: domain.Subgroup, ReferenceID: "3", Rank: 10},
			{Type: domain.Subgroup, ReferenceID: "1", Rank: 20},
			{Type: domain.Subgroup, ReferenceID: "2", Rank: 30},
		},
	}
}

func TestReorderBatch_Validate_OK(t *testing.T) {
	require.NoError(t, validBatch().Validate())

	root := ReorderBatch{ParentContext: domain.RootContext}
	assert.NoError(t, root.Validate(), "an empty root list is valid")
}

func TestReorderBatch_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *ReorderBatch)
	}{
		{"missing parent", func(b *ReorderBatch) { b.ParentContext = "" }},
		{"bad parent prefix", func(b *ReorderBatch) { b.ParentContext = "zz_1" }},
		{"bad type", func(b *ReorderBatch) { b.OrderedList[0].Type = "folder" }},
		{"missing ref", func(b *ReorderBatch) { b.OrderedList[1].ReferenceID = "" }},
		{"duplicate", func(b *ReorderBatch) { b.OrderedList[2].ReferenceID = "3" }},
		{"non increasing", func(b *ReorderBatch) { b.OrderedList[2].Rank = 20 }},
		{"zero rank", func(b *ReorderBatch) { b.OrderedList[0].Rank = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBatch()
			tt.mutate(&b)
			assert.Error(t, b.Validate())
		})
	}
}

func TestReorderBatch_Validate_MissingParentIsSentinel(t *testing.T) {
	b := validBatch()
	b.ParentContext = ""
	assert.ErrorIs(t, b.Validate(), ErrEmptyParentContext)
}

func TestReorderBatch_Entries(t *testing.T) {
	entries := validBatch().Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "sg_3", entries[0].NodeID())
	assert.Equal(t, 30, entries[2].Rank)
}
