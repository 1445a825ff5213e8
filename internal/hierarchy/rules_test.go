package hierarchy

import (
	"testing"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allPositions = []domain.Position{domain.Above, domain.Below, domain.Inside}

var allContexts = append([]domain.NodeType{Root}, domain.NodeTypes...)

func TestAcceptsChild_ExhaustiveWhitelist(t *testing.T) {
	want := map[domain.NodeType][]domain.NodeType{
		domain.TypeGroup:    {domain.CostCenter},
		domain.VirtualGroup: {domain.Subgroup, domain.AccountDetail},
		domain.CostCenter:   {domain.Subgroup},
	}

	containers := append(append([]domain.NodeType{}, domain.NodeTypes...), "unknown", Root)
	for _, container := range containers {
		allowed := map[domain.NodeType]bool{}
		for _, c := range want[container] {
			allowed[c] = true
		}
		for _, child := range domain.NodeTypes {
			assert.Equal(t, allowed[child], AcceptsChild(container, child),
				"AcceptsChild(%s, %s)", container, child)
		}
	}
}

func TestIsValidPlacement_InsideMatchesAcceptsChild(t *testing.T) {
	for _, dragged := range domain.NodeTypes {
		for _, target := range domain.NodeTypes {
			for _, ctx := range allContexts {
				assert.Equal(t,
					AcceptsChild(target, dragged),
					IsValidPlacement(dragged, target, ctx, domain.Inside),
					"dragged=%s target=%s ctx=%s", dragged, target, ctx)
			}
		}
	}
}

func TestIsValidPlacement_AdjacencyTable(t *testing.T) {
	want := map[domain.NodeType][]domain.NodeType{
		domain.TypeGroup:     {Root},
		domain.VirtualGroup:  {Root},
		domain.CostCenter:    {domain.TypeGroup},
		domain.Subgroup:      {domain.CostCenter, domain.VirtualGroup, domain.Subgroup, Root},
		domain.Account:       {domain.Subgroup},
		domain.AccountDetail: {domain.Subgroup, domain.VirtualGroup},
	}
	for _, dragged := range domain.NodeTypes {
		allowed := map[domain.NodeType]bool{}
		for _, c := range want[dragged] {
			allowed[c] = true
		}
		for _, ctx := range allContexts {
			for _, pos := range []domain.Position{domain.Above, domain.Below} {
				assert.Equal(t, allowed[ctx],
					IsValidPlacement(dragged, domain.Subgroup, ctx, pos),
					"dragged=%s ctx=%s pos=%s", dragged, ctx, pos)
			}
		}
	}
}

func TestIsValidPlacement_UnknownPosition(t *testing.T) {
	assert.False(t, IsValidPlacement(domain.Subgroup, domain.CostCenter, domain.CostCenter, "sideways"))
}

func TestIsValidPlacement_AccountNeverInsideSubgroup(t *testing.T) {
	assert.False(t, IsValidPlacement(domain.Account, domain.Subgroup, domain.CostCenter, domain.Inside))
	assert.True(t, IsValidPlacement(domain.Account, domain.Account, domain.Subgroup, domain.Above))
	assert.True(t, IsValidPlacement(domain.AccountDetail, domain.VirtualGroup, Root, domain.Inside))
}

func TestContextTypeOf(t *testing.T) {
	ct, err := ContextTypeOf(domain.RootContext)
	require.NoError(t, err)
	assert.Equal(t, Root, ct)

	ct, err = ContextTypeOf("virt_3")
	require.NoError(t, err)
	assert.Equal(t, domain.VirtualGroup, ct)

	_, err = ContextTypeOf("nope")
	assert.Error(t, err)
}

func TestAllowedParents_RootFirst(t *testing.T) {
	assert.Equal(t,
		[]domain.NodeType{Root, domain.VirtualGroup, domain.CostCenter, domain.Subgroup},
		AllowedParents(domain.Subgroup))
	assert.Empty(t, AllowedParents("unknown"))
}

func TestStructuralChildren_SubgroupHoldsLeafTypes(t *testing.T) {
	assert.Equal(t,
		[]domain.NodeType{domain.Subgroup, domain.Account, domain.AccountDetail},
		StructuralChildren(domain.Subgroup))
	assert.Equal(t,
		[]domain.NodeType{domain.CostCenter},
		StructuralChildren(domain.TypeGroup))
	assert.Equal(t,
		[]domain.NodeType{domain.TypeGroup, domain.VirtualGroup, domain.Subgroup},
		StructuralChildren(Root))
}

func TestAcceptedChildren(t *testing.T) {
	assert.Equal(t, []domain.NodeType{domain.Subgroup, domain.AccountDetail}, AcceptedChildren(domain.VirtualGroup))
	assert.Empty(t, AcceptedChildren(domain.Account))
}

func TestRulesAreReadOnlyThroughAPI(t *testing.T) {
	parents := AllowedParents(domain.Account)
	parents[0] = Root
	assert.False(t, CanSitUnder(domain.Account, Root))
}
