package formatter

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences for stripping before golden comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// goldenTest compares got against a golden file in testdata/<name>.golden.
// Set GOLDEN_UPDATE=1 to regenerate golden files.
func goldenTest(t *testing.T, name, got string) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")
	stripped := stripANSI(got)

	if os.Getenv("GOLDEN_UPDATE") == "1" {
		require.NoError(t, os.MkdirAll("testdata", 0755))
		require.NoError(t, os.WriteFile(goldenPath, []byte(stripped), 0644))
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s does not exist; run with GOLDEN_UPDATE=1 to create it", goldenPath)
	}
	require.NoError(t, err)

	assert.Equal(t, string(expected), stripped,
		"output does not match golden file %s; run with GOLDEN_UPDATE=1 to update", goldenPath)
}

func rank(n int) *int { return &n }

func dreForest() []*domain.Node {
	return []*domain.Node{
		{ID: "tipo_1", Type: domain.TypeGroup, Text: "Receitas", Order: rank(10), Children: []*domain.Node{
			{ID: "cc_7", Type: domain.CostCenter, Text: "Comercial", Order: rank(10), Children: []*domain.Node{
				{ID: "sg_1", Type: domain.Subgroup, Text: "Vendas", Order: rank(10), Children: []*domain.Node{
					{ID: "conta_501", Type: domain.Account, Text: "Produtos", Order: rank(10)},
					{ID: "conta_502", Type: domain.Account, Text: "Mercadorias", Order: rank(20)},
				}},
				{ID: "sg_2", Type: domain.Subgroup, Text: "Servicos", Order: rank(20)},
			}},
		}},
		{ID: "virt_3", Type: domain.VirtualGroup, Text: "Ajustes", Order: rank(20), Children: []*domain.Node{
			{ID: "det_9", Type: domain.AccountDetail, Text: "Arredondamento", Order: rank(10)},
		}},
	}
}

func TestRenderTree_Golden_RankedStatement(t *testing.T) {
	goldenTest(t, "dre_tree", RenderTree(TreeItems(dreForest(), true)))
}
