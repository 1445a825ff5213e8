package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/dretree/internal/db"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/alexanderramin/dretree/internal/repository"
)

type seedNode struct {
	id, text string
	children []seedNode
}

// demoStatement is a compact income statement used by `serve --seed`.
var demoStatement = []seedNode{
	{"tipo_1", "Receita Bruta", []seedNode{
		{"cc_10", "Comercial", []seedNode{
			{"sg_100", "Vendas de Produtos", []seedNode{
				{"conta_1001", "Produtos Nacionais", nil},
				{"conta_1002", "Produtos Importados", nil},
			}},
			{"sg_101", "Servicos", []seedNode{
				{"conta_1011", "Consultoria", nil},
			}},
		}},
		{"cc_11", "Online", []seedNode{
			{"sg_110", "E-commerce", []seedNode{
				{"conta_1101", "Marketplace", nil},
			}},
		}},
	}},
	{"tipo_2", "Custos", []seedNode{
		{"cc_20", "Producao", []seedNode{
			{"sg_200", "Materia-prima", []seedNode{
				{"conta_2001", "Insumos", nil},
				{"conta_2002", "Embalagens", nil},
			}},
			{"sg_201", "Mao de obra", []seedNode{
				{"conta_2011", "Salarios Producao", nil},
			}},
		}},
	}},
	{"tipo_3", "Despesas Operacionais", []seedNode{
		{"cc_30", "Administrativo", []seedNode{
			{"sg_300", "Pessoal", []seedNode{
				{"conta_3001", "Salarios Adm", nil},
				{"conta_3002", "Beneficios", nil},
			}},
			{"sg_301", "Ocupacao", []seedNode{
				{"conta_3011", "Aluguel", nil},
			}},
		}},
	}},
	{"virt_1", "Ajustes Gerenciais", []seedNode{
		{"sg_900", "Rateios", []seedNode{
			{"det_9001", "Rateio TI", nil},
		}},
		{"det_9002", "Arredondamentos", nil},
	}},
	{"sg_950", "Resultado Financeiro", []seedNode{
		{"conta_9501", "Juros", nil},
		{"conta_9502", "Tarifas", nil},
	}},
}

func (s *orderService) Seed(ctx context.Context, ranked bool) (n int, err error) {
	fields := map[string]any{"ranked": ranked}
	defer observe(ctx, s.observer, "seed", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNodes := repository.NewSQLiteNodeRepo(tx)
		existing, err := txNodes.ListAll(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		var insert func(nodes []seedNode, parent string) error
		insert = func(nodes []seedNode, parent string) error {
			for i, sn := range nodes {
				rec, err := domain.NewRecord(sn.id, sn.text, parent)
				if err != nil {
					return fmt.Errorf("seed node %s: %w", sn.id, err)
				}
				if ranked {
					rank := domain.RankAt(i)
					rec.Rank = &rank
				}
				if err := txNodes.Create(ctx, rec); err != nil {
					return err
				}
				n++
				if err := insert(sn.children, sn.id); err != nil {
					return err
				}
			}
			return nil
		}
		return insert(demoStatement, domain.RootContext)
	})
	fields["nodes"] = n
	if err != nil {
		return 0, err
	}
	return n, nil
}
