package testutil

import (
	"context"
	"testing"

	"github.com/alexanderramin/dretree/internal/domain"
)

// RecordOption customizes a test record.
type RecordOption func(*domain.Record)

func WithRank(rank int) RecordOption {
	return func(r *domain.Record) {
		r.Rank = &rank
	}
}

// NewTestRecord builds a record for a prefixed id. It panics on a bad prefix
// since fixtures are static.
func NewTestRecord(id, text, parentContext string, opts ...RecordOption) *domain.Record {
	r, err := domain.NewRecord(id, text, parentContext)
	if err != nil {
		panic(err)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type recordCreator interface {
	Create(ctx context.Context, r *domain.Record) error
}

// SeedRecords inserts records in order.
func SeedRecords(t *testing.T, repo recordCreator, records ...*domain.Record) {
	t.Helper()
	for _, r := range records {
		if err := repo.Create(context.Background(), r); err != nil {
			t.Fatalf("seeding %s: %v", r.ID, err)
		}
	}
}

// DRETree returns a small ranked statement tree:
//
//	tipo_1 Receitas
//	  cc_7 Comercial
//	    sg_1 Vendas
//	      conta_501 Produtos
//	      conta_502 Mercadorias
//	    sg_2 Servicos
//	virt_3 Ajustes
//	  det_9 Arredondamento
func DRETree() []*domain.Record {
	return []*domain.Record{
		NewTestRecord("tipo_1", "Receitas", domain.RootContext, WithRank(10)),
		NewTestRecord("virt_3", "Ajustes", domain.RootContext, WithRank(20)),
		NewTestRecord("cc_7", "Comercial", "tipo_1", WithRank(10)),
		NewTestRecord("sg_1", "Vendas", "cc_7", WithRank(10)),
		NewTestRecord("sg_2", "Servicos", "cc_7", WithRank(20)),
		NewTestRecord("conta_501", "Produtos", "sg_1", WithRank(10)),
		NewTestRecord("conta_502", "Mercadorias", "sg_1", WithRank(20)),
		NewTestRecord("det_9", "Arredondamento", "virt_3", WithRank(10)),
	}
}

// UnrankedDRETree is DRETree before ordering was ever activated.
func UnrankedDRETree() []*domain.Record {
	recs := DRETree()
	for _, r := range recs {
		r.Rank = nil
	}
	return recs
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
