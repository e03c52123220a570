package application

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
)

type fakeSupplierReader struct {
	suppliers map[string]domain.Supplier
}

func (f *fakeSupplierReader) Supplier(_ context.Context, id domain.CompanyID) (domain.Supplier, error) {
	s, ok := f.suppliers[id.String()]
	if !ok {
		return domain.Supplier{}, domain.ErrNotFound
	}
	return s, nil
}

type fakeGraphReader struct {
	partners map[string][]persistence.GraphPartnerLink
	companies map[string][]persistence.GraphCompanyLink
}

func (f *fakeGraphReader) PartnerLinks(_ context.Context, id domain.CompanyID) ([]persistence.GraphPartnerLink, error) {
	return f.partners[id.String()], nil
}

func (f *fakeGraphReader) CompanyLinks(_ context.Context, ref domain.PersonRef) ([]persistence.GraphCompanyLink, error) {
	return f.companies[string(ref)], nil
}

func (f *fakeGraphReader) TenderOverlaps(context.Context, domain.CompanyID) ([]persistence.TenderOverlapRecord, error) {
	return nil, nil
}

// genCompanyID builds a valid id from a sequence number by computing the
// two check digits.
func genCompanyID(t *testing.T, seq int) domain.CompanyID {
	t.Helper()
	base := fmt.Sprintf("%08d0001", seq)
	require.Len(t, base, 12)
	d13 := computeCheckDigit(base, []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	d14 := computeCheckDigit(base+digit(d13), []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2})
	id, err := domain.ParseCompanyID(base + digit(d13) + digit(d14))
	require.NoError(t, err)
	return id
}

func digit(d int) string { return string(rune('0' + d)) }

func computeCheckDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func TestTwoHopsTruncatesAtBound(t *testing.T) {
	root := genCompanyID(t, 1)
	suppliers := &fakeSupplierReader{suppliers: map[string]domain.Supplier{
		root.String(): {ID: root, LegalName: "Raiz Ltda"},
	}}

	// 74 partners plus the root: 75 distinct candidates.
	graph := &fakeGraphReader{
		partners:  map[string][]persistence.GraphPartnerLink{},
		companies: map[string][]persistence.GraphCompanyLink{},
	}
	for i := 0; i < 74; i++ {
		ref := domain.PersonRef(fmt.Sprintf("hash%03d", i))
		graph.partners[root.String()] = append(graph.partners[root.String()],
			persistence.GraphPartnerLink{Ref: ref, Name: fmt.Sprintf("Socio %d", i)})
		graph.companies[string(ref)] = []persistence.GraphCompanyLink{{ID: root, Name: "Raiz Ltda"}}
	}

	svc := NewGraphService(suppliers, graph, 50)
	view, err := svc.TwoHops(context.Background(), root)

	require.NoError(t, err)
	assert.Len(t, view.Nodes, 50)
	assert.True(t, view.Truncated)

	kept := make(map[string]bool, len(view.Nodes))
	for _, n := range view.Nodes {
		kept[n.ID] = true
	}
	for _, e := range view.Edges {
		assert.True(t, kept[e.From], "edge from dropped node %s", e.From)
		assert.True(t, kept[e.To], "edge to dropped node %s", e.To)
	}
}

func TestTwoHopsSeedWithoutPartners(t *testing.T) {
	root := genCompanyID(t, 2)
	suppliers := &fakeSupplierReader{suppliers: map[string]domain.Supplier{
		root.String(): {ID: root, LegalName: "Sozinha ME"},
	}}
	graph := &fakeGraphReader{
		partners:  map[string][]persistence.GraphPartnerLink{},
		companies: map[string][]persistence.GraphCompanyLink{},
	}

	svc := NewGraphService(suppliers, graph, 0)
	view, err := svc.TwoHops(context.Background(), root)

	require.NoError(t, err)
	require.Len(t, view.Nodes, 1)
	assert.Equal(t, "company:"+root.String(), view.Nodes[0].ID)
	assert.Equal(t, "company", view.Nodes[0].Kind)
	assert.False(t, view.Truncated)
	assert.Empty(t, view.Edges)
}

func TestTwoHopsUnknownSeed(t *testing.T) {
	svc := NewGraphService(&fakeSupplierReader{suppliers: map[string]domain.Supplier{}},
		&fakeGraphReader{}, 0)
	_, err := svc.TwoHops(context.Background(), genCompanyID(t, 3))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTwoHopsReachesSecondLevel(t *testing.T) {
	root := genCompanyID(t, 4)
	other := genCompanyID(t, 5)
	far := genCompanyID(t, 6)
	suppliers := &fakeSupplierReader{suppliers: map[string]domain.Supplier{
		root.String(): {ID: root, LegalName: "Raiz"},
	}}
	graph := &fakeGraphReader{
		partners: map[string][]persistence.GraphPartnerLink{
			root.String():  {{Ref: "p1", Name: "Socio Um"}},
			other.String(): {{Ref: "p2", Name: "Socio Dois"}},
		},
		companies: map[string][]persistence.GraphCompanyLink{
			"p1": {{ID: root, Name: "Raiz"}, {ID: other, Name: "Outra"}},
			"p2": {{ID: other, Name: "Outra"}, {ID: far, Name: "Distante"}},
		},
	}

	svc := NewGraphService(suppliers, graph, 0)
	view, err := svc.TwoHops(context.Background(), root)

	require.NoError(t, err)
	ids := make([]string, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{
		"company:" + root.String(),
		"person:p1",
		"company:" + other.String(),
		"person:p2",
		"company:" + far.String(),
	}, ids)
	assert.False(t, view.Truncated)

	for _, e := range view.Edges {
		assert.Equal(t, "owns-share-of", e.Kind)
		assert.True(t, strings.HasPrefix(e.From, "person:"))
		assert.True(t, strings.HasPrefix(e.To, "company:"))
	}
}
