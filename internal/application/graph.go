package application

import (
	"context"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
)

// DefaultMaxGraphNodes bounds the two-hop projection.
const DefaultMaxGraphNodes = 50

const (
	nodeKindCompany = "company"
	nodeKindPerson  = "person"
	edgeKindOwns    = "owns-share-of"
)

// GraphService walks the bipartite supplier/partner graph two hops out
// from a seed supplier. The walk is a bounded BFS in application code;
// the store only answers single hops.
type GraphService struct {
	suppliers persistence.SupplierReader
	graph     persistence.GraphReader
	maxNodes  int
}

// NewGraphService wires the service. maxNodes <= 0 falls back to the
// default bound.
func NewGraphService(suppliers persistence.SupplierReader, graph persistence.GraphReader, maxNodes int) *GraphService {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxGraphNodes
	}
	return &GraphService{suppliers: suppliers, graph: graph, maxNodes: maxNodes}
}

type graphWalk struct {
	nodes     []GraphNode
	seen      map[string]bool
	edges     []GraphEdge
	edgeSeen  map[string]bool
	truncated bool
	maxNodes  int
}

// add keeps the node if there is room. Returns false once the walk hit
// the bound, marking truncation when a distinct candidate had to be
// dropped.
func (w *graphWalk) add(node GraphNode) bool {
	if w.seen[node.ID] {
		return true
	}
	if len(w.nodes) >= w.maxNodes {
		w.truncated = true
		return false
	}
	w.seen[node.ID] = true
	w.nodes = append(w.nodes, node)
	return true
}

func (w *graphWalk) edge(from, to string, share *domain.Share) {
	key := from + "->" + to
	if w.edgeSeen[key] {
		return
	}
	w.edgeSeen[key] = true
	e := GraphEdge{From: from, To: to, Kind: edgeKindOwns}
	if share != nil {
		s := share.String()
		e.Share = &s
	}
	w.edges = append(w.edges, e)
}

func companyNodeID(id domain.CompanyID) string { return nodeKindCompany + ":" + id.String() }
func personNodeID(ref domain.PersonRef) string { return nodeKindPerson + ":" + string(ref) }

// TwoHops builds the bounded projection. Level 0 is the seed; level 1 its
// partners and their other companies; level 2 those companies' partners
// and the companies they reach.
func (s *GraphService) TwoHops(ctx context.Context, id domain.CompanyID) (GraphView, error) {
	root, err := s.suppliers.Supplier(ctx, id)
	if err != nil {
		return GraphView{}, err
	}

	walk := &graphWalk{
		seen:     make(map[string]bool),
		edgeSeen: make(map[string]bool),
		maxNodes: s.maxNodes,
	}
	walk.add(GraphNode{ID: companyNodeID(root.ID), Kind: nodeKindCompany, Label: root.LegalName})

	frontier := []domain.CompanyID{root.ID}
	for hop := 0; hop < 2 && !walk.truncated; hop++ {
		var next []domain.CompanyID
		for _, company := range frontier {
			if walk.truncated {
				break
			}
			links, err := s.graph.PartnerLinks(ctx, company)
			if err != nil {
				return GraphView{}, err
			}
			for _, link := range links {
				personID := personNodeID(link.Ref)
				if !walk.add(GraphNode{ID: personID, Kind: nodeKindPerson, Label: link.Name}) {
					break
				}
				walk.edge(personID, companyNodeID(company), link.Share)

				companies, err := s.graph.CompanyLinks(ctx, link.Ref)
				if err != nil {
					return GraphView{}, err
				}
				for _, c := range companies {
					cID := companyNodeID(c.ID)
					fresh := !walk.seen[cID]
					if !walk.add(GraphNode{ID: cID, Kind: nodeKindCompany, Label: c.Name}) {
						break
					}
					walk.edge(personID, cID, nil)
					if fresh {
						next = append(next, c.ID)
					}
				}
			}
		}
		frontier = next
	}

	view := GraphView{Nodes: walk.nodes, Truncated: walk.truncated, Edges: make([]GraphEdge, 0, len(walk.edges))}
	// Edges only between kept endpoints, in discovery order.
	for _, e := range walk.edges {
		if walk.seen[e.From] && walk.seen[e.To] {
			view.Edges = append(view.Edges, e)
		}
	}
	return view, nil
}
