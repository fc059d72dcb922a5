package community

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/rowboat1/epistemic-networks/internal/core/model"
)

// Detector partitions scientists into research clusters using only science
// edges. Singletons are not clusters and are left out.
type Detector interface {
	Detect(nodes []model.Entity, edges []model.Edge) ([][]model.Entity, error)
}

// ComponentDetector groups scientists by connected component.
type ComponentDetector struct{}

func NewComponentDetector() *ComponentDetector {
	return &ComponentDetector{}
}

func (d *ComponentDetector) Detect(nodes []model.Entity, edges []model.Edge) ([][]model.Entity, error) {
	nodeMap := make(map[int]model.Entity, len(nodes))
	g := simple.NewUndirectedGraph()
	for _, n := range nodes {
		nodeMap[n.ID] = n
		g.AddNode(simple.Node(n.ID))
	}

	for _, e := range scienceEdges(edges, nodeMap) {
		g.SetEdge(g.NewEdge(simple.Node(e.Source), simple.Node(e.Target)))
	}

	var communities [][]model.Entity
	for _, component := range topo.ConnectedComponents(g) {
		if len(component) < 2 {
			continue
		}
		community := make([]model.Entity, 0, len(component))
		for _, n := range component {
			community = append(community, nodeMap[int(n.ID())])
		}
		communities = append(communities, sortByID(community))
	}
	return sortCommunities(communities), nil
}

// scienceEdges keeps science edges whose endpoints are both in nodeMap.
// Self-loops cannot occur between distinct scientists but are dropped anyway
// since simple graphs reject them.
func scienceEdges(edges []model.Edge, nodeMap map[int]model.Entity) []model.Edge {
	var out []model.Edge
	for _, e := range edges {
		if e.Kind != model.ScienceEdge || e.Source == e.Target {
			continue
		}
		if _, ok := nodeMap[e.Source]; !ok {
			continue
		}
		if _, ok := nodeMap[e.Target]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
