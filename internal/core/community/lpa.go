package community

import (
	"sort"

	"github.com/rowboat1/epistemic-networks/internal/core/model"
)

// LabelPropagationDetector finds dense sub-clusters with the Label
// Propagation Algorithm. Parallel science edges count as a stronger tie.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(nodes []model.Entity, edges []model.Edge) ([][]model.Entity, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	adj := make(map[int]map[int]int) // node -> neighbor -> weight
	nodeMap := make(map[int]model.Entity, len(nodes))
	for _, n := range nodes {
		nodeMap[n.ID] = n
		adj[n.ID] = make(map[int]int)
	}
	for _, e := range scienceEdges(edges, nodeMap) {
		adj[e.Source][e.Target]++
		adj[e.Target][e.Source]++
	}

	// Each node starts with its own id as label
	labels := make(map[int]int, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.ID
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, n := range nodes {
			neighbors := adj[n.ID]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[int]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			// Ties go to the largest label so results do not depend on map order
			bestLabel := -1
			for label, count := range labelCounts {
				if count == maxCount && label > bestLabel {
					bestLabel = label
				}
			}

			if labels[n.ID] != bestLabel {
				labels[n.ID] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	clusters := make(map[int][]model.Entity)
	for _, n := range nodes {
		clusters[labels[n.ID]] = append(clusters[labels[n.ID]], n)
	}

	var communities [][]model.Entity
	for _, cluster := range clusters {
		if len(cluster) >= 2 {
			communities = append(communities, sortByID(cluster))
		}
	}
	return sortCommunities(communities), nil
}

func sortByID(c []model.Entity) []model.Entity {
	sort.Slice(c, func(i, j int) bool { return c[i].ID < c[j].ID })
	return c
}

// sortCommunities orders clusters by their smallest member id.
func sortCommunities(cs [][]model.Entity) [][]model.Entity {
	sort.Slice(cs, func(i, j int) bool { return cs[i][0].ID < cs[j][0].ID })
	return cs
}
