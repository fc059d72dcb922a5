package model

import "fmt"

type EdgeKind int

const (
	ScienceEdge    EdgeKind = iota // scientist <-> scientist
	SpinReadEdge                   // spin doctor reads a scientist
	SpinWriteEdge                  // spin doctor writes to a politician
	PolScienceEdge                 // politician reads a scientist
)

func (k EdgeKind) String() string {
	switch k {
	case ScienceEdge:
		return "science"
	case SpinReadEdge:
		return "spin_read"
	case SpinWriteEdge:
		return "spin_write"
	case PolScienceEdge:
		return "pol_science"
	default:
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
}

func (k EdgeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Endpoints returns the entity kinds an edge of this kind connects, in
// (Source, Target) order.
func (k EdgeKind) Endpoints() (EntityKind, EntityKind) {
	switch k {
	case SpinReadEdge:
		return SpinDoctor, Scientist
	case SpinWriteEdge:
		return SpinDoctor, Politician
	case PolScienceEdge:
		return Politician, Scientist
	default:
		return Scientist, Scientist
	}
}

// Edge is an association between two arena entities. Edges never own the
// entities they reference.
type Edge struct {
	ID     int      `json:"id"`
	UUID   string   `json:"uuid"`
	Kind   EdgeKind `json:"kind"`
	Source int      `json:"source"`
	Target int      `json:"target"`
}

// Attach records the edge in its endpoints' adjacency lists. Which lists are
// touched depends on the kind:
//
//	Science     both endpoints see each other
//	SpinRead    only the spin doctor sees the scientist
//	SpinWrite   the spin doctor writes to the politician, and the politician
//	            sees the spin doctor as a neighbour
//	PolScience  only the politician sees the scientist
func (e Edge) Attach(entities []Entity) error {
	if e.Source < 0 || e.Source >= len(entities) || e.Target < 0 || e.Target >= len(entities) {
		return fmt.Errorf("edge %d: endpoint out of range (%d, %d)", e.ID, e.Source, e.Target)
	}
	src, dst := &entities[e.Source], &entities[e.Target]
	wantSrc, wantDst := e.Kind.Endpoints()
	if src.Kind != wantSrc || dst.Kind != wantDst {
		return fmt.Errorf("edge %d: %s edge cannot connect %s to %s", e.ID, e.Kind, src.Kind, dst.Kind)
	}

	switch e.Kind {
	case ScienceEdge:
		src.Edges = append(src.Edges, Link{Edge: e.ID, Peer: dst.ID})
		dst.Edges = append(dst.Edges, Link{Edge: e.ID, Peer: src.ID})
	case SpinReadEdge:
		src.ReadEdges = append(src.ReadEdges, Link{Edge: e.ID, Peer: dst.ID})
	case SpinWriteEdge:
		src.WriteEdges = append(src.WriteEdges, Link{Edge: e.ID, Peer: dst.ID})
		dst.Edges = append(dst.Edges, Link{Edge: e.ID, Peer: src.ID})
	case PolScienceEdge:
		src.Edges = append(src.Edges, Link{Edge: e.ID, Peer: dst.ID})
	default:
		return fmt.Errorf("edge %d: unknown kind %s", e.ID, e.Kind)
	}
	return nil
}
