package model

import "fmt"

type EntityKind int

const (
	Scientist EntityKind = iota
	Politician
	SpinDoctor
)

func (k EntityKind) String() string {
	switch k {
	case Scientist:
		return "scientist"
	case Politician:
		return "politician"
	case SpinDoctor:
		return "spindoctor"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

func (k EntityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Link is one adjacency entry: the edge that created it and the peer on the
// other end. Keying by edge rather than peer lets parallel edges between the
// same pair contribute independently.
type Link struct {
	Edge int `json:"edge"`
	Peer int `json:"peer"`
}

// Entity is a node of the network. ID is its index in the scenario arena;
// Index is its position within its own kind's pool.
//
// Scientists and politicians fold scores over Edges. Spin doctors keep two
// disjoint lists instead: ReadEdges (sources they trust) and WriteEdges
// (politicians they influence).
type Entity struct {
	ID         int        `json:"id"`
	UUID       string     `json:"uuid"`
	Kind       EntityKind `json:"kind"`
	Index      int        `json:"index"`
	Confidence float64    `json:"confidence"`
	Score      float64    `json:"score"`
	Edges      []Link     `json:"edges,omitempty"`
	ReadEdges  []Link     `json:"read_edges,omitempty"`
	WriteEdges []Link     `json:"write_edges,omitempty"`
}

// Clone returns a copy that shares no adjacency storage with e.
func (e Entity) Clone() Entity {
	e.Edges = append([]Link(nil), e.Edges...)
	e.ReadEdges = append([]Link(nil), e.ReadEdges...)
	e.WriteEdges = append([]Link(nil), e.WriteEdges...)
	return e
}
