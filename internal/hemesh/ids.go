package hemesh

import "errors"

// Typed element ids. The value -1 means "none".
type (
	VertexID   int32
	HalfedgeID int32
	FaceID     int32
	CellID     int32
)

const (
	NoVertex   VertexID   = -1
	NoHalfedge HalfedgeID = -1
	NoFace     FaceID     = -1
	NoCell     CellID     = -1
)

// TagExcluded is never returned by NextTag. Elements stamped with it are
// skipped by operators that honour exclusion, such as Unroll.
const TagExcluded int64 = -1

var (
	// ErrNonManifold is wrapped by operators that refuse to create
	// non-manifold topology. The structure is left untouched.
	ErrNonManifold = errors.New("non-manifold result")

	// ErrDegenerate is wrapped when input polygons or faces are too small
	// or repeat a vertex.
	ErrDegenerate = errors.New("degenerate element")

	// ErrBoundary is wrapped when an operator needs an interior edge.
	ErrBoundary = errors.New("boundary edge")

	// ErrCorrupt is wrapped by Validate when an invariant does not hold.
	ErrCorrupt = errors.New("broken invariant")
)

// Capacity preallocates element lists.
type Capacity struct {
	Vertices  int
	Halfedges int
	Faces     int
	Cells     int
}

// Factory supplies payload constructors, registered once per structure.
// Nil fields produce zero values.
type Factory[V, E, F, C any] struct {
	Vertex   func() V
	Halfedge func() E
	Face     func() F
	Cell     func() C
}

func make0[T any](fn func() T) T {
	var v T
	if fn != nil {
		v = fn()
	}
	return v
}
