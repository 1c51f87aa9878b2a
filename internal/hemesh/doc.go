// Package hemesh implements halfedge graphs, meshes and volumes.
//
// Elements live in per-structure arenas and are addressed by typed integer
// ids. Every halfedge has exactly one twin running the opposite direction,
// a cyclic Prev/Next list around its face (or boundary loop), a Start
// vertex and an optional Face. Vertices and faces keep a single First
// halfedge from which their star or cycle is reached.
//
// Payload is generic: Graph[V, E], Mesh[V, E, F] and Volume[V, E, F, C]
// carry caller types on vertices, halfedges, faces and cells without the
// topology code knowing anything about them.
//
// Referencing a removed element is a programming error and panics.
// Operators that would produce non-manifold topology are checked up front
// and return an error wrapping ErrNonManifold without mutating anything.
//
// Nothing in this package is safe for concurrent mutation.
package hemesh
