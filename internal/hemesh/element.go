package hemesh

import "fmt"

// Element is the identity shared by vertices, halfedges, faces and cells.
type Element struct {
	index   int32
	removed bool

	// Tag is a traversal stamp. Compare it against a value obtained from
	// NextTag instead of clearing visited flags between passes.
	Tag int64
}

// Index returns the element's position in its owning list.
func (e *Element) Index() int { return int(e.index) }

// IsRemoved reports whether the element has been removed and awaits compaction.
func (e *Element) IsRemoved() bool { return e.removed }

func (e *Element) base() *Element { return e }

type elementPtr[T any] interface {
	*T
	base() *Element
}

// ElementList is an arena of elements addressed by index. Removal only
// flags a slot; Compact reclaims removed slots and renumbers the rest.
type ElementList[T any, P elementPtr[T]] struct {
	items   []T
	removed int
}

func newElementList[T any, P elementPtr[T]](capacity int) ElementList[T, P] {
	return ElementList[T, P]{items: make([]T, 0, capacity)}
}

// Len returns the number of slots, removed ones included.
func (l *ElementList[T, P]) Len() int { return len(l.items) }

// Count returns the number of live elements.
func (l *ElementList[T, P]) Count() int { return len(l.items) - l.removed }

// At returns the element at index i. The pointer is invalidated by the
// next insertion into the list.
func (l *ElementList[T, P]) At(i int) *T {
	if i < 0 || i >= len(l.items) {
		panic(fmt.Sprintf("hemesh: element index %d out of range [0,%d)", i, len(l.items)))
	}
	return &l.items[i]
}

func (l *ElementList[T, P]) live(i int) bool {
	return i >= 0 && i < len(l.items) && !P(&l.items[i]).base().removed
}

func (l *ElementList[T, P]) add(item T) int {
	i := len(l.items)
	l.items = append(l.items, item)
	P(&l.items[i]).base().index = int32(i)
	return i
}

func (l *ElementList[T, P]) remove(i int) {
	e := P(&l.items[i]).base()
	if e.removed {
		return
	}
	e.removed = true
	l.removed++
}

// compact drops removed slots in place and returns the old-to-new index
// map, with -1 for dropped slots.
func (l *ElementList[T, P]) compact() []int32 {
	remap := make([]int32, len(l.items))
	n := 0
	for i := range l.items {
		if P(&l.items[i]).base().removed {
			remap[i] = -1
			continue
		}
		if n != i {
			l.items[n] = l.items[i]
		}
		P(&l.items[n]).base().index = int32(n)
		remap[i] = int32(n)
		n++
	}
	clear(l.items[n:])
	l.items = l.items[:n]
	l.removed = 0
	return remap
}

func (l *ElementList[T, P]) clone() ElementList[T, P] {
	items := make([]T, len(l.items), cap(l.items))
	copy(items, l.items)
	return ElementList[T, P]{items: items, removed: l.removed}
}
