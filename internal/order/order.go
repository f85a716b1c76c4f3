// Package order implements a doubly-linked traversal order over node ids,
// grounded on ABC's darCore.c `Aig_ManForEachNodeInOrder` / `pNext`/`pPrev`
// linked list. Rewrite needs to walk "the current node
// order" repeatedly while splicing in newly built nodes next to the node
// they replace, which a plain topological-sort slice can't do without a
// full re-sort after every change.
package order

// List is a doubly-linked order over node ids. Create one with [New]; the
// zero value has nil maps and is not usable.
type List struct {
	next, prev map[uint32]uint32
	head, tail uint32
	has        map[uint32]bool
}

// New creates an empty order list.
func New() *List {
	return &List{
		next: map[uint32]uint32{},
		prev: map[uint32]uint32{},
		has:  map[uint32]bool{},
	}
}

// PushBack appends id at the tail of the order.
func (l *List) PushBack(id uint32) {
	if l.has[id] {
		return
	}
	l.has[id] = true
	if len(l.has) == 1 {
		l.head, l.tail = id, id
		return
	}
	l.next[l.tail] = id
	l.prev[id] = l.tail
	l.tail = id
}

// InsertAfter splices newID into the order immediately after after,
// used when a rewrite step builds a replacement node and wants it
// visited in the same pass, right next to the node it displaces.
func (l *List) InsertAfter(after, newID uint32) {
	if l.has[newID] || !l.has[after] {
		return
	}
	l.has[newID] = true
	n, hadNext := l.next[after]
	l.next[after] = newID
	l.prev[newID] = after
	if hadNext {
		l.next[newID] = n
		l.prev[n] = newID
	} else {
		l.tail = newID
	}
}

// Remove takes id out of the order, relinking its neighbors.
func (l *List) Remove(id uint32) {
	if !l.has[id] {
		return
	}
	p, hasPrev := l.prev[id]
	n, hasNext := l.next[id]
	if hasPrev {
		if hasNext {
			l.next[p] = n
		} else {
			delete(l.next, p)
			l.tail = p
		}
	} else if hasNext {
		l.head = n
	}
	if hasNext {
		if hasPrev {
			l.prev[n] = p
		} else {
			delete(l.prev, n)
		}
	}
	delete(l.next, id)
	delete(l.prev, id)
	delete(l.has, id)
}

// Contains reports whether id is currently in the order.
func (l *List) Contains(id uint32) bool { return l.has[id] }

// Len returns the number of ids currently in the order.
func (l *List) Len() int { return len(l.has) }

// Each calls fn for every id from head to tail, in order. fn may call
// InsertAfter on the current id; the newly spliced id is visited later in
// the same walk.
func (l *List) Each(fn func(id uint32)) {
	if len(l.has) == 0 {
		return
	}
	id := l.head
	visited := 0
	total := len(l.has)
	for {
		fn(id)
		visited++
		next, ok := l.next[id]
		if !ok {
			break
		}
		id = next
		if visited > total && visited > 1<<20 {
			// defensive: a caller bug linked a cycle into the list.
			break
		}
		total = len(l.has)
	}
}
