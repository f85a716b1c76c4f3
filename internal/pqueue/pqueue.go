// Package pqueue implements a decrease-key binary max-heap keyed by
// uint32 item ids, ported from ABC's vecQue.h. The Dam pass (spec.md
// §4.6, component C6) uses it to keep candidate two-literal divisors
// ordered by live area-flow weight, re-priced in place as weights shift
// during extraction rather than rebuilt from scratch each round.
package pqueue

// Queue is a max-heap over item ids in [0, n): Push/Pop/Update all run in
// O(log n), and an id's position is tracked so Update can find it without
// a linear scan.
type Queue struct {
	heap []uint32    // heap[0] is the max; heap[i]'s children are 2i+1, 2i+2
	pos  []int       // pos[id] = index of id within heap, or -1 if absent
	key  []float64   // key[id] = current priority of id
}

// New creates an empty queue sized for item ids in [0, n).
func New(n int) *Queue {
	pos := make([]int, n)
	for i := range pos {
		pos[i] = -1
	}
	return &Queue{pos: pos, key: make([]float64, n)}
}

// Len returns the number of items currently in the queue.
func (q *Queue) Len() int { return len(q.heap) }

// Contains reports whether id is currently in the queue.
func (q *Queue) Contains(id uint32) bool {
	return int(id) < len(q.pos) && q.pos[id] >= 0
}

func (q *Queue) grow(id uint32) {
	for int(id) >= len(q.pos) {
		q.pos = append(q.pos, -1)
		q.key = append(q.key, 0)
	}
}

// Push inserts id with priority key, or updates its priority if already
// present.
func (q *Queue) Push(id uint32, key float64) {
	q.grow(id)
	if q.pos[id] >= 0 {
		q.Update(id, key)
		return
	}
	q.key[id] = key
	q.heap = append(q.heap, id)
	q.pos[id] = len(q.heap) - 1
	q.siftUp(q.pos[id])
}

// Update re-prices id's priority, re-establishing the heap invariant by
// sifting in whichever direction the new key requires.
func (q *Queue) Update(id uint32, key float64) {
	if !q.Contains(id) {
		q.Push(id, key)
		return
	}
	old := q.key[id]
	q.key[id] = key
	i := q.pos[id]
	if key > old {
		q.siftUp(i)
	} else if key < old {
		q.siftDown(i)
	}
}

// Peek returns the highest-priority id without removing it.
func (q *Queue) Peek() (uint32, bool) {
	if len(q.heap) == 0 {
		return 0, false
	}
	return q.heap[0], true
}

// Pop removes and returns the highest-priority id.
func (q *Queue) Pop() (uint32, bool) {
	if len(q.heap) == 0 {
		return 0, false
	}
	top := q.heap[0]
	last := len(q.heap) - 1
	q.swap(0, last)
	q.pos[top] = -1
	q.heap = q.heap[:last]
	if last > 0 {
		q.siftDown(0)
	}
	return top, true
}

// Remove takes id out of the queue entirely, wherever it currently sits.
func (q *Queue) Remove(id uint32) {
	if !q.Contains(id) {
		return
	}
	i := q.pos[id]
	last := len(q.heap) - 1
	q.swap(i, last)
	q.pos[id] = -1
	q.heap = q.heap[:last]
	if i < len(q.heap) {
		q.siftDown(i)
		q.siftUp(i)
	}
}

func (q *Queue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.pos[q.heap[i]] = i
	q.pos[q.heap[j]] = j
}

func (q *Queue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if q.key[q.heap[parent]] >= q.key[q.heap[i]] {
			break
		}
		q.swap(parent, i)
		i = parent
	}
}

func (q *Queue) siftDown(i int) {
	n := len(q.heap)
	for {
		l, r := 2*i+1, 2*i+2
		largest := i
		if l < n && q.key[q.heap[l]] > q.key[q.heap[largest]] {
			largest = l
		}
		if r < n && q.key[q.heap[r]] > q.key[q.heap[largest]] {
			largest = r
		}
		if largest == i {
			break
		}
		q.swap(i, largest)
		i = largest
	}
}
