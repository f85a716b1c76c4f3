package aig

// Replace redirects every fanout of oldID to newEdge and tombstones oldID
// (spec.md §4.1's `replace`). It fails with [ErrCycleDetected] — and
// mutates nothing — if newEdge's transitive fanin cone reaches oldID,
// which would otherwise create a cycle.
func (m *Manager) Replace(oldID NodeId, newEdge Lit) error {
	if newEdge.ID() == oldID {
		return newErr(ErrCycleDetected, "node %d replaced by itself", oldID)
	}
	if m.reaches(newEdge.ID(), oldID) {
		return newErr(ErrCycleDetected, "replacement of %d depends on %d", oldID, oldID)
	}

	// Like each rebuilt fanout below, oldID leaves the structural hash and
	// releases its fanins before it is tombstoned, so Cleanup can reclaim
	// whatever part of its cone is left unreferenced.
	if old := &m.nodes[oldID]; old.Kind == KindAnd || old.Kind == KindXor || old.Kind == KindMux {
		m.removeFromHash(old)
		for _, f := range append([]Lit(nil), old.Fanins()...) {
			m.decRef(f.ID())
			m.removeFanout(f.ID(), oldID)
		}
	}

	type pending struct {
		old NodeId
		neu Lit
	}
	queue := []pending{{oldID, newEdge}}

	for len(queue) > 0 {
		job := queue[0]
		queue = queue[1:]

		fanouts := append([]NodeId(nil), m.fanoutOf[job.old]...)
		delete(m.fanoutOf, job.old)

		for _, wID := range fanouts {
			w := &m.nodes[wID]
			if w.dead {
				continue
			}

			if w.Kind == KindPO {
				old := w.Fanin0
				m.decRef(old.ID())
				composed := composeLit(job.neu, old.IsCompl())
				w.Fanin0 = composed
				m.incRef(composed.ID())
				m.addFanout(composed.ID(), wID)
				continue
			}

			oldFanins := append([]Lit(nil), w.Fanins()...)
			m.removeFromHash(w)
			for _, f := range oldFanins {
				m.decRef(f.ID())
				m.removeFanout(f.ID(), wID)
			}

			substitute := func(f Lit) Lit {
				if f.ID() == job.old {
					return composeLit(job.neu, f.IsCompl())
				}
				return f
			}

			var res Lit
			switch w.Kind {
			case KindAnd:
				res = m.MkAnd(substitute(oldFanins[0]), substitute(oldFanins[1]))
			case KindXor:
				res = m.MkXor(substitute(oldFanins[0]), substitute(oldFanins[1]))
			case KindMux:
				res = m.MkMux(substitute(oldFanins[0]), substitute(oldFanins[1]), substitute(oldFanins[2]))
			}

			w.dead = true
			queue = append(queue, pending{wID, res})
		}

		m.nodes[job.old].dead = true
	}

	return nil
}

// reaches reports whether node to is in the transitive fanin cone of from
// (including from itself). Used only for the pre-replace cycle check; the
// arena is a DAG, so a plain memoized DFS terminates.
func (m *Manager) reaches(from, to NodeId) bool {
	if from == to {
		return true
	}
	visited := make(map[NodeId]bool)
	var dfs func(id NodeId) bool
	dfs = func(id NodeId) bool {
		if id == to {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		for _, f := range m.nodes[id].Fanins() {
			if f.ID() == id {
				continue
			}
			if dfs(f.ID()) {
				return true
			}
		}
		return false
	}
	return dfs(from)
}

// Cleanup removes live AND/XOR/MUX nodes whose refcount is zero, in
// reverse topological order, releasing each one's fanins as it goes, per
// spec.md §4.1. It returns the number of nodes removed. Nodes already
// tombstoned by Replace have released their fanins there and are skipped.
// PIs, POs and the constant are never removed.
func (m *Manager) Cleanup() int {
	removed := 0
	changed := true
	for changed {
		changed = false
		for id := len(m.nodes) - 1; id >= 1; id-- {
			n := &m.nodes[id]
			if n.dead {
				continue
			}
			if n.Kind != KindAnd && n.Kind != KindXor && n.Kind != KindMux {
				continue
			}
			if n.RefCount != 0 {
				continue
			}
			n.dead = true
			removed++
			changed = true
			for _, f := range n.Fanins() {
				m.decRef(f.ID())
				m.removeFanout(f.ID(), NodeId(id))
			}
			m.removeFromHash(n)
		}
	}
	return removed
}

// resolve follows a chain of Buf nodes, XOR-ing complementation attributes
// along the way, and returns the first non-Buf edge (spec.md §4.1.1). This
// engine never itself creates Buf nodes — MkAnd/MkXor/MkMux always commit
// atomically — so nothing in this package calls resolve, and being
// unexported it is not reachable from outside it either.
func (m *Manager) resolve(e Lit) Lit {
	compl := e.IsCompl()
	id := e.ID()
	for m.nodes[id].Kind == KindBuf {
		next := m.nodes[id].Fanin0
		compl = compl != next.IsCompl()
		id = next.ID()
	}
	return mkLit(id, compl)
}

// Levels returns every live node's level, indexed by [NodeId]; dead slots
// report 0.
func (m *Manager) Levels() []uint32 {
	out := make([]uint32, len(m.nodes))
	for i := range m.nodes {
		if !m.nodes[i].dead {
			out[i] = m.nodes[i].Level
		}
	}
	return out
}

// Depth returns the maximum level among the primary outputs' drivers —
// the network's combinational depth.
func (m *Manager) Depth() uint32 {
	var d uint32
	for _, poID := range m.pos {
		if lvl := m.nodes[m.nodes[poID].Fanin0.ID()].Level; lvl > d {
			d = lvl
		}
	}
	return d
}
