package aig

// StartReverseLevels computes RevLevel for every live node: the longest
// path from that node to any primary output (spec.md §4.4). Passes that
// need `required_level` gating call this once before they start. The
// values are not updated as a pass commits replacements; they describe
// the network as it was when this was called.
func (m *Manager) StartReverseLevels() {
	m.reverseLevelsValid = true
	m.reverseLevelsDepth = m.Depth()
	for i := range m.nodes {
		m.nodes[i].RevLevel = 0
	}

	// process in reverse arena order, which is a valid reverse-topological
	// order because every fanin id is strictly less than its fanout's id.
	for id := len(m.nodes) - 1; id >= 0; id-- {
		n := &m.nodes[id]
		if n.dead {
			continue
		}
		childRev := n.RevLevel
		for _, f := range n.Fanins() {
			fn := &m.nodes[f.ID()]
			want := childRev + 1
			if n.Kind == KindPO {
				want = 0 // a PO's driver is one hop from an output, not two
			}
			if want > fn.RevLevel {
				fn.RevLevel = want
			}
		}
	}
}

// RequiredLevel returns the level budget available at node id: the deepest
// path to any PO, measured from id, subtracted from the network depth. A
// replacement whose new level exceeds this would lengthen the critical
// path.
func (m *Manager) RequiredLevel(id NodeId) uint32 {
	if rev := m.nodes[id].RevLevel; rev < m.reverseLevelsDepth {
		return m.reverseLevelsDepth - rev
	}
	return 0
}

// ReverseLevelsValid reports whether StartReverseLevels has been called
// since the last structural change invalidated them.
func (m *Manager) ReverseLevelsValid() bool { return m.reverseLevelsValid }

// InvalidateReverseLevels marks the cached reverse levels stale; the next
// pass that needs them must call StartReverseLevels again.
func (m *Manager) InvalidateReverseLevels() { m.reverseLevelsValid = false }
