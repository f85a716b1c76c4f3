package aig

// eval computes l's boolean value under the given PI assignment, memoizing
// per node id so shared subexpressions are only visited once.
func eval(m *Manager, l Lit, assign map[NodeId]bool, memo map[NodeId]bool) bool {
	id := l.ID()
	v, ok := memo[id]
	if !ok {
		n := m.Node(id)
		switch n.Kind {
		case KindConst1:
			v = true
		case KindPI:
			v = assign[id]
		case KindAnd:
			v = eval(m, n.Fanin0, assign, memo) && eval(m, n.Fanin1, assign, memo)
		case KindXor:
			v = eval(m, n.Fanin0, assign, memo) != eval(m, n.Fanin1, assign, memo)
		case KindMux:
			if eval(m, n.Fanin0, assign, memo) {
				v = eval(m, n.Fanin1, assign, memo)
			} else {
				v = eval(m, n.Fanin2, assign, memo)
			}
		case KindBuf:
			v = eval(m, n.Fanin0, assign, memo)
		default:
			panic("eval: unexpected kind")
		}
		memo[id] = v
	}
	if l.IsCompl() {
		return !v
	}
	return v
}

// evalPOs returns every PO's value for one PI assignment.
func evalPOs(m *Manager, assign map[NodeId]bool) []bool {
	memo := map[NodeId]bool{}
	out := make([]bool, len(m.POs()))
	for i, po := range m.POs() {
		out[i] = eval(m, m.Node(po).Fanin0, assign, memo)
	}
	return out
}

// allAssignments enumerates every one of the 2^len(pis) boolean
// assignments over pis — fine for the small test networks built here.
func allAssignments(pis []NodeId) []map[NodeId]bool {
	n := len(pis)
	out := make([]map[NodeId]bool, 0, 1<<uint(n))
	for mask := 0; mask < (1 << uint(n)); mask++ {
		a := make(map[NodeId]bool, n)
		for i, id := range pis {
			a[id] = (mask>>uint(i))&1 != 0
		}
		out = append(out, a)
	}
	return out
}
