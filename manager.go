package aig

import (
	"github.com/google/uuid"
	"github.com/synthcore/aig/internal/structhash"
)

// Manager is the AIG arena (spec.md §3, component C1). The zero value is
// not ready to use; construct one with [NewManager].
//
// A Manager owns exactly one AIG for the duration of one synthesis session
// (spec.md §3.7). [Balance] produces a fresh Manager rather than mutating
// this one in place; every other pass mutates this Manager in place.
type Manager struct {
	// SessionID tags this arena for log/metrics correlation across a
	// sequence of passes run against it.
	SessionID uuid.UUID

	nodes []Node

	pis []NodeId
	pos []NodeId // node ids of KindPO nodes, in AddPO order

	andHash *structhash.Table
	xorHash *structhash.Table
	muxHash *structhash.Table

	// fanoutOf[id] lists the node ids (AND/XOR/MUX/PO) that currently
	// carry id as one of their fanins. Maintained incrementally by every
	// mk* call and by replace.
	fanoutOf map[NodeId][]NodeId

	// registerCount is carried through unchanged (spec.md §1 non-goals:
	// no sequential synthesis); it is reported back by RegisterCount but
	// never inspected by any pass.
	registerCount int

	// reverseLevelsValid records whether StartReverseLevels has computed
	// reverse levels since the last InvalidateReverseLevels; passes that
	// need required-level gating (§4.4) set it via StartReverseLevels.
	reverseLevelsValid bool
	// reverseLevelsDepth is the network depth as of the last
	// StartReverseLevels call, cached so RequiredLevel doesn't recompute
	// Depth() on every query.
	reverseLevelsDepth uint32
}

// NewManager creates an empty arena containing only the constant-one node.
func NewManager() *Manager {
	m := &Manager{
		SessionID: uuid.New(),
		nodes:     make([]Node, 1, 64),
		andHash:   structhash.New(64),
		xorHash:   structhash.New(64),
		muxHash:   structhash.New(64),
		fanoutOf:  make(map[NodeId][]NodeId),
	}
	m.nodes[0] = Node{Kind: KindConst1, Phase: true}
	return m
}

// ConstOne returns the literal for the constant-one node.
func (m *Manager) ConstOne() Lit { return ConstTrue }

// NodeCount returns the number of live (non-dead) AND/XOR/MUX nodes, the
// quantity the gain checks of §4.4/§4.5/§4.7 are measured against.
func (m *Manager) NodeCount() int {
	n := 0
	for i := range m.nodes {
		nd := &m.nodes[i]
		if nd.dead {
			continue
		}
		switch nd.Kind {
		case KindAnd, KindXor, KindMux:
			n++
		}
	}
	return n
}

// NumNodes returns the number of allocated arena slots, live or dead; valid
// [NodeId] values are in [0, NumNodes()).
func (m *Manager) NumNodes() int { return len(m.nodes) }

// Node returns a pointer to the node at id. The pointer is invalidated by
// any subsequent call that grows the arena.
func (m *Manager) Node(id NodeId) *Node { return &m.nodes[id] }

// IsDead reports whether id has been retired by a prior replace/cleanup.
func (m *Manager) IsDead(id NodeId) bool { return m.nodes[id].dead }

// PIs returns the primary input node ids in creation order.
func (m *Manager) PIs() []NodeId { return m.pis }

// POs returns the primary output node ids in creation order. Each PO node's
// Fanin0 is its driver edge.
func (m *Manager) POs() []NodeId { return m.pos }

// SetRegisterCount records the number of registers the network carries;
// spec.md §1 treats sequential elements as pass-through, so this is bookkeeping
// only.
func (m *Manager) SetRegisterCount(n int) { m.registerCount = n }

// RegisterCount returns the value set by [Manager.SetRegisterCount].
func (m *Manager) RegisterCount() int { return m.registerCount }

// AddPI appends a new primary input and returns its literal. Primary
// inputs have level 0 and an unspecified phase (callers that need a fixed
// simulation phase should treat PI phase as always false/0).
func (m *Manager) AddPI() Lit {
	id := m.alloc(Node{Kind: KindPI, Phase: false, Level: 0})
	m.pis = append(m.pis, id)
	return mkLit(id, false)
}

// AddPO appends a primary output driven by edge and returns the new PO
// node's id.
func (m *Manager) AddPO(edge Lit) NodeId {
	id := m.alloc(Node{Kind: KindPO, Fanin0: edge})
	m.pos = append(m.pos, id)
	m.incRef(edge.ID())
	m.addFanout(edge.ID(), id)
	return id
}

// alloc appends n to the arena and returns its id.
func (m *Manager) alloc(n Node) NodeId {
	id := NodeId(len(m.nodes))
	m.nodes = append(m.nodes, n)
	return id
}

func (m *Manager) incRef(id NodeId) { m.nodes[id].RefCount++ }

func (m *Manager) decRef(id NodeId) {
	if m.nodes[id].RefCount > 0 {
		m.nodes[id].RefCount--
	}
}

func (m *Manager) addFanout(target, from NodeId) {
	m.fanoutOf[target] = append(m.fanoutOf[target], from)
}

func (m *Manager) removeFanout(target, from NodeId) {
	list := m.fanoutOf[target]
	for i, id := range list {
		if id == from {
			list[i] = list[len(list)-1]
			m.fanoutOf[target] = list[:len(list)-1]
			return
		}
	}
}

// FanoutOf returns the node ids that currently carry id as a fanin. The
// returned slice must not be retained across a mutating call.
func (m *Manager) FanoutOf(id NodeId) []NodeId { return m.fanoutOf[id] }

func composeLit(edge Lit, compl bool) Lit {
	if compl {
		return edge.Not()
	}
	return edge
}

func phaseOf(m *Manager, l Lit) bool {
	return m.nodes[l.ID()].Phase != l.IsCompl()
}

func levelOf(m *Manager, l Lit) uint32 { return m.nodes[l.ID()].Level }

// MkAnd returns the literal for a·b, canonicalizing and structurally
// hashing per spec.md §4.1: absorption first, then fanin0.id < fanin1.id,
// then lookup-or-allocate.
func (m *Manager) MkAnd(a, b Lit) Lit {
	if a == ConstFalse || b == ConstFalse {
		return ConstFalse
	}
	if a == ConstTrue {
		return b
	}
	if b == ConstTrue {
		return a
	}
	if a == b {
		return a
	}
	if a == b.Not() {
		return ConstFalse
	}
	if a.ID() > b.ID() {
		a, b = b, a
	}

	key := structhash.Key{Fanin0: uint32(a), Fanin1: uint32(b)}
	if id, ok := m.andHash.Lookup(key); ok {
		return mkLit(NodeId(id), false)
	}

	lvl := levelOf(m, a) + 1
	if lb := levelOf(m, b) + 1; lb > lvl {
		lvl = lb
	}
	id := m.alloc(Node{
		Kind:   KindAnd,
		Fanin0: a,
		Fanin1: b,
		Level:  lvl,
		Phase:  phaseOf(m, a) && phaseOf(m, b),
	})
	m.andHash.Insert(key, uint32(id))
	m.incRef(a.ID())
	m.incRef(b.ID())
	m.addFanout(a.ID(), id)
	m.addFanout(b.ID(), id)
	return mkLit(id, false)
}

// MkXor returns the literal for a^b. XOR fanins are stored non-complemented
// (spec.md §3.2); any net complementation rides on the returned edge
// ("complement lifting").
func (m *Manager) MkXor(a, b Lit) Lit {
	if a == ConstFalse {
		return b
	}
	if b == ConstFalse {
		return a
	}
	if a == ConstTrue {
		return b.Not()
	}
	if b == ConstTrue {
		return a.Not()
	}
	if a.ID() == b.ID() {
		if a == b {
			return ConstFalse
		}
		return ConstTrue
	}

	netCompl := a.IsCompl() != b.IsCompl()
	a0, b0 := mkLit(a.ID(), false), mkLit(b.ID(), false)
	if a0.ID() > b0.ID() {
		a0, b0 = b0, a0
	}

	key := structhash.Key{Fanin0: uint32(a0), Fanin1: uint32(b0)}
	if id, ok := m.xorHash.Lookup(key); ok {
		return mkLit(NodeId(id), netCompl)
	}

	lvl := levelOf(m, a0) + 1
	if lb := levelOf(m, b0) + 1; lb > lvl {
		lvl = lb
	}
	id := m.alloc(Node{
		Kind:   KindXor,
		Fanin0: a0,
		Fanin1: b0,
		Level:  lvl,
		Phase:  phaseOf(m, a0) != phaseOf(m, b0),
	})
	m.xorHash.Insert(key, uint32(id))
	m.incRef(a0.ID())
	m.incRef(b0.ID())
	m.addFanout(a0.ID(), id)
	m.addFanout(b0.ID(), id)
	return mkLit(id, netCompl)
}

// MkMux returns the literal for `c ? t : e`, built as a genuine 3-input Mux
// node (spec.md §3.1's Kind enum includes Mux with a Fanin2 slot; this
// manager always takes that native-node branch of "canonical if provided,
// otherwise expressed as two ANDs plus an OR" rather than decomposing,
// which keeps MUX divisor extraction in C7 able to round-trip through a
// single node).
func (m *Manager) MkMux(c, t, e Lit) Lit {
	if t == e {
		return t
	}
	if c == ConstTrue {
		return t
	}
	if c == ConstFalse {
		return e
	}
	if t == ConstTrue && e == ConstFalse {
		return c
	}
	if t == ConstFalse && e == ConstTrue {
		return c.Not()
	}

	if c.IsCompl() {
		c, t, e = c.Not(), e, t
	}

	key := structhash.Key{Fanin0: uint32(c), Fanin1: uint32(t), Aux: uint32(e)}
	if id, ok := m.muxHash.Lookup(key); ok {
		return mkLit(NodeId(id), false)
	}

	lvl := levelOf(m, c) + 1
	if lt := levelOf(m, t) + 1; lt > lvl {
		lvl = lt
	}
	if le := levelOf(m, e) + 1; le > lvl {
		lvl = le
	}
	var phase bool
	if phaseOf(m, c) {
		phase = phaseOf(m, t)
	} else {
		phase = phaseOf(m, e)
	}
	id := m.alloc(Node{
		Kind:   KindMux,
		Fanin0: c,
		Fanin1: t,
		Fanin2: e,
		Level:  lvl,
		Phase:  phase,
	})
	m.muxHash.Insert(key, uint32(id))
	m.incRef(c.ID())
	m.incRef(t.ID())
	m.incRef(e.ID())
	m.addFanout(c.ID(), id)
	m.addFanout(t.ID(), id)
	m.addFanout(e.ID(), id)
	return mkLit(id, false)
}

// removeFromHash deletes w's current structural-hash entry, as a
// prerequisite to rebuilding it with different fanins.
func (m *Manager) removeFromHash(w *Node) {
	switch w.Kind {
	case KindAnd:
		m.andHash.Delete(structhash.Key{Fanin0: uint32(w.Fanin0), Fanin1: uint32(w.Fanin1)})
	case KindXor:
		m.xorHash.Delete(structhash.Key{Fanin0: uint32(w.Fanin0), Fanin1: uint32(w.Fanin1)})
	case KindMux:
		m.muxHash.Delete(structhash.Key{Fanin0: uint32(w.Fanin0), Fanin1: uint32(w.Fanin1), Aux: uint32(w.Fanin2)})
	}
}

// Fanins returns w's operand literals (1 for Buf, 2 for And/Xor, 3 for Mux,
// 1 for PO, 0 for PI/Const1).
func (w *Node) Fanins() []Lit {
	switch w.Kind {
	case KindAnd, KindXor:
		return []Lit{w.Fanin0, w.Fanin1}
	case KindMux:
		return []Lit{w.Fanin0, w.Fanin1, w.Fanin2}
	case KindPO, KindBuf:
		return []Lit{w.Fanin0}
	default:
		return nil
	}
}
