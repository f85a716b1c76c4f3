package aig

import (
	"io"
	"sort"
)

// FxParams configures one [FastExtract] pass (spec.md §6.2, component
// C7).
type FxParams struct {
	NNewNodesMax uint32
	LitCountMax  uint32 // 0 = unbounded, bounds the common-factor shape only
	// CanonDivsOnly restricts mining to the canonical AND/XOR/MUX divisor
	// shapes: the single-cube two-literal divisor (AND) and the
	// control-variable divisor family ([mineMux], which produces XOR, the
	// a+b OR-reduction, or the general MUX). The generic two-cube
	// common-factor search ([mineTwoCube]) is skipped when set, since its
	// result is a factored AND-of-an-OR rather than one of those three
	// gates.
	CanonDivsOnly bool
	Verbose       bool
	// Writer receives one line per extraction when Verbose is set; nil
	// discards the trace.
	Writer io.Writer
}

type fxSingleKey struct{ a, b int32 }

func fxSingleKeyOf(a, b int32) fxSingleKey {
	if a > b {
		a, b = b, a
	}
	return fxSingleKey{a, b}
}

type fxPair struct{ aIdx, bIdx int }

type fxCommonKey string

// fxCommonKeyOf identifies a candidate two-cube divisor by its full
// shape: the common literal set shared by both cubes plus each cube's
// distinguishing remainder, the remainders ordered canonically so the
// key doesn't depend on which cube was scanned first. Two owners only
// ever share a key here when their cube pairs are the exact same
// product-of-sums shape — cross-owner sharing of just the common part
// alone, with unrelated remainders, is not merged (it would not actually
// save anything; see [mineTwoCube]).
func fxCommonKeyOf(common, ra, rb []int32) fxCommonKey {
	if litsLess(rb, ra) {
		ra, rb = rb, ra
	}
	b := make([]byte, 0, 4*(len(common)+len(ra)+len(rb))+8)
	b = encodeLits(b, common)
	b = append(b, 0xFF)
	b = encodeLits(b, ra)
	b = append(b, 0xFF)
	b = encodeLits(b, rb)
	return fxCommonKey(b)
}

func encodeLits(b []byte, lits []int32) []byte {
	for _, l := range lits {
		b = append(b, byte(l), byte(l>>8), byte(l>>16), byte(l>>24))
	}
	return b
}

func litsLess(a, b []int32) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// FastExtract extracts recurring two-literal divisors from cubes — a
// sum-of-products network in spec.md §3.6's format (entry 0 of each inner
// slice is the owning node id, the rest are sorted literals) — replacing
// each with a freshly allocated variable starting at objIDMax+1 (spec.md
// §4.7, component C7). It returns the number of extractions performed.
//
// Three divisor shapes are mined each round:
//   - a single-cube two-literal divisor (a literal pair co-occurring within
//     one cube, replaced in place by the new variable's literal) — the
//     canonical AND divisor;
//   - a two-cube common-factor divisor (a shared literal set between two
//     cubes of the same owner, which are reassigned to the new variable as
//     its defining cover while the owner keeps a single reference to it —
//     spec.md §8.4 scenario 2);
//   - a two-cube control-variable divisor (two cubes agreeing on one
//     variable of opposite polarity with no other literal in common),
//     which canonicalizes to the MUX, XOR or OR shape spec.md §4.7
//     describes — spec.md §8.4 scenario 4.
//
// Unlike the single-cube case, both two-cube shapes are worth extracting
// at occurrence 1 — the saving comes from collapsing two cubes into one
// reference, not from cross-owner reuse — so they compete against the
// single-cube candidate on raw cube count, not occurrence count.
// p.CanonDivsOnly restricts mining to the canonical AND/XOR/MUX shapes by
// skipping the generic common-factor search (which isn't itself an
// AND/XOR/MUX gate — it's a factored-out AND-of-an-OR whose remainders
// can be arbitrary cubes); the control-variable search always produces one
// of the three canonical shapes, so it runs either way.
func FastExtract(cubes *[][]int32, objIDMax uint32, p FxParams) int {
	nextVar := int32(objIDMax) + 1
	extracted := 0
	var newNodes uint32

	// twoCubeDone is already-minimal: a variable whose whole cover was just
	// installed as the two defining cubes of a two-cube extraction. Its
	// cover can't be factored any further by this same transform — mining
	// it again would re-wrap it in an identical shape forever — so once an
	// owner plays this role it is excluded from future two-cube mining
	// (though it still participates in single-cube mining normally, since
	// that sharing is still genuine).
	twoCubeDone := map[int32]bool{}

	for {
		if p.NNewNodesMax != 0 && newNodes >= p.NNewNodesMax {
			break
		}

		singles := mineSingleCube(*cubes)
		muxes := mineMux(*cubes, twoCubeDone)

		bestSingleKey, bestSingleOcc := bestOf(singles)
		_, bestMux := bestMuxOf(muxes)

		var bestPairKey fxCommonKey
		var bestPairs []fxPair
		if !p.CanonDivsOnly {
			pairs := mineTwoCube(*cubes, p.LitCountMax, twoCubeDone)
			bestPairKey, bestPairs = bestPairOf(pairs)
		}

		singleWeight := len(bestSingleOcc)
		pairWeight := len(bestPairs)
		muxWeight := len(bestMux)
		if singleWeight < 2 && pairWeight < 1 && muxWeight < 1 {
			break
		}

		switch {
		case singleWeight >= 2 && singleWeight >= pairWeight && singleWeight >= muxWeight:
			*cubes = applySingleCube(*cubes, bestSingleKey, bestSingleOcc, nextVar)
			if p.Verbose {
				tracef(p.Writer, "fast_extract: single-cube divisor, weight %d -> var %d\n", singleWeight, nextVar)
			}
		case pairWeight >= 1 && pairWeight >= muxWeight:
			*cubes = applyTwoCube(*cubes, bestPairKey, bestPairs, nextVar)
			twoCubeDone[nextVar] = true
			if p.Verbose {
				tracef(p.Writer, "fast_extract: two-cube divisor, weight %d -> var %d\n", pairWeight, nextVar)
			}
		default:
			*cubes = applyMux(*cubes, bestMux, nextVar)
			twoCubeDone[nextVar] = true
			if p.Verbose {
				tracef(p.Writer, "fast_extract: mux/xor/or divisor, weight %d -> var %d\n", muxWeight, nextVar)
			}
		}
		nextVar++
		newNodes++
		extracted++
	}
	return extracted
}

func mineSingleCube(cubes [][]int32) map[fxSingleKey][]int {
	out := map[fxSingleKey][]int{}
	for ci, cube := range cubes {
		lits := cube[1:]
		for i := 0; i < len(lits); i++ {
			for j := i + 1; j < len(lits); j++ {
				key := fxSingleKeyOf(lits[i], lits[j])
				out[key] = append(out[key], ci)
			}
		}
	}
	return out
}

func bestOf(m map[fxSingleKey][]int) (fxSingleKey, []int) {
	var bestKey fxSingleKey
	var best []int
	for k, v := range m {
		if len(v) > len(best) {
			bestKey, best = k, v
		}
	}
	return bestKey, best
}

// mineTwoCube groups cubes by owner and, for every pair of cubes sharing
// the same owner, computes their literal-set intersection; a common set
// of size 1..4 that leaves both cubes with at least one distinguishing
// literal is a candidate two-cube divisor. Candidates are keyed by their
// full shape — common set plus both remainders — via [fxCommonKeyOf], not
// by the common set alone: two owners only merge into one divisor when
// they would factor out the exact same two-cube sub-expression (spec.md
// §8.4 scenario 2's w = a·(b ∪ c)), never merely because they happen to
// share one literal with unrelated remainders. A key with occurrence 1 is
// still a legitimate single-owner extraction (the literal savings come
// from replacing two cubes with one reference, not from cross-owner
// reuse) but [bestPairOf]'s caller only commits it when it outweighs the
// best single-cube candidate. litCountMax, when nonzero, bounds the
// common factor's literal count (spec.md §8.4 scenario 2's
// lit_count_max). done excludes owners that are themselves the result of
// a prior two-cube extraction (see [FastExtract]'s twoCubeDone).
func mineTwoCube(cubes [][]int32, litCountMax uint32, done map[int32]bool) map[fxCommonKey][]fxPair {
	out := map[fxCommonKey][]fxPair{}
	byOwner := map[int32][]int{}
	for ci, cube := range cubes {
		if done[cube[0]] {
			continue
		}
		byOwner[cube[0]] = append(byOwner[cube[0]], ci)
	}
	for _, idxs := range byOwner {
		for a := 0; a < len(idxs); a++ {
			for b := a + 1; b < len(idxs); b++ {
				ca, cb := cubes[idxs[a]][1:], cubes[idxs[b]][1:]
				common := intersectSorted(ca, cb)
				if len(common) < 1 || len(common) > 4 {
					continue
				}
				if litCountMax != 0 && uint32(len(common)) > litCountMax {
					continue
				}
				if len(common) == len(ca) || len(common) == len(cb) {
					continue
				}
				ra, rb := diffSorted(ca, common), diffSorted(cb, common)
				key := fxCommonKeyOf(common, ra, rb)
				out[key] = append(out[key], fxPair{aIdx: idxs[a], bIdx: idxs[b]})
			}
		}
	}
	return out
}

// diffSorted returns the elements of a not present in b; both must be
// sorted ascending.
func diffSorted(a, b []int32) []int32 {
	var out []int32
	j := 0
	for i := 0; i < len(a); i++ {
		for j < len(b) && b[j] < a[i] {
			j++
		}
		if j < len(b) && b[j] == a[i] {
			continue
		}
		out = append(out, a[i])
	}
	return out
}

func bestPairOf(m map[fxCommonKey][]fxPair) (fxCommonKey, []fxPair) {
	var bestKey fxCommonKey
	var best []fxPair
	for k, v := range m {
		if len(v) > len(best) {
			bestKey, best = k, v
		}
	}
	return bestKey, best
}

func intersectSorted(a, b []int32) []int32 {
	var out []int32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// applySingleCube replaces, in every occurring cube, the literal pair key
// with a single literal on v.
func applySingleCube(cubes [][]int32, key fxSingleKey, occ []int, v int32) [][]int32 {
	hit := map[int]bool{}
	for _, ci := range occ {
		hit[ci] = true
	}
	vLit := 2 * v

	out := make([][]int32, 0, len(cubes)+1)
	for ci, cube := range cubes {
		if !hit[ci] {
			out = append(out, cube)
			continue
		}
		owner := cube[0]
		var rest []int32
		used := 0
		for _, l := range cube[1:] {
			if (l == key.a || l == key.b) && used < 2 {
				used++
				continue
			}
			rest = append(rest, l)
		}
		rest = append(rest, vLit)
		sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
		out = append(out, append([]int32{owner}, rest...))
	}

	defCube := []int32{v, key.a, key.b}
	if key.a > key.b {
		defCube = []int32{v, key.b, key.a}
	}
	out = append(out, defCube)
	return out
}

// applyTwoCube reassigns every cube in pairs to owner v (its literals
// unchanged — v's cover is exactly those original cubes) and gives each
// distinct original owner a single new cube pointing at v, per spec.md
// §8.4 scenario 2.
func applyTwoCube(cubes [][]int32, key fxCommonKey, pairs []fxPair, v int32) [][]int32 {
	_ = key
	reassign := map[int]bool{}
	ownerOrder := []int32{}
	ownerSeen := map[int32]bool{}
	for _, pr := range pairs {
		reassign[pr.aIdx] = true
		reassign[pr.bIdx] = true
		owner := cubes[pr.aIdx][0]
		if !ownerSeen[owner] {
			ownerSeen[owner] = true
			ownerOrder = append(ownerOrder, owner)
		}
	}

	out := make([][]int32, 0, len(cubes)+len(ownerOrder))
	for ci, cube := range cubes {
		if reassign[ci] {
			nc := append([]int32{v}, cube[1:]...)
			out = append(out, nc)
			continue
		}
		out = append(out, cube)
	}
	vLit := 2 * v
	for _, owner := range ownerOrder {
		out = append(out, []int32{owner, vLit})
	}
	return out
}

// fxMuxMatch records one candidate occurrence of a control-variable
// divisor: cube aIdx holds ctrlA plus dataA, cube bIdx holds ctrlB (ctrlA's
// complement) plus dataB.
type fxMuxMatch struct {
	aIdx, bIdx int
	ctrlA      int32
	ctrlB      int32
	dataA      []int32
	dataB      []int32
}

// mineMux groups cubes by owner and looks for pairs whose literal sets
// share no common part but agree on exactly one control variable of
// opposite polarity — the `a·b̄ + ā·c` shape spec.md §4.7 calls out for MUX
// canonicalization. The data literals left on each side after removing the
// control variable determine the concrete gate: equal data variables of
// opposite polarity collapse to XOR (`a·b̄ + ā·b`), one side with no data
// collapses to the OR-reduction `a+b` (`a·b + ā`), and two distinct data
// literals are the general 2:1 MUX. All three are accepted here — they are
// exactly the "AND/XOR/MUX" canonical shapes p.CanonDivsOnly restricts to,
// the single-cube divisor supplying the AND case. done excludes owners
// that are themselves the result of a prior two-cube extraction (see
// [FastExtract]'s twoCubeDone), for the same runaway-recursion reason as
// [mineTwoCube].
func mineMux(cubes [][]int32, done map[int32]bool) map[fxCommonKey][]fxMuxMatch {
	out := map[fxCommonKey][]fxMuxMatch{}
	byOwner := map[int32][]int{}
	for ci, cube := range cubes {
		if done[cube[0]] {
			continue
		}
		byOwner[cube[0]] = append(byOwner[cube[0]], ci)
	}
	for _, idxs := range byOwner {
		for x := 0; x < len(idxs); x++ {
			for y := x + 1; y < len(idxs); y++ {
				ca, cb := cubes[idxs[x]][1:], cubes[idxs[y]][1:]
				ctrlA, ctrlB, ok := findControl(ca, cb)
				if !ok {
					continue
				}
				dataA := without(ca, ctrlA)
				dataB := without(cb, ctrlB)
				if len(dataA) > 1 || len(dataB) > 1 {
					continue
				}
				if len(intersectSorted(dataA, dataB)) > 0 {
					continue // shares an unrelated common factor too; not cube-free
				}
				key := fxMuxKeyOf(ctrlA, ctrlB, dataA, dataB)
				out[key] = append(out[key], fxMuxMatch{
					aIdx: idxs[x], bIdx: idxs[y],
					ctrlA: ctrlA, ctrlB: ctrlB,
					dataA: dataA, dataB: dataB,
				})
			}
		}
	}
	return out
}

// findControl looks for a literal in ca whose complement appears in cb:
// the control variable of a candidate MUX/XOR/OR divisor.
func findControl(ca, cb []int32) (ctrlA, ctrlB int32, ok bool) {
	for _, l := range ca {
		comp := l ^ 1
		for _, m := range cb {
			if m == comp {
				return l, comp, true
			}
		}
	}
	return 0, 0, false
}

func without(lits []int32, x int32) []int32 {
	out := make([]int32, 0, len(lits)-1)
	for _, l := range lits {
		if l != x {
			out = append(out, l)
		}
	}
	return out
}

func fxMuxKeyOf(ctrlA, ctrlB int32, dataA, dataB []int32) fxCommonKey {
	if ctrlA > ctrlB {
		ctrlA, ctrlB = ctrlB, ctrlA
		dataA, dataB = dataB, dataA
	}
	b := make([]byte, 0, 4*(2+len(dataA)+len(dataB))+8)
	b = append(b, 0x01) // tag distinguishes this key space from fxCommonKeyOf's
	b = encodeLits(b, []int32{ctrlA, ctrlB})
	b = append(b, 0xFE)
	b = encodeLits(b, dataA)
	b = append(b, 0xFE)
	b = encodeLits(b, dataB)
	return fxCommonKey(b)
}

func bestMuxOf(m map[fxCommonKey][]fxMuxMatch) (fxCommonKey, []fxMuxMatch) {
	var bestKey fxCommonKey
	var best []fxMuxMatch
	for k, v := range m {
		if len(v) > len(best) {
			bestKey, best = k, v
		}
	}
	return bestKey, best
}

// applyMux reassigns every matched cube pair to owner v (its control and
// data literals are exactly v's defining content, by construction of
// [mineMux]'s size cap) and gives each distinct original owner a single
// new cube pointing at v, mirroring applyTwoCube — per spec.md §4.7's MUX
// canonicalization.
func applyMux(cubes [][]int32, matches []fxMuxMatch, v int32) [][]int32 {
	if len(matches) == 0 {
		return cubes
	}
	reassign := map[int]bool{}
	ownerOrder := []int32{}
	ownerSeen := map[int32]bool{}
	for _, mtc := range matches {
		reassign[mtc.aIdx] = true
		reassign[mtc.bIdx] = true
		owner := cubes[mtc.aIdx][0]
		if !ownerSeen[owner] {
			ownerSeen[owner] = true
			ownerOrder = append(ownerOrder, owner)
		}
	}

	out := make([][]int32, 0, len(cubes)+len(ownerOrder)+2)
	for ci, cube := range cubes {
		if reassign[ci] {
			continue
		}
		out = append(out, cube)
	}
	vLit := 2 * v
	for _, owner := range ownerOrder {
		out = append(out, []int32{owner, vLit})
	}

	first := matches[0]
	defA := append([]int32{v, first.ctrlA}, first.dataA...)
	defB := append([]int32{v, first.ctrlB}, first.dataB...)
	sort.Slice(defA[1:], func(i, j int) bool { return defA[1:][i] < defA[1:][j] })
	sort.Slice(defB[1:], func(i, j int) bool { return defB[1:][i] < defB[1:][j] })
	out = append(out, defA, defB)
	return out
}
