package aig

// This file gathers the package's public, stable surfaces named in
// spec.md §6 in one place for documentation purposes. §6.1 (construction:
// AddPI, AddPO, MkAnd, MkXor, MkMux, Replace, SetRegisterCount, Cleanup,
// Levels) lives directly on [Manager] in manager.go/replace.go/levels.go.
// §6.2 (the five optimization entry points: [Rewrite], [Balance],
// [Refactor], [DamExtract], [FastExtract]) are each defined in their own
// file. §6.3 (the read-only cut/NPN library API) is wrapped here, since
// the library itself lives in the unexported internal/npn package.

// LibPrepare selects, once, how many candidate subgraphs [LibMatch]/
// rewrite may consider per NPN-4 class (spec.md §6.3 `lib_prepare`). It
// must be called before the first [Rewrite] call in a process; later
// calls with a different count are ignored, since the library is a
// process-wide singleton shared by every [Manager] (spec.md §9).
func LibPrepare(nSubgraphsPerClass int) {
	sharedLibrary(nSubgraphsPerClass)
}

// LibMatch returns tt's NPN-4 class index together with the permutation
// (a [4]uint8 whose entry i is the original variable placed in slot i) and
// phase mask needed to realize
// tt from that class's canonical function (spec.md §6.3 `lib_match`).
// The class table is discovered lazily, in first-seen order, rather than
// ABC's fixed enumeration of all 222 classes up front — see DESIGN.md.
func LibMatch(truth16 uint16) (classIndex int, permutation [4]uint8, phaseMask uint8, outNeg bool) {
	lib := sharedLibrary(5)
	idx, canon := lib.Match(truth16)
	return idx, canon.Perm, canon.Phase, canon.OutNeg
}

// LibCanonicals returns the canonical truth table of every NPN-4 class
// discovered by [LibMatch] so far, indexed by class index (spec.md §6.3
// `lib_canonicals`). Unlike ABC's `darLib.c`, which ships a fixed
// 222-entry table built offline, classes here are only assigned an index
// the first time some cut's function is matched against the library, so
// this slice grows as [Rewrite] and [LibMatch] run rather than starting
// pre-populated; see DESIGN.md.
func LibCanonicals() []uint16 {
	return sharedLibrary(5).Canonicals()
}
