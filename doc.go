// Copyright (c) 2025 The synthcore authors
// SPDX-License-Identifier: MIT

// Package aig implements the core of a logic-synthesis engine that rewrites
// combinational Boolean networks represented as And-Inverter Graphs (AIGs)
// to reduce node count and logic depth.
//
// Internally, an AIG is a contiguous arena of two-input AND (and, optionally,
// XOR/MUX) nodes addressed by a 32-bit id, with structural hashing enforcing
// that every (kind, fanin0, fanin1) triple maps to at most one node. On top
// of that arena sit five algorithms that share it: K-feasible cut
// enumeration, DAG-aware rewriting against a static NPN-4 subgraph library,
// algebraic balancing of associative AND/XOR supergates into shallow trees,
// an area-flow-driven two-literal divisor extractor ("Dam"), and an
// algebraic fast_extract pass operating on sum-of-products cube arrays.
//
// The package is a library, not a tool: it performs no file I/O and has no
// notion of a persisted netlist format. Callers construct an AIG through
// [Manager]'s [Manager.MkAnd]/[Manager.MkXor]/[Manager.MkMux] and drive one
// or more of the optimization passes ([Rewrite], [Balance], [Refactor],
// [DamExtract], [FastExtract]) documented in api.go.
//
// The core is single-threaded and synchronous: no operation blocks, and
// every public method may be called freely between passes but must not be
// called concurrently from multiple goroutines against the same [Manager].
package aig
