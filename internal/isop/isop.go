// Package isop extracts an irredundant sum-of-products cover from a
// truth table, for use by refactor (spec.md §4.3's "rebuild the MFFC's
// function as a small AND/OR/inverter network").
//
// This is not Minato-Morreale minimum-literal ISOP — that algorithm
// reasons about onset/dontcare interval sharing that has no analogue in a
// from-scratch rewrite without a full BDD package backing it. Instead
// each step splits a cofactor pair into its shared part (no literal
// needed) and its two distinguishing remainders (which do), recursing on
// the shared part once instead of twice. The covers produced are
// disjoint and correct, usually small, but not provably minimum.
package isop

import "github.com/synthcore/aig/internal/truth16"

// LiteralState is one variable's role in a cube: Absent means the cube does
// not constrain that variable.
type LiteralState uint8

const (
	Absent LiteralState = iota
	Negative
	Positive
)

// Cube is a product term over up to 4 variables.
type Cube struct {
	Lit [4]LiteralState
}

// NVars returns the number of variables the cube actually constrains.
func (c Cube) NVars() int {
	n := 0
	for _, l := range c.Lit {
		if l != Absent {
			n++
		}
	}
	return n
}

// Eval reports whether assignment bits satisfies the cube.
func (c Cube) Eval(bits int) bool {
	for v, l := range c.Lit {
		bit := (bits >> uint(v)) & 1
		switch l {
		case Positive:
			if bit == 0 {
				return false
			}
		case Negative:
			if bit != 0 {
				return false
			}
		}
	}
	return true
}

func (c Cube) withLiteral(v int, positive bool) Cube {
	if positive {
		c.Lit[v] = Positive
	} else {
		c.Lit[v] = Negative
	}
	return c
}

// Cover is a disjunction of cubes: the function is true at an assignment
// iff at least one cube is satisfied.
type Cover []Cube

// Eval reports the cover's value at assignment bits.
func (cov Cover) Eval(bits int) bool {
	for _, c := range cov {
		if c.Eval(bits) {
			return true
		}
	}
	return false
}

// Extract computes a disjoint SOP cover of tt. nVars bounds which
// variables are considered (0..nVars-1 <= 4); variables beyond the cut's
// actual support fall out on their own via the c0==c1 check below, so
// nVars only needs to be an upper bound, not exact.
func Extract(tt uint16, nVars int) Cover {
	if nVars > 4 {
		nVars = 4
	}
	vars := make([]int, nVars)
	for i := range vars {
		vars[i] = i
	}
	return rec(tt, vars)
}

func rec(tt uint16, vars []int) Cover {
	if tt == 0 {
		return nil
	}
	if tt == 0xFFFF {
		return Cover{{}} // tautology over the remaining variables: one unconstrained cube
	}
	if len(vars) == 0 {
		// Variables at index nVars and above are read at 0, so a table that
		// is not replicated over them (as a support-minimized cut's is)
		// still yields a cover of its 0..nVars-1 part.
		if tt&1 != 0 {
			return Cover{{}}
		}
		return nil
	}

	v := vars[0]
	rest := vars[1:]
	c0 := truth16.Cofactor0(tt, v)
	c1 := truth16.Cofactor1(tt, v)

	if c0 == c1 {
		return rec(c0, rest)
	}

	common := c0 & c1
	only0 := c0 &^ common
	only1 := c1 &^ common

	var out Cover
	out = append(out, rec(common, rest)...)
	for _, cu := range rec(only0, rest) {
		out = append(out, cu.withLiteral(v, false))
	}
	for _, cu := range rec(only1, rest) {
		out = append(out, cu.withLiteral(v, true))
	}
	return out
}
