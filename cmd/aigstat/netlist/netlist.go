// Package netlist reads the tiny synthetic netlist notation aigstat
// demonstrates the core library against (spec.md §6.4: the library itself
// performs no file I/O; this is the reading half of one external caller).
// It is explicitly not an AIGER/BLIF/PLA reader — just enough syntax to
// wire up a handful of gates for a demo run.
//
// Grammar, one directive per line, blank lines and "#" comments ignored:
//
//	pi <name>                declare a primary input
//	and <name> = <a> <b>     AND gate, operands are edge references
//	xor <name> = <a> <b>     XOR gate
//	po <edge>                primary output
//
// An edge reference is a previously declared name, optionally suffixed
// with ' for the complement, or the literal constants 0/1.
package netlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/synthcore/aig"
)

// Parse builds an [aig.Manager] from the netlist notation read from r.
func Parse(r io.Reader) (*aig.Manager, error) {
	m := aig.NewManager()
	edges := map[string]aig.Lit{}

	resolve := func(tok string) (aig.Lit, error) {
		compl := strings.HasSuffix(tok, "'")
		if compl {
			tok = strings.TrimSuffix(tok, "'")
		}
		switch tok {
		case "0":
			if compl {
				return aig.ConstTrue, nil
			}
			return aig.ConstFalse, nil
		case "1":
			if compl {
				return aig.ConstFalse, nil
			}
			return aig.ConstTrue, nil
		}
		e, ok := edges[tok]
		if !ok {
			return 0, fmt.Errorf("undefined edge %q", tok)
		}
		if compl {
			e = e.Not()
		}
		return e, nil
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "pi":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: malformed pi directive", lineNo)
			}
			edges[fields[1]] = m.AddPI()

		case "po":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: malformed po directive", lineNo)
			}
			e, err := resolve(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			m.AddPO(e)

		case "and", "xor":
			if len(fields) != 5 || fields[2] != "=" {
				return nil, fmt.Errorf("line %d: malformed %s directive", lineNo, fields[0])
			}
			a, err := resolve(fields[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			b, err := resolve(fields[4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if _, dup := edges[fields[1]]; dup {
				return nil, fmt.Errorf("line %d: %q redefined", lineNo, fields[1])
			}
			if fields[0] == "and" {
				edges[fields[1]] = m.MkAnd(a, b)
			} else {
				edges[fields[1]] = m.MkXor(a, b)
			}

		default:
			return nil, fmt.Errorf("line %d: unknown directive %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Sample is a small built-in netlist (a shared-subexpression adder slice)
// used as aigstat's default input when no file is given.
const Sample = `
pi a
pi b
pi c
pi d
and n1 = a b
and n2 = c d
and n3 = n1 n2
xor n4 = a b
xor n5 = c d
xor n6 = n4 n5
po n3
po n6
`
