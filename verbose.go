package aig

import (
	"fmt"
	"io"
)

// tracef writes one pass-decision line to w if w is non-nil, the sink
// RewriteParams/DamParams/FxParams's Verbose flag enables (default
// io.Discard; spec.md's ambient-stack note: no package-global logger, the
// caller supplies the writer).
func tracef(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, format, args...)
}
