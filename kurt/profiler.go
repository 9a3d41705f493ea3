// Copyright © 2018 The ELPS authors

package kurt

// Profiler observes block invocations.
type Profiler interface {
	// Enable the profiler.
	Enable() error
	// Start marks the start of an invocation of block.  The returned function
	// marks its end.
	Start(block Expr) func()
	// Complete ends the profiling session.
	Complete() error
}

// BlockName returns the name a block was defined under, or "anonymous".
func BlockName(block Expr) string {
	b := block.Block()
	if b == nil {
		return ""
	}
	return blockName(b)
}
