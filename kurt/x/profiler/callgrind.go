// Copyright © 2018 The ELPS authors

package profiler

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/luthersystems/kurt/kurt"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// callgrindProfiler writes a profile in the Callgrind format, which can be
// opened with KCacheGrind or QCacheGrind.
type callgrindProfiler struct {
	profiler
	out       *errWriter
	startTime time.Time
	refs      map[string]int
	current   *callRef
}

var _ kurt.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a profiler writing Callgrind output to w.  The
// caller closes w after Complete.
func NewCallgrindProfiler(w io.Writer, opts ...Option) kurt.Profiler {
	p := &callgrindProfiler{out: &errWriter{w: w}}
	p.applyConfigs(opts...)
	return p
}

// callRef is one invocation being timed.
type callRef struct {
	prev        *callRef
	name        string
	file        string
	line        int
	start       time.Time
	startMemory uint64
	duration    time.Duration
	children    []*callRef
}

func (p *callgrindProfiler) Enable() error {
	if p.out.w == nil {
		return errors.New("no output set in profiler")
	}
	p.out.printf("version: 1\ncreator: kurt (Go %s)\n", runtime.Version())
	p.out.printf("cmd: Eval\npart: 1\npositions: line\n\n")
	p.out.printf("events: Time_(ns) Memory_(bytes)\n\n")
	if p.out.err != nil {
		return p.out.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.current = &callRef{name: "ENTRYPOINT", file: "-", start: p.startTime}
	return p.profiler.Enable()
}

func (p *callgrindProfiler) Complete() error {
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	root := p.current
	if root.prev != nil {
		return errors.New("profile completed with open calls")
	}
	root.duration = time.Since(root.start)
	p.out.printf("fl=%s\n", p.ref(root.file))
	p.out.printf("fn=%s\n", p.ref(root.name))
	p.out.printf("0 %d 0\n", root.duration.Nanoseconds())
	p.writeCalls(root, 0)
	p.out.printf("\nsummary %d %d\n\n", time.Since(p.startTime).Nanoseconds(), totalAlloc())
	return p.out.err
}

// ref compresses repeated file and function names as the format allows.
func (p *callgrindProfiler) ref(name string) string {
	if id, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", id)
	}
	id := len(p.refs) + 1
	p.refs[name] = id
	return fmt.Sprintf("(%d) %s", id, name)
}

func (p *callgrindProfiler) Start(block kurt.Expr) func() {
	if p.skipTrace(block) {
		return noop
	}
	label, _ := p.label(block)
	file, line := sourceOf(block)
	ref := &callRef{
		prev:        p.current,
		name:        label,
		file:        file,
		line:        line,
		startMemory: totalAlloc(),
		start:       time.Now(),
	}
	p.current.children = append(p.current.children, ref)
	p.current = ref
	return func() { p.end(ref) }
}

func (p *callgrindProfiler) end(ref *callRef) {
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	memory := totalAlloc() - ref.startMemory
	p.out.printf("fl=%s\n", p.ref(ref.file))
	p.out.printf("fn=%s\n", p.ref(ref.name))
	p.out.printf("%d %d %d\n", ref.line, ref.duration.Nanoseconds(), memory)
	p.writeCalls(ref, memory)
	p.out.printf("\n")
	p.current = ref.prev
}

func (p *callgrindProfiler) writeCalls(ref *callRef, memory uint64) {
	for _, child := range ref.children {
		p.out.printf("cfl=%s\n", p.ref(child.file))
		p.out.printf("cfn=%s\n", p.ref(child.name))
		p.out.printf("calls=1 0 0\n")
		p.out.printf("%d %d %d\n", child.line, child.duration.Nanoseconds(), memory)
	}
}

func totalAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.TotalAlloc
}
