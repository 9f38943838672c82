package proconio

import (
	"bufio"
	"os"
	"sync"
)

// the process wide source over os.Stdin. It is created on first use.
var stdin struct {
	mu     sync.Mutex
	source *OnceSource
}

// WithStdin calls fn with the shared source over os.Stdin. The source is
// locked while fn runs, so everything fn reads is read atomically with respect
// to other goroutines using the shared source.
//
// Reading os.Stdin happens on the first call and panics if it fails.
func WithStdin(fn func(source Source)) {
	stdin.mu.Lock()
	defer stdin.mu.Unlock()

	if stdin.source == nil {
		stdin.source = MustOnceSource(bufio.NewReader(os.Stdin))
	}

	fn(stdin.source)
}

// Input reads the given bindings from the shared stdin source using the default
// Decoder. See [Scan] for the accepted targets. Input panics if the input does not
// match the bindings.
//
//	var n int
//	var a []int
//	proconio.Input(&n, proconio.SizedBy(&a, &n))
func Input(targets ...any) {
	WithStdin(func(source Source) {
		dec.MustScan(source, targets...)
	})
}
