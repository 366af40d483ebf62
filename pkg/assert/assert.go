package assert

import (
	"fmt"
	"sync"
)

// Guards against re-entrant singleton construction during assembly.
var (
	mu    sync.Mutex
	depth int
)

// NotCircular panics when Default* constructors recurse into each other.
func NotCircular() {
	mu.Lock()
	defer mu.Unlock()
	depth++
	if depth > 64 {
		panic("assert: circular singleton initialization detected")
	}
	depth--
}

// NotNil panics when an assembled singleton is still nil.
func NotNil(v interface{}) {
	if v == nil {
		panic(fmt.Sprintf("assert: expected non-nil value, got %v", v))
	}
}
